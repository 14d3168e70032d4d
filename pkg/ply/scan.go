package ply

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"strconv"
	"strings"

	"github.com/Faultbox/plyindex/pkg/math"
)

// recordDecoder reads one vertex record and extracts its coordinates.
// It returns errSkipRecord for a malformed record that should be ignored,
// and io.EOF or io.ErrUnexpectedEOF once the stream is exhausted.
type recordDecoder interface {
	next(r *bufio.Reader, idx CoordIndices) (math.Vec3, error)
}

// newRecordDecoder picks the decoding strategy for the header's format.
func newRecordDecoder(h *Header) (recordDecoder, error) {
	switch h.Format {
	case FormatASCII:
		return asciiDecoder{}, nil
	case FormatBinaryLittleEndian:
		return &binaryDecoder{order: binary.LittleEndian, buf: make([]byte, h.RecordSize())}, nil
	case FormatBinaryBigEndian:
		return &binaryDecoder{order: binary.BigEndian, buf: make([]byte, h.RecordSize())}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, h.Format)
	}
}

// ScanVertices consumes up to h.VertexCount vertex records from r, which
// must be positioned right after the header, and folds their coordinates
// into a bounding-box accumulator.
//
// Malformed text records are skipped. A stream that ends early stops the
// scan without error; the returned Bounds covers the vertices actually read.
func ScanVertices(r *bufio.Reader, h *Header) (*Bounds, error) {
	idx, err := h.CoordIndices()
	if err != nil {
		return nil, err
	}

	dec, err := newRecordDecoder(h)
	if err != nil {
		return nil, err
	}

	b := NewBounds()
	for i := 0; i < h.VertexCount; i++ {
		v, err := dec.next(r, idx)
		if err != nil {
			if errors.Is(err, errSkipRecord) {
				continue
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return b, fmt.Errorf("reading vertex %d: %w", i, err)
		}
		b.Add(v)
	}
	return b, nil
}

// asciiDecoder reads whitespace-separated records, one per line.
type asciiDecoder struct{}

func (asciiDecoder) next(r *bufio.Reader, idx CoordIndices) (math.Vec3, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return math.Vec3{}, err
	}

	fields := strings.Fields(line)
	if len(fields) <= idx.Max() {
		return math.Vec3{}, errSkipRecord
	}

	var v [3]float64
	for axis, i := range [3]int{idx.X, idx.Y, idx.Z} {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math.Vec3{}, errSkipRecord
		}
		v[axis] = f
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

// binaryDecoder reads fixed-width records of 32-bit floats.
type binaryDecoder struct {
	order binary.ByteOrder
	buf   []byte
}

func (d *binaryDecoder) next(r *bufio.Reader, idx CoordIndices) (math.Vec3, error) {
	if _, err := io.ReadFull(r, d.buf); err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{
		X: d.float(idx.X),
		Y: d.float(idx.Y),
		Z: d.float(idx.Z),
	}, nil
}

// float decodes property i of the current record.
func (d *binaryDecoder) float(i int) float64 {
	return float64(gomath.Float32frombits(d.order.Uint32(d.buf[4*i:])))
}
