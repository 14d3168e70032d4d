package ply

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/plyindex/pkg/encoding"
)

// Header is the parsed PLY header.
type Header struct {
	Format      Format
	Version     string
	VertexCount int
	FaceCount   int // informational only

	// Properties lists the vertex element's property names in declaration
	// order. Order determines field offsets within a vertex record.
	Properties []string

	Comments []string
}

// CoordIndices are the positions of x, y and z within Header.Properties.
type CoordIndices struct {
	X, Y, Z int
}

// Max returns the largest of the three indices.
func (c CoordIndices) Max() int {
	return max(c.X, c.Y, c.Z)
}

// CoordIndices locates the spatial coordinates in the vertex properties.
func (h *Header) CoordIndices() (CoordIndices, error) {
	idx := CoordIndices{X: -1, Y: -1, Z: -1}
	for i, name := range h.Properties {
		switch name {
		case "x":
			if idx.X < 0 {
				idx.X = i
			}
		case "y":
			if idx.Y < 0 {
				idx.Y = i
			}
		case "z":
			if idx.Z < 0 {
				idx.Z = i
			}
		}
	}

	var missing []string
	if idx.X < 0 {
		missing = append(missing, "x")
	}
	if idx.Y < 0 {
		missing = append(missing, "y")
	}
	if idx.Z < 0 {
		missing = append(missing, "z")
	}
	if len(missing) > 0 {
		return CoordIndices{}, fmt.Errorf("%w: missing %s", ErrMissingCoordinate, strings.Join(missing, ","))
	}
	return idx, nil
}

// RecordSize returns the byte width of one binary vertex record. Every
// property is assumed to be a 4-byte float.
func (h *Header) RecordSize() int {
	return 4 * len(h.Properties)
}

// ReadHeader parses a PLY header from r, which must be positioned at offset 0.
// On success r is positioned at the first byte after the end_header line.
// The reader's buffer size bounds the length of a single header line.
func ReadHeader(r *bufio.Reader) (*Header, error) {
	line, err := readMagicLine(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrInvalidMagic)
		}
		if errors.Is(err, ErrHeaderLineTooLong) {
			return nil, fmt.Errorf("%w: first line too long", ErrInvalidMagic)
		}
		return nil, err
	}
	if line != magicToken {
		return nil, ErrInvalidMagic
	}

	h := &Header{Format: FormatASCII}
	element := ""

	for lineNo := 2; ; lineNo++ {
		line, err := readHeaderLine(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrTruncatedHeader
			}
			return nil, fmt.Errorf("reading header line %d: %w", lineNo, err)
		}

		if line == endHeaderToken {
			return h, nil
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				return nil, fmt.Errorf("%w: line %d: format without encoding", ErrInvalidHeader, lineNo)
			}
			h.Format = ParseFormat(fields[1])
			if len(fields) > 2 {
				h.Version = fields[2]
			}

		case "element":
			element = ""
			if len(fields) > 1 {
				element = fields[1]
			}
			// Only vertex and face counts are used; other elements just
			// end the current property list.
			if element != "vertex" && element != "face" {
				continue
			}
			if len(fields) < 3 {
				return nil, fmt.Errorf("%w: line %d: element %s without count", ErrInvalidHeader, lineNo, element)
			}
			count, err := strconv.Atoi(fields[len(fields)-1])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: line %d: bad %s count %q", ErrInvalidHeader, lineNo, element, fields[len(fields)-1])
			}
			if element == "vertex" {
				h.VertexCount = count
			} else {
				h.FaceCount = count
			}

		case "property":
			if element == "vertex" && len(fields) >= 3 {
				h.Properties = append(h.Properties, fields[len(fields)-1])
			}

		case "comment", "obj_info":
			h.Comments = append(h.Comments, strings.TrimSpace(strings.TrimPrefix(line, fields[0])))
		}
	}
}

// readMagicLine reads the first header line. It must fit in r's buffer, so
// a file without newlines is rejected without being read in full.
func readMagicLine(r *bufio.Reader) (string, error) {
	raw, err := r.ReadSlice('\n')
	switch {
	case err == nil:
	case errors.Is(err, bufio.ErrBufferFull):
		return "", ErrHeaderLineTooLong
	case errors.Is(err, io.EOF):
		if len(raw) == 0 {
			return "", io.EOF
		}
	default:
		return "", err
	}
	return encoding.TrimLineEnding(string(raw)), nil
}

// readHeaderLine reads one newline-terminated line of any length without
// consuming any byte past the newline. A final line without a newline is
// returned as is; io.EOF is returned only when no bytes remain.
func readHeaderLine(r *bufio.Reader) (string, error) {
	var line []byte
	for {
		raw, err := r.ReadSlice('\n')
		line = append(line, raw...)
		switch {
		case err == nil:
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if len(line) == 0 {
				return "", io.EOF
			}
		default:
			return "", err
		}
		return encoding.TrimLineEnding(string(line)), nil
	}
}
