package ply

import (
	"bufio"
	"bytes"
	"errors"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/plyindex/pkg/math"
)

func inspectBytes(t *testing.T, data []byte) (*Header, *Bounds) {
	t.Helper()
	h, b, err := Inspect(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	return h, b
}

func TestScanVertices_ASCIISize(t *testing.T) {
	_, b := inspectBytes(t, createTestPLY(newTestMesh(FormatASCII, []string{"x", "y", "z"}, cubeVertices)))

	if b.Count != len(cubeVertices) {
		t.Errorf("expected %d vertices, got %d", len(cubeVertices), b.Count)
	}

	size, center, ok := b.Reduce()
	if !ok {
		t.Fatal("expected a defined bounding box")
	}
	if want := (math.Vec3{X: 1.75, Y: 3.75, Z: 2.125}); size != want {
		t.Errorf("expected size %v, got %v", want, size)
	}
	if want := (math.Vec3{X: -0.625, Y: 1.875, Z: 0.9375}); center != want {
		t.Errorf("expected center %v, got %v", want, center)
	}
}

func TestScanVertices_ASCIIRounding(t *testing.T) {
	data := "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nend_header\n" +
		"0.1 0 -0.333333\n" +
		"0.4 1.000049 0.333334\n"

	_, b := inspectBytes(t, []byte(data))
	size, _, ok := b.Reduce()
	if !ok {
		t.Fatal("expected a defined bounding box")
	}
	// 0.4 - 0.1 = 0.30000000000000004 before rounding.
	if want := (math.Vec3{X: 0.3, Y: 1, Z: 0.6667}); size != want {
		t.Errorf("expected size %v, got %v", want, size)
	}
}

func TestScanVertices_CrossEncodingEquivalence(t *testing.T) {
	props := []string{"nx", "x", "ny", "y", "z", "nz"}
	vertices := make([][]float32, len(cubeVertices))
	for i, v := range cubeVertices {
		vertices[i] = []float32{0.1, v[0], -0.7, v[1], v[2], 1e6}
	}

	results := make(map[Format][2]math.Vec3)
	for _, format := range []Format{FormatASCII, FormatBinaryLittleEndian, FormatBinaryBigEndian} {
		h, b := inspectBytes(t, createTestPLY(newTestMesh(format, props, vertices)))
		if h.Format != format {
			t.Fatalf("header format mismatch: %s vs %s", h.Format, format)
		}
		size, center, ok := b.Reduce()
		if !ok {
			t.Fatalf("%s: expected a defined bounding box", format)
		}
		results[format] = [2]math.Vec3{size, center}
	}

	ascii := results[FormatASCII]
	for _, format := range []Format{FormatBinaryLittleEndian, FormatBinaryBigEndian} {
		if results[format] != ascii {
			t.Errorf("%s bounds %v differ from ascii %v", format, results[format], ascii)
		}
	}
}

func TestScanVertices_ByteOrderMirror(t *testing.T) {
	props := []string{"x", "y", "z"}
	le := createTestPLY(newTestMesh(FormatBinaryLittleEndian, props, cubeVertices))
	be := createTestPLY(newTestMesh(FormatBinaryBigEndian, props, cubeVertices))

	leBody := le[bytes.Index(le, []byte("end_header\n"))+len("end_header\n"):]
	beBody := be[bytes.Index(be, []byte("end_header\n"))+len("end_header\n"):]
	if len(leBody) != len(beBody) {
		t.Fatalf("body sizes differ: %d vs %d", len(leBody), len(beBody))
	}

	// Every 4-byte field of one encoding is the reverse of the other.
	for off := 0; off < len(leBody); off += 4 {
		for i := 0; i < 4; i++ {
			if leBody[off+i] != beBody[off+3-i] {
				t.Fatalf("field at offset %d is not byte-mirrored", off)
			}
		}
	}

	_, bLE := inspectBytes(t, le)
	_, bBE := inspectBytes(t, be)
	if bLE.Min != bBE.Min || bLE.Max != bBE.Max {
		t.Errorf("little endian %v..%v vs big endian %v..%v", bLE.Min, bLE.Max, bBE.Min, bBE.Max)
	}

	// Reading big-endian data as little-endian must not agree.
	swapped := bytes.Replace(be, []byte("binary_big_endian"), []byte("binary_little_endian"), 1)
	_, bWrong := inspectBytes(t, swapped)
	if bWrong.Min == bBE.Min && bWrong.Max == bBE.Max {
		t.Error("byte order was ignored")
	}
}

func TestScanVertices_TruncatedBinary(t *testing.T) {
	m := newTestMesh(FormatBinaryLittleEndian, []string{"x", "y", "z"}, cubeVertices[:3])
	m.declaredVertices = 10
	data := createTestPLY(m)
	// Drop half of the last record.
	data = data[:len(data)-6]

	_, b := inspectBytes(t, data)
	if b.Count != 2 {
		t.Fatalf("expected 2 complete vertices, got %d", b.Count)
	}
	size, _, ok := b.Reduce()
	if !ok {
		t.Fatal("partial data should still yield a bounding box")
	}
	if want := (math.Vec3{X: 1.75, Y: 0, Z: 0}); size != want {
		t.Errorf("expected size %v, got %v", want, size)
	}
}

func TestScanVertices_TruncatedASCII(t *testing.T) {
	m := newTestMesh(FormatASCII, []string{"x", "y", "z"}, cubeVertices[:4])
	m.declaredVertices = 100
	_, b := inspectBytes(t, createTestPLY(m))
	if b.Count != 4 {
		t.Errorf("expected 4 vertices, got %d", b.Count)
	}
}

func TestScanVertices_StopsAtVertexCount(t *testing.T) {
	// Face rows follow the vertices; they must not be read as vertices.
	data := "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\n" +
		"element face 1\nproperty list uchar int vertex_indices\nend_header\n" +
		"0 0 0\n1 0 0\n0 1 0\n3 0 1 2\n"
	_, b := inspectBytes(t, []byte(data))
	if b.Count != 3 {
		t.Errorf("expected 3 vertices, got %d", b.Count)
	}
	if b.Max.X != 1 {
		t.Errorf("face row leaked into bounds: max %v", b.Max)
	}
}

func TestScanVertices_SkipsMalformedASCII(t *testing.T) {
	data := "ply\nformat ascii 1.0\nelement vertex 5\nproperty float x\nproperty float y\nproperty float z\nend_header\n" +
		"1 2 3\n" +
		"\n" +
		"4 5\n" +
		"a b c\n" +
		"-1 -2 -3\n"

	_, b := inspectBytes(t, []byte(data))
	if b.Count != 2 {
		t.Fatalf("expected 2 valid vertices, got %d", b.Count)
	}
	if b.Min != (math.Vec3{X: -1, Y: -2, Z: -3}) || b.Max != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("unexpected bounds %v..%v", b.Min, b.Max)
	}
}

func TestScanVertices_ZeroVertices(t *testing.T) {
	_, b := inspectBytes(t, createTestPLY(newTestMesh(FormatBinaryBigEndian, []string{"x", "y", "z"}, nil)))
	if !b.Empty() {
		t.Error("expected empty bounds")
	}
	if _, _, ok := b.Reduce(); ok {
		t.Error("Reduce must report undefined for zero vertices")
	}
}

func TestScanVertices_Errors(t *testing.T) {
	tests := []struct {
		name string
		h    *Header
		want error
	}{
		{
			name: "missing coordinate",
			h:    &Header{Format: FormatASCII, VertexCount: 1, Properties: []string{"x", "y"}},
			want: ErrMissingCoordinate,
		},
		{
			name: "unknown format",
			h:    &Header{Format: FormatUnknown, VertexCount: 1, Properties: []string{"x", "y", "z"}},
			want: ErrUnsupportedFormat,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ScanVertices(bufio.NewReader(strings.NewReader("1 2 3\n")), tc.h)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestScanVertices_InfinityPropagates(t *testing.T) {
	data := "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nend_header\n" +
		"0 0 0\ninf 1 1\n"
	_, b := inspectBytes(t, []byte(data))
	size, _, ok := b.Reduce()
	if !ok {
		t.Fatal("expected a defined bounding box")
	}
	if !gomath.IsInf(size.X, 1) {
		t.Errorf("expected +Inf size on x, got %v", size.X)
	}
}

func TestInspect_HeaderFailureReturnsNilHeader(t *testing.T) {
	h, b, err := Inspect(strings.NewReader("not a mesh\n"))
	if !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
	if h != nil || b != nil {
		t.Error("expected nil header and bounds")
	}
}

func TestInspect_ScanFailureKeepsHeader(t *testing.T) {
	data := "ply\nformat ascii 1.0\nelement vertex 1\nproperty float u\nproperty float v\nend_header\n0 0\n"
	h, b, err := Inspect(strings.NewReader(data))
	if !errors.Is(err, ErrMissingCoordinate) {
		t.Fatalf("expected ErrMissingCoordinate, got %v", err)
	}
	if h == nil || h.VertexCount != 1 {
		t.Errorf("expected parsed header, got %+v", h)
	}
	if b != nil {
		t.Error("expected nil bounds")
	}
}

func TestInspectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.ply")
	if err := os.WriteFile(path, createTestPLY(newTestMesh(FormatBinaryLittleEndian, []string{"x", "y", "z"}, cubeVertices)), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	h, b, err := InspectFile(path)
	if err != nil {
		t.Fatalf("InspectFile failed: %v", err)
	}
	if h.Format != FormatBinaryLittleEndian || b.Count != len(cubeVertices) {
		t.Errorf("unexpected result: format %s, %d vertices", h.Format, b.Count)
	}

	hdr, err := ReadHeaderFile(path)
	if err != nil {
		t.Fatalf("ReadHeaderFile failed: %v", err)
	}
	if hdr.VertexCount != len(cubeVertices) {
		t.Errorf("expected %d vertices, got %d", len(cubeVertices), hdr.VertexCount)
	}
}

func TestInspectFile_Missing(t *testing.T) {
	_, _, err := InspectFile(filepath.Join(t.TempDir(), "absent.ply"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
