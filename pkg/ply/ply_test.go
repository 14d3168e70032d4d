package ply

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// testMesh describes a synthetic PLY file.
type testMesh struct {
	format     Format
	properties []string
	vertices   [][]float32
	faceCount  int
	// declaredVertices overrides the vertex count written to the header
	// when non-negative.
	declaredVertices int
}

func newTestMesh(format Format, properties []string, vertices [][]float32) testMesh {
	return testMesh{
		format:           format,
		properties:       properties,
		vertices:         vertices,
		declaredVertices: -1,
	}
}

// createTestPLY builds a PLY file in the requested encoding. A face element
// with a list property follows the vertex element so header parsing has to
// keep face properties out of the vertex layout.
func createTestPLY(m testMesh) []byte {
	buf := new(bytes.Buffer)

	count := len(m.vertices)
	if m.declaredVertices >= 0 {
		count = m.declaredVertices
	}

	buf.WriteString("ply\n")
	fmt.Fprintf(buf, "format %s 1.0\n", m.format)
	buf.WriteString("comment generated for tests\n")
	fmt.Fprintf(buf, "element vertex %d\n", count)
	for _, p := range m.properties {
		fmt.Fprintf(buf, "property float %s\n", p)
	}
	fmt.Fprintf(buf, "element face %d\n", m.faceCount)
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("end_header\n")

	for _, v := range m.vertices {
		switch m.format {
		case FormatBinaryLittleEndian:
			binary.Write(buf, binary.LittleEndian, v)
		case FormatBinaryBigEndian:
			binary.Write(buf, binary.BigEndian, v)
		default:
			fields := make([]string, len(v))
			for i, f := range v {
				// Exact float64 value of the float32, so text and binary
				// encodings carry identical numbers.
				fields[i] = strconv.FormatFloat(float64(f), 'g', -1, 64)
			}
			buf.WriteString(strings.Join(fields, " "))
			buf.WriteByte('\n')
		}
	}

	return buf.Bytes()
}

// cubeVertices are the eight corners of an off-center box plus an interior
// point; every value is exactly representable as float32.
var cubeVertices = [][]float32{
	{-1.5, 0, 2},
	{0.25, 0, 2},
	{-1.5, 3.75, 2},
	{0.25, 3.75, 2},
	{-1.5, 0, -0.125},
	{0.25, 0, -0.125},
	{-1.5, 3.75, -0.125},
	{0.25, 3.75, -0.125},
	{0, 1, 1},
}
