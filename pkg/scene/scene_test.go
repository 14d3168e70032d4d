package scene

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writeASCIIPLY writes an ascii PLY file with x, y, z vertex properties.
func writeASCIIPLY(t *testing.T, dir, name string, vertices [][3]float32) string {
	t.Helper()
	buf := new(bytes.Buffer)
	buf.WriteString("ply\nformat ascii 1.0\n")
	fmt.Fprintf(buf, "element vertex %d\n", len(vertices))
	buf.WriteString("property float x\nproperty float y\nproperty float z\n")
	buf.WriteString("element face 0\nproperty list uchar int vertex_indices\nend_header\n")
	for _, v := range vertices {
		fmt.Fprintf(buf, "%v %v %v\n", v[0], v[1], v[2])
	}
	return writeFile(t, dir, name, buf.Bytes())
}

// writeBinaryPLY writes a binary PLY file in the given byte order.
func writeBinaryPLY(t *testing.T, dir, name string, order binary.ByteOrder, vertices [][3]float32) string {
	t.Helper()
	format := "binary_little_endian"
	if order == binary.BigEndian {
		format = "binary_big_endian"
	}

	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "ply\nformat %s 1.0\nelement vertex %d\n", format, len(vertices))
	buf.WriteString("property float x\nproperty float y\nproperty float z\nend_header\n")
	for _, v := range vertices {
		binary.Write(buf, order, v)
	}
	return writeFile(t, dir, name, buf.Bytes())
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// unitSquare spans 2 x 4 x 0.5 around (1, 0, 0.25).
var unitSquare = [][3]float32{
	{0, -2, 0},
	{2, 2, 0.5},
	{1, 0, 0.25},
}
