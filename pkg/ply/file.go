package ply

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Inspect reads the header from r and scans its vertices.
//
// A header failure returns a nil Header. A scan failure returns the parsed
// Header with a nil Bounds, so callers can tell an unreadable file from one
// whose extents could not be computed.
func Inspect(r io.Reader) (*Header, *Bounds, error) {
	br := bufio.NewReader(r)

	h, err := ReadHeader(br)
	if err != nil {
		return nil, nil, err
	}

	b, err := ScanVertices(br, h)
	if err != nil {
		return h, nil, err
	}
	return h, b, nil
}

// InspectFile opens path and inspects it. The file is closed on every path.
func InspectFile(path string) (*Header, *Bounds, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening PLY file: %w", err)
	}
	defer f.Close()

	return Inspect(f)
}

// ReadHeaderFile reads only the header of the file at path.
func ReadHeaderFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PLY file: %w", err)
	}
	defer f.Close()

	return ReadHeader(bufio.NewReader(f))
}
