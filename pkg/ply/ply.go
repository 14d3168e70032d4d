// Package ply reads Stanford PLY mesh files far enough to compute their
// extents: the header is parsed in full, vertex records are streamed and
// reduced into a bounding box, and faces are never read.
package ply

import (
	"errors"
	"fmt"
)

// PLY format errors.
var (
	ErrInvalidMagic      = errors.New("invalid PLY magic: expected 'ply'")
	ErrTruncatedHeader   = errors.New("truncated PLY header: end_header not found")
	ErrInvalidHeader     = errors.New("invalid PLY header")
	ErrUnsupportedFormat = errors.New("unsupported PLY format")
	ErrMissingCoordinate = errors.New("PLY vertex element lacks x/y/z properties")
	ErrNoVertices        = errors.New("no PLY vertex records read")
	ErrHeaderLineTooLong = errors.New("PLY header line too long")
	errSkipRecord        = errors.New("skip malformed vertex record")
)

// Header tokens.
const (
	magicToken     = "ply"
	endHeaderToken = "end_header"
)

// Format is the data encoding declared on the header's format line.
type Format uint8

// Known formats. FormatUnknown is recorded for any other declared token so
// the header still parses; vertex scanning rejects it.
const (
	FormatASCII Format = iota
	FormatBinaryLittleEndian
	FormatBinaryBigEndian
	FormatUnknown
)

// ParseFormat maps a format token to a Format.
func ParseFormat(token string) Format {
	switch token {
	case "ascii":
		return FormatASCII
	case "binary_little_endian":
		return FormatBinaryLittleEndian
	case "binary_big_endian":
		return FormatBinaryBigEndian
	default:
		return FormatUnknown
	}
}

// String returns the header token for the format.
func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatBinaryLittleEndian:
		return "binary_little_endian"
	case FormatBinaryBigEndian:
		return "binary_big_endian"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}

// IsBinary returns true for both binary byte orders.
func (f Format) IsBinary() bool {
	return f == FormatBinaryLittleEndian || f == FormatBinaryBigEndian
}
