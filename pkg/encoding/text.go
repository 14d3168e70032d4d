// Package encoding provides text normalization for mesh filenames.
package encoding

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName converts a filename to Unicode NFC. Filesystems such as
// HFS+ hand back decomposed (NFD) names, which would otherwise produce
// different labels for the same visible text.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// FoldLower lowercases s using language-neutral Unicode case mapping.
func FoldLower(s string) string {
	// cases.Caser is stateful, so one per call.
	return cases.Lower(language.Und).String(NormalizeName(s))
}

// IsLabelDelimiter reports whether r separates label tokens in a filename:
// underscore, hyphen, or any Unicode whitespace.
func IsLabelDelimiter(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

// SplitLabelTokens splits s on runs of label delimiters. Empty tokens are
// never returned.
func SplitLabelTokens(s string) []string {
	return strings.FieldsFunc(s, IsLabelDelimiter)
}

// TrimLineEnding removes trailing carriage returns, newlines and spaces from
// a header line read from disk.
func TrimLineEnding(line string) string {
	return strings.TrimRight(line, "\r\n \t")
}
