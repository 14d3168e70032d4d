package scene

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Faultbox/plyindex/pkg/encoding"
)

// MeshExt is the recognized mesh file extension.
const MeshExt = ".ply"

// TrimMeshExt strips a trailing mesh extension, matched case-insensitively.
func TrimMeshExt(filename string) string {
	if len(filename) >= len(MeshExt) && strings.EqualFold(filename[len(filename)-len(MeshExt):], MeshExt) {
		return filename[:len(filename)-len(MeshExt)]
	}
	return filename
}

// KeySet hands out unique object keys for the duration of one build.
type KeySet struct {
	used map[string]struct{}
}

// NewKeySet returns an empty key set.
func NewKeySet() *KeySet {
	return &KeySet{used: make(map[string]struct{})}
}

// Claim reserves and returns base if free, otherwise the first free
// base_1, base_2, ...
func (k *KeySet) Claim(base string) string {
	key := base
	for n := 1; k.Has(key); n++ {
		key = base + "_" + strconv.Itoa(n)
	}
	k.used[key] = struct{}{}
	return key
}

// Has reports whether key was already claimed.
func (k *KeySet) Has(key string) bool {
	_, ok := k.used[key]
	return ok
}

// DeriveKey returns the candidate object key for a mesh filename.
func DeriveKey(filename string) string {
	return TrimMeshExt(filename)
}

// DeriveLabels returns the search labels for a mesh filename.
//
// The first label is the extension-stripped name with its case preserved.
// It is followed by the tokens of the lowercased name split on runs of
// '_', '-' and whitespace, keeping tokens longer than one character, in
// first-seen order and without duplicates. A token equal to the whole
// lowercased name is not repeated.
func DeriveLabels(filename string) []string {
	base := TrimMeshExt(filename)
	lower := encoding.FoldLower(base)

	labels := []string{base}
	seen := map[string]struct{}{base: {}}

	for _, tok := range encoding.SplitLabelTokens(lower) {
		if utf8.RuneCountInString(tok) <= 1 || tok == lower {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		labels = append(labels, tok)
	}
	return labels
}
