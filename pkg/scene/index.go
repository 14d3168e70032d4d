// Package scene builds and persists the metadata index for a directory of
// PLY meshes: a unique key per file, its bounding box, and search labels.
package scene

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/Faultbox/plyindex/pkg/math"
)

// Scene errors.
var (
	ErrDirectoryNotFound = errors.New("mesh directory not found")
	ErrNoMeshFiles       = errors.New("no mesh files indexed")
	ErrIndexNotFound     = errors.New("scene index not found")
	ErrIndexMalformed    = errors.New("scene index malformed")
	ErrIndexWrite        = errors.New("writing scene index")
	ErrNonFiniteExtent   = errors.New("mesh extent is not finite")
)

// BoundingBox is the extent of one mesh. Only Size is persisted; Center is
// available after a build and zero after a load.
type BoundingBox struct {
	Size   math.Vec3
	Center math.Vec3
}

// DefaultBoundingBox is used when a mesh's extent cannot be computed.
var DefaultBoundingBox = BoundingBox{Size: math.Splat(1)}

// boxJSON is the persisted form of a bounding box.
type boxJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// MarshalJSON writes the size as {"x", "y", "z"}.
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal(boxJSON{X: b.Size.X, Y: b.Size.Y, Z: b.Size.Z})
}

// UnmarshalJSON reads the size from {"x", "y", "z"}.
func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var v boxJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = BoundingBox{Size: math.Vec3{X: v.X, Y: v.Y, Z: v.Z}}
	return nil
}

// Index is the scene metadata for one directory.
//
// Name and BoundingBox are keyed by object key and always share a key set.
// Labels is keyed by source filename.
type Index struct {
	Name        map[string]string      `json:"name"`
	BoundingBox map[string]BoundingBox `json:"bounding_box"`
	Labels      map[string][]string    `json:"labels"`
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		Name:        make(map[string]string),
		BoundingBox: make(map[string]BoundingBox),
		Labels:      make(map[string][]string),
	}
}

// Len returns the number of indexed objects.
func (idx *Index) Len() int {
	return len(idx.Name)
}

// Add records one object. The caller guarantees key is unique.
func (idx *Index) Add(key, filename string, box BoundingBox, labels []string) {
	idx.Name[key] = filename
	idx.BoundingBox[key] = box
	idx.Labels[filename] = labels
}

// Validate checks that Name and BoundingBox cover the same keys.
func (idx *Index) Validate() error {
	if idx.Name == nil || idx.BoundingBox == nil || idx.Labels == nil {
		return errors.New("missing name, bounding_box or labels section")
	}
	if len(idx.Name) != len(idx.BoundingBox) {
		return errors.New("name and bounding_box differ in size")
	}
	for key := range idx.Name {
		if _, ok := idx.BoundingBox[key]; !ok {
			return errors.New("object " + key + " has no bounding_box")
		}
	}
	return nil
}

// Keys returns the object keys in sorted order.
func (idx *Index) Keys() []string {
	keys := make([]string, 0, len(idx.Name))
	for k := range idx.Name {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
