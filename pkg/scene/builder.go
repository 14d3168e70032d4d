package scene

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/plyindex/pkg/ply"
)

// Status is the outcome of indexing one file.
type Status uint8

// File statuses. A skipped file has no entry in the index; the others are
// indexed, with DefaultBoundingBox standing in for an uncomputable extent.
const (
	StatusIndexed Status = iota
	StatusDefaultBox
	StatusSkipped
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusIndexed:
		return "indexed"
	case StatusDefaultBox:
		return "default-box"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// FileResult records what a build did with one scanned file.
type FileResult struct {
	File     MeshFile
	Status   Status
	Key      string // empty when skipped
	Labels   []string
	Header   *ply.Header // nil when skipped
	Box      BoundingBox
	Vertices int   // vertex records folded into Box
	Err      error // why the file was skipped or got the default box
}

// Result is the output of one build.
type Result struct {
	Dir   string
	Index *Index
	Files []FileResult
}

// Count returns how many files ended with status s.
func (r *Result) Count(s Status) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == s {
			n++
		}
	}
	return n
}

// Err combines the per-file problems of the build, or returns nil if every
// file was indexed with a computed bounding box.
func (r *Result) Err() error {
	var err error
	for _, f := range r.Files {
		if f.Err != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", f.File.Name, f.Err))
		}
	}
	return err
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for build progress.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// Builder indexes a directory of mesh files.
// A Builder holds no state between builds.
type Builder struct {
	log *zap.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildIndex builds the index for dir with a default Builder.
func BuildIndex(dir string) (*Index, error) {
	res, err := NewBuilder().Build(dir)
	if err != nil {
		return nil, err
	}
	return res.Index, nil
}

// Build indexes every mesh file in dir, in name order.
//
// Per-file failures never abort the build: a file whose header cannot be
// read is skipped, and a file whose extent cannot be computed is indexed
// with DefaultBoundingBox. Both are reported in Result.Files.
//
// Build returns ErrDirectoryNotFound if dir does not exist, and
// ErrNoMeshFiles together with the partial Result if nothing was indexed.
func (b *Builder) Build(dir string) (*Result, error) {
	files, err := ScanDir(dir)
	if err != nil {
		return nil, err
	}

	res := &Result{Dir: dir, Index: NewIndex()}
	if len(files) == 0 {
		b.log.Warn("no mesh files found", zap.String("dir", dir))
		return res, ErrNoMeshFiles
	}

	b.log.Info("indexing mesh files", zap.String("dir", dir), zap.Int("files", len(files)))

	keys := NewKeySet()
	for _, f := range files {
		res.Files = append(res.Files, b.indexFile(f, keys, res.Index))
	}

	if res.Index.Len() == 0 {
		return res, fmt.Errorf("%w: none of %d files in %s could be read", ErrNoMeshFiles, len(files), dir)
	}

	b.log.Info("scene index built",
		zap.Int("objects", res.Index.Len()),
		zap.Int("default_boxes", res.Count(StatusDefaultBox)),
		zap.Int("skipped", res.Count(StatusSkipped)),
	)
	return res, nil
}

// indexFile processes one file and records it in idx unless skipped.
func (b *Builder) indexFile(f MeshFile, keys *KeySet, idx *Index) FileResult {
	fr := FileResult{File: f}

	h, bounds, err := ply.InspectFile(f.Path)
	if h == nil {
		b.log.Warn("skipping mesh file", zap.String("file", f.Name), zap.Error(err))
		fr.Status = StatusSkipped
		fr.Err = err
		return fr
	}

	fr.Header = h
	fr.Key = keys.Claim(DeriveKey(f.Name))
	fr.Labels = DeriveLabels(f.Name)
	fr.Box = DefaultBoundingBox
	fr.Status = StatusDefaultBox

	if err == nil {
		fr.Vertices = bounds.Count
		size, center, ok := bounds.Reduce()
		switch {
		case !ok:
			err = ply.ErrNoVertices
		case !size.IsFinite() || !center.IsFinite():
			// The persisted form cannot carry NaN or infinities.
			err = fmt.Errorf("%w: size %v", ErrNonFiniteExtent, size.Array())
		default:
			fr.Box = BoundingBox{Size: size, Center: center}
			fr.Status = StatusIndexed
		}
	}

	if fr.Status == StatusDefaultBox {
		fr.Err = err
		b.log.Warn("using default bounding box",
			zap.String("file", f.Name),
			zap.String("key", fr.Key),
			zap.Error(err),
		)
	}

	idx.Add(fr.Key, f.Name, fr.Box, fr.Labels)

	b.log.Debug("indexed mesh file",
		zap.String("file", f.Name),
		zap.String("key", fr.Key),
		zap.Stringer("format", h.Format),
		zap.Int("vertices", fr.Vertices),
		zap.Float64s("size", sizeSlice(fr.Box)),
		zap.Strings("labels", fr.Labels),
	)
	return fr
}

func sizeSlice(b BoundingBox) []float64 {
	a := b.Size.Array()
	return a[:]
}
