package ply

import (
	gomath "math"

	"github.com/Faultbox/plyindex/pkg/math"
)

// Precision is the number of decimal places kept in reduced extents.
const Precision = 4

// Bounds accumulates the axis-aligned extent of a stream of vertices.
type Bounds struct {
	Min   math.Vec3
	Max   math.Vec3
	Count int // vertices folded in
}

// NewBounds returns an empty accumulator seeded at (+Inf, -Inf) per axis.
func NewBounds() *Bounds {
	return &Bounds{
		Min: math.Splat(gomath.Inf(1)),
		Max: math.Splat(gomath.Inf(-1)),
	}
}

// Add folds one vertex position into the accumulator. NaN and infinities
// are compared as-is and not filtered.
func (b *Bounds) Add(v math.Vec3) {
	b.Min = b.Min.Min(v)
	b.Max = b.Max.Max(v)
	b.Count++
}

// Empty returns true if no usable extent was accumulated: no vertex was
// added, or some axis never moved off its seed.
func (b *Bounds) Empty() bool {
	if b.Count == 0 {
		return true
	}
	mn, mx := b.Min.Array(), b.Max.Array()
	for i := range mn {
		if gomath.IsInf(mn[i], 1) && gomath.IsInf(mx[i], -1) {
			return true
		}
	}
	return false
}

// Reduce returns the size (max - min) and center ((min + max) / 2) of the
// accumulated box, rounded to Precision decimals. ok is false for an empty
// accumulator, in which case size and center are zero.
func (b *Bounds) Reduce() (size, center math.Vec3, ok bool) {
	if b.Empty() {
		return math.Vec3{}, math.Vec3{}, false
	}
	size = b.Max.Sub(b.Min).Round(Precision)
	center = b.Min.Add(b.Max).Scale(0.5).Round(Precision)
	return size, center, true
}
