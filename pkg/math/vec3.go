// Package math provides the small vector type used for mesh extents.
package math

import (
	"math"
	"strconv"
)

// Vec3 is a 3D vector in float64 precision.
type Vec3 struct {
	X, Y, Z float64
}

// Splat returns a vector with all components set to s.
func Splat(s float64) Vec3 {
	return Vec3{s, s, s}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Min returns the component-wise minimum. A component of v is kept unless
// the matching component of other compares strictly less, so NaN never
// replaces an existing value and an existing NaN is never replaced.
func (v Vec3) Min(other Vec3) Vec3 {
	if other.X < v.X {
		v.X = other.X
	}
	if other.Y < v.Y {
		v.Y = other.Y
	}
	if other.Z < v.Z {
		v.Z = other.Z
	}
	return v
}

// Max returns the component-wise maximum with the same comparison rule as Min.
func (v Vec3) Max(other Vec3) Vec3 {
	if other.X > v.X {
		v.X = other.X
	}
	if other.Y > v.Y {
		v.Y = other.Y
	}
	if other.Z > v.Z {
		v.Z = other.Z
	}
	return v
}

// Round returns v with every component rounded to the given number of
// decimal places.
func (v Vec3) Round(places int) Vec3 {
	return Vec3{RoundTo(v.X, places), RoundTo(v.Y, places), RoundTo(v.Z, places)}
}

// IsFinite returns true if no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	for _, c := range v.Array() {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Array returns the components as [x, y, z].
func (v Vec3) Array() [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// RoundTo rounds f to the given number of decimal places using the exact
// decimal value of f, so 2.675 rounds to 2.67 (its binary value is below the
// midpoint). NaN and infinities are returned unchanged.
func RoundTo(f float64, places int) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', places, 64), 64)
	if err != nil {
		return f
	}
	return r
}
