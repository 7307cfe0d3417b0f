// Package elem provides the numeric element capability shared by every
// component of the harness: byte sizes, OKL type names, machine epsilon
// queries and small arithmetic helpers, parameterized over the two element
// types the device library supports.
package elem

import "math"

// Float is the element-type constraint for all buffers, routines and checks.
type Float interface {
	~float32 | ~float64
}

const (
	epsFloat32 = 1.1920928955078125e-07 // 2^-23
	epsFloat64 = 2.220446049250313e-16  // 2^-52
)

// Size returns the byte size of one element of T.
func Size[T Float]() int64 {
	var z T
	switch any(z).(type) {
	case float32:
		return 4
	default:
		return 8
	}
}

// OKLName returns the C type name used for T in generated kernel source.
func OKLName[T Float]() string {
	if Size[T]() == 4 {
		return "float"
	}
	return "double"
}

// Epsilon returns the machine epsilon of T as a float64, for tolerance
// computations that scale with problem size.
func Epsilon[T Float]() float64 {
	if Size[T]() == 4 {
		return epsFloat32
	}
	return epsFloat64
}

// From converts a float64 configuration scalar to the element type.
func From[T Float](v float64) T {
	return T(v)
}

// Abs returns |v|.
func Abs[T Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// IsNaN reports whether v is an IEEE NaN.
func IsNaN[T Float](v T) bool {
	return math.IsNaN(float64(v))
}

// Suffix returns the single-letter precision prefix used in routine names
// and log lines ("s" for float32, "d" for float64).
func Suffix[T Float]() string {
	if Size[T]() == 4 {
		return "s"
	}
	return "d"
}
