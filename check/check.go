// Package check compares oracle output against device output. Unit checks
// are exact element-wise comparisons; near checks allow a caller-supplied
// tolerance; norm checks return an aggregate relative error and leave the
// threshold to the caller. Every comparison is made per execution mode so
// a host-pointer failure stays distinguishable from a device-pointer one.
package check

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/zeebo/xxh3"

	"github.com/occablas/occablas/elem"
)

// Mismatch describes the first failing element of a unit or near check.
type Mismatch struct {
	Batch int
	Row   int
	Col   int
	Want  float64
	Got   float64
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("mismatch at batch %d (%d,%d): want %v, got %v", m.Batch, m.Row, m.Col, m.Want, m.Got)
}

// Unit performs an exact element-wise comparison of two m×n column-major
// blocks with leading dimension ld. Returns nil on equality.
func Unit[T elem.Float](m, n, ld int, want, got []T) error {
	return unitBatchEntry(0, m, n, ld, want, got)
}

// UnitBatch runs Unit over every batch entry.
func UnitBatch[T elem.Float](m, n, ld int, want, got [][]T) error {
	for b := range want {
		if err := unitBatchEntry(b, m, n, ld, want[b], got[b]); err != nil {
			return err
		}
	}
	return nil
}

// UnitStrided runs Unit over every stride-addressed batch entry.
func UnitStrided[T elem.Float](m, n, ld int, stride int64, count int, want, got []T) error {
	for b := 0; b < count; b++ {
		lo := int64(b) * stride
		if err := unitBatchEntry(b, m, n, ld, want[lo:], got[lo:]); err != nil {
			return err
		}
	}
	return nil
}

func unitBatchEntry[T elem.Float](b, m, n, ld int, want, got []T) error {
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			w, g := want[i+j*ld], got[i+j*ld]
			if w != g && !(elem.IsNaN(w) && elem.IsNaN(g)) {
				return &Mismatch{Batch: b, Row: i, Col: j, Want: float64(w), Got: float64(g)}
			}
		}
	}
	return nil
}

// Near performs an element-wise comparison under an absolute tolerance.
func Near[T elem.Float](m, n, ld int, want, got []T, tol float64) error {
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			w, g := float64(want[i+j*ld]), float64(got[i+j*ld])
			if math.IsNaN(w) && math.IsNaN(g) {
				continue
			}
			if math.Abs(w-g) > tol {
				return &Mismatch{Row: i, Col: j, Want: w, Got: g}
			}
		}
	}
	return nil
}

// NearScalar checks a scalar error against a tolerance.
func NearScalar(err, tol float64) error {
	if math.IsNaN(err) || err > tol {
		return fmt.Errorf("error %g exceeds tolerance %g", err, tol)
	}
	return nil
}

// NormFrobenius returns the relative Frobenius-norm error
// ||want-got||_F / ||want||_F over an m×n column-major block.
func NormFrobenius[T elem.Float](m, n, ld int, want, got []T) float64 {
	var diff, ref float64
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			w, g := float64(want[i+j*ld]), float64(got[i+j*ld])
			d := w - g
			diff += d * d
			ref += w * w
		}
	}
	if ref == 0 {
		return math.Sqrt(diff)
	}
	return math.Sqrt(diff / ref)
}

// NormBatchMax returns the maximum per-entry relative Frobenius error over
// a batch. The aggregate is the max, not the sum, so one bad entry cannot
// hide behind many good ones and the bound stays independent of batch
// count.
func NormBatchMax[T elem.Float](m, n, ld int, want, got [][]T) float64 {
	var worst float64
	for b := range want {
		if e := NormFrobenius(m, n, ld, want[b], got[b]); e > worst || math.IsNaN(e) {
			worst = e
		}
	}
	return worst
}

// NormStridedMax is NormBatchMax over stride-addressed entries.
func NormStridedMax[T elem.Float](m, n, ld int, stride int64, count int, want, got []T) float64 {
	var worst float64
	for b := 0; b < count; b++ {
		lo := int64(b) * stride
		if e := NormFrobenius(m, n, ld, want[lo:], got[lo:]); e > worst || math.IsNaN(e) {
			worst = e
		}
	}
	return worst
}

// VectorNorm1Rel returns the relative 1-norm error of got against want
// over n elements with the given increment magnitude. Used by the solve
// check, whose bound scales with n.
func VectorNorm1Rel[T elem.Float](n, inc int, want, got []T) float64 {
	if inc < 0 {
		inc = -inc
	}
	if inc == 0 {
		inc = 1
	}
	var diff, ref float64
	for i := 0; i < n; i++ {
		w, g := float64(want[i*inc]), float64(got[i*inc])
		diff += math.Abs(w - g)
		ref += math.Abs(w)
	}
	if ref == 0 {
		return diff
	}
	return diff / ref
}

// Digest hashes the raw bytes of a slice of elements.
func Digest[T elem.Float](xs []T) uint64 {
	if len(xs) == 0 {
		return xxh3.Hash(nil)
	}
	bytes := int(elem.Size[T]()) * len(xs)
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&xs[0])), bytes)
	return xxh3.Hash(raw)
}

// BitwiseEqual reports whether two slices hold identical element bytes.
// Backs the property that host-pointer and device-pointer invocations
// produce bit-identical output.
func BitwiseEqual[T elem.Float](a, b []T) bool {
	return len(a) == len(b) && Digest(a) == Digest(b)
}

// BitwiseEqualBatch is BitwiseEqual over every batch entry.
func BitwiseEqualBatch[T elem.Float](a, b [][]T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !BitwiseEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
