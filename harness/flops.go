package harness

import "github.com/occablas/occablas/elem"

// Per-entry work counts for throughput reporting, in units of 1e9
// operations or bytes. Batched routines multiply by batch count at the
// call site.

// AxpyGflops: one multiply and one add per element.
func AxpyGflops(n int) float64 {
	return 2 * float64(n) / 1e9
}

// AxpyGbytes: read x and y, write y.
func AxpyGbytes[T elem.Float](n int) float64 {
	return 3 * float64(n) * float64(elem.Size[T]()) / 1e9
}

// GeamGflops: two scalings and one add per output element.
func GeamGflops(m, n int) float64 {
	return 3 * float64(m) * float64(n) / 1e9
}

// GeamGbytes: read A and B, write C.
func GeamGbytes[T elem.Float](m, n int) float64 {
	return 3 * float64(m) * float64(n) * float64(elem.Size[T]()) / 1e9
}

// CopyGbytes: read x, write y. A copy performs no floating-point work, so
// only bandwidth is reported for it.
func CopyGbytes[T elem.Float](n int) float64 {
	return 2 * float64(n) * float64(elem.Size[T]()) / 1e9
}

// TpsvGflops: a triangular solve is n^2 flops.
func TpsvGflops(n int) float64 {
	return float64(n) * float64(n) / 1e9
}

// TpsvGbytes: read the packed triangle, read and write x.
func TpsvGbytes[T elem.Float](n int) float64 {
	packed := float64(n) * float64(n+1) / 2
	return (packed + 2*float64(n)) * float64(elem.Size[T]()) / 1e9
}
