//go:build netlib

package refblas

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/netlib/blas/netlib"
)

// System-BLAS oracle, selected with -tags netlib when a tuned cgo BLAS is
// preferable for large norm-check cases.
var (
	impl64 blas.Float64 = netlib.Implementation{}
	impl32 blas.Float32 = netlib.Implementation{}
)
