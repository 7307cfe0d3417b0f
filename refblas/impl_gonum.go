//go:build !netlib

package refblas

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/gonum"
)

// Default oracle: gonum's pure-Go single-threaded BLAS.
var (
	impl64 blas.Float64 = gonum.Implementation{}
	impl32 blas.Float32 = gonum.Implementation{}
)
