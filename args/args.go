// Package args defines the flat argument record driving one test case and
// the YAML suite loader that enumerates argument combinations.
package args

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
)

// DefaultSeed seeds the input generators when a case does not pin one.
const DefaultSeed = 69069

// Arguments is the immutable argument set for one test case. Construct
// with Default and override; the zero value is not a valid case.
type Arguments struct {
	Function  string `yaml:"function" json:"function"`
	Precision string `yaml:"precision" json:"precision"` // "s" or "d"

	M int `yaml:"M" json:"M"`
	N int `yaml:"N" json:"N"`

	Lda int `yaml:"lda" json:"lda"`
	Ldb int `yaml:"ldb" json:"ldb"`
	Ldc int `yaml:"ldc" json:"ldc"`

	Incx int `yaml:"incx" json:"incx"`
	Incy int `yaml:"incy" json:"incy"`

	Alpha float64 `yaml:"alpha" json:"alpha"`
	Beta  float64 `yaml:"beta" json:"beta"`

	StrideScale float64 `yaml:"stride_scale" json:"stride_scale"`
	BatchCount  int     `yaml:"batch_count" json:"batch_count"`

	Uplo   string `yaml:"uplo" json:"uplo"`     // "U" or "L"
	TransA string `yaml:"transA" json:"transA"` // "N", "T" or "C"
	TransB string `yaml:"transB" json:"transB"`
	Diag   string `yaml:"diag" json:"diag"` // "N" or "U"

	Init string `yaml:"init" json:"init"` // rand_int, trig, hpl
	Seed uint64 `yaml:"seed" json:"seed"`

	UnitCheck bool    `yaml:"unit_check" json:"unit_check"`
	NormCheck bool    `yaml:"norm_check" json:"norm_check"`
	NormTol   float64 `yaml:"norm_tol" json:"norm_tol"`

	Timing    bool `yaml:"timing" json:"timing"`
	Iters     int  `yaml:"iters" json:"iters"`
	ColdIters int  `yaml:"cold_iters" json:"cold_iters"`
}

// Default returns the argument set every case starts from: sizes unset,
// unit increments, alpha 1 / beta 0, unit check on, 10 measured plus 2
// warm-up iterations.
func Default() Arguments {
	return Arguments{
		M:           -1,
		N:           -1,
		Lda:         -1,
		Ldb:         -1,
		Ldc:         -1,
		Incx:        1,
		Incy:        1,
		Alpha:       1.0,
		Beta:        0.0,
		StrideScale: 1.0,
		BatchCount:  1,
		Uplo:        "U",
		TransA:      "N",
		TransB:      "N",
		Diag:        "N",
		Init:        "rand_int",
		Seed:        DefaultSeed,
		UnitCheck:   true,
		NormCheck:   false,
		NormTol:     0,
		Timing:      false,
		Iters:       10,
		ColdIters:   2,
	}
}

// BlasUplo converts the Uplo character to the gonum enum.
func (a Arguments) BlasUplo() (blas.Uplo, error) {
	switch a.Uplo {
	case "U", "u":
		return blas.Upper, nil
	case "L", "l":
		return blas.Lower, nil
	}
	return 0, fmt.Errorf("invalid uplo %q", a.Uplo)
}

// BlasDiag converts the Diag character to the gonum enum.
func (a Arguments) BlasDiag() (blas.Diag, error) {
	switch a.Diag {
	case "N", "n":
		return blas.NonUnit, nil
	case "U", "u":
		return blas.Unit, nil
	}
	return 0, fmt.Errorf("invalid diag %q", a.Diag)
}

// BlasTransA converts the TransA character to the gonum enum.
func (a Arguments) BlasTransA() (blas.Transpose, error) {
	return trans(a.TransA)
}

// BlasTransB converts the TransB character to the gonum enum.
func (a Arguments) BlasTransB() (blas.Transpose, error) {
	return trans(a.TransB)
}

func trans(c string) (blas.Transpose, error) {
	switch c {
	case "N", "n":
		return blas.NoTrans, nil
	case "T", "t":
		return blas.Trans, nil
	case "C", "c":
		return blas.ConjTrans, nil
	}
	return 0, fmt.Errorf("invalid transpose %q", c)
}

// StrideX derives the x stride for strided-batched cases: the entry length
// scaled by stride_scale.
func (a Arguments) StrideX() int64 {
	return a.stride(a.Incx)
}

// StrideY derives the y stride for strided-batched cases.
func (a Arguments) StrideY() int64 {
	return a.stride(a.Incy)
}

func (a Arguments) stride(inc int) int64 {
	if inc < 0 {
		inc = -inc
	}
	if a.N < 0 {
		return 0
	}
	return int64(float64(a.N) * float64(inc) * a.StrideScale)
}
