package devblas

import (
	"fmt"

	"github.com/occablas/occablas/elem"
)

// tile is the @inner width shared by the element-wise kernels. Each inner
// lane strip-mines the logical index range in steps of tile.
const tile = 128

// preamble emits the typedef block every kernel source starts with.
func preamble[T elem.Float]() string {
	return fmt.Sprintf("typedef %s real_t;\ntypedef long int_t;\n#define TILE %d\n\n",
		elem.OKLName[T](), tile)
}

// scalarParam and scalarLoad generate the two variants of a coefficient
// argument: a by-value parameter in host pointer mode, a one-element
// device array dereferenced on the device in device pointer mode.
func scalarParam(mode PointerMode, name string) string {
	if mode == PointerModeDevice {
		return fmt.Sprintf("const real_t *%sPtr", name)
	}
	return fmt.Sprintf("const real_t %s", name)
}

func scalarLoad(mode PointerMode, name string) string {
	if mode == PointerModeDevice {
		return fmt.Sprintf("const real_t %s = %sPtr[0];", name, name)
	}
	return ""
}

func axpyBatchedSource[T elem.Float](mode PointerMode) string {
	return preamble[T]() + fmt.Sprintf(`
@kernel void axpyBatched(const int n,
                         %s,
                         const real_t *xData,
                         const int_t *xOff,
                         const int incx,
                         real_t *yData,
                         const int_t *yOff,
                         const int incy,
                         const int batchCount) {
	for (int b = 0; b < batchCount; ++b; @outer) {
		for (int t = 0; t < TILE; ++t; @inner) {
			%s
			const real_t *x = xData + xOff[b];
			real_t *y = yData + yOff[b];
			for (int i = t; i < n; i += TILE) {
				const int xi = (incx < 0) ? (i - n + 1) * incx : i * incx;
				const int yi = (incy < 0) ? (i - n + 1) * incy : i * incy;
				y[yi] += alpha * x[xi];
			}
		}
	}
}`, scalarParam(mode, "alpha"), scalarLoad(mode, "alpha"))
}

func geamBatchedSource[T elem.Float](mode PointerMode) string {
	return preamble[T]() + fmt.Sprintf(`
@kernel void geamBatched(const int transA,
                         const int transB,
                         const int m,
                         const int n,
                         %s,
                         const real_t *aData,
                         const int_t *aOff,
                         const int lda,
                         %s,
                         const real_t *bData,
                         const int_t *bOff,
                         const int ldb,
                         real_t *cData,
                         const int_t *cOff,
                         const int ldc,
                         const int batchCount) {
	for (int b = 0; b < batchCount; ++b; @outer) {
		for (int t = 0; t < TILE; ++t; @inner) {
			%s
			%s
			const real_t *A = aData + aOff[b];
			const real_t *B = bData + bOff[b];
			real_t *C = cData + cOff[b];
			const int total = m * n;
			for (int e = t; e < total; e += TILE) {
				const int i = e %% m;
				const int j = e / m;
				const real_t av = transA ? A[j + i * lda] : A[i + j * lda];
				const real_t bv = transB ? B[j + i * ldb] : B[i + j * ldb];
				C[i + j * ldc] = alpha * av + beta * bv;
			}
		}
	}
}`, scalarParam(mode, "alpha"), scalarParam(mode, "beta"),
		scalarLoad(mode, "alpha"), scalarLoad(mode, "beta"))
}

// copyStridedBatchedSource carries no scalar coefficients, so a single
// variant serves both pointer modes.
func copyStridedBatchedSource[T elem.Float]() string {
	return preamble[T]() + `
@kernel void copyStridedBatched(const int n,
                                const real_t *x,
                                const int incx,
                                const int_t strideX,
                                real_t *y,
                                const int incy,
                                const int_t strideY,
                                const int batchCount) {
	for (int b = 0; b < batchCount; ++b; @outer) {
		for (int t = 0; t < TILE; ++t; @inner) {
			const real_t *xb = x + (int_t)b * strideX;
			real_t *yb = y + (int_t)b * strideY;
			for (int i = t; i < n; i += TILE) {
				const int xi = (incx < 0) ? (i - n + 1) * incx : i * incx;
				const int yi = (incy < 0) ? (i - n + 1) * incy : i * incy;
				yb[yi] = xb[xi];
			}
		}
	}
}`
}

// rotmgSource generates the modified-Givens construction over the 9-element
// layout [d1 d2 x1 y1 flag h11 h21 h12 h22]. Only the H entries the
// resulting flag defines are written back, matching the reference BLAS.
func rotmgSource[T elem.Float]() string {
	return preamble[T]() + `
#define GAM    ((real_t)4096.0)
#define GAMSQ  ((real_t)16777216.0)
#define RGAMSQ ((real_t)5.9604645e-8)

@kernel void rotmg(real_t *p) {
	for (int o = 0; o < 1; ++o; @outer) {
		for (int w = 0; w < 1; ++w; @inner) {
			real_t d1 = p[0];
			real_t d2 = p[1];
			real_t x1 = p[2];
			const real_t y1 = p[3];
			real_t flag, h11, h21, h12, h22;
			flag = h11 = h21 = h12 = h22 = (real_t)0.0;
			int done = 0;

			if (d1 < (real_t)0.0) {
				flag = (real_t)-1.0;
				d1 = d2 = x1 = (real_t)0.0;
			} else {
				const real_t p2 = d2 * y1;
				if (p2 == (real_t)0.0) {
					flag = (real_t)-2.0;
					p[4] = flag;
					done = 1;
				}
				if (!done) {
					const real_t p1 = d1 * x1;
					const real_t q2 = p2 * y1;
					const real_t q1 = p1 * x1;
					if (fabs(q1) > fabs(q2)) {
						h21 = -y1 / x1;
						h12 = p2 / p1;
						const real_t u = (real_t)1.0 - h12 * h21;
						if (u > (real_t)0.0) {
							flag = (real_t)0.0;
							d1 = d1 / u;
							d2 = d2 / u;
							x1 = x1 * u;
						} else {
							flag = (real_t)-1.0;
							h11 = h21 = h12 = h22 = (real_t)0.0;
							d1 = d2 = x1 = (real_t)0.0;
						}
					} else {
						if (q2 < (real_t)0.0) {
							flag = (real_t)-1.0;
							h11 = h21 = h12 = h22 = (real_t)0.0;
							d1 = d2 = x1 = (real_t)0.0;
						} else {
							flag = (real_t)1.0;
							h11 = p1 / p2;
							h22 = x1 / y1;
							const real_t u = (real_t)1.0 + h11 * h22;
							const real_t tmp = d2 / u;
							d2 = d1 / u;
							d1 = tmp;
							x1 = y1 * u;
						}
					}
					if (d1 != (real_t)0.0) {
						while (d1 <= RGAMSQ || d1 >= GAMSQ) {
							if (flag == (real_t)0.0) {
								h11 = (real_t)1.0;
								h22 = (real_t)1.0;
							} else {
								h21 = (real_t)-1.0;
								h12 = (real_t)1.0;
							}
							flag = (real_t)-1.0;
							if (d1 <= RGAMSQ) {
								d1 = d1 * GAMSQ;
								x1 = x1 / GAM;
								h11 = h11 / GAM;
								h12 = h12 / GAM;
							} else {
								d1 = d1 / GAMSQ;
								x1 = x1 * GAM;
								h11 = h11 * GAM;
								h12 = h12 * GAM;
							}
						}
					}
					if (d2 != (real_t)0.0) {
						while (fabs(d2) <= RGAMSQ || fabs(d2) >= GAMSQ) {
							if (flag == (real_t)0.0) {
								h11 = (real_t)1.0;
								h22 = (real_t)1.0;
							} else {
								h21 = (real_t)-1.0;
								h12 = (real_t)1.0;
							}
							flag = (real_t)-1.0;
							if (fabs(d2) <= RGAMSQ) {
								d2 = d2 * GAMSQ;
								h21 = h21 / GAM;
								h22 = h22 / GAM;
							} else {
								d2 = d2 / GAMSQ;
								h21 = h21 * GAM;
								h22 = h22 * GAM;
							}
						}
					}
				}
			}

			if (!done) {
				p[0] = d1;
				p[1] = d2;
				p[2] = x1;
				p[4] = flag;
				if (flag == (real_t)-1.0) {
					p[5] = h11;
					p[6] = h21;
					p[7] = h12;
					p[8] = h22;
				} else if (flag == (real_t)0.0) {
					p[6] = h21;
					p[7] = h12;
				} else if (flag == (real_t)1.0) {
					p[5] = h11;
					p[8] = h22;
				}
			}
		}
	}
}`
}

// tpsvBatchedSource solves op(A)x = b per batch entry with one lane doing
// the substitution; parallelism comes from the batch dimension only, which
// is all a validation harness needs.
func tpsvBatchedSource[T elem.Float]() string {
	return preamble[T]() + `
#define XI(i) ((incx < 0) ? ((i) - n + 1) * incx : (i) * incx)
#define UP(i, j) ((i) + ((j) * ((j) + 1)) / 2)
#define LO(i, j) ((i) + ((j) * (2 * n - (j) - 1)) / 2)

@kernel void tpsvBatched(const int upper,
                         const int trans,
                         const int unitDiag,
                         const int n,
                         const real_t *apData,
                         const int_t *apOff,
                         real_t *xData,
                         const int_t *xOff,
                         const int incx,
                         const int batchCount) {
	for (int b = 0; b < batchCount; ++b; @outer) {
		for (int w = 0; w < 1; ++w; @inner) {
			const real_t *ap = apData + apOff[b];
			real_t *x = xData + xOff[b];
			if (upper && !trans) {
				for (int j = n - 1; j >= 0; --j) {
					if (!unitDiag)
						x[XI(j)] = x[XI(j)] / ap[UP(j, j)];
					const real_t tmp = x[XI(j)];
					for (int i = 0; i < j; ++i)
						x[XI(i)] = x[XI(i)] - tmp * ap[UP(i, j)];
				}
			} else if (upper && trans) {
				for (int j = 0; j < n; ++j) {
					real_t tmp = x[XI(j)];
					for (int i = 0; i < j; ++i)
						tmp = tmp - ap[UP(i, j)] * x[XI(i)];
					if (!unitDiag)
						tmp = tmp / ap[UP(j, j)];
					x[XI(j)] = tmp;
				}
			} else if (!upper && !trans) {
				for (int j = 0; j < n; ++j) {
					if (!unitDiag)
						x[XI(j)] = x[XI(j)] / ap[LO(j, j)];
					const real_t tmp = x[XI(j)];
					for (int i = j + 1; i < n; ++i)
						x[XI(i)] = x[XI(i)] - tmp * ap[LO(i, j)];
				}
			} else {
				for (int j = n - 1; j >= 0; --j) {
					real_t tmp = x[XI(j)];
					for (int i = j + 1; i < n; ++i)
						tmp = tmp - ap[LO(i, j)] * x[XI(i)];
					if (!unitDiag)
						tmp = tmp / ap[LO(j, j)];
					x[XI(j)] = tmp;
				}
			}
		}
	}
}`
}
