package harness

import (
	"math"
	"math/rand"

	"github.com/occablas/occablas/args"
	"github.com/occablas/occablas/buffer"
	"github.com/occablas/occablas/elem"
)

// Filler produces deterministic input values for one test case. All
// operands of a case draw from the same seeded stream; the trig kind
// splits phases so the first operand gets sine values and later operands
// cosine values of a running index.
type Filler struct {
	rng  *rand.Rand
	kind string
	idx  int
}

// NewFiller seeds a filler from the case arguments.
func NewFiller(a args.Arguments) *Filler {
	return &Filler{rng: rand.New(rand.NewSource(int64(a.Seed))), kind: a.Init}
}

func (f *Filler) next(first bool) float64 {
	switch f.kind {
	case "trig":
		i := f.idx
		f.idx++
		if first {
			return math.Sin(float64(i))
		}
		return math.Cos(float64(i))
	case "hpl":
		return f.rng.Float64() - 0.5
	default: // rand_int
		return float64(1 + f.rng.Intn(10))
	}
}

// FillSlice fills a raw slice. first marks the first operand of the case
// for the trig phase split.
func FillSlice[T elem.Float](f *Filler, xs []T, first bool) {
	for i := range xs {
		xs[i] = elem.From[T](f.next(first))
	}
}

// FillBatch fills every entry of a host batch.
func FillBatch[T elem.Float](f *Filler, hb *buffer.HostBatch[T], first bool) {
	for b := range hb.Vecs {
		FillSlice(f, hb.Vecs[b], first)
	}
}

// FillStrided fills a host strided block.
func FillStrided[T elem.Float](f *Filler, hs *buffer.HostStrided[T], first bool) {
	FillSlice(f, hs.Data, first)
}
