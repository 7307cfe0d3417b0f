package harness

import (
	"errors"
	"unsafe"

	"github.com/occablas/occablas/buffer"
	"github.com/occablas/occablas/elem"
)

// errModeDivergence marks the cross-mode bitwise property: both pointer
// modes run the same kernel body, so their outputs must match bit for bit.
var errModeDivergence = errors.New("host-pointer and device-pointer outputs differ bitwise")

func rawBytes[T elem.Float](xs []T) []byte {
	if len(xs) == 0 {
		return nil
	}
	n := len(xs) * int(elem.Size[T]())
	return unsafe.Slice((*byte)(unsafe.Pointer(&xs[0])), n)
}

func attachSlice[T elem.Float](r *Result, name string, xs []T) {
	r.Artifacts = append(r.Artifacts, Artifact{Name: name, Data: append([]byte(nil), rawBytes(xs)...)})
}

func attachBatch[T elem.Float](r *Result, name string, hb *buffer.HostBatch[T]) {
	var data []byte
	for _, vec := range hb.Vecs {
		data = append(data, rawBytes(vec)...)
	}
	r.Artifacts = append(r.Artifacts, Artifact{Name: name, Data: data})
}

func attachStrided[T elem.Float](r *Result, name string, hs *buffer.HostStrided[T]) {
	attachSlice(r, name, hs.Data)
}
