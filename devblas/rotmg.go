package devblas

import (
	"fmt"

	"github.com/occablas/occablas/buffer"
	"github.com/occablas/occablas/elem"
)

// RotmgParamLen is the device-side layout length for ROTMG:
// [d1 d2 x1 y1 flag h11 h21 h12 h22].
const RotmgParamLen = 9

// Rotmg is the host-pointer entry: it constructs the modified Givens
// rotation for (d1, d2, x1, y1), updating d1, d2 and x1 and the 5-element
// param slice [flag h11 h21 h12 h22] in host memory. The computation runs
// on the device through a scratch buffer.
func Rotmg[T elem.Float](h *Handle, d1, d2, x1 *T, y1 T, param []T) error {
	if err := h.valid(); err != nil {
		return err
	}
	if h.mode != PointerModeHost {
		return fmt.Errorf("%w: rotmg host entry requires host pointer mode", ErrInvalidValue)
	}
	if d1 == nil || d2 == nil || x1 == nil || len(param) < 5 {
		return fmt.Errorf("%w: rotmg needs d1, d2, x1 and a 5-element param", ErrInvalidValue)
	}

	host := buffer.NewHost[T](RotmgParamLen, 1)
	host.Data[0], host.Data[1], host.Data[2], host.Data[3] = *d1, *d2, *x1, y1
	copy(host.Data[4:], param[:5])

	scratch, err := buffer.NewDevice[T](h.dev, RotmgParamLen, 1)
	if err != nil {
		return err
	}
	defer scratch.Free()
	if err := scratch.TransferFrom(host); err != nil {
		return err
	}
	if err := rotmgRun[T](h, scratch); err != nil {
		return err
	}
	h.Synchronize()
	if err := scratch.TransferTo(host); err != nil {
		return err
	}

	*d1, *d2, *x1 = host.Data[0], host.Data[1], host.Data[2]
	copy(param[:5], host.Data[4:])
	return nil
}

// RotmgDevice is the device-pointer entry: params is a 9-element device
// buffer in the [d1 d2 x1 y1 flag h11 h21 h12 h22] layout, updated in
// place.
func RotmgDevice[T elem.Float](h *Handle, params *buffer.Device[T]) error {
	if err := h.valid(); err != nil {
		return err
	}
	if h.mode != PointerModeDevice {
		return fmt.Errorf("%w: rotmg device entry requires device pointer mode", ErrInvalidValue)
	}
	if params == nil {
		return fmt.Errorf("%w: nil rotmg params", ErrInvalidValue)
	}
	return rotmgRun[T](h, params)
}

func rotmgRun[T elem.Float](h *Handle, params *buffer.Device[T]) error {
	key := "rotmg_" + elem.Suffix[T]()
	k, err := h.kernel(key, rotmgSource[T](), "rotmg")
	if err != nil {
		return err
	}
	return h.run(k, params.Memory())
}
