package devblas

import (
	"fmt"

	"github.com/notargets/gocca"

	"github.com/occablas/occablas/elem"
)

// Scalar is a two-variant coefficient argument: either a host value or a
// device-resident single element. The variant is resolved once per call
// site; routines reject a scalar whose residency disagrees with the
// handle's declared pointer mode.
type Scalar[T elem.Float] struct {
	value    T
	mem      *gocca.OCCAMemory
	onDevice bool
}

// HostScalar wraps a host-resident coefficient.
func HostScalar[T elem.Float](v T) Scalar[T] {
	return Scalar[T]{value: v}
}

// DeviceScalar wraps a coefficient already resident in device memory as a
// single element of T.
func DeviceScalar[T elem.Float](mem *gocca.OCCAMemory) Scalar[T] {
	return Scalar[T]{mem: mem, onDevice: true}
}

// OnDevice reports the scalar's residency.
func (s Scalar[T]) OnDevice() bool {
	return s.onDevice
}

// checkScalar enforces the pointer-mode contract for one coefficient.
func checkScalar[T elem.Float](h *Handle, name string, s Scalar[T]) error {
	want := h.mode == PointerModeDevice
	if s.onDevice != want {
		return fmt.Errorf("%w: scalar %s is %s-resident but pointer mode is %s",
			ErrInvalidValue, name, residency(s.onDevice), h.mode)
	}
	if s.onDevice && s.mem == nil {
		return fmt.Errorf("%w: scalar %s: nil device memory", ErrInvalidValue, name)
	}
	return nil
}

func residency(onDevice bool) string {
	if onDevice {
		return "device"
	}
	return "host"
}

// arg returns the kernel argument for the scalar: the raw value in host
// mode, the device allocation in device mode.
func (s Scalar[T]) arg() interface{} {
	if s.onDevice {
		return s.mem
	}
	return s.value
}
