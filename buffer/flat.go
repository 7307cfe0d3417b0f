package buffer

import (
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"

	"github.com/occablas/occablas/elem"
)

// Host is a host-resident vector of n logical elements with a fixed
// increment between them.
type Host[T elem.Float] struct {
	N    int
	Inc  int
	Data []T
}

// NewHost allocates a host vector for n elements at the given increment.
func NewHost[T elem.Float](n, inc int) *Host[T] {
	return &Host[T]{N: n, Inc: inc, Data: make([]T, vecLen(n, inc))}
}

// CopyFrom copies another host vector's backing storage element for element.
func (h *Host[T]) CopyFrom(src *Host[T]) {
	copy(h.Data, src.Data)
}

// Bytes returns the byte size of the backing storage.
func (h *Host[T]) Bytes() int64 {
	return int64(len(h.Data)) * elem.Size[T]()
}

// Device is the accelerator-resident counterpart of Host. It owns exactly
// one device allocation for the test case's duration.
type Device[T elem.Float] struct {
	mem   *gocca.OCCAMemory
	n     int
	inc   int
	bytes int64
}

// NewDevice allocates device storage shaped like a host vector of n
// elements at the given increment.
func NewDevice[T elem.Float](dev *gocca.OCCADevice, n, inc int) (*Device[T], error) {
	bytes := int64(vecLen(n, inc)) * elem.Size[T]()
	mem, err := malloc(dev, bytes, nil)
	if err != nil {
		return nil, err
	}
	return &Device[T]{mem: mem, n: n, inc: inc, bytes: bytes}, nil
}

// TransferFrom copies the host vector's storage to the device.
func (d *Device[T]) TransferFrom(h *Host[T]) error {
	if h.Bytes() != d.bytes {
		return fmt.Errorf("transfer shape mismatch: host %d bytes, device %d bytes", h.Bytes(), d.bytes)
	}
	if d.bytes == 0 || len(h.Data) == 0 {
		return nil
	}
	d.mem.CopyFrom(unsafe.Pointer(&h.Data[0]), d.bytes)
	return nil
}

// TransferTo copies the device storage back into the host vector.
func (d *Device[T]) TransferTo(h *Host[T]) error {
	if h.Bytes() != d.bytes {
		return fmt.Errorf("transfer shape mismatch: host %d bytes, device %d bytes", h.Bytes(), d.bytes)
	}
	if d.bytes == 0 || len(h.Data) == 0 {
		return nil
	}
	d.mem.CopyTo(unsafe.Pointer(&h.Data[0]), d.bytes)
	return nil
}

// Memory exposes the underlying OCCA allocation for kernel arguments.
func (d *Device[T]) Memory() *gocca.OCCAMemory {
	return d.mem
}

// Free releases the device allocation.
func (d *Device[T]) Free() {
	free(d.mem, d.bytes)
	d.mem = nil
}
