package buffer

import (
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"

	"github.com/occablas/occablas/elem"
)

// HostStrided is a batch stored in one contiguous host block with a fixed
// element stride between consecutive batch entries.
type HostStrided[T elem.Float] struct {
	N      int
	Inc    int
	Stride int64
	Count  int
	Data   []T
}

// NewHostStrided allocates one block holding count entries of n elements
// each, stride elements apart.
func NewHostStrided[T elem.Float](n, inc int, stride int64, count int) *HostStrided[T] {
	total := stride * int64(count)
	if total < 1 {
		total = 1
	}
	return &HostStrided[T]{N: n, Inc: inc, Stride: stride, Count: count, Data: make([]T, total)}
}

// Entry returns the tail of the block starting at batch entry b.
func (hs *HostStrided[T]) Entry(b int) []T {
	return hs.Data[int64(b)*hs.Stride:]
}

// CopyFrom copies the whole block from src.
func (hs *HostStrided[T]) CopyFrom(src *HostStrided[T]) {
	copy(hs.Data, src.Data)
}

// Bytes returns the byte size of the backing block.
func (hs *HostStrided[T]) Bytes() int64 {
	return int64(len(hs.Data)) * elem.Size[T]()
}

// DeviceStrided is the device counterpart of HostStrided: a single owning
// allocation transferred as one block.
type DeviceStrided[T elem.Float] struct {
	mem   *gocca.OCCAMemory
	bytes int64
}

// NewDeviceStrided allocates device storage shaped like the corresponding
// host strided block.
func NewDeviceStrided[T elem.Float](dev *gocca.OCCADevice, n, inc int, stride int64, count int) (*DeviceStrided[T], error) {
	total := stride * int64(count)
	if total < 1 {
		total = 1
	}
	bytes := total * elem.Size[T]()
	mem, err := malloc(dev, bytes, nil)
	if err != nil {
		return nil, err
	}
	return &DeviceStrided[T]{mem: mem, bytes: bytes}, nil
}

// TransferFrom copies the host block to the device in one transfer.
func (ds *DeviceStrided[T]) TransferFrom(hs *HostStrided[T]) error {
	if hs.Bytes() != ds.bytes {
		return fmt.Errorf("transfer shape mismatch: host %d bytes, device %d bytes", hs.Bytes(), ds.bytes)
	}
	if len(hs.Data) == 0 {
		return nil
	}
	ds.mem.CopyFrom(unsafe.Pointer(&hs.Data[0]), ds.bytes)
	return nil
}

// TransferTo copies the device block back to the host.
func (ds *DeviceStrided[T]) TransferTo(hs *HostStrided[T]) error {
	if hs.Bytes() != ds.bytes {
		return fmt.Errorf("transfer shape mismatch: host %d bytes, device %d bytes", hs.Bytes(), ds.bytes)
	}
	if len(hs.Data) == 0 {
		return nil
	}
	ds.mem.CopyTo(unsafe.Pointer(&hs.Data[0]), ds.bytes)
	return nil
}

// Memory exposes the underlying OCCA allocation for kernel arguments.
func (ds *DeviceStrided[T]) Memory() *gocca.OCCAMemory {
	return ds.mem
}

// Free releases the device allocation.
func (ds *DeviceStrided[T]) Free() {
	free(ds.mem, ds.bytes)
	ds.mem = nil
}
