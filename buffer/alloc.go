// Package buffer provides the owned host- and device-side buffer shapes a
// test case works with: flat vectors, batches of independent vectors, and
// strided batches addressed inside one block. Device buffers are created by
// explicit allocation, filled and drained only by explicit transfer
// operations, and released with Free; host and device sides never alias.
package buffer

import (
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"

	"github.com/occablas/occablas/metrics"
)

// ErrAllocation is returned when the device refuses an allocation.
var ErrAllocation = fmt.Errorf("device allocation failed")

func malloc(dev *gocca.OCCADevice, bytes int64, src unsafe.Pointer) (*gocca.OCCAMemory, error) {
	if dev == nil {
		return nil, fmt.Errorf("nil device")
	}
	if bytes <= 0 {
		// OCCA rejects zero-byte allocations; degenerate shapes still own
		// a one-byte block so Free stays uniform.
		bytes = 1
	}
	mem := dev.Malloc(bytes, src, nil)
	if mem == nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrAllocation, bytes)
	}
	metrics.DeviceBytes.Add(float64(bytes))
	return mem, nil
}

func free(mem *gocca.OCCAMemory, bytes int64) {
	if mem == nil {
		return
	}
	mem.Free()
	metrics.DeviceBytes.Sub(float64(bytes))
}

// vecLen is the backing-slice length for an n-element vector with the given
// increment, per the BLAS storage convention.
func vecLen(n, inc int) int {
	if inc < 0 {
		inc = -inc
	}
	l := n * inc
	if l < 1 {
		l = 1
	}
	return l
}
