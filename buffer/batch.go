package buffer

import (
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"

	"github.com/occablas/occablas/elem"
)

// HostBatch is an ordered batch of independent, same-shape host vectors.
type HostBatch[T elem.Float] struct {
	N     int
	Inc   int
	Count int
	Vecs  [][]T
}

// NewHostBatch allocates count independent host vectors of n elements each.
func NewHostBatch[T elem.Float](n, inc, count int) *HostBatch[T] {
	hb := &HostBatch[T]{N: n, Inc: inc, Count: count, Vecs: make([][]T, count)}
	for b := range hb.Vecs {
		hb.Vecs[b] = make([]T, vecLen(n, inc))
	}
	return hb
}

// CopyFrom copies every batch entry from src.
func (hb *HostBatch[T]) CopyFrom(src *HostBatch[T]) {
	for b := range hb.Vecs {
		copy(hb.Vecs[b], src.Vecs[b])
	}
}

// VecLen returns the backing length of one batch entry.
func (hb *HostBatch[T]) VecLen() int {
	return vecLen(hb.N, hb.Inc)
}

// DeviceBatch is the device counterpart of HostBatch. Instead of the
// pointer-of-pointers layout the batch lives in one owning allocation, and
// a device-resident int64 table gives the element offset of each batch
// entry. Kernels receive the data block plus the offset table.
type DeviceBatch[T elem.Float] struct {
	data        *gocca.OCCAMemory
	offsets     *gocca.OCCAMemory
	hostOffsets []int64
	n           int
	inc         int
	count       int
	dataBytes   int64
	offsetBytes int64
}

// NewDeviceBatch allocates device storage for count vectors of n elements
// each, plus the offset table describing where each entry starts.
func NewDeviceBatch[T elem.Float](dev *gocca.OCCADevice, n, inc, count int) (*DeviceBatch[T], error) {
	per := int64(vecLen(n, inc))
	offsets := make([]int64, count)
	for b := range offsets {
		offsets[b] = int64(b) * per
	}
	if len(offsets) == 0 {
		offsets = []int64{0}
	}

	dataBytes := per * int64(count) * elem.Size[T]()
	data, err := malloc(dev, dataBytes, nil)
	if err != nil {
		return nil, err
	}
	offsetBytes := int64(len(offsets)) * 8
	offMem, err := malloc(dev, offsetBytes, unsafe.Pointer(&offsets[0]))
	if err != nil {
		free(data, dataBytes)
		return nil, err
	}

	return &DeviceBatch[T]{
		data:        data,
		offsets:     offMem,
		hostOffsets: offsets,
		n:           n,
		inc:         inc,
		count:       count,
		dataBytes:   dataBytes,
		offsetBytes: offsetBytes,
	}, nil
}

// TransferFrom copies every host batch entry into its slot on the device.
func (db *DeviceBatch[T]) TransferFrom(hb *HostBatch[T]) error {
	if err := db.checkShape(hb); err != nil {
		return err
	}
	bytes := int64(vecLen(db.n, db.inc)) * elem.Size[T]()
	for b := 0; b < db.count; b++ {
		if len(hb.Vecs[b]) == 0 {
			continue
		}
		off := db.hostOffsets[b] * elem.Size[T]()
		db.data.CopyFromWithOffset(unsafe.Pointer(&hb.Vecs[b][0]), bytes, off)
	}
	return nil
}

// TransferTo copies every device batch entry back into the host batch.
func (db *DeviceBatch[T]) TransferTo(hb *HostBatch[T]) error {
	if err := db.checkShape(hb); err != nil {
		return err
	}
	bytes := int64(vecLen(db.n, db.inc)) * elem.Size[T]()
	for b := 0; b < db.count; b++ {
		if len(hb.Vecs[b]) == 0 {
			continue
		}
		off := db.hostOffsets[b] * elem.Size[T]()
		db.data.CopyToWithOffset(unsafe.Pointer(&hb.Vecs[b][0]), bytes, off)
	}
	return nil
}

func (db *DeviceBatch[T]) checkShape(hb *HostBatch[T]) error {
	if hb.N != db.n || hb.Inc != db.inc || hb.Count != db.count {
		return fmt.Errorf("transfer shape mismatch: host (n=%d inc=%d count=%d), device (n=%d inc=%d count=%d)",
			hb.N, hb.Inc, hb.Count, db.n, db.inc, db.count)
	}
	return nil
}

// Memory exposes the owning data allocation for kernel arguments.
func (db *DeviceBatch[T]) Memory() *gocca.OCCAMemory {
	return db.data
}

// Offsets exposes the device-resident entry-offset table.
func (db *DeviceBatch[T]) Offsets() *gocca.OCCAMemory {
	return db.offsets
}

// Free releases both the data block and the offset table.
func (db *DeviceBatch[T]) Free() {
	free(db.data, db.dataBytes)
	free(db.offsets, db.offsetBytes)
	db.data, db.offsets = nil, nil
}
