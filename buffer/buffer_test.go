package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/occablas/occablas/device"
)

// Round-trip property: host -> device -> host with no kernel in between
// returns the original values exactly, for every buffer shape.

func TestFlatRoundTrip(t *testing.T) {
	dev := device.OpenForTest(t)
	defer dev.Free()

	h := NewHost[float64](5, 2)
	for i := range h.Data {
		h.Data[i] = float64(i) + 0.25
	}

	d, err := NewDevice[float64](dev, 5, 2)
	require.NoError(t, err)
	defer d.Free()

	require.NoError(t, d.TransferFrom(h))

	back := NewHost[float64](5, 2)
	require.NoError(t, d.TransferTo(back))
	require.Equal(t, h.Data, back.Data)
}

func TestFlatShapeMismatch(t *testing.T) {
	dev := device.OpenForTest(t)
	defer dev.Free()

	d, err := NewDevice[float32](dev, 4, 1)
	require.NoError(t, err)
	defer d.Free()

	wrong := NewHost[float32](8, 1)
	require.Error(t, d.TransferFrom(wrong))
	require.Error(t, d.TransferTo(wrong))
}

func TestBatchRoundTrip(t *testing.T) {
	dev := device.OpenForTest(t)
	defer dev.Free()

	hb := NewHostBatch[float32](3, 1, 4)
	for b := range hb.Vecs {
		for i := range hb.Vecs[b] {
			hb.Vecs[b][i] = float32(b*100 + i)
		}
	}

	db, err := NewDeviceBatch[float32](dev, 3, 1, 4)
	require.NoError(t, err)
	defer db.Free()

	require.NoError(t, db.TransferFrom(hb))

	back := NewHostBatch[float32](3, 1, 4)
	require.NoError(t, db.TransferTo(back))
	for b := range hb.Vecs {
		require.Equal(t, hb.Vecs[b], back.Vecs[b], "batch %d", b)
	}
}

func TestStridedRoundTrip(t *testing.T) {
	dev := device.OpenForTest(t)
	defer dev.Free()

	hs := NewHostStrided[float64](4, 1, 6, 3)
	for i := range hs.Data {
		hs.Data[i] = float64(i) * 1.5
	}

	ds, err := NewDeviceStrided[float64](dev, 4, 1, 6, 3)
	require.NoError(t, err)
	defer ds.Free()

	require.NoError(t, ds.TransferFrom(hs))

	back := NewHostStrided[float64](4, 1, 6, 3)
	require.NoError(t, ds.TransferTo(back))
	require.Equal(t, hs.Data, back.Data)
}

func TestVecLen(t *testing.T) {
	require.Equal(t, 8, vecLen(4, 2))
	require.Equal(t, 8, vecLen(4, -2))
	require.Equal(t, 1, vecLen(0, 1))
	require.Equal(t, 1, vecLen(4, 0))
}

func TestHostStridedEntry(t *testing.T) {
	hs := NewHostStrided[float64](2, 1, 3, 2)
	for i := range hs.Data {
		hs.Data[i] = float64(i)
	}
	require.Equal(t, 3.0, hs.Entry(1)[0])
}
