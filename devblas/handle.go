// Package devblas is the device BLAS under test: batched AXPY, batched
// GEAM, strided-batched COPY, ROTMG and batched packed triangular solve,
// compiled at runtime as OCCA kernels. The Go side validates arguments,
// marshals them, caches compiled kernels per handle and enforces the
// pointer-mode contract for scalar coefficients.
package devblas

import (
	"errors"
	"fmt"

	"github.com/notargets/gocca"
)

var (
	// ErrNotInitialized reports a nil or closed handle.
	ErrNotInitialized = errors.New("devblas: handle not initialized")
	// ErrInvalidValue reports an argument combination rejected before any
	// allocation or launch.
	ErrInvalidValue = errors.New("devblas: invalid value")
	// ErrExecutionFailed reports a kernel build or launch failure.
	ErrExecutionFailed = errors.New("devblas: execution failed")
)

// PointerMode declares where routines expect scalar coefficients to live.
type PointerMode int

const (
	// PointerModeHost passes scalars by value from host memory.
	PointerModeHost PointerMode = iota
	// PointerModeDevice reads scalars from device memory at kernel
	// execution time.
	PointerModeDevice
)

func (m PointerMode) String() string {
	if m == PointerModeDevice {
		return "device"
	}
	return "host"
}

// Handle carries the execution state for the library: the device, the
// declared pointer mode and the compiled-kernel cache. One handle drives
// one logical stream; calls through a handle are serialized by the caller.
type Handle struct {
	dev     *gocca.OCCADevice
	mode    PointerMode
	kernels map[string]*gocca.OCCAKernel
}

// NewHandle wraps a device in a library handle with host pointer mode.
func NewHandle(dev *gocca.OCCADevice) (*Handle, error) {
	if dev == nil {
		return nil, ErrNotInitialized
	}
	return &Handle{dev: dev, kernels: make(map[string]*gocca.OCCAKernel)}, nil
}

// SetPointerMode declares the residency of scalar arguments for subsequent
// calls.
func (h *Handle) SetPointerMode(m PointerMode) {
	h.mode = m
}

// PointerMode returns the declared scalar residency.
func (h *Handle) PointerMode() PointerMode {
	return h.mode
}

// Device exposes the underlying device, e.g. for buffer allocation.
func (h *Handle) Device() *gocca.OCCADevice {
	return h.dev
}

// Synchronize blocks until all work queued on the handle's stream is done.
func (h *Handle) Synchronize() {
	h.dev.Finish()
}

// Close releases every cached kernel. The device itself is owned by the
// caller.
func (h *Handle) Close() {
	for _, k := range h.kernels {
		k.Free()
	}
	h.kernels = nil
}

func (h *Handle) valid() error {
	if h == nil || h.dev == nil || h.kernels == nil {
		return ErrNotInitialized
	}
	return nil
}

// kernel returns the cached kernel for key, building it from source on
// first use. OpenMP builds get an explicit -O3 since OCCA does not apply
// its default flags on that backend.
func (h *Handle) kernel(key, source, name string) (*gocca.OCCAKernel, error) {
	if k, ok := h.kernels[key]; ok {
		return k, nil
	}

	var k *gocca.OCCAKernel
	var err error
	if h.dev.Mode() == "OpenMP" {
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		k, err = h.dev.BuildKernelFromString(source, name, props)
	} else {
		k, err = h.dev.BuildKernelFromString(source, name, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: building %s: %v", ErrExecutionFailed, name, err)
	}
	if k == nil {
		return nil, fmt.Errorf("%w: building %s returned nil", ErrExecutionFailed, name)
	}
	h.kernels[key] = k
	return k, nil
}

func (h *Handle) run(k *gocca.OCCAKernel, kernelArgs ...interface{}) error {
	if err := k.RunWithArgs(kernelArgs...); err != nil {
		return fmt.Errorf("%w: %v", ErrExecutionFailed, err)
	}
	return nil
}
