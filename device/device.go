// Package device acquires the OCCA device the harness runs against.
package device

import (
	"fmt"
	"os"
	"testing"

	"github.com/notargets/gocca"
)

// EnvSpec names the environment variable that overrides the device spec.
const EnvSpec = "OCCABLAS_DEVICE"

// backends is the preference order walked by Open("auto"): parallel host
// backend first, then CUDA, then the Serial fallback that always builds.
var backends = []string{
	`{"mode": "OpenMP"}`,
	`{"mode": "CUDA", "device_id": 0}`,
	`{"mode": "Serial"}`,
}

// Open creates an OCCA device from a JSON device spec. The spec "auto" (or
// "") walks the backend preference list and returns the first device that
// opens. The OCCABLAS_DEVICE environment variable, when set, takes
// precedence over the argument.
func Open(spec string) (*gocca.OCCADevice, error) {
	if env := os.Getenv(EnvSpec); env != "" {
		spec = env
	}
	if spec == "" || spec == "auto" {
		return openAuto()
	}
	dev, err := gocca.NewDevice(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to open device %q: %w", spec, err)
	}
	return dev, nil
}

func openAuto() (*gocca.OCCADevice, error) {
	var firstErr error
	for _, props := range backends {
		dev, err := gocca.NewDevice(props)
		if err == nil {
			return dev, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("no OCCA backend available: %w", firstErr)
}

// OpenForTest returns a test device or skips the test when no backend can
// be opened on this machine.
func OpenForTest(tb testing.TB) *gocca.OCCADevice {
	tb.Helper()
	dev, err := Open("auto")
	if err != nil {
		tb.Skipf("no OCCA device available: %v", err)
	}
	return dev
}
