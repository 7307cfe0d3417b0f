package device

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAuto(t *testing.T) {
	dev := OpenForTest(t)
	defer dev.Free()

	mode := dev.Mode()
	require.Contains(t, []string{"OpenMP", "CUDA", "Serial"}, mode)
}

func TestOpenBadSpec(t *testing.T) {
	t.Setenv(EnvSpec, "")
	_, err := Open(`{"mode": "NoSuchBackend"}`)
	require.Error(t, err)
}

func TestOpenEnvOverride(t *testing.T) {
	t.Setenv(EnvSpec, `{"mode": "Serial"}`)
	dev, err := Open("auto")
	if err != nil {
		t.Skipf("Serial backend unavailable: %v", err)
	}
	defer dev.Free()
	require.Equal(t, "Serial", dev.Mode())
}
