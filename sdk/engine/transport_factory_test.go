package engine

import (
	"runtime"
	"testing"

	"github.com/leandrodaf/solenoid/internal/logger"
	"github.com/leandrodaf/solenoid/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransportFor_UnsupportedOS(t *testing.T) {
	_, err := newTransportFor("plan9", &contracts.TransportOptions{Logger: logger.NewNopLogger()})
	assert.ErrorIs(t, err, ErrUnsupportedOS)
	assert.ErrorContains(t, err, "plan9")
}

func TestNewTransportFor_ForeignPlatformIsInert(t *testing.T) {
	// The initializer for a platform other than the running one is its dummy.
	goos := "windows"
	if runtime.GOOS == "windows" {
		goos = "darwin"
	}

	tr, err := newTransportFor(goos, &contracts.TransportOptions{Logger: logger.NewNopLogger()})
	require.NoError(t, err)

	_, err = tr.ListDevices()
	assert.Error(t, err)
	assert.Error(t, tr.SelectDevice(0))
	assert.False(t, tr.Read())
	assert.NoError(t, tr.Close())
}
