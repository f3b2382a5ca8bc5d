//go:build windows
// +build windows

package midiwindows

import (
	"testing"

	"github.com/leandrodaf/solenoid/internal/logger"
	"github.com/leandrodaf/solenoid/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputCallback_CreatedOnce(t *testing.T) {
	first := inputCallback()
	assert.NotZero(t, first)
	assert.Equal(t, first, inputCallback())
}

func TestSelectDevice_FailureLeavesPortClosed(t *testing.T) {
	dt, err := NewTransport(&contracts.TransportOptions{Logger: logger.NewNopLogger()})
	require.NoError(t, err)
	tr := dt.(*Transport)

	// no machine has this many inputs; repeated failures reuse one callback
	for i := 0; i < 3; i++ {
		assert.Error(t, tr.SelectDevice(0xFFFF))
		assert.False(t, tr.portConn)
		assert.Zero(t, tr.handle)
	}
	assert.NoError(t, tr.Close())
}
