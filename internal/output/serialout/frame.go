// Package serialout drives actuator outputs on a microcontroller connected
// over a serial link.
package serialout

import "github.com/leandrodaf/solenoid/sdk/contracts"

const (
	SOF0 = 0xAA
	SOF1 = 0x55

	CmdSetOutput       = 0x20
	CmdConfigureOutput = 0x21
)

// FrameSize is the encoded length of every frame.
const FrameSize = 8

// Frame is one output command.
type Frame struct {
	Cmd   byte
	ID    contracts.ActuatorID
	Value byte
}

// Encode builds the on-wire representation:
//
//	[SOF0][SOF1][LEN][CMD][id lo][id hi][value][CKS]
//
// LEN counts CMD plus the payload. CKS is the XOR of LEN, CMD and the payload.
func (f Frame) Encode() []byte {
	payload := []byte{byte(f.ID), byte(f.ID >> 8), f.Value}

	length := byte(len(payload) + 1) // +1 for CMD byte
	cks := length ^ f.Cmd
	for _, b := range payload {
		cks ^= b
	}

	out := make([]byte, 0, FrameSize)
	out = append(out, SOF0, SOF1, length, f.Cmd)
	out = append(out, payload...)
	return append(out, cks)
}

// SetFrame switches id on or off.
func SetFrame(id contracts.ActuatorID, on bool) Frame {
	f := Frame{Cmd: CmdSetOutput, ID: id}
	if on {
		f.Value = 1
	}
	return f
}

// ConfigureFrame makes id a driven output.
func ConfigureFrame(id contracts.ActuatorID) Frame {
	return Frame{Cmd: CmdConfigureOutput, ID: id}
}
