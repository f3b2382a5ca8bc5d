package midi

import (
	"testing"

	"github.com/leandrodaf/solenoid/internal/logger"
	"github.com/stretchr/testify/assert"
)

type note struct {
	on                  bool
	channel, key, value uint8
}

func recordInto(i *Inbox, got *[]note) {
	i.SetHandleNoteOn(func(ch, key, vel uint8) { *got = append(*got, note{true, ch, key, vel}) })
	i.SetHandleNoteOff(func(ch, key, vel uint8) { *got = append(*got, note{false, ch, key, vel}) })
}

func TestInbox_DeliversInArrivalOrder(t *testing.T) {
	in := NewInbox(8, logger.NewNopLogger())
	var got []note
	recordInto(in, &got)

	in.Push([]byte{0x90, 60, 100})
	in.Push([]byte{0xB0, 7, 127}) // control change is skipped
	in.Push([]byte{0x83, 61, 40})
	in.Push([]byte{0x92, 62, 0}) // velocity 0 is a release

	assert.True(t, in.Read())
	assert.True(t, in.Read())
	assert.True(t, in.Read())
	assert.False(t, in.Read())

	assert.Equal(t, []note{
		{true, 0, 60, 100},
		{false, 3, 61, 40},
		{false, 2, 62, 0},
	}, got)
}

func TestInbox_ReadOnlyControlMessages(t *testing.T) {
	in := NewInbox(4, logger.NewNopLogger())
	in.Push([]byte{0xC0, 5})
	assert.False(t, in.Read())
	assert.False(t, in.Read())
}

func TestInbox_DropsWhenFull(t *testing.T) {
	in := NewInbox(2, logger.NewNopLogger())
	assert.True(t, in.Push([]byte{0x90, 1, 1}))
	assert.True(t, in.Push([]byte{0x90, 2, 1}))
	assert.False(t, in.Push([]byte{0x90, 3, 1}))
	assert.Equal(t, uint64(1), in.Dropped())
}

func TestInbox_PushCopies(t *testing.T) {
	in := NewInbox(1, logger.NewNopLogger())
	var got []note
	recordInto(in, &got)

	raw := []byte{0x90, 60, 100}
	in.Push(raw)
	raw[1] = 0

	in.Read()
	assert.Equal(t, []note{{true, 0, 60, 100}}, got)
}

func TestInbox_NoHandlers(t *testing.T) {
	in := NewInbox(1, logger.NewNopLogger())
	in.Push([]byte{0x90, 60, 100})
	assert.True(t, in.Read())
}

func parseAll(data []byte) [][]byte {
	var p Parser
	var out [][]byte
	p.FeedAll(data, func(msg []byte) {
		out = append(out, append([]byte(nil), msg...))
	})
	return out
}

func TestParser_RunningStatus(t *testing.T) {
	got := parseAll([]byte{0x90, 60, 100, 62, 90, 64, 0})
	assert.Equal(t, [][]byte{
		{0x90, 60, 100},
		{0x90, 62, 90},
		{0x90, 64, 0},
	}, got)
}

func TestParser_RealtimeInsideMessage(t *testing.T) {
	got := parseAll([]byte{0x90, 0xF8, 60, 0xFE, 100})
	assert.Equal(t, [][]byte{{0x90, 60, 100}}, got)
}

func TestParser_TwoByteMessages(t *testing.T) {
	got := parseAll([]byte{0xC1, 5, 6, 0xD2, 40})
	assert.Equal(t, [][]byte{{0xC1, 5}, {0xC1, 6}, {0xD2, 40}}, got)
}

func TestParser_SkipsSysexAndOrphanData(t *testing.T) {
	got := parseAll([]byte{
		60, 100, // data before any status
		0xF0, 0x7E, 0x09, 0x01, 0xF7,
		0x80, 60, 0,
		0xF0, 0x01, 0x02, 0xF7,
		61, 0, // running status cancelled by sysex
	})
	assert.Equal(t, [][]byte{{0x80, 60, 0}}, got)
}

func TestMessageLength(t *testing.T) {
	assert.Equal(t, 3, MessageLength(0x9F))
	assert.Equal(t, 3, MessageLength(0xE0))
	assert.Equal(t, 2, MessageLength(0xC3))
	assert.Equal(t, 0, MessageLength(0xF2))
	assert.Equal(t, 0, MessageLength(0x40))
}
