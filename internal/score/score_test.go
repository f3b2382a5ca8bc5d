package score

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/leandrodaf/solenoid/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestDecode_Records(t *testing.T) {
	data := []byte{
		0x00, 0x00, 60, 100, 0x00, 0x00, 0x00, 0x00,
		0x01, 0x00, 60, 100, 0x64, 0x00, 0x00, 0x00,
		0x00, 0x05, 0, 127, 0x78, 0x56, 0x34, 0x12,
	}

	events, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []contracts.Event{
		{Kind: contracts.NoteOn, Channel: 0, Note: 60, Velocity: 100, Ticks: 0},
		{Kind: contracts.NoteOff, Channel: 0, Note: 60, Velocity: 100, Ticks: 100},
		{Kind: contracts.NoteOn, Channel: 5, Note: 0, Velocity: 127, Ticks: 0x12345678},
	}, events)
}

func TestDecode_Empty(t *testing.T) {
	events, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDecode_InvalidEventCodeRejectsWholeScore(t *testing.T) {
	data := []byte{
		0x00, 0x00, 60, 100, 0x00, 0x00, 0x00, 0x00,
		0x02, 0x00, 60, 100, 0x10, 0x00, 0x00, 0x00,
	}

	events, err := Decode(data)
	assert.Nil(t, events)
	require.ErrorIs(t, err, ErrInvalidEventCode)

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 1, recErr.Index)
}

func TestDecode_Truncated(t *testing.T) {
	_, err := Decode(make([]byte, RecordSize+3))
	assert.ErrorIs(t, err, ErrTruncatedRecord)
}

func TestDecode_Unordered(t *testing.T) {
	data := []byte{
		0x00, 0x00, 60, 100, 0x20, 0x00, 0x00, 0x00,
		0x01, 0x00, 60, 100, 0x10, 0x00, 0x00, 0x00,
	}
	_, err := Decode(data)
	assert.ErrorIs(t, err, ErrUnorderedScore)
}

func TestEncode_MatchesDecode(t *testing.T) {
	events := []contracts.Event{
		{Kind: contracts.NoteOn, Channel: 1, Note: 64, Velocity: 90, Ticks: 10},
		{Kind: contracts.NoteOff, Channel: 1, Note: 64, Velocity: 90, Ticks: 10},
		{Kind: contracts.NoteOn, Channel: 7, Note: 0, Velocity: 1, Ticks: 70000},
	}
	data, err := Encode(events)
	require.NoError(t, err)
	require.Len(t, data, 3*RecordSize)
	assert.Equal(t, []byte{0x00, 0x07, 0x00, 0x01, 0x70, 0x11, 0x01, 0x00}, data[16:24])

	back, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, events, back)
}

func TestEncode_RejectsInvalid(t *testing.T) {
	_, err := Encode([]contracts.Event{{Kind: 9}})
	assert.ErrorIs(t, err, ErrInvalidEventCode)

	_, err = Encode([]contracts.Event{{Ticks: 5}, {Ticks: 4}})
	assert.ErrorIs(t, err, ErrUnorderedScore)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.bin")
	events := []contracts.Event{{Kind: contracts.NoteOn, Note: 60, Ticks: 1}}

	require.NoError(t, WriteFile(path, events))
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, events, loaded)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func buildSMF(t *testing.T, withTempo bool) []byte {
	t.Helper()

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(96)

	var meta smf.Track
	if withTempo {
		meta.Add(0, smf.MetaTempo(120))
	}
	meta.Close(0)
	require.NoError(t, s.Add(meta))

	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(96, gomidi.NoteOff(0, 60))
	tr.Add(0, gomidi.NoteOn(2, 38, 80))
	tr.Add(96, gomidi.NoteOn(0, 60, 90))
	tr.Add(48, gomidi.NoteOn(0, 60, 70))
	tr.Close(48)
	require.NoError(t, s.Add(tr))

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestCompileSMF(t *testing.T) {
	c, err := CompileSMF(bytes.NewReader(buildSMF(t, true)))
	require.NoError(t, err)

	assert.Equal(t, uint16(96), c.TicksPerBeat)
	assert.InDelta(t, 120.0, c.BPM, 0.001)
	assert.InDelta(t, 60000.0/(120*96), c.TickDurationMs, 1e-9)

	on, off := contracts.NoteOn, contracts.NoteOff
	assert.Equal(t, []contracts.Event{
		{Kind: on, Channel: 0, Note: 60, Velocity: 100, Ticks: 0},
		{Kind: off, Channel: 0, Note: 60, Velocity: 100, Ticks: 96},
		{Kind: on, Channel: 2, Note: 38, Velocity: 80, Ticks: 96},
		{Kind: on, Channel: 0, Note: 60, Velocity: 90, Ticks: 192},
		{Kind: off, Channel: 0, Note: 60, Velocity: 90, Ticks: 240},
		{Kind: on, Channel: 0, Note: 60, Velocity: 70, Ticks: 240},
		{Kind: off, Channel: 0, Note: 60, Velocity: 70, Ticks: 288},
		{Kind: off, Channel: 2, Note: 38, Velocity: 80, Ticks: 288},
	}, c.Events)

	_, err = Encode(c.Events)
	assert.NoError(t, err)
}

func TestCompileSMF_SameTickPairs(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(96)

	// zero-length percussion hit, then a strike at the tick another track releases
	var drums smf.Track
	drums.Add(0, gomidi.NoteOn(2, 38, 90))
	drums.Add(0, gomidi.NoteOff(2, 38))
	drums.Add(96, gomidi.NoteOn(0, 40, 70))
	drums.Add(0, gomidi.NoteOff(0, 40))
	drums.Close(0)
	require.NoError(t, s.Add(drums))

	var keys smf.Track
	keys.Add(0, gomidi.NoteOn(0, 40, 100))
	keys.Add(96, gomidi.NoteOff(0, 40))
	keys.Close(0)
	require.NoError(t, s.Add(keys))

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)

	c, err := CompileSMF(&buf)
	require.NoError(t, err)

	on, off := contracts.NoteOn, contracts.NoteOff
	assert.Equal(t, []contracts.Event{
		{Kind: on, Channel: 2, Note: 38, Velocity: 90, Ticks: 0},
		{Kind: off, Channel: 2, Note: 38, Velocity: 90, Ticks: 0},
		{Kind: on, Channel: 0, Note: 40, Velocity: 100, Ticks: 0},
		{Kind: off, Channel: 0, Note: 40, Velocity: 100, Ticks: 96},
		{Kind: on, Channel: 0, Note: 40, Velocity: 70, Ticks: 96},
		{Kind: off, Channel: 0, Note: 40, Velocity: 70, Ticks: 96},
	}, c.Events)
}

func TestCompileSMF_DefaultTempo(t *testing.T) {
	c, err := CompileSMF(bytes.NewReader(buildSMF(t, false)))
	require.NoError(t, err)
	assert.Equal(t, DefaultBPM, c.BPM)
}

func TestCompileSMF_Garbage(t *testing.T) {
	_, err := CompileSMF(bytes.NewReader([]byte("definitely not a midi file")))
	assert.Error(t, err)
}

func TestTickDurationMs(t *testing.T) {
	assert.InDelta(t, 0.5208333, TickDurationMs(120, 960), 1e-6)
	assert.Equal(t, 0.0, TickDurationMs(0, 960))
	assert.Equal(t, 0.0, TickDurationMs(120, 0))
}

func TestScale(t *testing.T) {
	events := Scale(1, 57, 59, 100, 96)
	require.Len(t, events, 6)
	assert.Equal(t, contracts.Event{Kind: contracts.NoteOn, Channel: 1, Note: 57, Velocity: 100, Ticks: 0}, events[0])
	assert.Equal(t, contracts.Event{Kind: contracts.NoteOff, Channel: 1, Note: 57, Velocity: 100, Ticks: 96}, events[1])
	assert.Equal(t, contracts.Event{Kind: contracts.NoteOn, Channel: 1, Note: 58, Velocity: 100, Ticks: 96}, events[2])
	assert.Equal(t, uint32(288), events[5].Ticks)

	_, err := Encode(events)
	assert.NoError(t, err)
	assert.Empty(t, Scale(0, 60, 59, 100, 96))
}

func TestWriteSMF_CompilesBack(t *testing.T) {
	events := Scale(0, 57, 67, 100, DemoTicksPerBeat)

	var buf bytes.Buffer
	require.NoError(t, WriteSMF(&buf, events, DemoTicksPerBeat, 120))

	c, err := CompileSMF(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint16(DemoTicksPerBeat), c.TicksPerBeat)
	assert.InDelta(t, 120.0, c.BPM, 0.001)
	assert.Equal(t, events, c.Events)
}

func TestWriteSMF_RejectsUnordered(t *testing.T) {
	events := []contracts.Event{
		{Kind: contracts.NoteOn, Ticks: 10},
		{Kind: contracts.NoteOff, Ticks: 5},
	}
	err := WriteSMF(io.Discard, events, 96, 120)
	assert.ErrorIs(t, err, ErrUnorderedScore)
}
