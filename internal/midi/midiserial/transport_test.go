package midiserial

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/leandrodaf/solenoid/internal/logger"
	"github.com/leandrodaf/solenoid/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkedPort returns one chunk per Read call, then io.EOF.
type chunkedPort struct {
	chunks [][]byte
	reads  int
	closed bool
	err    error
}

func (p *chunkedPort) Read(b []byte) (int, error) {
	p.reads++
	if p.err != nil {
		return 0, p.err
	}
	if len(p.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(b, p.chunks[0])
	p.chunks = p.chunks[1:]
	return n, nil
}

func (p *chunkedPort) Close() error {
	p.closed = true
	return nil
}

type played struct {
	on       bool
	ch, note uint8
}

func newRecorded(port io.ReadCloser) (*Transport, *[]played) {
	tr := New(port, &contracts.TransportOptions{Logger: logger.NewNopLogger(), BufferSize: 16})
	var got []played
	tr.SetHandleNoteOn(func(ch, note, _ uint8) { got = append(got, played{true, ch, note}) })
	tr.SetHandleNoteOff(func(ch, note, _ uint8) { got = append(got, played{false, ch, note}) })
	return tr, &got
}

func TestTransport_OneNotePerRead(t *testing.T) {
	port := &chunkedPort{chunks: [][]byte{
		{0x90, 60, 100, 62, 100}, // two notes, running status
		{0x80, 60, 0},
	}}
	tr, got := newRecorded(port)

	assert.True(t, tr.Read())
	assert.Len(t, *got, 1)
	assert.True(t, tr.Read())
	assert.Equal(t, 1, port.reads, "second note comes from the queue")
	assert.True(t, tr.Read())
	assert.False(t, tr.Read())

	assert.Equal(t, []played{{true, 0, 60}, {true, 0, 62}, {false, 0, 60}}, *got)
}

func TestTransport_MessageSplitAcrossReads(t *testing.T) {
	port := &chunkedPort{chunks: [][]byte{{0x95, 38}, {0xF8, 90}}}
	tr, got := newRecorded(port)

	assert.False(t, tr.Read())
	assert.True(t, tr.Read())
	assert.Equal(t, []played{{true, 5, 38}}, *got)
}

func TestTransport_StopsReadingAfterEOF(t *testing.T) {
	port := &chunkedPort{}
	tr, _ := newRecorded(port)

	assert.False(t, tr.Read())
	assert.False(t, tr.Read())
	assert.Equal(t, 1, port.reads)
}

func TestTransport_ReadErrorKeepsPolling(t *testing.T) {
	port := &chunkedPort{err: errors.New("device busy")}
	tr, _ := newRecorded(port)

	assert.False(t, tr.Read())
	assert.False(t, tr.Read())
	assert.Equal(t, 2, port.reads)
}

func TestTransport_Close(t *testing.T) {
	port := &chunkedPort{}
	tr, _ := newRecorded(port)
	require.NoError(t, tr.Close())
	assert.True(t, port.closed)
}

func TestNew_AcceptsPlainReader(t *testing.T) {
	tr, got := newRecorded(io.NopCloser(bytes.NewReader([]byte{0x91, 40, 1})))
	assert.True(t, tr.Read())
	assert.Equal(t, []played{{true, 1, 40}}, *got)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("unplugged") }

func TestSender_EncodesNotes(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf, logger.NewNopLogger())

	s.Dispatch(contracts.Event{Kind: contracts.NoteOn, Channel: 2, Note: 60, Velocity: 100})
	s.Dispatch(contracts.Event{Kind: contracts.NoteOff, Channel: 2, Note: 60, Velocity: 100})

	assert.Equal(t, []byte{0x92, 60, 100, 0x82, 60, 0}, buf.Bytes())
}

func TestSender_LoopsBackThroughTransport(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf, logger.NewNopLogger())
	s.Dispatch(contracts.Event{Kind: contracts.NoteOn, Channel: 7, Note: 1, Velocity: 64})
	s.Dispatch(contracts.Event{Kind: contracts.NoteOff, Channel: 7, Note: 1})

	tr, got := newRecorded(io.NopCloser(&buf))
	for tr.Read() {
	}
	assert.Equal(t, []played{{true, 7, 1}, {false, 7, 1}}, *got)
}

func TestSender_SilentNoteOnStillStrikes(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf, logger.NewNopLogger())
	s.Dispatch(contracts.Event{Kind: contracts.NoteOn, Channel: 1, Note: 38, Velocity: 0})
	assert.Equal(t, []byte{0x91, 38, 1}, buf.Bytes())

	tr, got := newRecorded(io.NopCloser(&buf))
	for tr.Read() {
	}
	assert.Equal(t, []played{{true, 1, 38}}, *got)
}

func TestSender_WriteErrorIsSwallowed(t *testing.T) {
	s := NewSender(failingWriter{}, logger.NewNopLogger())
	assert.NotPanics(t, func() {
		s.Dispatch(contracts.Event{Kind: contracts.NoteOn, Note: 60, Velocity: 1})
	})
}
