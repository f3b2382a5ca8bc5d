// Package score reads, writes and compiles stored scores: contiguous arrays of
// fixed-width little-endian event records.
//
//	offset 0  event code (0x00 note-on, 0x01 note-off)
//	offset 1  instrument channel
//	offset 2  note
//	offset 3  velocity
//	offset 4  absolute time in ticks, uint32 LE
package score

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leandrodaf/solenoid/sdk/contracts"
)

// RecordSize is the width of one stored event.
const RecordSize = 8

// Load-time validation failures. Any of them rejects the whole score.
var (
	ErrInvalidEventCode = errors.New("invalid event code")
	ErrTruncatedRecord  = errors.New("truncated event record")
	ErrUnorderedScore   = errors.New("event timestamps decrease")
)

// RecordError locates a validation failure inside a score.
type RecordError struct {
	Index int // Record index.
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Decode validates data and returns its events. Validation is all-or-nothing:
// an unknown event code, a partial trailing record or a timestamp smaller than
// its predecessor rejects the score.
func Decode(data []byte) ([]contracts.Event, error) {
	if len(data)%RecordSize != 0 {
		return nil, &RecordError{Index: len(data) / RecordSize, Err: ErrTruncatedRecord}
	}

	events := make([]contracts.Event, 0, len(data)/RecordSize)
	var last uint32
	for i := 0; i < len(data); i += RecordSize {
		rec := data[i : i+RecordSize]
		kind := contracts.EventKind(rec[0])
		if !kind.Valid() {
			return nil, &RecordError{Index: i / RecordSize, Err: fmt.Errorf("%w: 0x%02X", ErrInvalidEventCode, rec[0])}
		}
		ticks := binary.LittleEndian.Uint32(rec[4:8])
		if ticks < last {
			return nil, &RecordError{Index: i / RecordSize, Err: fmt.Errorf("%w: %d after %d", ErrUnorderedScore, ticks, last)}
		}
		last = ticks
		events = append(events, contracts.Event{
			Kind:     kind,
			Channel:  rec[1],
			Note:     rec[2],
			Velocity: rec[3],
			Ticks:    ticks,
		})
	}
	return events, nil
}

// Encode writes events in record format. It refuses anything Decode would reject.
func Encode(events []contracts.Event) ([]byte, error) {
	out := make([]byte, len(events)*RecordSize)
	var last uint32
	for i, ev := range events {
		if !ev.Kind.Valid() {
			return nil, &RecordError{Index: i, Err: fmt.Errorf("%w: 0x%02X", ErrInvalidEventCode, uint8(ev.Kind))}
		}
		if ev.Ticks < last {
			return nil, &RecordError{Index: i, Err: fmt.Errorf("%w: %d after %d", ErrUnorderedScore, ev.Ticks, last)}
		}
		last = ev.Ticks
		rec := out[i*RecordSize : (i+1)*RecordSize]
		rec[0] = uint8(ev.Kind)
		rec[1] = ev.Channel
		rec[2] = ev.Note
		rec[3] = ev.Velocity
		binary.LittleEndian.PutUint32(rec[4:8], ev.Ticks)
	}
	return out, nil
}

// Read decodes a whole score from r.
func Read(r io.Reader) ([]contracts.Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading score: %w", err)
	}
	return Decode(data)
}

// LoadFile decodes the score stored at path.
func LoadFile(path string) ([]contracts.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading score file: %w", err)
	}
	events, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("score %s rejected: %w", path, err)
	}
	return events, nil
}

// WriteFile encodes events to path.
func WriteFile(path string, events []contracts.Event) error {
	data, err := Encode(events)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
