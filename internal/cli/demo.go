package cli

import (
	_ "embed"

	"github.com/leandrodaf/solenoid/internal/score"
	"github.com/leandrodaf/solenoid/sdk/contracts"
)

// demoScore is the A3 to G4 scale on the piano channel, one beat per note at
// 120 BPM and 96 ticks per beat.
//
//go:embed scores/demo.bin
var demoScore []byte

const demoName = "demo"

// demoTickMs is the tick duration demoScore was written for.
var demoTickMs = score.TickDurationMs(score.DefaultBPM, score.DemoTicksPerBeat)

// loadScore reads path, or the embedded demo score when path is empty. The
// returned fallback tick duration is only known for the demo.
func loadScore(path string) (name string, events []contracts.Event, fallbackTickMs float64, err error) {
	if path == "" {
		events, err = score.Decode(demoScore)
		return demoName, events, demoTickMs, err
	}
	events, err = score.LoadFile(path)
	return path, events, 0, err
}
