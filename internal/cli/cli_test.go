package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/leandrodaf/solenoid/internal/config"
	"github.com/leandrodaf/solenoid/internal/logger"
	"github.com/leandrodaf/solenoid/internal/playback"
	"github.com/leandrodaf/solenoid/internal/score"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with a silent logger and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(&RootOptions{Logger: logger.NewNopLogger()})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestInspect_Golden(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"inspect_demo", []string{"inspect"}},
		{"inspect_small", []string{"inspect", "testdata/small.bin"}},
		{"inspect_small_tick", []string{"inspect", "testdata/small.bin", "--tick-ms", "2.5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			newGoldie(t).Assert(t, tt.name, []byte(out))
		})
	}
}

func TestInspect_RejectsInvalidScore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x02, 0, 60, 100, 0, 0, 0, 0}, 0o644))

	_, err := execute(t, "inspect", path)
	assert.ErrorIs(t, err, score.ErrInvalidEventCode)
}

func TestDemoScoreMatchesScale(t *testing.T) {
	events, err := score.Decode(demoScore)
	require.NoError(t, err)
	assert.Equal(t, score.Scale(0, 57, 67, 100, score.DemoTicksPerBeat), events)
	assert.InDelta(t, 5.208333, demoTickMs, 1e-6)
}

func TestScale_ThenCompile(t *testing.T) {
	dir := t.TempDir()
	mid := filepath.Join(dir, "scale.mid")
	bin := filepath.Join(dir, "scale.bin")

	out, err := execute(t, "scale", mid, "--first", "60", "--last", "62", "--channel", "1")
	require.NoError(t, err)
	assert.Equal(t, "wrote 6 events to "+mid+"\n", out)

	out, err = execute(t, "compile", mid, bin)
	require.NoError(t, err)
	assert.Equal(t, "compiled 6 events into "+bin+"\n"+
		"ticks per beat: 96\n"+
		"tempo: 120 BPM\n"+
		"tick duration: 5.208333 ms\n", out)

	events, err := score.LoadFile(bin)
	require.NoError(t, err)
	assert.Equal(t, score.Scale(1, 60, 62, 100, score.DemoTicksPerBeat), events)
}

func TestScale_StoredScore(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "scale.bin")
	_, err := execute(t, "scale", bin, "--first", "38", "--last", "38", "--channel", "2", "--ticks", "10")
	require.NoError(t, err)

	events, err := score.LoadFile(bin)
	require.NoError(t, err)
	assert.Equal(t, score.Scale(2, 38, 38, 100, 10), events)
}

func TestScale_RejectsReversedRange(t *testing.T) {
	_, err := execute(t, "scale", filepath.Join(t.TempDir(), "x.bin"), "--first", "70", "--last", "60")
	assert.Error(t, err)
}

func TestPlay_OnceDryRun(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "solenoid.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
poll_interval: 1ms
actuators:
  piano:
    notes: {60: 5}
`), 0o644))

	_, err := execute(t, "--config", cfgPath, "play", "testdata/small.bin", "--once", "--dry-run", "--tick-ms", "0.01")
	assert.NoError(t, err)
}

func TestPlay_RequiresTickDuration(t *testing.T) {
	_, err := execute(t, "play", "testdata/small.bin", "--once", "--dry-run")
	assert.Error(t, err)
}

func TestPlay_RejectsZeroTickDuration(t *testing.T) {
	_, err := execute(t, "play", "testdata/small.bin", "--once", "--dry-run", "--tick-ms", "0")
	assert.ErrorIs(t, err, playback.ErrInvalidTickDuration)

	// an explicit zero does not fall back to the demo's tick duration
	_, err = execute(t, "play", "--once", "--dry-run", "--tick-ms", "0")
	assert.ErrorIs(t, err, playback.ErrInvalidTickDuration)

	_, err = execute(t, "send", "--port", "/dev/null", "--tick-ms", "0")
	assert.ErrorIs(t, err, playback.ErrInvalidTickDuration)

	cfgPath := filepath.Join(t.TempDir(), "solenoid.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("tick_duration_ms: 0\n"), 0o644))
	_, err = execute(t, "--config", cfgPath, "play", "--once", "--dry-run")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestInspect_UsesConfiguredTickDuration(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "solenoid.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("tick_duration_ms: 2.5\n"), 0o644))

	out, err := execute(t, "--config", cfgPath, "inspect", "testdata/small.bin")
	require.NoError(t, err)
	assert.Contains(t, out, "tick duration: 2.500000 ms\n")
}

func TestRoot_RejectsBadConfig(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "inspect")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = execute(t, "--config", "testdata/missing.yaml", "inspect")
	assert.Error(t, err)
}

func TestSend_RequiresPort(t *testing.T) {
	_, err := execute(t, "send")
	assert.Error(t, err)
}
