package scenario

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frametick/frametick-go/pkg/frameloop"
	"github.com/frametick/frametick-go/pkg/timer"
)

const respawnYAML = `
name: respawn
version: "1.0"
frame_interval: 100ms
timers:
  - name: respawn
    duration: 3s
    autostart: true
  - name: blink
    duration: 500ms
    loop: true
actions:
  - at: 1s
    timer: blink
    op: start
  - at: 2s
    timer: respawn
    op: pause
  - at: 2500ms
    timer: respawn
    op: resume
  - at: 4s
    timer: blink
    op: cancel
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(respawnYAML))
	require.NoError(t, err)

	assert.Equal(t, "respawn", s.Name)
	assert.Equal(t, 100*time.Millisecond, s.Interval())
	require.Len(t, s.Timers, 2)
	assert.Equal(t, timer.Config{Name: "respawn", Duration: 3 * time.Second}, s.Timers[0].Config)
	assert.True(t, s.Timers[0].Autostart)
	assert.True(t, s.Timers[1].Loop)
	require.Len(t, s.Actions, 4)
	assert.Equal(t, Action{At: 2500 * time.Millisecond, Timer: "respawn", Op: OpResume}, s.Actions[2])
}

func TestParseDefaultsInterval(t *testing.T) {
	s, err := Parse([]byte("name: x\ntimers:\n  - name: a\n    duration: 1s\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultFrameInterval, s.Interval())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "malformed",
			yaml: "name: [",
			want: "failed to parse YAML",
		},
		{
			name: "missing name",
			yaml: "timers:\n  - name: a\n    duration: 1s\n",
			want: "scenario name is required",
		},
		{
			name: "incompatible version",
			yaml: "name: x\nversion: \"2.0\"\ntimers:\n  - name: a\n    duration: 1s\n",
			want: "unsupported format version",
		},
		{
			name: "no timers",
			yaml: "name: x\n",
			want: "at least one timer",
		},
		{
			name: "unnamed timer",
			yaml: "name: x\ntimers:\n  - duration: 1s\n",
			want: "timer 0: name is required",
		},
		{
			name: "duplicate timer",
			yaml: "name: x\ntimers:\n  - name: a\n    duration: 1s\n  - name: a\n    duration: 2s\n",
			want: `timer "a" declared twice`,
		},
		{
			name: "zero duration",
			yaml: "name: x\ntimers:\n  - name: a\n",
			want: `timer "a": invalid duration`,
		},
		{
			name: "negative interval",
			yaml: "name: x\nframe_interval: -1s\ntimers:\n  - name: a\n    duration: 1s\n",
			want: "frame_interval must not be negative",
		},
		{
			name: "unknown timer",
			yaml: "name: x\ntimers:\n  - name: a\n    duration: 1s\nactions:\n  - at: 1s\n    timer: b\n    op: start\n",
			want: `action 0: unknown timer "b"`,
		},
		{
			name: "unknown op",
			yaml: "name: x\ntimers:\n  - name: a\n    duration: 1s\nactions:\n  - at: 1s\n    timer: a\n    op: explode\n",
			want: `unknown op "explode"`,
		},
		{
			name: "negative at",
			yaml: "name: x\ntimers:\n  - name: a\n    duration: 1s\nactions:\n  - at: -1s\n    timer: a\n    op: start\n",
			want: "at must not be negative",
		},
		{
			name: "set-duration without argument",
			yaml: "name: x\ntimers:\n  - name: a\n    duration: 1s\nactions:\n  - at: 1s\n    timer: a\n    op: set-duration\n",
			want: "set-duration requires a positive duration",
		},
		{
			name: "set-loop without argument",
			yaml: "name: x\ntimers:\n  - name: a\n    duration: 1s\nactions:\n  - at: 1s\n    timer: a\n    op: set-loop\n",
			want: "set-loop requires loop",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInvalidDurationWrapsSentinel(t *testing.T) {
	_, err := Parse([]byte("name: x\ntimers:\n  - name: a\n    duration: 0s\n"))
	assert.ErrorIs(t, err, timer.ErrInvalidDuration)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/scenarios/respawn.yaml", []byte(respawnYAML), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/scenarios/bad.yaml", []byte("name: x\n"), 0o644))

	s, err := Load(fs, "/scenarios/respawn.yaml")
	require.NoError(t, err)
	assert.Equal(t, "respawn", s.Name)

	_, err = Load(fs, "/scenarios/bad.yaml")
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "/scenarios/bad.yaml", le.File)
	assert.Equal(t, "/scenarios/bad.yaml: scenario must declare at least one timer", err.Error())

	_, err = Load(fs, "/scenarios/missing.yaml")
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "failed to read file", le.Message)
	assert.Error(t, le.Unwrap())
}

func buildRespawn(t *testing.T) *Instance {
	t.Helper()
	s, err := Parse([]byte(respawnYAML))
	require.NoError(t, err)
	in, err := s.Build(timer.NewScheduler(timer.SchedulerConfig{}))
	require.NoError(t, err)
	return in
}

func TestBuildCreatesIdleTimers(t *testing.T) {
	in := buildRespawn(t)

	require.Len(t, in.Timers(), 2)
	respawn, ok := in.Timer("respawn")
	require.True(t, ok)
	assert.Equal(t, timer.StateIdle, respawn.State())
	assert.Equal(t, 0, in.Scheduler().Len())
	assert.False(t, in.Done())

	_, ok = in.Timer("nope")
	assert.False(t, ok)
}

func TestBuildRequiresScheduler(t *testing.T) {
	s, err := Parse([]byte(respawnYAML))
	require.NoError(t, err)
	_, err = s.Build(nil)
	assert.ErrorIs(t, err, timer.ErrNoScheduler)
}

func TestInstancePlaysActions(t *testing.T) {
	in := buildRespawn(t)
	respawn, _ := in.Timer("respawn")
	blink, _ := in.Timer("blink")

	blinks := 0
	blink.Completed().Subscribe(func() { blinks++ })

	in.Advance(time.Second)
	assert.Equal(t, time.Second, respawn.Elapsed())
	assert.Equal(t, timer.StateIdle, blink.State(), "blink starts on the frame at 1s")

	in.Advance(time.Second)
	assert.True(t, blink.IsRunning())
	assert.Equal(t, 2*time.Second, respawn.Elapsed())

	// Paused between 2s and 2.5s.
	in.Advance(time.Second)
	assert.True(t, respawn.IsRunning())
	assert.Equal(t, 2500*time.Millisecond, respawn.Elapsed())
	assert.Equal(t, 1, in.Pending())
	assert.False(t, in.Done())

	in.Advance(time.Second)
	assert.True(t, respawn.IsCompleted())
	assert.Equal(t, 3*time.Second, respawn.Elapsed())
	assert.True(t, blink.IsRunning())
	assert.False(t, in.Done(), "blink cancel still pending")

	in.Advance(time.Second)
	assert.Equal(t, timer.StateIdle, blink.State())
	assert.Equal(t, 6, blinks, "blink looped every 500ms between 1s and 4s")
	assert.Equal(t, 0, in.Pending())
	assert.True(t, in.Done())
	assert.Equal(t, 5*time.Second, in.Now())
}

func TestActionsSortedByTime(t *testing.T) {
	s, err := Parse([]byte(`
name: order
frame_interval: 1s
timers:
  - name: a
    duration: 10s
actions:
  - at: 2s
    timer: a
    op: set-duration
    duration: 4s
  - at: 0s
    timer: a
    op: start
  - at: 2s
    timer: a
    op: set-loop
    loop: true
`))
	require.NoError(t, err)
	in, err := s.Build(timer.NewScheduler(timer.SchedulerConfig{}))
	require.NoError(t, err)
	a, _ := in.Timer("a")

	in.Advance(3 * time.Second)
	assert.Equal(t, 4*time.Second, a.Duration())
	assert.True(t, a.Loop())
	assert.Equal(t, 3*time.Second, a.Elapsed())
	assert.Equal(t, "order", in.Scenario().Name)
	assert.Len(t, s.Actions, 3, "build does not reorder the scenario itself")
	assert.Equal(t, OpSetDuration, s.Actions[0].Op)
}

func TestAdvanceShortensLastFrame(t *testing.T) {
	in := buildRespawn(t)
	respawn, _ := in.Timer("respawn")

	frames := 0
	respawn.ProgressChanged().Subscribe(func(float64) { frames++ })

	in.Advance(250 * time.Millisecond)
	assert.Equal(t, 3, frames)
	assert.Equal(t, 250*time.Millisecond, in.Now())
	assert.Equal(t, 250*time.Millisecond, respawn.Elapsed())
}

func TestDoneWithOnlyLoopTimers(t *testing.T) {
	s, err := Parse([]byte("name: x\ntimers:\n  - name: a\n    duration: 1s\n    loop: true\n    autostart: true\n"))
	require.NoError(t, err)
	in, err := s.Build(timer.NewScheduler(timer.SchedulerConfig{}))
	require.NoError(t, err)

	assert.False(t, in.Done(), "not started yet")
	in.Tick(time.Millisecond)
	assert.True(t, in.Done())
}

func TestInstanceDrivenByFrameLoop(t *testing.T) {
	in := buildRespawn(t)
	d := frameloop.New(in, frameloop.Config{Interval: in.Scenario().Interval()})

	for !in.Done() {
		require.NoError(t, d.Step(d.Interval()))
	}

	assert.Equal(t, uint64(41), d.Frames())
	assert.Equal(t, in.Now(), d.SimTime())
}
