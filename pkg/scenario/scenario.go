package scenario

import (
	"fmt"
	"time"

	"github.com/frametick/frametick-go/pkg/timer"
	"github.com/frametick/frametick-go/pkg/version"
)

// DefaultFrameInterval is used when a scenario does not set frame_interval.
const DefaultFrameInterval = time.Second / 60

// Op is a timer operation applied by an action.
type Op string

// Supported operations.
const (
	OpStart       Op = "start"
	OpStop        Op = "stop"
	OpCancel      Op = "cancel"
	OpRestart     Op = "restart"
	OpPause       Op = "pause"
	OpResume      Op = "resume"
	OpSetDuration Op = "set-duration"
	OpSetLoop     Op = "set-loop"
)

// Valid reports whether o is a known operation.
func (o Op) Valid() bool {
	switch o {
	case OpStart, OpStop, OpCancel, OpRestart, OpPause, OpResume, OpSetDuration, OpSetLoop:
		return true
	}
	return false
}

// Scenario is a parsed scenario file.
type Scenario struct {
	// Name identifies the scenario.
	Name string `yaml:"name"`

	// Version is the file format version. Empty means version.Current.
	Version string `yaml:"version,omitempty"`

	// Description is free-form text.
	Description string `yaml:"description,omitempty"`

	// FrameInterval is the simulated frame length. Zero means DefaultFrameInterval.
	FrameInterval time.Duration `yaml:"frame_interval,omitempty"`

	// Timers declares the timers, in registration order.
	Timers []TimerSpec `yaml:"timers"`

	// Actions are applied in order of At; ties keep file order.
	Actions []Action `yaml:"actions,omitempty"`
}

// TimerSpec declares one timer.
type TimerSpec struct {
	timer.Config `yaml:",inline"`

	// Autostart starts the timer on the first frame.
	Autostart bool `yaml:"autostart,omitempty"`
}

// Action applies an operation to a timer at a point in scenario time.
type Action struct {
	At    time.Duration `yaml:"at"`
	Timer string        `yaml:"timer"`
	Op    Op            `yaml:"op"`

	// Duration is the argument of set-duration.
	Duration time.Duration `yaml:"duration,omitempty"`

	// Loop is the argument of set-loop.
	Loop *bool `yaml:"loop,omitempty"`
}

// Interval returns the effective frame interval.
func (s *Scenario) Interval() time.Duration {
	if s.FrameInterval > 0 {
		return s.FrameInterval
	}
	return DefaultFrameInterval
}

// Validate checks the scenario for structural errors.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return &LoadError{Message: "scenario name is required"}
	}
	if s.Version != "" {
		if err := version.Check(s.Version); err != nil {
			return &LoadError{Message: "unsupported format version", Cause: err}
		}
	}
	if s.FrameInterval < 0 {
		return &LoadError{Message: fmt.Sprintf("frame_interval must not be negative, got %v", s.FrameInterval)}
	}
	if len(s.Timers) == 0 {
		return &LoadError{Message: "scenario must declare at least one timer"}
	}

	names := make(map[string]struct{}, len(s.Timers))
	for i, ts := range s.Timers {
		if ts.Name == "" {
			return &LoadError{Message: fmt.Sprintf("timer %d: name is required", i)}
		}
		if _, dup := names[ts.Name]; dup {
			return &LoadError{Message: fmt.Sprintf("timer %q declared twice", ts.Name)}
		}
		names[ts.Name] = struct{}{}

		if err := ts.Validate(); err != nil {
			return &LoadError{
				Message: fmt.Sprintf("timer %q: invalid duration %v", ts.Name, ts.Duration),
				Cause:   err,
			}
		}
	}

	for i, a := range s.Actions {
		if err := a.validate(names); err != nil {
			return &LoadError{Message: fmt.Sprintf("action %d: %s", i, err)}
		}
	}
	return nil
}

func (a Action) validate(timers map[string]struct{}) error {
	if a.At < 0 {
		return fmt.Errorf("at must not be negative, got %v", a.At)
	}
	if _, ok := timers[a.Timer]; !ok {
		return fmt.Errorf("unknown timer %q", a.Timer)
	}
	if !a.Op.Valid() {
		return fmt.Errorf("unknown op %q", a.Op)
	}
	switch a.Op {
	case OpSetDuration:
		if a.Duration <= 0 {
			return fmt.Errorf("%s requires a positive duration", a.Op)
		}
	case OpSetLoop:
		if a.Loop == nil {
			return fmt.Errorf("%s requires loop", a.Op)
		}
	}
	return nil
}
