package log

import (
	"strings"
	"time"
)

// Event represents a trace event emitted by a scheduler or one of its timers.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SchedulerID identifies the scheduler instance (UUID).
	SchedulerID string `cbor:"2,keyasint"`

	// Frame is the scheduler tick counter at the time of the event.
	Frame uint64 `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// TimerID identifies the timer (UUID). Empty for scheduler-level events.
	TimerID string `cbor:"5,keyasint,omitempty"`

	// TimerName is the caller-supplied timer name.
	TimerName string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	StateChange *StateChangeEvent `cbor:"10,keyasint,omitempty"`
	Progress    *ProgressEvent    `cbor:"11,keyasint,omitempty"`
	Tick        *TickEvent        `cbor:"12,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryLifecycle indicates a timer state change.
	CategoryLifecycle Category = 0
	// CategoryProgress indicates a progress update on a running timer.
	CategoryProgress Category = 1
	// CategoryTick indicates the end of a scheduler frame.
	CategoryTick Category = 2
	// CategoryError indicates a corrected host error.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryLifecycle:
		return "LIFECYCLE"
	case CategoryProgress:
		return "PROGRESS"
	case CategoryTick:
		return "TICK"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory returns the category for a case-insensitive name.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToUpper(s) {
	case "LIFECYCLE":
		return CategoryLifecycle, true
	case "PROGRESS":
		return CategoryProgress, true
	case "TICK":
		return CategoryTick, true
	case "ERROR":
		return CategoryError, true
	default:
		return 0, false
	}
}

// Trigger names the operation that caused a state change.
type Trigger uint8

const (
	TriggerStart    Trigger = 0
	TriggerStop     Trigger = 1
	TriggerCancel   Trigger = 2
	TriggerPause    Trigger = 3
	TriggerResume   Trigger = 4
	TriggerComplete Trigger = 5
	// TriggerLoop marks a loop timer wrapping around to zero.
	TriggerLoop Trigger = 6
)

// String returns the trigger name.
func (t Trigger) String() string {
	switch t {
	case TriggerStart:
		return "START"
	case TriggerStop:
		return "STOP"
	case TriggerCancel:
		return "CANCEL"
	case TriggerPause:
		return "PAUSE"
	case TriggerResume:
		return "RESUME"
	case TriggerComplete:
		return "COMPLETE"
	case TriggerLoop:
		return "LOOP"
	default:
		return "UNKNOWN"
	}
}

// ParseTrigger returns the trigger for a case-insensitive name.
func ParseTrigger(s string) (Trigger, bool) {
	for t := TriggerStart; t <= TriggerLoop; t++ {
		if strings.EqualFold(s, t.String()) {
			return t, true
		}
	}
	return 0, false
}

// StateChangeEvent captures a timer lifecycle transition.
type StateChangeEvent struct {
	// Trigger is the operation that caused the change.
	Trigger Trigger `cbor:"1,keyasint"`

	// OldState is the previous state.
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Elapsed is the timer's elapsed time after the transition.
	Elapsed time.Duration `cbor:"4,keyasint"`
}

// ProgressEvent captures one advance of a running timer.
type ProgressEvent struct {
	// Delta is the time added by this advance.
	Delta time.Duration `cbor:"1,keyasint"`

	// Elapsed is the accumulated time after the advance (before any clamp or reset).
	Elapsed time.Duration `cbor:"2,keyasint"`

	// Duration is the configured timer duration.
	Duration time.Duration `cbor:"3,keyasint"`

	// Progress is elapsed/duration clamped to [0,1].
	Progress float64 `cbor:"4,keyasint"`
}

// TickEvent summarizes one scheduler frame.
type TickEvent struct {
	// Delta is the (possibly clamped) frame delta.
	Delta time.Duration `cbor:"1,keyasint"`

	// Registered is the size of the active set when the frame started.
	Registered int `cbor:"2,keyasint"`

	// Advanced is how many timers were advanced during the frame.
	Advanced int `cbor:"3,keyasint"`

	// Took is how long the frame took to process.
	Took time.Duration `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures a host contract violation that was corrected.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
