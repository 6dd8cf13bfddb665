package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	event := Event{
		Timestamp:   time.Now(),
		SchedulerID: "sched",
		Category:    CategoryLifecycle,
	}
	logger.Log(event)

	event.StateChange = &StateChangeEvent{Trigger: TriggerStart, NewState: "RUNNING"}
	logger.Log(event)

	event.StateChange = nil
	event.Progress = &ProgressEvent{Delta: time.Second, Progress: 0.5}
	logger.Log(event)

	event.Progress = nil
	event.Tick = &TickEvent{Delta: time.Second}
	logger.Log(event)

	event.Tick = nil
	event.Error = &ErrorEventData{Message: "negative delta"}
	logger.Log(event)
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
}
