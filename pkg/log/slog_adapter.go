package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful for development when you want to see timer events in the console.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger
// at Debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter that logs at the given level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("scheduler_id", event.SchedulerID),
		slog.Uint64("frame", event.Frame),
		slog.String("category", event.Category.String()),
	}

	if event.TimerID != "" {
		attrs = append(attrs, slog.String("timer_id", event.TimerID))
	}
	if event.TimerName != "" {
		attrs = append(attrs, slog.String("timer", event.TimerName))
	}

	switch {
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("trigger", event.StateChange.Trigger.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
			slog.Duration("elapsed", event.StateChange.Elapsed),
		)
	case event.Progress != nil:
		attrs = append(attrs,
			slog.Duration("delta", event.Progress.Delta),
			slog.Duration("elapsed", event.Progress.Elapsed),
			slog.Duration("duration", event.Progress.Duration),
			slog.Float64("progress", event.Progress.Progress),
		)
	case event.Tick != nil:
		attrs = append(attrs,
			slog.Duration("delta", event.Tick.Delta),
			slog.Int("registered", event.Tick.Registered),
			slog.Int("advanced", event.Tick.Advanced),
		)
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), a.level, "trace", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
