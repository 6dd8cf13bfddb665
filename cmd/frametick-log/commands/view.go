// Package commands implements the frametick-log CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/frametick/frametick-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	TimerName string
	Category  *log.Category
	Trigger   *log.Trigger
}

func (f ViewFilter) logFilter() log.Filter {
	return log.Filter{
		TimerName: f.TimerName,
		Category:  f.Category,
		Trigger:   f.Trigger,
	}
}

const timestampLayout = "2006-01-02T15:04:05.000000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [sched:id] #frame CATEGORY label
	ts := event.Timestamp.UTC().Format(timestampLayout)

	var label string
	switch {
	case event.StateChange != nil:
		label = event.StateChange.Trigger.String()
	case event.Progress != nil:
		label = "Progress"
	case event.Tick != nil:
		label = "Tick"
	case event.Error != nil:
		label = "Error"
	default:
		label = "Unknown"
	}

	fmt.Fprintf(w, "%s [sched:%s] #%d %s %s", ts, shortenID(event.SchedulerID), event.Frame, event.Category.String(), label)
	if event.TimerID != "" {
		fmt.Fprintf(w, " %s", timerLabel(event))
	}
	fmt.Fprintln(w)

	switch {
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Progress != nil:
		formatProgressDetails(w, event.Progress)
	case event.Tick != nil:
		formatTickDetails(w, event.Tick)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of an ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// timerLabel returns "name(id)" or just the shortened ID for unnamed timers.
func timerLabel(event log.Event) string {
	if event.TimerName == "" {
		return shortenID(event.TimerID)
	}
	return fmt.Sprintf("%s(%s)", event.TimerName, shortenID(event.TimerID))
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	fmt.Fprintf(w, "  Elapsed: %s\n", formatDuration(sc.Elapsed))
}

func formatProgressDetails(w io.Writer, p *log.ProgressEvent) {
	fmt.Fprintf(w, "  Delta: %s  Elapsed: %s / %s  (%.1f%%)\n",
		formatDuration(p.Delta), formatDuration(p.Elapsed), formatDuration(p.Duration), p.Progress*100)
}

func formatTickDetails(w io.Writer, t *log.TickEvent) {
	fmt.Fprintf(w, "  Delta: %s  Advanced: %d/%d", formatDuration(t.Delta), t.Advanced, t.Registered)
	if t.Took > 0 {
		fmt.Fprintf(w, "  Took: %s", formatDuration(t.Took))
	}
	fmt.Fprintln(w)
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "-" + formatDuration(-d)
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	c, ok := log.ParseCategory(s)
	if !ok {
		return 0, fmt.Errorf("invalid category: %s (must be lifecycle, progress, tick, or error)", s)
	}
	return c, nil
}

// ParseTriggerFlag parses a trigger string from command-line flag (case-insensitive).
func ParseTriggerFlag(s string) (log.Trigger, error) {
	t, ok := log.ParseTrigger(s)
	if !ok {
		return 0, fmt.Errorf("invalid trigger: %s (must be start, stop, cancel, pause, resume, complete, or loop)", s)
	}
	return t, nil
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(output, event)
	}

	return nil
}
