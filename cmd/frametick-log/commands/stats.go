package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/frametick/frametick-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	EventsByTrigger  map[log.Trigger]int
	Schedulers       map[string]bool
	Timers           map[string]*TimerStats
	Errors           int
	Ticks            TickStats
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// TimerStats holds statistics for a single timer.
type TimerStats struct {
	Name        string
	FirstSeen   time.Time
	LastSeen    time.Time
	Events      int
	Starts      int
	Completions int
	Loops       int
	Cancels     int
	LastState   string
}

// TickStats summarizes TICK events.
type TickStats struct {
	Frames   int
	SimTime  time.Duration
	MaxDelta time.Duration
	MaxTook  time.Duration
}

func newStats() *Stats {
	return &Stats{
		EventsByCategory: make(map[log.Category]int),
		EventsByTrigger:  make(map[log.Trigger]int),
		Schedulers:       make(map[string]bool),
		Timers:           make(map[string]*TimerStats),
	}
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++
	if event.SchedulerID != "" {
		s.Schedulers[event.SchedulerID] = true
	}

	// Track time range
	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if event.Tick != nil {
		s.Ticks.Frames++
		s.Ticks.SimTime += event.Tick.Delta
		s.Ticks.MaxDelta = max(s.Ticks.MaxDelta, event.Tick.Delta)
		s.Ticks.MaxTook = max(s.Ticks.MaxTook, event.Tick.Took)
	}

	if event.Error != nil {
		s.Errors++
	}

	if event.TimerID == "" {
		return
	}

	ts, ok := s.Timers[event.TimerID]
	if !ok {
		ts = &TimerStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
		}
		s.Timers[event.TimerID] = ts
	}
	ts.Events++
	if event.Timestamp.After(ts.LastSeen) {
		ts.LastSeen = event.Timestamp
	}
	if event.TimerName != "" {
		ts.Name = event.TimerName
	}

	if sc := event.StateChange; sc != nil {
		s.EventsByTrigger[sc.Trigger]++
		ts.LastState = sc.NewState
		switch sc.Trigger {
		case log.TriggerStart:
			ts.Starts++
		case log.TriggerComplete:
			ts.Completions++
		case log.TriggerLoop:
			ts.Loops++
		case log.TriggerCancel:
			ts.Cancels++
		}
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := newStats()
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Frametick Trace Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Schedulers:   %d\n", len(stats.Schedulers))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryLifecycle, log.CategoryProgress, log.CategoryTick, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.EventsByTrigger) > 0 {
		fmt.Fprintln(w, "Lifecycle Triggers:")
		for tr := log.TriggerStart; tr <= log.TriggerLoop; tr++ {
			if count := stats.EventsByTrigger[tr]; count > 0 {
				fmt.Fprintf(w, "  %-12s %d\n", tr.String()+":", count)
			}
		}
		fmt.Fprintln(w)
	}

	if stats.Ticks.Frames > 0 {
		fmt.Fprintf(w, "Frames: %d (simulated %s, max delta %s",
			stats.Ticks.Frames, stats.Ticks.SimTime, formatDuration(stats.Ticks.MaxDelta))
		if stats.Ticks.MaxTook > 0 {
			fmt.Fprintf(w, ", slowest %s", formatDuration(stats.Ticks.MaxTook))
		}
		fmt.Fprintln(w, ")")
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Timers: %d\n", len(stats.Timers))
	if len(stats.Timers) > 0 {
		// Sort by first seen time
		type timerInfo struct {
			id    string
			stats *TimerStats
		}
		timers := make([]timerInfo, 0, len(stats.Timers))
		for id, ts := range stats.Timers {
			timers = append(timers, timerInfo{id, ts})
		}
		sort.Slice(timers, func(i, j int) bool {
			if timers[i].stats.FirstSeen.Equal(timers[j].stats.FirstSeen) {
				return timers[i].id < timers[j].id
			}
			return timers[i].stats.FirstSeen.Before(timers[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, t := range timers {
			label := shortenID(t.id)
			if t.stats.Name != "" {
				label = t.stats.Name + " " + label
			}
			fmt.Fprintf(w, "  [%s] %d events", label, t.stats.Events)
			if t.stats.LastState != "" {
				fmt.Fprintf(w, ", last state %s", t.stats.LastState)
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "           starts=%d completions=%d loops=%d cancels=%d\n",
				t.stats.Starts, t.stats.Completions, t.stats.Loops, t.stats.Cancels)
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
