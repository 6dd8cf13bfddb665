package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/frametick/frametick-go/pkg/log"
)

func TestStatsCountsByCategory(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 4",
		"Schedulers:   1",
		"LIFECYCLE:   2",
		"PROGRESS:    1",
		"TICK:        1",
		"START:       1",
		"COMPLETE:    1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "ERROR:") {
		t.Error("categories with no events should be omitted")
	}
}

func TestStatsTimers(t *testing.T) {
	events := sampleEvents()
	events = append(events,
		log.Event{
			Timestamp:   testTS.Add(time.Second),
			Category:    log.CategoryLifecycle,
			TimerID:     "timer-cccc-dddd",
			TimerName:   "blink",
			StateChange: &log.StateChangeEvent{Trigger: log.TriggerLoop, OldState: "RUNNING", NewState: "RUNNING"},
		},
		log.Event{
			Timestamp:   testTS.Add(2 * time.Second),
			Category:    log.CategoryLifecycle,
			TimerID:     "timer-cccc-dddd",
			TimerName:   "blink",
			StateChange: &log.StateChangeEvent{Trigger: log.TriggerCancel, OldState: "RUNNING", NewState: "IDLE"},
		},
	)
	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "Timers: 2") {
		t.Errorf("expected 2 timers, got:\n%s", output)
	}
	respawn := strings.Index(output, "[respawn timer-aa] 3 events, last state COMPLETED")
	blink := strings.Index(output, "[blink timer-cc] 2 events, last state IDLE")
	if respawn < 0 || blink < 0 {
		t.Fatalf("missing timer lines:\n%s", output)
	}
	if respawn > blink {
		t.Error("timers should be sorted by first appearance")
	}
	if !strings.Contains(output, "starts=0 completions=0 loops=1 cancels=1") {
		t.Errorf("expected blink counters, got:\n%s", output)
	}
}

func TestStatsTicksAndErrors(t *testing.T) {
	events := sampleEvents()
	events = append(events, log.Event{
		Timestamp: testTS.Add(time.Second),
		Category:  log.CategoryError,
		Error:     &log.ErrorEventData{Message: "negative tick delta clamped to zero"},
	})
	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "Frames: 1 (simulated 1s, max delta 1.000s, slowest 20.000us)") {
		t.Errorf("expected frame summary, got:\n%s", output)
	}
	if !strings.Contains(output, "Errors: 1") {
		t.Errorf("expected error count, got:\n%s", output)
	}
}

func TestStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("expected zero events, got:\n%s", buf.String())
	}
}
