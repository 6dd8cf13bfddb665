package commands

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frametick/frametick-go/pkg/log"
)

func readEvents(t *testing.T, path string) []log.Event {
	t.Helper()
	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer reader.Close()

	var events []log.Event
	for {
		e, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return events
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		events = append(events, e)
	}
}

func TestRunFilterByTrigger(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "filtered.ftlog")

	count, err := RunFilter(path, FilterOptions{Output: out, Trigger: "complete"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 event, got %d", count)
	}

	events := readEvents(t, out)
	if len(events) != 1 || events[0].StateChange.Trigger != log.TriggerComplete {
		t.Errorf("unexpected filtered events: %+v", events)
	}
}

func TestRunFilterByTimerAndCategory(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "filtered.ftlog")

	count, err := RunFilter(path, FilterOptions{Output: out, TimerID: "timer-aaaa-bbbb", Category: "lifecycle"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 events, got %d", count)
	}
}

func TestRunFilterByTime(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "filtered.ftlog")

	// Truncated to whole seconds, so everything falls after the start.
	count, err := RunFilter(path, FilterOptions{Output: out, TimeStart: "2026-01-28T10:15:32Z", TimeEnd: "2026-01-28T10:15:33Z"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 4 {
		t.Errorf("expected 4 events, got %d", count)
	}
}

func TestRunFilterInvalidOptions(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "filtered.ftlog")

	tests := []struct {
		name string
		opts FilterOptions
		want string
	}{
		{"bad time-start", FilterOptions{Output: out, TimeStart: "yesterday"}, "invalid time-start"},
		{"bad time-end", FilterOptions{Output: out, TimeEnd: "tomorrow"}, "invalid time-end"},
		{"bad category", FilterOptions{Output: out, Category: "message"}, "invalid category"},
		{"bad trigger", FilterOptions{Output: out, Trigger: "explode"}, "invalid trigger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RunFilter(path, tt.opts)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
