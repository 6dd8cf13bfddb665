package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func newJSONAdapter(buf *bytes.Buffer, level slog.Level) *SlogAdapter {
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level})
	return NewSlogAdapter(slog.New(handler))
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	if buf.Len() == 0 {
		t.Fatal("no output produced")
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	return entry
}

func TestSlogAdapterLogsStateChange(t *testing.T) {
	var buf bytes.Buffer
	adapter := newJSONAdapter(&buf, slog.LevelDebug)

	adapter.Log(Event{
		Timestamp:   time.Now(),
		SchedulerID: "sched-1",
		Frame:       3,
		Category:    CategoryLifecycle,
		TimerID:     "timer-1",
		TimerName:   "countdown",
		StateChange: &StateChangeEvent{
			Trigger:  TriggerPause,
			OldState: "RUNNING",
			NewState: "PAUSED",
		},
	})

	entry := decodeLogLine(t, &buf)
	if entry["timer"] != "countdown" {
		t.Errorf("timer: got %v, want countdown", entry["timer"])
	}
	if entry["trigger"] != "PAUSE" {
		t.Errorf("trigger: got %v, want PAUSE", entry["trigger"])
	}
	if entry["new_state"] != "PAUSED" {
		t.Errorf("new_state: got %v, want PAUSED", entry["new_state"])
	}
	if entry["frame"] != float64(3) {
		t.Errorf("frame: got %v, want 3", entry["frame"])
	}
}

func TestSlogAdapterLogsTick(t *testing.T) {
	var buf bytes.Buffer
	adapter := newJSONAdapter(&buf, slog.LevelDebug)

	adapter.Log(Event{
		Category: CategoryTick,
		Tick:     &TickEvent{Delta: time.Second, Registered: 4, Advanced: 3},
	})

	entry := decodeLogLine(t, &buf)
	if entry["advanced"] != float64(3) {
		t.Errorf("advanced: got %v, want 3", entry["advanced"])
	}
	if _, ok := entry["timer"]; ok {
		t.Error("scheduler-level event should not carry a timer attribute")
	}
}

func TestSlogAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	adapter := newJSONAdapter(&buf, slog.LevelInfo)

	adapter.Log(Event{Category: CategoryTick, Tick: &TickEvent{}})
	if buf.Len() != 0 {
		t.Errorf("debug-level event written with info handler: %s", buf.String())
	}

	adapter.WithLevel(slog.LevelInfo).Log(Event{Category: CategoryTick, Tick: &TickEvent{}})
	if buf.Len() == 0 {
		t.Error("info-level event was dropped")
	}
}
