package commands

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/frametick/frametick-go/pkg/log"
)

// createTestLogFile creates a temporary trace file with the given events.
func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ftlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

var testTS = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

// sampleEvents returns a short run of one timer: start, one progress, one tick, completion.
func sampleEvents() []log.Event {
	return []log.Event{
		{
			Timestamp:   testTS,
			SchedulerID: "sched-1111-2222",
			Frame:       0,
			Category:    log.CategoryLifecycle,
			TimerID:     "timer-aaaa-bbbb",
			TimerName:   "respawn",
			StateChange: &log.StateChangeEvent{Trigger: log.TriggerStart, OldState: "IDLE", NewState: "RUNNING"},
		},
		{
			Timestamp:   testTS.Add(16 * time.Millisecond),
			SchedulerID: "sched-1111-2222",
			Frame:       1,
			Category:    log.CategoryProgress,
			TimerID:     "timer-aaaa-bbbb",
			TimerName:   "respawn",
			Progress: &log.ProgressEvent{
				Delta:    time.Second,
				Elapsed:  time.Second,
				Duration: 2 * time.Second,
				Progress: 0.5,
			},
		},
		{
			Timestamp:   testTS.Add(16 * time.Millisecond),
			SchedulerID: "sched-1111-2222",
			Frame:       1,
			Category:    log.CategoryTick,
			Tick:        &log.TickEvent{Delta: time.Second, Registered: 1, Advanced: 1, Took: 20 * time.Microsecond},
		},
		{
			Timestamp:   testTS.Add(32 * time.Millisecond),
			SchedulerID: "sched-1111-2222",
			Frame:       2,
			Category:    log.CategoryLifecycle,
			TimerID:     "timer-aaaa-bbbb",
			TimerName:   "respawn",
			StateChange: &log.StateChangeEvent{
				Trigger:  log.TriggerComplete,
				OldState: "RUNNING",
				NewState: "COMPLETED",
				Elapsed:  2 * time.Second,
			},
		},
	}
}

func TestExportToJSONL(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	outPath := filepath.Join(t.TempDir(), "out.jsonl")
	if err := RunExport(path, "jsonl", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 0 is not valid JSON: %v", err)
	}
	if first["TimerName"] != "respawn" {
		t.Errorf("expected TimerName respawn, got %v", first["TimerName"])
	}
	if _, ok := first["StateChange"]; !ok {
		t.Error("expected StateChange payload in first line")
	}
}

func TestExportToCSV(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	outPath := filepath.Join(t.TempDir(), "out.csv")
	if err := RunExport(path, "csv", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected header + 4 rows, got %d", len(records))
	}

	if strings.Join(records[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("unexpected header: %v", records[0])
	}

	start := records[1]
	if start[3] != "LIFECYCLE" || start[5] != "respawn" || start[6] != "START" || start[8] != "RUNNING" {
		t.Errorf("unexpected start row: %v", start)
	}

	progress := records[2]
	if progress[10] != "1000000000" || progress[11] != "0.500000" {
		t.Errorf("unexpected progress row: %v", progress)
	}

	tick := records[3]
	if tick[2] != "1" || tick[3] != "TICK" || tick[4] != "" {
		t.Errorf("unexpected tick row: %v", tick)
	}

	complete := records[4]
	if complete[6] != "COMPLETE" || complete[9] != "2000000000" {
		t.Errorf("unexpected completion row: %v", complete)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	err := RunExport(path, "xml", "")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}

func TestExportMissingFile(t *testing.T) {
	err := RunExport(filepath.Join(t.TempDir(), "missing.ftlog"), "jsonl", "")
	if err == nil {
		t.Error("expected error for missing file")
	}
}
