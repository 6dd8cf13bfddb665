package commands

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/frametick/frametick-go/pkg/log"
)

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return exportCSV(reader, w)
	}
	return exportJSONL(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

var csvHeader = []string{
	"timestamp", "scheduler_id", "frame", "category", "timer_id", "timer_name",
	"trigger", "old_state", "new_state", "elapsed_ns", "delta_ns", "progress",
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		if err := cw.Write(csvRow(event)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return cw.Error()
}

func csvRow(event log.Event) []string {
	var trigger, oldState, newState, elapsed, delta, progress string

	switch {
	case event.StateChange != nil:
		sc := event.StateChange
		trigger = sc.Trigger.String()
		oldState = sc.OldState
		newState = sc.NewState
		elapsed = strconv.FormatInt(int64(sc.Elapsed), 10)
	case event.Progress != nil:
		p := event.Progress
		elapsed = strconv.FormatInt(int64(p.Elapsed), 10)
		delta = strconv.FormatInt(int64(p.Delta), 10)
		progress = strconv.FormatFloat(p.Progress, 'f', 6, 64)
	case event.Tick != nil:
		delta = strconv.FormatInt(int64(event.Tick.Delta), 10)
	}

	return []string{
		event.Timestamp.UTC().Format(timestampLayout),
		event.SchedulerID,
		strconv.FormatUint(event.Frame, 10),
		event.Category.String(),
		event.TimerID,
		event.TimerName,
		trigger,
		oldState,
		newState,
		elapsed,
		delta,
		progress,
	}
}
