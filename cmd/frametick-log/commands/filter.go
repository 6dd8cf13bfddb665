package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/frametick/frametick-go/pkg/log"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output      string
	SchedulerID string
	TimerID     string
	TimerName   string
	TimeStart   string
	TimeEnd     string
	Category    string
	Trigger     string
}

func (o FilterOptions) logFilter() (log.Filter, error) {
	filter := log.Filter{
		SchedulerID: o.SchedulerID,
		TimerID:     o.TimerID,
		TimerName:   o.TimerName,
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	if o.Category != "" {
		c, err := ParseCategoryFlag(o.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}

	if o.Trigger != "" {
		t, err := ParseTriggerFlag(o.Trigger)
		if err != nil {
			return filter, err
		}
		filter.Trigger = &t
	}

	return filter, nil
}

// RunFilter filters the log file and writes matching events to a new file.
// It returns the number of events written.
func RunFilter(path string, opts FilterOptions) (int, error) {
	filter, err := opts.logFilter()
	if err != nil {
		return 0, err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Create file logger to write filtered events
	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return logger.Written(), fmt.Errorf("failed to read event: %w", err)
		}

		logger.Log(event)
	}

	return logger.Written(), nil
}
