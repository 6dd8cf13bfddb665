// Package log provides structured trace logging for frametick schedulers.
//
// This package defines the Logger interface and Event types for capturing
// timer lifecycle, progress and tick events. It is separate from operational
// logging (slog) - trace capture provides a complete machine-readable record
// of what a scheduler did, frame by frame.
//
// # Basic Usage
//
// Applications configure tracing by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Trace = log.NewSlogAdapter(slog.Default())
//
//	// For later analysis: write to binary file
//	cfg.Trace, _ = log.NewFileLogger("/var/log/frametick/run.ftlog")
//
//	// Both: use MultiLogger
//	cfg.Trace = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
//   - Lifecycle: a timer changed state (StateChangeEvent)
//   - Progress: a running timer was advanced (ProgressEvent)
//   - Tick: the scheduler completed one frame (TickEvent)
//   - Error: a host contract was violated and corrected (ErrorEventData)
//
// # File Format
//
// Log files use CBOR encoding with .ftlog extension. The frametick-log CLI
// tool provides viewing, filtering, and export capabilities.
package log
