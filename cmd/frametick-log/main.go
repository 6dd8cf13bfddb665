// Command frametick-log is a tool for viewing and analyzing frametick trace files.
//
// Trace files are written by a scheduler configured with a log.FileLogger, for
// example by running frametick-run or frametick-shell with the -trace flag.
//
// Usage:
//
//	frametick-log <command> [flags] <file.ftlog>
//
// Commands:
//
//	view     View trace file in human-readable format
//	export   Export trace file to JSON or CSV format
//	filter   Filter trace file and write to new file
//	stats    Show statistics about the trace file
//
// Examples:
//
//	# View all events
//	frametick-log view run.ftlog
//
//	# View lifecycle events of one timer
//	frametick-log view --timer respawn --category lifecycle run.ftlog
//
//	# Export to JSONL
//	frametick-log export --format jsonl run.ftlog
//
//	# Keep only completions and save to new file
//	frametick-log filter --trigger complete -o done.ftlog run.ftlog
//
//	# Show statistics
//	frametick-log stats run.ftlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/frametick/frametick-go/cmd/frametick-log/commands"
)

const usage = `frametick-log - Frametick Trace Analyzer

Usage:
  frametick-log <command> [flags] <file.ftlog>

Commands:
  view     View trace file in human-readable format
  export   Export trace file to JSON or CSV format
  filter   Filter trace file and write to new file
  stats    Show statistics about the trace file

Use "frametick-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// requirePath returns the single positional argument or exits with usage.
func requirePath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `frametick-log view - View trace file in human-readable format

Usage:
  frametick-log view [flags] <file.ftlog>

Flags:
`)
		fs.PrintDefaults()
	}

	timerName := fs.String("timer", "", "Filter by timer name")
	category := fs.String("category", "", "Filter by category (lifecycle, progress, tick, error)")
	trigger := fs.String("trigger", "", "Filter by lifecycle trigger (start, stop, cancel, pause, resume, complete, loop)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	filter := commands.ViewFilter{TimerName: *timerName}

	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fatal(err)
		}
		filter.Category = &c
	}

	if *trigger != "" {
		t, err := commands.ParseTriggerFlag(*trigger)
		if err != nil {
			fatal(err)
		}
		filter.Trigger = &t
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `frametick-log export - Export trace file to JSON or CSV format

Usage:
  frametick-log export [flags] <file.ftlog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fatal(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `frametick-log filter - Filter trace file and write to new file

Usage:
  frametick-log filter [flags] <file.ftlog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	schedulerID := fs.String("scheduler-id", "", "Filter by scheduler ID")
	timerID := fs.String("timer-id", "", "Filter by timer ID")
	timerName := fs.String("timer", "", "Filter by timer name")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	category := fs.String("category", "", "Filter by category (lifecycle, progress, tick, error)")
	trigger := fs.String("trigger", "", "Filter by lifecycle trigger")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	opts := commands.FilterOptions{
		Output:      *output,
		SchedulerID: *schedulerID,
		TimerID:     *timerID,
		TimerName:   *timerName,
		TimeStart:   *timeStart,
		TimeEnd:     *timeEnd,
		Category:    *category,
		Trigger:     *trigger,
	}

	count, err := commands.RunFilter(path, opts)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Filtered %d events to %s\n", count, *output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `frametick-log stats - Show statistics about the trace file

Usage:
  frametick-log stats <file.ftlog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fatal(err)
	}
}
