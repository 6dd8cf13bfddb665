// Command frametick-run plays scenario files.
//
// A scenario declares timers and a script of actions against them. The run
// command plays it in real time with one progress bar per timer, or as a
// fast simulation with --simulate.
//
// Usage:
//
//	frametick-run run [flags] <scenario.yaml>
//	frametick-run validate <scenario.yaml>
//
// Examples:
//
//	# Watch a scenario play out at its own frame rate
//	frametick-run run respawn.yaml
//
//	# Simulate in 1ms steps and keep a trace for frametick-log
//	frametick-run run --simulate --step 1ms --trace respawn.ftlog respawn.yaml
package main

import (
	"fmt"
	"os"
)

var appVersion = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
