// Package interactive provides the interactive console for frametick-shell.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/afero"

	"github.com/frametick/frametick-go/pkg/timer"
)

// Loop runs functions on the goroutine that owns the scheduler.
// *frameloop.Driver implements it.
type Loop interface {
	Do(ctx context.Context, fn func()) error
}

// Stats reports frame loop counters for the status command.
type Stats interface {
	Frames() uint64
	SimTime() time.Duration
}

// Config configures a Shell.
type Config struct {
	Scheduler *timer.Scheduler
	Loop      Loop
	Stats     Stats

	// Fs is used by save and load. Defaults to the OS filesystem.
	Fs afero.Fs
}

// Shell handles interactive mode for frametick-shell.
type Shell struct {
	sched *timer.Scheduler
	loop  Loop
	stats Stats
	fs    afero.Fs
	rl    *readline.Instance
	out   io.Writer

	// Owned by the loop goroutine.
	timers map[string]*timer.Timer
	order  []string
}

// ReadlineConfig returns the prompt configuration for the shell.
func ReadlineConfig() *readline.Config {
	return &readline.Config{
		Prompt:          "timer> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	}
}

// New creates a new interactive shell reading from rl. Create rl with
// ReadlineConfig; write log output to rl.Stdout() so it does not interfere
// with the prompt.
func New(rl *readline.Instance, cfg Config) *Shell {
	s := newShell(cfg, rl.Stdout())
	s.rl = rl
	return s
}

func newShell(cfg Config, out io.Writer) *Shell {
	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Shell{
		sched:  cfg.Scheduler,
		loop:   cfg.Loop,
		stats:  cfg.Stats,
		fs:     fs,
		out:    out,
		timers: make(map[string]*timer.Timer),
	}
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("new"),
		readline.PcItem("start"),
		readline.PcItem("stop"),
		readline.PcItem("cancel"),
		readline.PcItem("restart"),
		readline.PcItem("pause"),
		readline.PcItem("resume"),
		readline.PcItem("duration"),
		readline.PcItem("loop", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("remove"),
		readline.PcItem("list"),
		readline.PcItem("status"),
		readline.PcItem("save"),
		readline.PcItem("load"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if quit := s.Execute(ctx, line); quit {
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line. It reports whether the shell should exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "new", "n":
		s.cmdNew(ctx, args)

	case "start", "stop", "cancel", "restart", "pause", "resume":
		s.cmdControl(ctx, cmd, args)

	case "duration", "d":
		s.cmdDuration(ctx, args)

	case "loop":
		s.cmdLoop(ctx, args)

	case "remove", "rm":
		s.cmdRemove(ctx, args)

	case "list", "ls":
		s.cmdList(ctx)

	case "status":
		s.cmdStatus(ctx)

	case "save":
		s.cmdSave(ctx, args)

	case "load":
		s.cmdLoad(ctx, args)

	case "quit", "exit", "q":
		return true

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Frametick Shell Commands:
  Timers:
    new <name> <duration> [loop]  - Create a timer (e.g. new respawn 3s)
    remove <name>                 - Cancel and forget a timer
    list                          - List timers

  Control:
    start <name>                  - Start (elapsed time carries over)
    stop <name>                   - Stop, keep elapsed time and registration
    cancel <name>                 - Reset to zero and unregister
    restart <name>                - Cancel then start
    pause <name>                  - Pause a running timer
    resume <name>                 - Resume a paused timer
    duration <name> <duration>    - Change the duration
    loop <name> on|off            - Change the loop flag

  Files:
    save <file>                   - Save timer configurations (CBOR)
    load <file>                   - Create timers from a saved file

  General:
    status                        - Show scheduler status
    help                          - Show this help
    quit                          - Exit`)
}

// onLoop runs fn on the loop and reports a failure to the user.
func (s *Shell) onLoop(ctx context.Context, fn func()) bool {
	if err := s.loop.Do(ctx, fn); err != nil {
		fmt.Fprintf(s.out, "Frame loop unavailable: %v\n", err)
		return false
	}
	return true
}

// lookup must run on the loop.
func (s *Shell) lookup(name string) (*timer.Timer, bool) {
	t, ok := s.timers[name]
	if !ok {
		fmt.Fprintf(s.out, "No timer named %q\n", name)
	}
	return t, ok
}

// add must run on the loop.
func (s *Shell) add(t *timer.Timer) {
	name := t.Name()
	s.timers[name] = t
	s.order = append(s.order, name)

	announce := func(event string) func() {
		return func() { fmt.Fprintf(s.out, "[%s] %s\n", name, event) }
	}
	t.Started().Subscribe(announce("started"))
	t.Stopped().Subscribe(announce("stopped"))
	t.Completed().Subscribe(announce("completed"))
	t.Paused().Subscribe(announce("paused"))
	t.Resumed().Subscribe(announce("resumed"))
}

// remove must run on the loop.
func (s *Shell) remove(name string) {
	delete(s.timers, name)
	if i := slices.Index(s.order, name); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}
