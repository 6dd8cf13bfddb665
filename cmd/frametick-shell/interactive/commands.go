package interactive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/frametick/frametick-go/pkg/timer"
)

// cmdNew handles the new command.
func (s *Shell) cmdNew(ctx context.Context, args []string) {
	if len(args) < 2 || len(args) > 3 {
		fmt.Fprintln(s.out, "Usage: new <name> <duration> [loop]")
		return
	}

	name := args[0]
	d, err := time.ParseDuration(args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid duration: %v\n", err)
		return
	}
	loop := len(args) == 3 && strings.EqualFold(args[2], "loop")
	if len(args) == 3 && !loop {
		fmt.Fprintf(s.out, "Unknown option: %s\n", args[2])
		return
	}

	s.onLoop(ctx, func() {
		if _, exists := s.timers[name]; exists {
			fmt.Fprintf(s.out, "Timer %q already exists\n", name)
			return
		}
		t, err := timer.New(s.sched, d, timer.WithName(name), timer.WithLoop(loop))
		if err != nil {
			fmt.Fprintf(s.out, "Cannot create timer: %v\n", err)
			return
		}
		s.add(t)
		fmt.Fprintf(s.out, "Created %s\n", describe(t))
	})
}

// cmdControl handles start, stop, cancel, restart, pause and resume.
func (s *Shell) cmdControl(ctx context.Context, op string, args []string) {
	if len(args) != 1 {
		fmt.Fprintf(s.out, "Usage: %s <name>\n", op)
		return
	}

	s.onLoop(ctx, func() {
		t, ok := s.lookup(args[0])
		if !ok {
			return
		}
		before := t.State()

		switch op {
		case "start":
			t.Start()
		case "stop":
			t.Stop()
		case "cancel":
			t.Cancel()
		case "restart":
			t.Restart()
		case "pause":
			t.Pause()
		case "resume":
			t.Resume()
		}

		// Invalid transitions are silent in the timer; say so here.
		if op != "cancel" && op != "restart" && t.State() == before {
			fmt.Fprintf(s.out, "%s: nothing to do (timer is %s)\n", op, before)
		}
	})
}

// cmdDuration handles the duration command.
func (s *Shell) cmdDuration(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: duration <name> <duration>")
		return
	}
	d, err := time.ParseDuration(args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid duration: %v\n", err)
		return
	}
	if d <= 0 {
		fmt.Fprintln(s.out, "Duration must be positive")
		return
	}

	s.onLoop(ctx, func() {
		if t, ok := s.lookup(args[0]); ok {
			t.SetDuration(d)
			fmt.Fprintln(s.out, describe(t))
		}
	})
}

// cmdLoop handles the loop command.
func (s *Shell) cmdLoop(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: loop <name> on|off")
		return
	}

	var loop bool
	switch strings.ToLower(args[1]) {
	case "on", "true", "yes":
		loop = true
	case "off", "false", "no":
		loop = false
	default:
		fmt.Fprintf(s.out, "Invalid loop value: %s (use on or off)\n", args[1])
		return
	}

	s.onLoop(ctx, func() {
		if t, ok := s.lookup(args[0]); ok {
			t.SetLoop(loop)
			fmt.Fprintln(s.out, describe(t))
		}
	})
}

// cmdRemove handles the remove command.
func (s *Shell) cmdRemove(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: remove <name>")
		return
	}

	s.onLoop(ctx, func() {
		if t, ok := s.lookup(args[0]); ok {
			t.Cancel()
			s.remove(args[0])
			fmt.Fprintf(s.out, "Removed %s\n", args[0])
		}
	})
}

// cmdList handles the list command.
func (s *Shell) cmdList(ctx context.Context) {
	s.onLoop(ctx, func() {
		if len(s.order) == 0 {
			fmt.Fprintln(s.out, "No timers")
			return
		}

		fmt.Fprintf(s.out, "\nTimers (%d):\n", len(s.order))
		fmt.Fprintln(s.out, "-------------------------------------------")
		for _, name := range s.order {
			fmt.Fprintf(s.out, "  %s\n", describe(s.timers[name]))
		}
	})
}

// cmdStatus handles the status command.
func (s *Shell) cmdStatus(ctx context.Context) {
	s.onLoop(ctx, func() {
		fmt.Fprintf(s.out, "Scheduler: %s\n", s.sched.ID())
		fmt.Fprintf(s.out, "  Frame:      %d\n", s.sched.Frame())
		if s.stats != nil {
			fmt.Fprintf(s.out, "  Sim time:   %s\n", s.stats.SimTime().Round(time.Millisecond))
		}
		fmt.Fprintf(s.out, "  Timers:     %d\n", len(s.order))
		fmt.Fprintf(s.out, "  Registered: %d\n", s.sched.Len())
	})
}

// cmdSave handles the save command.
func (s *Shell) cmdSave(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: save <file>")
		return
	}

	var cfgs []timer.Config
	if !s.onLoop(ctx, func() {
		for _, name := range s.order {
			cfgs = append(cfgs, s.timers[name].Config())
		}
	}) {
		return
	}

	data, err := timer.EncodeConfigs(cfgs)
	if err != nil {
		fmt.Fprintf(s.out, "Encode failed: %v\n", err)
		return
	}
	if err := afero.WriteFile(s.fs, args[0], data, 0o644); err != nil {
		fmt.Fprintf(s.out, "Save failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Saved %d timer(s) to %s\n", len(cfgs), args[0])
}

// cmdLoad handles the load command.
func (s *Shell) cmdLoad(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: load <file>")
		return
	}

	data, err := afero.ReadFile(s.fs, args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Load failed: %v\n", err)
		return
	}
	cfgs, err := timer.DecodeConfigs(data)
	if err != nil {
		fmt.Fprintf(s.out, "Load failed: %v\n", err)
		return
	}

	s.onLoop(ctx, func() {
		created := 0
		for _, cfg := range cfgs {
			if _, exists := s.timers[cfg.Name]; exists || cfg.Name == "" {
				fmt.Fprintf(s.out, "Skipping %q: name empty or already in use\n", cfg.Name)
				continue
			}
			t, err := timer.NewFromConfig(s.sched, cfg)
			if err != nil {
				fmt.Fprintf(s.out, "Skipping %q: %v\n", cfg.Name, err)
				continue
			}
			s.add(t)
			created++
		}
		fmt.Fprintf(s.out, "Loaded %d timer(s) from %s\n", created, args[0])
	})
}

// describe renders one timer line. It must run on the loop.
func describe(t *timer.Timer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %-9s %s / %s (%3.0f%%)",
		t.Name(), t.State(), t.Elapsed().Round(time.Millisecond), t.Duration(), t.Progress()*100)
	if t.Loop() {
		b.WriteString(" loop")
	}
	return b.String()
}
