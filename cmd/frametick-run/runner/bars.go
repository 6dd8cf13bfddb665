package runner

import (
	"io"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/frametick/frametick-go/pkg/timer"
)

// barTotal is the bar resolution; progress 1.0 maps to barTotal.
const barTotal = 1000

const barRefreshRate = 30 * time.Millisecond

// Bars draws one progress bar per timer, fed by the timer's signals.
//
// Signal handlers run on the frame loop goroutine; Close must be called from
// that goroutine too, or after the loop has stopped.
type Bars struct {
	p     *mpb.Progress
	style mpb.BarFillerBuilder
	bars  map[*timer.Timer]*timerBar
}

type timerBar struct {
	bar     *mpb.Bar
	trigger bool
	done    bool
}

// NewBars creates a bar container writing to w.
func NewBars(w io.Writer) *Bars {
	return &Bars{
		p:     mpb.New(mpb.WithWidth(64), mpb.WithOutput(w), mpb.WithRefreshRate(barRefreshRate)),
		style: mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟"),
		bars:  make(map[*timer.Timer]*timerBar),
	}
}

// Attach subscribes to t. A bar appears when t starts; a restarted timer
// whose bar already finished gets a fresh one.
func (b *Bars) Attach(t *timer.Timer) {
	t.Started().Subscribe(func() { b.open(t) })

	t.ProgressChanged().Subscribe(func(p float64) {
		if tb := b.bars[t]; tb != nil && !tb.done {
			tb.bar.SetCurrent(int64(p * barTotal))
		}
	})

	t.Completed().Subscribe(func() {
		tb := b.bars[t]
		if tb == nil || tb.done || t.Loop() {
			return
		}
		// The timer may have been a loop timer when its bar was opened.
		tb.bar.SetCurrent(barTotal)
		if !tb.trigger {
			tb.bar.EnableTriggerComplete()
		}
		tb.done = true
	})

	t.Stopped().Subscribe(func() {
		if tb := b.bars[t]; tb != nil && !tb.done {
			tb.bar.Abort(false)
			tb.done = true
		}
	})
}

// Len returns the number of timers that have been given a bar.
func (b *Bars) Len() int { return len(b.bars) }

func (b *Bars) open(t *timer.Timer) {
	if tb := b.bars[t]; tb != nil && !tb.done {
		return
	}

	name := t.Name()
	if name == "" {
		name = t.ID()[:8]
	}
	if t.Loop() {
		name += " (loop)"
	}

	bar := b.p.New(0,
		b.style,
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.OnAbort(
				decor.OnComplete(decor.Percentage(decor.WC{W: 5}), "done"),
				"stopped",
			),
		),
		mpb.AppendDecorators(
			decor.Name(t.Duration().String()),
		),
	)
	bar.SetTotal(barTotal, false)
	tb := &timerBar{bar: bar, trigger: !t.Loop()}
	if tb.trigger {
		bar.EnableTriggerComplete()
	}
	bar.SetCurrent(int64(t.Progress() * barTotal))

	b.bars[t] = tb
}

// Close aborts every unfinished bar, loop bars included, and waits for the
// final render.
func (b *Bars) Close() {
	for _, tb := range b.bars {
		if !tb.done {
			tb.bar.Abort(false)
			tb.done = true
		}
	}
	b.p.Wait()
}
