package timer

import (
	"time"

	"github.com/frametick/frametick-go/pkg/log"
)

func (s *Scheduler) newEvent(category log.Category, t *Timer) log.Event {
	e := log.Event{
		Timestamp:   s.now(),
		SchedulerID: s.id,
		Frame:       s.frame,
		Category:    category,
	}
	if t != nil {
		e.TimerID = t.id
		e.TimerName = t.name
	}
	return e
}

func (s *Scheduler) traceState(t *Timer, trigger log.Trigger, old State) {
	if s.trace == nil {
		return
	}
	e := s.newEvent(log.CategoryLifecycle, t)
	e.StateChange = &log.StateChangeEvent{
		Trigger:  trigger,
		OldState: old.String(),
		NewState: t.state.String(),
		Elapsed:  t.elapsed,
	}
	s.trace.Log(e)
}

func (s *Scheduler) traceProgress(t *Timer, delta time.Duration, progress float64) {
	if s.trace == nil || !s.progressTrace {
		return
	}
	e := s.newEvent(log.CategoryProgress, t)
	e.Progress = &log.ProgressEvent{
		Delta:    delta,
		Elapsed:  t.elapsed,
		Duration: t.duration,
		Progress: progress,
	}
	s.trace.Log(e)
}

func (s *Scheduler) traceTick(delta time.Duration, registered, advanced int, began time.Time) {
	if s.trace == nil {
		return
	}
	e := s.newEvent(log.CategoryTick, nil)
	e.Tick = &log.TickEvent{
		Delta:      delta,
		Registered: registered,
		Advanced:   advanced,
		Took:       e.Timestamp.Sub(began),
	}
	s.trace.Log(e)
}

func (s *Scheduler) traceError(msg, context string) {
	if s.trace == nil {
		return
	}
	e := s.newEvent(log.CategoryError, nil)
	e.Error = &log.ErrorEventData{Message: msg, Context: context}
	s.trace.Log(e)
}
