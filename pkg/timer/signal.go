package timer

// SubscriptionID identifies a handler subscribed to a Signal.
type SubscriptionID uint64

type signalHandler[F any] struct {
	id SubscriptionID
	fn F
}

// Signal is an ordered multi-subscriber broadcast.
//
// Handlers fire synchronously in subscription order. A dispatch works on the
// handler list as it was when the dispatch began: handlers added during a
// dispatch first fire on the next one, and handlers removed during a
// dispatch still fire on the current one.
type Signal[F any] struct {
	nextID   SubscriptionID
	handlers []signalHandler[F]
}

// Subscribe appends fn to the handler list. fn must not be nil.
func (s *Signal[F]) Subscribe(fn F) SubscriptionID {
	s.nextID++
	s.handlers = append(s.handlers, signalHandler[F]{id: s.nextID, fn: fn})
	return s.nextID
}

// Unsubscribe removes the handler with the given id.
// Returns false if no such handler is subscribed.
func (s *Signal[F]) Unsubscribe(id SubscriptionID) bool {
	for i, h := range s.handlers {
		if h.id != id {
			continue
		}
		// Copy so a dispatch in progress keeps its view of the list.
		next := make([]signalHandler[F], 0, len(s.handlers)-1)
		next = append(next, s.handlers[:i]...)
		next = append(next, s.handlers[i+1:]...)
		s.handlers = next
		return true
	}
	return false
}

// Len returns the number of subscribed handlers.
func (s *Signal[F]) Len() int {
	return len(s.handlers)
}

// Clear removes all handlers.
func (s *Signal[F]) Clear() {
	s.handlers = nil
}

// emit fires every handler. The range expression is evaluated once, so
// appends and Unsubscribe calls made by a handler do not affect the
// current dispatch.
func emit(s *Signal[func()]) {
	for _, h := range s.handlers {
		h.fn()
	}
}

func emitProgress(s *Signal[func(float64)], p float64) {
	for _, h := range s.handlers {
		h.fn(p)
	}
}
