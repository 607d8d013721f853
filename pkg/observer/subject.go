// Package observer provides a minimal generic publish/subscribe subject.
package observer

import (
	"context"
	"sync"
)

// Observer receives published events of type T.
type Observer[T any] interface {
	Notify(context.Context, T) error
}

// Func adapts a plain function into an Observer.
type Func[T any] func(context.Context, T) error

// Notify calls the wrapped function.
func (f Func[T]) Notify(ctx context.Context, evt T) error {
	if f == nil {
		return nil
	}
	return f(ctx, evt)
}

// Publisher is the sending half of a Subject.
type Publisher[T any] interface {
	Publish(context.Context, T)
}

// Subject fans events out to registered observers. Observer errors are
// routed to the error handler and never stop the fan-out.
type Subject[T any] struct {
	mu        sync.RWMutex
	observers []Observer[T]
	onError   func(error)
}

// NewSubject returns a Subject with the given initial observers.
func NewSubject[T any](observers ...Observer[T]) *Subject[T] {
	return &Subject[T]{observers: append([]Observer[T](nil), observers...)}
}

// Attach registers more observers.
func (s *Subject[T]) Attach(observers ...Observer[T]) {
	s.mu.Lock()
	s.observers = append(s.observers, observers...)
	s.mu.Unlock()
}

// SetErrorHandler installs a callback invoked for each observer failure.
func (s *Subject[T]) SetErrorHandler(fn func(error)) {
	s.mu.Lock()
	s.onError = fn
	s.mu.Unlock()
}

// Publish delivers evt to every observer in registration order.
func (s *Subject[T]) Publish(ctx context.Context, evt T) {
	if s == nil {
		return
	}
	s.mu.RLock()
	observers := append([]Observer[T](nil), s.observers...)
	onError := s.onError
	s.mu.RUnlock()

	for _, obs := range observers {
		if obs == nil {
			continue
		}
		if err := obs.Notify(ctx, evt); err != nil && onError != nil {
			onError(err)
		}
	}
}
