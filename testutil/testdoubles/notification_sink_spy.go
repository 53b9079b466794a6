package testdoubles

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// NotificationSinkSpy captures published lifecycle events. It can be told to fail every Publish call.
type NotificationSinkSpy struct {
	mu     sync.Mutex
	events []core.DomainEvent
	err    error
}

// NewNotificationSinkSpy creates a new NotificationSinkSpy instance.
func NewNotificationSinkSpy() *NotificationSinkSpy {
	return &NotificationSinkSpy{}
}

// FailWith makes all subsequent Publish calls return err. Pass nil to recover.
func (s *NotificationSinkSpy) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
}

// Publish implements shell.NotificationSink.
func (s *NotificationSinkSpy) Publish(_ context.Context, event core.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	s.events = append(s.events, event)

	return nil
}

// Events returns a copy of all published events in publication order.
func (s *NotificationSinkSpy) Events() []core.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]core.DomainEvent(nil), s.events...)
}

// EventTypes returns the types of all published events in publication order.
func (s *NotificationSinkSpy) EventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	types := make([]string, 0, len(s.events))
	for _, event := range s.events {
		types = append(types, event.IsEventType())
	}

	return types
}

// Reset clears all captured events.
func (s *NotificationSinkSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = nil
}
