package notify

import (
	"context"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

// JournalSubscriberName is the name of the JournalSubscriber.
const JournalSubscriberName = "journal"

// Journal is an append-only store of serialized lifecycle events.
type Journal interface {
	Append(ctx context.Context, event shell.StorableEvent) error
}

// JournalSubscriber appends every lifecycle event to a Journal.
type JournalSubscriber struct {
	journal Journal
}

// NewJournalSubscriber creates a JournalSubscriber.
func NewJournalSubscriber(journal Journal) (*JournalSubscriber, error) {
	if journal == nil {
		return nil, shell.ErrNilDependency
	}

	return &JournalSubscriber{journal: journal}, nil
}

// Name implements shell.Subscriber.
func (s *JournalSubscriber) Name() string {
	return JournalSubscriberName
}

// Handle implements shell.Subscriber.
func (s *JournalSubscriber) Handle(ctx context.Context, event core.DomainEvent) error {
	storableEvent, err := storableEventOf(event)
	if err != nil {
		return shell.Permanent(err)
	}

	return s.journal.Append(ctx, storableEvent)
}
