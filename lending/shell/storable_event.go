package shell

import (
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

var (
	// ErrMappingToStorableEventFailed is returned when a domain event can not be serialized.
	ErrMappingToStorableEventFailed = errors.New("mapping to storable event failed")

	// ErrMappingToDomainEventFailed is returned when a stored payload can not be deserialized.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrUnknownEventType is returned for stored events of a type this service does not know.
	ErrUnknownEventType = errors.New("unknown event type")
)

// EventMetadata contains event tracking information.
type EventMetadata struct {
	MessageID     string
	CausationID   string
	CorrelationID string
}

// BuildEventMetadata creates EventMetadata from UUID values.
func BuildEventMetadata(messageID uuid.UUID, causationID uuid.UUID, correlationID uuid.UUID) EventMetadata {
	return EventMetadata{
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}

// MessageIDFor returns the message id an event is delivered under. Reminder notices get an id derived from
// their type, loan and calendar day, so a repeated notice on the same day carries the same id.
// All other events get a random id.
func MessageIDFor(event core.DomainEvent) uuid.UUID {
	switch event.IsEventType() {
	case core.LoanDueSoonEventType, core.LoanOverdueEventType:
		name := event.IsEventType() + "/" + event.HasLoanID() + "/" +
			core.ToCalendarDay(event.HasOccurredAt()).Format(time.DateOnly)

		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))

	default:
		return uuid.New()
	}
}

// StorableEvent is the serialized form of a lifecycle event, as written to the journal and the message bus.
type StorableEvent struct {
	EventID      string
	EventType    core.EventTypeString
	LoanID       core.LoanIDString
	OccurredAt   time.Time
	PayloadJSON  []byte
	MetadataJSON []byte
}

// StorableEvents is a slice of StorableEvent.
type StorableEvents = []StorableEvent

// StorableEventFrom serializes a DomainEvent and its EventMetadata.
func StorableEventFrom(event core.DomainEvent, metadata EventMetadata) (StorableEvent, error) {
	payloadJSON, err := jsoniter.ConfigFastest.Marshal(event)
	if err != nil {
		return StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	metadataJSON, err := jsoniter.ConfigFastest.Marshal(metadata)
	if err != nil {
		return StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	return StorableEvent{
		EventID:      metadata.MessageID,
		EventType:    event.IsEventType(),
		LoanID:       event.HasLoanID(),
		OccurredAt:   core.ToOccurredAt(event.HasOccurredAt()),
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// DomainEventFrom deserializes a StorableEvent back into its DomainEvent.
func DomainEventFrom(storableEvent StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.LoanIssuedEventType:
		return unmarshalPayload[core.LoanIssued](storableEvent)

	case core.LoanReturnedEventType:
		return unmarshalPayload[core.LoanReturned](storableEvent)

	case core.LoanRenewedEventType:
		return unmarshalPayload[core.LoanRenewed](storableEvent)

	case core.LoanCancelledEventType:
		return unmarshalPayload[core.LoanCancelled](storableEvent)

	case core.LoanDueSoonEventType:
		return unmarshalPayload[core.LoanDueSoon](storableEvent)

	case core.LoanOverdueEventType:
		return unmarshalPayload[core.LoanOverdue](storableEvent)

	default:
		return nil, errors.Join(ErrMappingToDomainEventFailed, ErrUnknownEventType, errors.New(storableEvent.EventType))
	}
}

// DomainEventsFrom deserializes a slice of StorableEvents, failing on the first broken one.
func DomainEventsFrom(storableEvents StorableEvents) (core.DomainEvents, error) {
	events := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		event, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		events = append(events, event)
	}

	return events, nil
}

// EventMetadataFrom extracts EventMetadata from a StorableEvent.
func EventMetadataFrom(storableEvent StorableEvent) (EventMetadata, error) {
	metadata := new(EventMetadata)
	if err := jsoniter.ConfigFastest.Unmarshal(storableEvent.MetadataJSON, metadata); err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *metadata, nil
}

func unmarshalPayload[E core.DomainEvent](storableEvent StorableEvent) (core.DomainEvent, error) {
	event := new(E)
	if err := jsoniter.ConfigFastest.Unmarshal(storableEvent.PayloadJSON, event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *event, nil
}
