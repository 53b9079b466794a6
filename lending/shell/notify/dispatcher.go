package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

const logMsgEventDelivered = "event delivered"

var (
	// ErrDispatcherClosed is returned by Publish after Close was called.
	ErrDispatcherClosed = errors.New("dispatcher is closed")

	// ErrNilSubscriber is returned when a nil subscriber is registered.
	ErrNilSubscriber = errors.New("subscriber must not be nil")

	// ErrDuplicateSubscriber is returned when two subscribers share a name.
	ErrDuplicateSubscriber = errors.New("duplicate subscriber name")
)

// Dispatcher is an unbounded outbound event queue with independent subscribers.
type Dispatcher struct {
	subscribers []shell.Subscriber

	mu     sync.Mutex
	queue  []core.DomainEvent
	closed bool
	wake   chan struct{}

	retryOptions     []shell.RetryOption
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector
}

// Option defines a functional option for configuring a Dispatcher.
type Option func(*Dispatcher) error

// NewDispatcher creates a Dispatcher fanning out to the given subscribers.
func NewDispatcher(subscribers []shell.Subscriber, options ...Option) (*Dispatcher, error) {
	seen := make(map[string]struct{}, len(subscribers))

	for _, subscriber := range subscribers {
		if subscriber == nil {
			return nil, ErrNilSubscriber
		}

		if _, ok := seen[subscriber.Name()]; ok {
			return nil, errors.Join(ErrDuplicateSubscriber, fmt.Errorf("subscriber %q", subscriber.Name()))
		}

		seen[subscriber.Name()] = struct{}{}
	}

	d := &Dispatcher{
		subscribers: append([]shell.Subscriber(nil), subscribers...),
		wake:        make(chan struct{}, 1),
	}

	for _, option := range options {
		if err := option(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// WithRetryOptions configures the retry behavior of every delivery.
func WithRetryOptions(options ...shell.RetryOption) Option {
	return func(d *Dispatcher) error {
		d.retryOptions = append(d.retryOptions, options...)
		return nil
	}
}

// WithLogger sets the logger for the Dispatcher.
func WithLogger(logger shell.Logger) Option {
	return func(d *Dispatcher) error {
		d.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Dispatcher.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(d *Dispatcher) error {
		d.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Dispatcher.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(d *Dispatcher) error {
		d.metricsCollector = collector
		return nil
	}
}

// Publish implements shell.NotificationSink. It never blocks on subscriber I/O.
func (d *Dispatcher) Publish(ctx context.Context, event core.DomainEvent) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}

	d.queue = append(d.queue, event)
	depth := len(d.queue)
	d.mu.Unlock()

	d.signal()
	shell.RecordValue(ctx, d.metricsCollector, shell.QueueDepthMetric, float64(depth), nil)

	return nil
}

// Pending returns the number of events waiting for delivery.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.queue)
}

// Close stops accepting events. Run returns after the remaining queue was delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.signal()
}

// Run delivers queued events until Close was called and the queue is empty, or ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		batch, closed := d.take()

		for i, event := range batch {
			if ctx.Err() != nil {
				d.requeue(batch[i:])
				return ctx.Err()
			}

			d.deliver(ctx, event)
		}

		if len(batch) > 0 {
			shell.RecordValue(ctx, d.metricsCollector, shell.QueueDepthMetric, float64(d.Pending()), nil)
			continue
		}

		if closed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.wake:
		}
	}
}

func (d *Dispatcher) take() ([]core.DomainEvent, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	batch := d.queue
	d.queue = nil

	return batch, d.closed
}

func (d *Dispatcher) requeue(events []core.DomainEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.queue = append(append([]core.DomainEvent(nil), events...), d.queue...)
}

func (d *Dispatcher) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// deliver hands one event to all subscribers concurrently and waits for all of them.
func (d *Dispatcher) deliver(ctx context.Context, event core.DomainEvent) {
	var group errgroup.Group

	for _, subscriber := range d.subscribers {
		group.Go(func() error {
			d.deliverTo(ctx, subscriber, event)
			return nil
		})
	}

	_ = group.Wait()
}

func (d *Dispatcher) deliverTo(ctx context.Context, subscriber shell.Subscriber, event core.DomainEvent) {
	options := d.retryOptions
	if d.metricsCollector != nil {
		options = append(append([]shell.RetryOption(nil), options...), shell.WithRetryMetrics(d.metricsCollector, subscriber.Name()))
	}

	retryMetrics, err := shell.RetryWithExponentialBackoff(
		ctx,
		func(ctx context.Context) error {
			return subscriber.Handle(ctx, event)
		},
		options...,
	)

	status := shell.StatusSuccess
	if err != nil {
		status = deliveryStatus(err)
		d.logDeliveryFailed(ctx, subscriber, event, retryMetrics, err)
	} else {
		d.logDelivered(ctx, subscriber, event, retryMetrics)
	}

	shell.IncrementCounter(ctx, d.metricsCollector, shell.DeliveriesMetric, map[string]string{
		shell.LogAttrSubscriber: subscriber.Name(),
		shell.LogAttrStatus:     status,
	})
}

func deliveryStatus(err error) string {
	switch {
	case shell.IsCancellationError(err):
		return shell.StatusCanceled
	case shell.IsTimeoutError(err):
		return shell.StatusTimeout
	default:
		return shell.StatusDropped
	}
}

/*** Observability helper methods ***/

func (d *Dispatcher) logDelivered(
	ctx context.Context,
	subscriber shell.Subscriber,
	event core.DomainEvent,
	retryMetrics shell.RetryMetrics,
) {
	shell.LogDebug(ctx, d.logger, d.contextualLogger, logMsgEventDelivered,
		shell.LogAttrSubscriber, subscriber.Name(),
		shell.LogAttrEventType, event.IsEventType(),
		shell.LogAttrLoanID, event.HasLoanID(),
		shell.LogAttrAttempts, retryMetrics.Attempts,
	)
}

func (d *Dispatcher) logDeliveryFailed(
	ctx context.Context,
	subscriber shell.Subscriber,
	event core.DomainEvent,
	retryMetrics shell.RetryMetrics,
	err error,
) {
	shell.LogError(ctx, d.logger, d.contextualLogger, shell.LogMsgDeliveryFailed,
		shell.LogAttrSubscriber, subscriber.Name(),
		shell.LogAttrEventType, event.IsEventType(),
		shell.LogAttrLoanID, event.HasLoanID(),
		shell.LogAttrAttempts, retryMetrics.Attempts,
		shell.LogAttrError, err.Error(),
	)
}
