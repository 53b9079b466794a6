package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type counter struct {
	mu        sync.Mutex
	total     int
	available int
}

func (c *counter) snapshot(itemID ItemIDString) Snapshot {
	return Snapshot{
		ItemID:          itemID,
		TotalCopies:     c.total,
		AvailableCopies: c.available,
	}
}

// Ledger keeps one atomic counter of total and available copies per item.
type Ledger struct {
	mu               sync.RWMutex
	counters         map[ItemIDString]*counter
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
}

// NewLedger creates an empty Ledger with optional configuration.
func NewLedger(options ...Option) (*Ledger, error) {
	l := &Ledger{
		counters: make(map[ItemIDString]*counter),
	}

	for _, option := range options {
		if err := option(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Track starts tracking an item with the given counts. If the item is already tracked, its current
// counter wins and is returned unchanged: the ledger, not the caller, is the authority on availability.
func (l *Ledger) Track(ctx context.Context, itemID ItemIDString, total int, available int) (Snapshot, error) {
	if itemID == "" {
		return Snapshot{}, ErrEmptyItemID
	}

	if total < 1 || available < 0 || available > total {
		l.recordOperation(ctx, operationTrack, statusInvalid)

		return Snapshot{}, errors.Join(
			ErrInvalidCopies,
			fmt.Errorf("item %s: total %d, available %d", itemID, total, available),
		)
	}

	l.mu.Lock()
	c, exists := l.counters[itemID]
	if !exists {
		c = &counter{total: total, available: available}
		l.counters[itemID] = c
	}
	tracked := len(l.counters)
	l.mu.Unlock()

	c.mu.Lock()
	snapshot := c.snapshot(itemID)
	c.mu.Unlock()

	if !exists {
		l.recordOperation(ctx, operationTrack, statusSuccess)
		l.recordTrackedItems(ctx, tracked)
		l.logChange(ctx, operationTrack, snapshot)
	}

	return snapshot, nil
}

// IsTracked reports whether the ledger knows the item.
func (l *Ledger) IsTracked(itemID ItemIDString) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.counters[itemID]

	return ok
}

// Snapshot returns the current counts of an item.
func (l *Ledger) Snapshot(itemID ItemIDString) (Snapshot, error) {
	c, err := l.counterFor(itemID)
	if err != nil {
		return Snapshot{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot(itemID), nil
}

// Reserve atomically takes one copy. It fails with ErrNoCapacity, without mutation, when none is available.
func (l *Ledger) Reserve(ctx context.Context, itemID ItemIDString) (Snapshot, error) {
	c, err := l.counterFor(itemID)
	if err != nil {
		l.recordOperation(ctx, operationReserve, statusNotTracked)
		return Snapshot{}, err
	}

	c.mu.Lock()
	if c.available == 0 {
		snapshot := c.snapshot(itemID)
		c.mu.Unlock()

		l.recordOperation(ctx, operationReserve, statusNoCapacity)

		return snapshot, ErrNoCapacity
	}

	c.available--
	snapshot := c.snapshot(itemID)
	c.mu.Unlock()

	l.recordOperation(ctx, operationReserve, statusSuccess)
	l.logChange(ctx, operationReserve, snapshot)

	return snapshot, nil
}

// Release atomically gives one copy back. Releasing when all copies are available is a programming
// error and fails with ErrInvariantViolation without mutation.
func (l *Ledger) Release(ctx context.Context, itemID ItemIDString) (Snapshot, error) {
	c, err := l.counterFor(itemID)
	if err != nil {
		l.recordOperation(ctx, operationRelease, statusNotTracked)
		return Snapshot{}, err
	}

	c.mu.Lock()
	if c.available >= c.total {
		snapshot := c.snapshot(itemID)
		c.mu.Unlock()

		l.recordOperation(ctx, operationRelease, statusInvariantViolation)
		l.logInvariantViolation(ctx, snapshot)

		return snapshot, errors.Join(
			ErrInvariantViolation,
			fmt.Errorf("item %s: %d of %d copies already available", itemID, snapshot.AvailableCopies, snapshot.TotalCopies),
		)
	}

	c.available++
	snapshot := c.snapshot(itemID)
	c.mu.Unlock()

	l.recordOperation(ctx, operationRelease, statusSuccess)
	l.logChange(ctx, operationRelease, snapshot)

	return snapshot, nil
}

// Restock adds new copies to an item, increasing both total and available counts.
func (l *Ledger) Restock(ctx context.Context, itemID ItemIDString, additional int) (Snapshot, error) {
	if additional < 1 {
		l.recordOperation(ctx, operationRestock, statusInvalid)
		return Snapshot{}, errors.Join(ErrInvalidCopies, fmt.Errorf("restock by %d", additional))
	}

	c, err := l.counterFor(itemID)
	if err != nil {
		l.recordOperation(ctx, operationRestock, statusNotTracked)
		return Snapshot{}, err
	}

	c.mu.Lock()
	c.total += additional
	c.available += additional
	snapshot := c.snapshot(itemID)
	c.mu.Unlock()

	l.recordOperation(ctx, operationRestock, statusSuccess)
	l.logChange(ctx, operationRestock, snapshot)

	return snapshot, nil
}

func (l *Ledger) counterFor(itemID ItemIDString) (*counter, error) {
	if itemID == "" {
		return nil, ErrEmptyItemID
	}

	l.mu.RLock()
	c, ok := l.counters[itemID]
	l.mu.RUnlock()

	if !ok {
		return nil, errors.Join(ErrItemNotTracked, fmt.Errorf("item %s", itemID))
	}

	return c, nil
}

/*** Observability helper methods ***/

func (l *Ledger) logChange(ctx context.Context, operation string, snapshot Snapshot) {
	args := []any{
		logAttrItemID, snapshot.ItemID,
		logAttrTotal, snapshot.TotalCopies,
		logAttrAvailable, snapshot.AvailableCopies,
	}

	if l.contextualLogger != nil {
		l.contextualLogger.DebugContext(ctx, logMsgOperation+operation, args...)
		return
	}

	if l.logger != nil {
		l.logger.Debug(logMsgOperation+operation, args...)
	}
}

func (l *Ledger) logInvariantViolation(ctx context.Context, snapshot Snapshot) {
	args := []any{
		logAttrItemID, snapshot.ItemID,
		logAttrTotal, snapshot.TotalCopies,
		logAttrAvailable, snapshot.AvailableCopies,
		logAttrError, ErrInvariantViolation.Error(),
	}

	if l.contextualLogger != nil {
		l.contextualLogger.ErrorContext(ctx, logMsgInvariantViolation, args...)
		return
	}

	if l.logger != nil {
		l.logger.Error(logMsgInvariantViolation, args...)
	}
}

func (l *Ledger) recordOperation(ctx context.Context, operation string, status string) {
	if l.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelOperation: operation,
		labelStatus:    status,
	}

	if contextualCollector, ok := l.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, OperationsMetric, labels)
		return
	}

	l.metricsCollector.IncrementCounter(OperationsMetric, labels)
}

func (l *Ledger) recordTrackedItems(ctx context.Context, tracked int) {
	if l.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := l.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, TrackedItemsMetric, float64(tracked), nil)
		return
	}

	l.metricsCollector.RecordValue(TrackedItemsMetric, float64(tracked), nil)
}
