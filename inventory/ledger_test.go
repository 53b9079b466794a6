package inventory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/AntonStoeckl/lending-circulation-go/inventory"
	"github.com/AntonStoeckl/lending-circulation-go/testutil/testdoubles"
)

var (
	_ inventory.ContextualLogger           = (*testdoubles.ContextualLoggerSpy)(nil)
	_ inventory.Logger                     = (*testdoubles.ContextualLoggerSpy)(nil)
	_ inventory.ContextualMetricsCollector = (*testdoubles.MetricsCollectorSpy)(nil)
)

func Test_Track_KeepsExistingCounter_WhenItemIsTrackedTwice(t *testing.T) {
	// arrange
	ctx := context.Background()
	ledger := givenLedger(t)
	_, err := ledger.Track(ctx, "item-1", 3, 1)
	require.NoError(t, err)

	// act
	snapshot, err := ledger.Track(ctx, "item-1", 5, 5)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, snapshot.TotalCopies)
	assert.Equal(t, 1, snapshot.AvailableCopies)
	assert.True(t, ledger.IsTracked("item-1"))
}

func Test_Track_Fails_WhenCountsAreInvalid(t *testing.T) {
	ctx := context.Background()
	ledger := givenLedger(t)

	testCases := []struct {
		name      string
		total     int
		available int
	}{
		{name: "no copies", total: 0, available: 0},
		{name: "negative available", total: 2, available: -1},
		{name: "available above total", total: 2, available: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Track(ctx, "item-x", tc.total, tc.available)

			assert.ErrorIs(t, err, inventory.ErrInvalidCopies)
			assert.False(t, ledger.IsTracked("item-x"))
		})
	}
}

func Test_Track_Fails_WhenItemIDIsEmpty(t *testing.T) {
	_, err := givenLedger(t).Track(context.Background(), "", 1, 1)

	assert.ErrorIs(t, err, inventory.ErrEmptyItemID)
}

func Test_Reserve_DecrementsAvailable(t *testing.T) {
	// arrange
	ctx := context.Background()
	ledger := givenLedgerWithItem(t, "item-1", 2, 2)

	// act
	snapshot, err := ledger.Reserve(ctx, "item-1")

	// assert
	require.NoError(t, err)
	assert.Equal(t, inventory.Snapshot{ItemID: "item-1", TotalCopies: 2, AvailableCopies: 1}, snapshot)
}

func Test_Reserve_Fails_WithoutMutation_WhenNoCopyIsAvailable(t *testing.T) {
	// arrange
	ctx := context.Background()
	ledger := givenLedgerWithItem(t, "item-1", 1, 0)

	// act
	_, err := ledger.Reserve(ctx, "item-1")

	// assert
	assert.ErrorIs(t, err, inventory.ErrNoCapacity)
	snapshot, snapErr := ledger.Snapshot("item-1")
	require.NoError(t, snapErr)
	assert.Equal(t, 0, snapshot.AvailableCopies)
}

func Test_Reserve_Fails_WhenItemIsNotTracked(t *testing.T) {
	_, err := givenLedger(t).Reserve(context.Background(), "unknown")

	assert.ErrorIs(t, err, inventory.ErrItemNotTracked)
}

func Test_Release_IncrementsAvailable(t *testing.T) {
	// arrange
	ctx := context.Background()
	ledger := givenLedgerWithItem(t, "item-1", 2, 0)

	// act
	snapshot, err := ledger.Release(ctx, "item-1")

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.AvailableCopies)
}

func Test_Release_ReportsInvariantViolation_WhenAllCopiesAreAvailable(t *testing.T) {
	// arrange
	ctx := context.Background()
	logger := testdoubles.NewContextualLoggerSpy(true)
	metrics := testdoubles.NewMetricsCollectorSpy(true)
	ledger, err := inventory.NewLedger(inventory.WithContextualLogger(logger), inventory.WithMetrics(metrics))
	require.NoError(t, err)
	_, err = ledger.Track(ctx, "item-1", 2, 2)
	require.NoError(t, err)

	// act
	_, err = ledger.Release(ctx, "item-1")

	// assert
	assert.ErrorIs(t, err, inventory.ErrInvariantViolation)
	snapshot, _ := ledger.Snapshot("item-1")
	assert.Equal(t, 2, snapshot.AvailableCopies, "release must never be clamped or applied")
	assert.True(t, logger.HasErrorLog("inventory invariant violation"))
	assert.Equal(t, 1, metrics.CountCounter(inventory.OperationsMetric, map[string]string{
		"operation": "release",
		"status":    "invariant_violation",
	}))
}

func Test_Restock_AddsToTotalAndAvailable(t *testing.T) {
	// arrange
	ctx := context.Background()
	ledger := givenLedgerWithItem(t, "item-1", 1, 0)

	// act
	snapshot, err := ledger.Restock(ctx, "item-1", 2)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, snapshot.TotalCopies)
	assert.Equal(t, 2, snapshot.AvailableCopies)
}

func Test_Restock_Fails_WhenAdditionalIsNotPositive(t *testing.T) {
	ledger := givenLedgerWithItem(t, "item-1", 1, 1)

	_, err := ledger.Restock(context.Background(), "item-1", 0)

	assert.ErrorIs(t, err, inventory.ErrInvalidCopies)
}

func Test_Reserve_GrantsExactlyAvailableCopies_WhenCalledConcurrently(t *testing.T) {
	// arrange
	ctx := context.Background()
	const copies = 3
	const contenders = 50
	ledger := givenLedgerWithItem(t, "item-1", copies, copies)

	var granted, refused atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	// act
	for range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := ledger.Reserve(ctx, "item-1"); err != nil {
				assert.ErrorIs(t, err, inventory.ErrNoCapacity)
				refused.Add(1)
				return
			}
			granted.Add(1)
		}()
	}
	close(start)
	wg.Wait()

	// assert
	assert.Equal(t, int32(copies), granted.Load())
	assert.Equal(t, int32(contenders-copies), refused.Load())
	snapshot, _ := ledger.Snapshot("item-1")
	assert.Equal(t, 0, snapshot.AvailableCopies)
}

func Test_Ledger_KeepsAvailableWithinBounds_ForAnySequenceOfOperations(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		total := rapid.IntRange(1, 5).Draw(rt, "total")
		ledger, err := inventory.NewLedger()
		require.NoError(rt, err)
		_, err = ledger.Track(ctx, "item", total, total)
		require.NoError(rt, err)

		ops := rapid.SliceOf(rapid.SampledFrom([]string{"reserve", "release", "restock"})).Draw(rt, "ops")
		for _, op := range ops {
			switch op {
			case "reserve":
				_, _ = ledger.Reserve(ctx, "item")
			case "release":
				_, _ = ledger.Release(ctx, "item")
			case "restock":
				_, _ = ledger.Restock(ctx, "item", 1)
			}

			snapshot, snapErr := ledger.Snapshot("item")
			require.NoError(rt, snapErr)
			if snapshot.AvailableCopies < 0 || snapshot.AvailableCopies > snapshot.TotalCopies {
				rt.Fatalf("bounds broken after %s: %+v", op, snapshot)
			}
		}
	})
}

func givenLedger(t *testing.T) *inventory.Ledger {
	t.Helper()

	ledger, err := inventory.NewLedger()
	require.NoError(t, err)

	return ledger
}

func givenLedgerWithItem(t *testing.T, itemID string, total int, available int) *inventory.Ledger {
	t.Helper()

	ledger := givenLedger(t)
	_, err := ledger.Track(context.Background(), itemID, total, available)
	require.NoError(t, err)

	return ledger
}
