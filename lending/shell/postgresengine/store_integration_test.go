package postgresengine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-circulation-go/inventory"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core/finepolicy"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/coordinator"
	"github.com/AntonStoeckl/lending-circulation-go/testutil/pgtest"
	"github.com/AntonStoeckl/lending-circulation-go/testutil/testdoubles"
)

var integrationDay0 = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func Test_Integration_Store_RoundTripsCatalogBorrowersAndLoans(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := pgtest.GivenStore(t)

	require.NoError(t, store.AddItem(ctx, core.Item{ItemID: "item-1", Title: "Dune", TotalCopies: 2, AvailableCopies: 2}))
	require.NoError(t, store.AddBorrower(ctx, core.Borrower{BorrowerID: "b-1", Name: "Ada", Email: "ada@example.org", Active: true}))

	loan := core.Loan{
		LoanID:       uuid.NewString(),
		ItemID:       "item-1",
		BorrowerID:   "b-1",
		PolicyName:   core.StandardLoanPolicy,
		DurationDays: 14,
		StartDate:    core.ToCalendarDay(integrationDay0),
		DueDate:      core.AddDays(integrationDay0, 14),
		Status:       core.LoanStatusActive,
	}

	// act
	require.NoError(t, store.Save(ctx, loan))
	require.NoError(t, store.PersistAvailability(ctx, "item-1", 1))

	// assert
	item, err := store.GetItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, 1, item.AvailableCopies)

	borrower, err := store.GetBorrower(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.org", borrower.Email)

	stored, err := store.Get(ctx, loan.LoanID)
	require.NoError(t, err)
	assert.Equal(t, loan.Status, stored.Status)
	assert.True(t, loan.DueDate.Equal(stored.DueDate))
	assert.False(t, stored.FineAmount.Valid)

	forBorrower, err := store.ForBorrower(ctx, "b-1")
	require.NoError(t, err)
	assert.Len(t, forBorrower, 1)

	_, err = store.Get(ctx, "unknown")
	assert.ErrorIs(t, err, shell.ErrRecordNotFound)
}

func Test_Integration_Store_AppendsJournalOnce_PerEventID(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := pgtest.GivenStore(t)

	loan := core.Loan{
		LoanID:     uuid.NewString(),
		ItemID:     "item-1",
		BorrowerID: "b-1",
		StartDate:  core.ToCalendarDay(integrationDay0),
		DueDate:    core.AddDays(integrationDay0, 14),
		Status:     core.LoanStatusActive,
	}

	messageID := uuid.New()
	event, err := shell.StorableEventFrom(
		core.BuildLoanIssued(loan, integrationDay0),
		shell.BuildEventMetadata(messageID, messageID, messageID),
	)
	require.NoError(t, err)

	// act
	require.NoError(t, store.Append(ctx, event))
	require.NoError(t, store.Append(ctx, event))

	// assert
	events, err := store.EventsForLoan(ctx, loan.LoanID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, core.LoanIssuedEventType, events[0].EventType)

	domainEvent, err := shell.DomainEventFrom(events[0])
	require.NoError(t, err)
	assert.Equal(t, loan.LoanID, domainEvent.HasLoanID())
}

func Test_Integration_Coordinator_NeverOversellsTheLastCopy(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := pgtest.GivenStore(t)

	require.NoError(t, store.AddItem(ctx, core.Item{ItemID: "item-1", TotalCopies: 1, AvailableCopies: 1}))

	const contenders = 8
	for i := range contenders {
		require.NoError(t, store.AddBorrower(ctx, core.Borrower{BorrowerID: borrowerName(i), Active: true}))
	}

	ledger, err := inventory.NewLedger()
	require.NoError(t, err)

	fines, err := finepolicy.NewCalculatorFromName(finepolicy.FixedPolicyName, finepolicy.DefaultSettings())
	require.NoError(t, err)

	c, err := coordinator.NewCoordinator(store, store, store, testdoubles.NewNotificationSinkSpy(), ledger, fines)
	require.NoError(t, err)

	// act
	var wg sync.WaitGroup
	var mu sync.Mutex
	issued := 0

	for i := range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if _, issueErr := c.IssueLoan(ctx, borrowerName(i), "item-1", "", ""); issueErr == nil {
				mu.Lock()
				issued++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, 1, issued)

	item, err := store.GetItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Zero(t, item.AvailableCopies)
}

func borrowerName(i int) core.BorrowerIDString {
	return "b-" + string(rune('a'+i))
}

func Test_Integration_Store_ReseedKeepsCopyCounters(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := pgtest.GivenStore(t)
	seedItem := core.Item{ItemID: "item-1", Title: "Dune", TotalCopies: 1, AvailableCopies: 1}

	require.NoError(t, store.AddItem(ctx, seedItem))
	require.NoError(t, store.PersistAvailability(ctx, "item-1", 0))

	// act
	seedItem.Title = "Dune (2nd edition)"
	err := store.AddItem(ctx, seedItem)

	// assert
	require.NoError(t, err)
	item, err := store.GetItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, core.Item{ItemID: "item-1", Title: "Dune (2nd edition)", TotalCopies: 1, AvailableCopies: 0}, item)
}
