package coordinator_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-circulation-go/inventory"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core/finepolicy"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/coordinator"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/memstore"
	"github.com/AntonStoeckl/lending-circulation-go/testutil/testdoubles"
)

var day0 = time.Date(2025, 1, 6, 10, 30, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) AdvanceDays(days int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.AddDate(0, 0, days)
}

// failingLoanStore fails Save while failSave is set.
type failingLoanStore struct {
	*memstore.LoanStore
	mu       sync.Mutex
	failSave error
}

func (s *failingLoanStore) Save(ctx context.Context, loan core.Loan) error {
	s.mu.Lock()
	err := s.failSave
	s.mu.Unlock()

	if err != nil {
		return err
	}

	return s.LoanStore.Save(ctx, loan)
}

func (s *failingLoanStore) FailSaveWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failSave = err
}

type fixture struct {
	coordinator *coordinator.Coordinator
	catalog     *memstore.Catalog
	directory   *memstore.Directory
	loans       *failingLoanStore
	ledger      *inventory.Ledger
	fines       *finepolicy.Calculator
	sink        *testdoubles.NotificationSinkSpy
	logger      *testdoubles.ContextualLoggerSpy
	metrics     *testdoubles.MetricsCollectorSpy
	clock       *fakeClock
}

type fixtureConfig struct {
	items      []core.Item
	borrowers  []core.Borrower
	finePolicy string
	settings   *coordinator.Settings
}

type fixtureOption func(*fixtureConfig)

func withItems(items ...core.Item) fixtureOption {
	return func(c *fixtureConfig) { c.items = append(c.items, items...) }
}

func withBorrowers(borrowers ...core.Borrower) fixtureOption {
	return func(c *fixtureConfig) { c.borrowers = append(c.borrowers, borrowers...) }
}

func withFinePolicy(name string) fixtureOption {
	return func(c *fixtureConfig) { c.finePolicy = name }
}

func withSettings(settings coordinator.Settings) fixtureOption {
	return func(c *fixtureConfig) { c.settings = &settings }
}

func givenCoordinator(t *testing.T, options ...fixtureOption) fixture {
	t.Helper()

	config := fixtureConfig{finePolicy: finepolicy.FixedPolicyName}
	for _, option := range options {
		option(&config)
	}

	catalog, err := memstore.NewCatalog(config.items...)
	require.NoError(t, err)

	directory, err := memstore.NewDirectory(config.borrowers...)
	require.NoError(t, err)

	ledger, err := inventory.NewLedger()
	require.NoError(t, err)

	fines, err := finepolicy.NewCalculatorFromName(config.finePolicy, finepolicy.DefaultSettings())
	require.NoError(t, err)

	f := fixture{
		catalog:   catalog,
		directory: directory,
		loans:     &failingLoanStore{LoanStore: memstore.NewLoanStore()},
		ledger:    ledger,
		fines:     fines,
		sink:      testdoubles.NewNotificationSinkSpy(),
		logger:    testdoubles.NewContextualLoggerSpy(true),
		metrics:   testdoubles.NewMetricsCollectorSpy(true),
		clock:     &fakeClock{now: day0},
	}

	coordinatorOptions := []coordinator.Option{
		coordinator.WithClock(f.clock.Now),
		coordinator.WithContextualLogger(f.logger),
		coordinator.WithMetrics(f.metrics),
	}

	if config.settings != nil {
		coordinatorOptions = append(coordinatorOptions, coordinator.WithSettings(*config.settings))
	}

	f.coordinator, err = coordinator.NewCoordinator(catalog, directory, f.loans, f.sink, ledger, fines, coordinatorOptions...)
	require.NoError(t, err)

	return f
}

func givenItem(itemID string, copies int) core.Item {
	return core.Item{ItemID: itemID, Title: "Title of " + itemID, TotalCopies: copies, AvailableCopies: copies}
}

func givenActiveBorrower(borrowerID string) core.Borrower {
	return core.Borrower{BorrowerID: borrowerID, Name: "Name of " + borrowerID, Email: borrowerID + "@example.org", Active: true}
}

func (f fixture) givenIssuedLoan(t *testing.T, borrowerID string, itemID string) core.Loan {
	t.Helper()

	loan, err := f.coordinator.IssueLoan(context.Background(), borrowerID, itemID, "", "")
	require.NoError(t, err)

	return loan
}

func (f fixture) availableCopies(t *testing.T, itemID string) int {
	t.Helper()

	item, err := f.catalog.GetItem(context.Background(), itemID)
	require.NoError(t, err)

	snapshot, err := f.ledger.Snapshot(itemID)
	if err == nil {
		require.Equal(t, snapshot.AvailableCopies, item.AvailableCopies, "ledger and catalog disagree")
	}

	return item.AvailableCopies
}

func assertRejected(t *testing.T, err error, kind error, reason core.RejectionReason) {
	t.Helper()

	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	assert.Equal(t, reason, core.ReasonOf(err))
}

var errStoreDown = errors.New("store down")
