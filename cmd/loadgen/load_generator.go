package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/AntonStoeckl/lending-circulation-go/inventory"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core/finepolicy"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/coordinator"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/httpapi"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/memstore"
)

const (
	scenarioIssue  = "issue"
	scenarioReturn = "return"
	scenarioRenew  = "renew"
)

var (
	// ErrOversold is returned by Verify when an item has more open loans than copies.
	ErrOversold = errors.New("item has more open loans than copies")

	// ErrInventoryDrift is returned by Verify when the catalog availability disagrees with the open loans.
	ErrInventoryDrift = errors.New("catalog availability does not match open loans")

	// ErrDuplicateLoan is returned by Verify when a borrower holds two open loans on the same item.
	ErrDuplicateLoan = errors.New("borrower holds two open loans on the same item")
)

// Config controls the generated traffic.
type Config struct {
	Rate            int
	Workers         int
	Duration        time.Duration
	Items           int
	CopiesPerItem   int
	Borrowers       int
	ScenarioWeights []int // issue, return, renew
	ReportInterval  time.Duration
}

// Stats counts outcomes per scenario. Rejected means the coordinator refused for a business reason.
type Stats struct {
	Requests  int64
	Succeeded map[string]int64
	Rejected  map[string]int64
	Failed    int64
	Events    int64
}

// LoadGenerator drives concurrent issue, return and renew traffic against an in-memory coordinator.
type LoadGenerator struct {
	coordinator *coordinator.Coordinator
	catalog     *memstore.Catalog
	config      Config
	log         *zap.Logger
	sink        *countingSink

	mu        sync.Mutex
	requests  int64
	failed    int64
	succeeded map[string]int64
	rejected  map[string]int64
	startTime time.Time
}

// NewLoadGenerator builds the catalog, the borrowers and a coordinator over memstore.
func NewLoadGenerator(cfg Config, log *zap.Logger) (*LoadGenerator, error) {
	items := make([]core.Item, 0, cfg.Items)
	for i := 1; i <= cfg.Items; i++ {
		items = append(items, core.Item{
			ItemID:          itemID(i),
			Title:           fmt.Sprintf("Load Test Item %d", i),
			TotalCopies:     cfg.CopiesPerItem,
			AvailableCopies: cfg.CopiesPerItem,
		})
	}

	borrowers := make([]core.Borrower, 0, cfg.Borrowers)
	for i := 1; i <= cfg.Borrowers; i++ {
		borrowers = append(borrowers, core.Borrower{
			BorrowerID: borrowerID(i),
			Name:       fmt.Sprintf("Load Test Borrower %d", i),
			Active:     true,
		})
	}

	catalog, err := memstore.NewCatalog(items...)
	if err != nil {
		return nil, err
	}

	directory, err := memstore.NewDirectory(borrowers...)
	if err != nil {
		return nil, err
	}

	ledger, err := inventory.NewLedger()
	if err != nil {
		return nil, err
	}

	fines, err := finepolicy.NewCalculatorFromName(finepolicy.FixedPolicyName, finepolicy.DefaultSettings())
	if err != nil {
		return nil, err
	}

	sink := &countingSink{}
	c, err := coordinator.NewCoordinator(catalog, directory, memstore.NewLoanStore(), sink, ledger, fines)
	if err != nil {
		return nil, err
	}

	return &LoadGenerator{
		coordinator: c,
		catalog:     catalog,
		config:      cfg,
		log:         log,
		sink:        sink,
		succeeded:   make(map[string]int64),
		rejected:    make(map[string]int64),
	}, nil
}

// Run generates traffic at the configured rate until ctx is done or the duration elapsed.
func (lg *LoadGenerator) Run(ctx context.Context) error {
	lg.mu.Lock()
	lg.startTime = time.Now()
	lg.mu.Unlock()

	if lg.config.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, lg.config.Duration)
		defer cancel()
	}

	limiter := rate.NewLimiter(rate.Limit(lg.config.Rate), lg.config.Workers)

	lg.log.Info("load generator starting",
		zap.Int("rate", lg.config.Rate),
		zap.Int("workers", lg.config.Workers),
		zap.Ints("scenario_weights", lg.config.ScenarioWeights),
		zap.Int("goroutines", runtime.NumGoroutine()),
	)

	group, groupCtx := errgroup.WithContext(ctx)

	for range lg.config.Workers {
		group.Go(func() error {
			for {
				if err := limiter.Wait(groupCtx); err != nil {
					return nil
				}

				lg.executeScenario(groupCtx)
			}
		})
	}

	group.Go(func() error {
		lg.reportStats(groupCtx)
		return nil
	})

	return group.Wait()
}

// executeScenario runs one scenario chosen by weight and classifies its outcome.
func (lg *LoadGenerator) executeScenario(ctx context.Context) {
	scenario := lg.selectScenario()

	var err error
	switch scenario {
	case scenarioIssue:
		err = lg.issue(ctx)
	case scenarioReturn:
		err = lg.withRandomOpenLoan(ctx, func(loan core.Loan) error {
			_, returnErr := lg.coordinator.ReturnLoan(ctx, loan.LoanID)
			return returnErr
		})
	default:
		err = lg.withRandomOpenLoan(ctx, func(loan core.Loan) error {
			_, renewErr := lg.coordinator.RenewLoan(ctx, loan.LoanID)
			return renewErr
		})
	}

	lg.mu.Lock()
	defer lg.mu.Unlock()

	lg.requests++

	switch {
	case err == nil:
		lg.succeeded[scenario]++
	case httpapi.StatusFor(err) < http.StatusInternalServerError:
		lg.rejected[scenario]++
	case ctx.Err() == nil:
		lg.failed++
		lg.log.Warn("scenario failed", zap.String("scenario", scenario), zap.Error(err))
	}
}

// selectScenario maps a number in [0, 100) onto the issue, return and renew weights.
func (lg *LoadGenerator) selectScenario() string {
	r := rand.IntN(100) //nolint:gosec // load generation does not need a secure source

	switch {
	case r < lg.config.ScenarioWeights[0]:
		return scenarioIssue
	case r < lg.config.ScenarioWeights[0]+lg.config.ScenarioWeights[1]:
		return scenarioReturn
	default:
		return scenarioRenew
	}
}

func (lg *LoadGenerator) issue(ctx context.Context) error {
	policy := core.StandardLoanPolicy
	if rand.IntN(5) == 0 { //nolint:gosec // load generation does not need a secure source
		policy = core.ExtendedLoanPolicy
	}

	_, err := lg.coordinator.IssueLoan(
		ctx,
		borrowerID(rand.IntN(lg.config.Borrowers)+1), //nolint:gosec // load generation does not need a secure source
		itemID(rand.IntN(lg.config.Items)+1),         //nolint:gosec // load generation does not need a secure source
		policy,
		"",
	)

	return err
}

// withRandomOpenLoan picks one open loan. Without open loans the scenario is a no-op.
func (lg *LoadGenerator) withRandomOpenLoan(ctx context.Context, act func(core.Loan) error) error {
	loans, err := lg.coordinator.ActiveLoans(ctx)
	if err != nil {
		return err
	}

	if len(loans) == 0 {
		return nil
	}

	return act(loans[rand.IntN(len(loans))]) //nolint:gosec // load generation does not need a secure source
}

// Verify checks that no item was oversold, that the catalog agrees with the open loans
// and that no borrower holds two open loans on one item.
func (lg *LoadGenerator) Verify(ctx context.Context) error {
	loans, err := lg.coordinator.ActiveLoans(ctx)
	if err != nil {
		return err
	}

	openPerItem := make(map[core.ItemIDString]int)
	holders := make(map[string]struct{}, len(loans))

	var violations []error
	for _, loan := range loans {
		openPerItem[loan.ItemID]++

		key := loan.BorrowerID + "/" + loan.ItemID
		if _, held := holders[key]; held {
			violations = append(violations, fmt.Errorf("%w: %s", ErrDuplicateLoan, key))
		}
		holders[key] = struct{}{}
	}

	for _, item := range lg.catalog.Items() {
		open := openPerItem[item.ItemID]

		if open > item.TotalCopies {
			violations = append(violations, fmt.Errorf("%w: %s has %d open loans for %d copies",
				ErrOversold, item.ItemID, open, item.TotalCopies))
		}

		if item.AvailableCopies != item.TotalCopies-open {
			violations = append(violations, fmt.Errorf("%w: %s reports %d available, expected %d",
				ErrInventoryDrift, item.ItemID, item.AvailableCopies, item.TotalCopies-open))
		}
	}

	return errors.Join(violations...)
}

// Stats returns a snapshot of the counters.
func (lg *LoadGenerator) Stats() Stats {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	stats := Stats{
		Requests:  lg.requests,
		Failed:    lg.failed,
		Events:    lg.sink.count.Load(),
		Succeeded: make(map[string]int64, len(lg.succeeded)),
		Rejected:  make(map[string]int64, len(lg.rejected)),
	}

	for scenario, count := range lg.succeeded {
		stats.Succeeded[scenario] = count
	}

	for scenario, count := range lg.rejected {
		stats.Rejected[scenario] = count
	}

	return stats
}

func (lg *LoadGenerator) reportStats(ctx context.Context) {
	ticker := time.NewTicker(lg.config.ReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lg.logStats("load generator stats")
		}
	}
}

func (lg *LoadGenerator) logStats(msg string) {
	stats := lg.Stats()

	lg.mu.Lock()
	elapsed := time.Since(lg.startTime)
	lg.mu.Unlock()

	fields := []zap.Field{
		zap.Int64("requests", stats.Requests),
		zap.Duration("elapsed", elapsed.Truncate(time.Second)),
		zap.Int64("failed", stats.Failed),
		zap.Int64("events", stats.Events),
		zap.Any("succeeded", stats.Succeeded),
		zap.Any("rejected", stats.Rejected),
		zap.Int("goroutines", runtime.NumGoroutine()),
	}

	if elapsed > 0 {
		fields = append(fields, zap.Float64("requests_per_second", float64(stats.Requests)/elapsed.Seconds()))
	}

	lg.log.Info(msg, fields...)
}

func itemID(n int) core.ItemIDString {
	return fmt.Sprintf("item-%d", n)
}

func borrowerID(n int) core.BorrowerIDString {
	return fmt.Sprintf("borrower-%d", n)
}

// countingSink counts lifecycle events instead of delivering them.
type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Publish(_ context.Context, _ core.DomainEvent) error {
	s.count.Add(1)
	return nil
}
