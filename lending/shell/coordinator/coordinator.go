package coordinator

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-circulation-go/inventory"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core/finepolicy"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

const (
	defaultStandardLoanDays  = 14
	defaultExtendedLoanDays  = 30
	defaultMaxActiveLoans    = 3
	defaultDueSoonWindowDays = 3
)

var (
	// ErrInvalidSettings is returned when the circulation settings are out of range.
	ErrInvalidSettings = errors.New("invalid circulation settings")

	// ErrInvalidRestock is returned when a restock does not add at least one copy.
	ErrInvalidRestock = errors.New("restock must add at least one copy")
)

// Settings are the circulation rules the coordinator applies.
type Settings struct {
	StandardLoanDays  int
	ExtendedLoanDays  int
	MaxActiveLoans    int
	DueSoonWindowDays int
	RenewalsEnabled   bool
}

// DefaultSettings returns the documented defaults: 14/30 loan days, 3 active loans, 3 days due-soon window,
// renewals enabled.
func DefaultSettings() Settings {
	return Settings{
		StandardLoanDays:  defaultStandardLoanDays,
		ExtendedLoanDays:  defaultExtendedLoanDays,
		MaxActiveLoans:    defaultMaxActiveLoans,
		DueSoonWindowDays: defaultDueSoonWindowDays,
		RenewalsEnabled:   true,
	}
}

func (s Settings) validate() error {
	if s.StandardLoanDays < 1 || s.ExtendedLoanDays < 1 || s.MaxActiveLoans < 1 || s.DueSoonWindowDays < 0 {
		return ErrInvalidSettings
	}

	return nil
}

// Coordinator sequences eligibility, inventory, lifecycle mutation and event hand-off as one unit of work.
type Coordinator struct {
	catalog          shell.CatalogStore
	borrowers        shell.BorrowerDirectory
	loans            shell.LoanRepository
	sink             shell.NotificationSink
	ledger           *inventory.Ledger
	fines            *finepolicy.Calculator
	settings         Settings
	policies         core.LoanPolicies
	renewalsEnabled  atomic.Bool
	locks            *lockSet
	clock            func() time.Time
	newLoanID        func() uuid.UUID
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector
}

// NewCoordinator creates a Coordinator over the given ports with optional configuration.
func NewCoordinator(
	catalog shell.CatalogStore,
	borrowers shell.BorrowerDirectory,
	loans shell.LoanRepository,
	sink shell.NotificationSink,
	ledger *inventory.Ledger,
	fines *finepolicy.Calculator,
	options ...Option,
) (*Coordinator, error) {
	if catalog == nil || borrowers == nil || loans == nil || sink == nil || ledger == nil || fines == nil {
		return nil, shell.ErrNilDependency
	}

	c := &Coordinator{
		catalog:   catalog,
		borrowers: borrowers,
		loans:     loans,
		sink:      sink,
		ledger:    ledger,
		fines:     fines,
		settings:  DefaultSettings(),
		locks:     newLockSet(),
		clock:     time.Now,
		newLoanID: newLoanID,
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	if err := c.settings.validate(); err != nil {
		return nil, err
	}

	c.policies = core.NewLoanPolicies(c.settings.StandardLoanDays, c.settings.ExtendedLoanDays)
	c.renewalsEnabled.Store(c.settings.RenewalsEnabled)

	return c, nil
}

// Settings returns the circulation rules in effect.
func (c *Coordinator) Settings() Settings {
	settings := c.settings
	settings.RenewalsEnabled = c.renewalsEnabled.Load()

	return settings
}

// LoanPolicies returns the loan policy table in effect.
func (c *Coordinator) LoanPolicies() core.LoanPolicies {
	return c.policies
}

// SetRenewalsEnabled turns renewals on or off for all subsequent requests.
func (c *Coordinator) SetRenewalsEnabled(enabled bool) {
	c.renewalsEnabled.Store(enabled)
}

func newLoanID() uuid.UUID {
	if id, err := uuid.NewV7(); err == nil {
		return id
	}

	return uuid.New()
}

// Option defines a functional option for configuring the Coordinator.
type Option func(*Coordinator) error

// WithSettings replaces the default circulation settings.
func WithSettings(settings Settings) Option {
	return func(c *Coordinator) error {
		c.settings = settings
		return nil
	}
}

// WithClock sets the source of "now". Dates derived from it are truncated to UTC calendar days.
func WithClock(clock func() time.Time) Option {
	return func(c *Coordinator) error {
		if clock == nil {
			return shell.ErrNilDependency
		}

		c.clock = clock

		return nil
	}
}

// WithLoanIDGenerator sets the generator of new loan ids.
func WithLoanIDGenerator(generator func() uuid.UUID) Option {
	return func(c *Coordinator) error {
		if generator == nil {
			return shell.ErrNilDependency
		}

		c.newLoanID = generator

		return nil
	}
}

// WithLogger sets the logger for the Coordinator.
func WithLogger(logger shell.Logger) Option {
	return func(c *Coordinator) error {
		c.logger = logger
		return nil
	}
}

// WithContextualLogger sets the context-aware logger for the Coordinator. It takes precedence over WithLogger.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(c *Coordinator) error {
		c.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Coordinator.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(c *Coordinator) error {
		c.metricsCollector = collector
		return nil
	}
}
