package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/circulationstats"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/duesoonloans"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/loansforborrower"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/loansinrange"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/overdueloans"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/coordinator"
)

const (
	defaultRequestsPerSecond = 100
	healthRequestsPerSecond  = 10
	recoverStackSize         = 4 << 10
)

var (
	// ErrInvalidRequestRate is returned when the configured request rate is not positive.
	ErrInvalidRequestRate = errors.New("requests per second must be positive")

	// ErrNilCirculation is returned by New without a Circulation.
	ErrNilCirculation = errors.New("circulation must not be nil")
)

// Circulation is the part of the coordinator the REST API drives.
type Circulation interface {
	IssueLoan(ctx context.Context, borrowerID, itemID, policyName, note string) (core.Loan, error)
	ReturnLoan(ctx context.Context, loanID core.LoanIDString) (core.Loan, error)
	RenewLoan(ctx context.Context, loanID core.LoanIDString) (core.Loan, error)
	CancelLoan(ctx context.Context, loanID core.LoanIDString) error
	Restock(ctx context.Context, itemID core.ItemIDString, additional int) (core.Item, error)

	GetLoan(ctx context.Context, loanID core.LoanIDString) (core.Loan, error)
	AllLoans(ctx context.Context) (core.Loans, error)
	ActiveLoans(ctx context.Context) (core.Loans, error)
	LoansForBorrower(ctx context.Context, borrowerID core.BorrowerIDString) (loansforborrower.BorrowerLoans, error)
	BorrowerHistory(ctx context.Context, borrowerID core.BorrowerIDString) (loansforborrower.BorrowerLoans, error)
	OverdueLoans(ctx context.Context) (overdueloans.OverdueLoans, error)
	DueSoonLoansWithin(ctx context.Context, windowDays int) (duesoonloans.DueSoonLoans, error)
	LoansInRange(ctx context.Context, from time.Time, to time.Time) (loansinrange.LoansInRange, error)
	Statistics(ctx context.Context) (circulationstats.Statistics, error)

	FinePolicy() coordinator.FinePolicyInfo
	SwitchFinePolicy(ctx context.Context, name string) (coordinator.FinePolicyInfo, error)
}

// Handler serves the circulation REST API.
type Handler struct {
	circulation       Circulation
	log               *zap.Logger
	requestsPerSecond rate.Limit
	dueSoonWindowDays int
}

// Option configures a Handler.
type Option func(*Handler) error

// WithRequestsPerSecond limits the API routes to rps requests per second and client IP.
func WithRequestsPerSecond(rps float64) Option {
	return func(h *Handler) error {
		if rps <= 0 {
			return ErrInvalidRequestRate
		}

		h.requestsPerSecond = rate.Limit(rps)

		return nil
	}
}

// WithDueSoonWindowDays sets the window used when a due-soon request does not name one.
func WithDueSoonWindowDays(days int) Option {
	return func(h *Handler) error {
		h.dueSoonWindowDays = days
		return nil
	}
}

// New creates a Handler. A nil logger disables request logging.
func New(circulation Circulation, log *zap.Logger, options ...Option) (*Handler, error) {
	if circulation == nil {
		return nil, ErrNilCirculation
	}

	if log == nil {
		log = zap.NewNop()
	}

	h := &Handler{
		circulation:       circulation,
		log:               log,
		requestsPerSecond: defaultRequestsPerSecond,
		dueSoonWindowDays: 3,
	}

	for _, option := range options {
		if err := option(h); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// NewRouter wires the middleware chain and all routes.
func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsoniterSerializer{}
	e.Validator = NewValidator()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: recoverStackSize,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPost},
	}))

	base := e.Group("", NewRateLimiter(healthRequestsPerSecond))
	base.GET("/manage/health", h.Health)

	api := e.Group("/api/v1",
		middleware.RequestID(),
		RequestIDContext,
		middleware.RequestLoggerWithConfig(RequestLoggerConfig(h.log)),
		NewRateLimiter(h.requestsPerSecond),
	)

	api.POST("/loans", h.IssueLoan)
	api.GET("/loans", h.ListLoans)
	api.GET("/loans/active", h.ActiveLoans)
	api.GET("/loans/overdue", h.OverdueLoans)
	api.GET("/loans/due-soon", h.DueSoonLoans)
	api.GET("/loans/stats", h.Statistics)
	api.GET("/loans/:id", h.GetLoan)
	api.POST("/loans/:id/return", h.ReturnLoan)
	api.POST("/loans/:id/renew", h.RenewLoan)
	api.POST("/loans/:id/cancel", h.CancelLoan)

	api.GET("/borrowers/:id/loans", h.BorrowerLoans)
	api.POST("/items/:id/restock", h.Restock)

	api.GET("/fine-policy", h.GetFinePolicy)
	api.PUT("/fine-policy", h.SwitchFinePolicy)

	return e
}

// Health reports that the service is up with a plain OK.
func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
