package coordinator

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/circulationstats"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/duesoonloans"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/loansforborrower"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/loansinrange"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/overdueloans"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

// GetLoan returns one loan snapshot or a NotFound rejection.
func (c *Coordinator) GetLoan(ctx context.Context, loanID core.LoanIDString) (core.Loan, error) {
	loan, err := c.loans.Get(ctx, loanID)
	if err != nil {
		return core.Loan{}, notFoundOr(err, core.ReasonLoanNotFound, loanID)
	}

	return loan, nil
}

// AllLoans returns every loan, open or closed.
func (c *Coordinator) AllLoans(ctx context.Context) (core.Loans, error) {
	return c.loans.All(ctx)
}

// ActiveLoans returns every loan that still holds a copy (ACTIVE or RENEWED).
func (c *Coordinator) ActiveLoans(ctx context.Context) (core.Loans, error) {
	loans, err := c.loans.All(ctx)
	if err != nil {
		return nil, err
	}

	open := make(core.Loans, 0, len(loans))
	for _, loan := range loans {
		if loan.IsOpen() {
			open = append(open, loan)
		}
	}

	return open, nil
}

// HasActiveLoan reports whether the borrower currently holds a copy of the item.
func (c *Coordinator) HasActiveLoan(
	ctx context.Context,
	borrowerID core.BorrowerIDString,
	itemID core.ItemIDString,
) (bool, error) {
	loans, err := c.loans.ForBorrower(ctx, borrowerID)
	if err != nil {
		return false, err
	}

	for _, loan := range loans {
		if loan.IsOpen() && loan.IsHeldBy(borrowerID, itemID) {
			return true, nil
		}
	}

	return false, nil
}

// LoansForBorrower lists the borrower's open loans, newest first.
func (c *Coordinator) LoansForBorrower(
	ctx context.Context,
	borrowerID core.BorrowerIDString,
) (loansforborrower.BorrowerLoans, error) {
	return c.borrowerLoans(ctx, loansforborrower.BuildQuery(borrowerID, c.clock()))
}

// BorrowerHistory lists all of the borrower's loans including returned and cancelled ones.
func (c *Coordinator) BorrowerHistory(
	ctx context.Context,
	borrowerID core.BorrowerIDString,
) (loansforborrower.BorrowerLoans, error) {
	return c.borrowerLoans(ctx, loansforborrower.BuildHistoryQuery(borrowerID, c.clock()))
}

func (c *Coordinator) borrowerLoans(
	ctx context.Context,
	query loansforborrower.Query,
) (result loansforborrower.BorrowerLoans, err error) {
	start := time.Now()
	defer func() { c.observeQuery(ctx, query, start, err) }()

	loans, err := c.loans.ForBorrower(ctx, query.BorrowerID)
	if err != nil {
		return loansforborrower.BorrowerLoans{}, err
	}

	return loansforborrower.ProjectBorrowerLoans(loans, query), nil
}

// OverdueLoans scans the open loans and lists those past their due date, most overdue first.
func (c *Coordinator) OverdueLoans(ctx context.Context) (result overdueloans.OverdueLoans, err error) {
	query := overdueloans.BuildQuery(c.clock())

	start := time.Now()
	defer func() { c.observeQuery(ctx, query, start, err) }()

	loans, err := c.loans.All(ctx)
	if err != nil {
		return overdueloans.OverdueLoans{}, err
	}

	return overdueloans.ProjectOverdueLoans(loans, query), nil
}

// LoansInRange lists loans that started within [from, to], both ends as calendar days.
func (c *Coordinator) LoansInRange(
	ctx context.Context,
	from time.Time,
	to time.Time,
) (result loansinrange.LoansInRange, err error) {
	query, err := loansinrange.BuildQuery(from, to, c.clock())
	if err != nil {
		return loansinrange.LoansInRange{}, err
	}

	start := time.Now()
	defer func() { c.observeQuery(ctx, query, start, err) }()

	loans, err := c.loans.All(ctx)
	if err != nil {
		return loansinrange.LoansInRange{}, err
	}

	return loansinrange.ProjectLoansInRange(loans, query), nil
}

// DueSoonLoans lists open loans due within the configured window, soonest first.
func (c *Coordinator) DueSoonLoans(ctx context.Context) (duesoonloans.DueSoonLoans, error) {
	return c.DueSoonLoansWithin(ctx, c.settings.DueSoonWindowDays)
}

// DueSoonLoansWithin lists open loans due within windowDays, soonest first.
func (c *Coordinator) DueSoonLoansWithin(
	ctx context.Context,
	windowDays int,
) (result duesoonloans.DueSoonLoans, err error) {
	query := duesoonloans.BuildQuery(c.clock(), windowDays)

	start := time.Now()
	defer func() { c.observeQuery(ctx, query, start, err) }()

	loans, err := c.loans.All(ctx)
	if err != nil {
		return duesoonloans.DueSoonLoans{}, err
	}

	return duesoonloans.ProjectDueSoonLoans(loans, query), nil
}

// Statistics counts loans by lifecycle state and sums the fines charged so far.
func (c *Coordinator) Statistics(ctx context.Context) (result circulationstats.Statistics, err error) {
	query := circulationstats.BuildQuery(c.clock())

	start := time.Now()
	defer func() { c.observeQuery(ctx, query, start, err) }()

	loans, err := c.loans.All(ctx)
	if err != nil {
		return circulationstats.Statistics{}, err
	}

	return circulationstats.ProjectStatistics(loans, query), nil
}

/*** Observability helper methods ***/

func (c *Coordinator) observe(ctx context.Context, operation string, start time.Time, err error, args ...any) {
	status := shell.ClassifyError(err)
	duration := time.Since(start)

	shell.RecordOperationMetrics(ctx, c.metricsCollector, operation, status, duration)
	shell.LogOperationOutcome(ctx, c.logger, c.contextualLogger, operation, status, duration, err, args...)
}

func (c *Coordinator) observeQuery(ctx context.Context, query shell.Query, start time.Time, err error) {
	status := shell.ClassifyError(err)
	duration := time.Since(start)

	shell.RecordOperationMetrics(ctx, c.metricsCollector, query.QueryType(), status, duration)

	if err != nil && !errors.Is(err, context.Canceled) {
		shell.LogError(ctx, c.logger, c.contextualLogger, shell.LogMsgOperationFailed,
			shell.LogAttrOperation, query.QueryType(),
			shell.LogAttrError, err.Error(),
		)
	}
}
