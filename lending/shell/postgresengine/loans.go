package postgresengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/postgresengine/internal/adapters"
)

// Save implements shell.LoanRepository. It inserts the loan or replaces the stored snapshot.
func (s *Store) Save(ctx context.Context, loan core.Loan) error {
	sqlQuery, err := s.buildUpsertLoanQuery(loan)
	if err != nil {
		return err
	}

	_, err = s.exec(ctx, actionSaveLoan, sqlQuery)

	return err
}

// Get implements shell.LoanRepository.
func (s *Store) Get(ctx context.Context, loanID core.LoanIDString) (core.Loan, error) {
	loans, err := s.selectLoans(ctx, actionGetLoan, goqu.C(colLoanID).Eq(loanID))
	if err != nil {
		return core.Loan{}, err
	}

	if len(loans) == 0 {
		return core.Loan{}, errors.Join(shell.ErrRecordNotFound, fmt.Errorf("loan %s", loanID))
	}

	return loans[0], nil
}

// ForBorrower implements shell.LoanRepository.
func (s *Store) ForBorrower(ctx context.Context, borrowerID core.BorrowerIDString) (core.Loans, error) {
	return s.selectLoans(ctx, actionLoansForBorrower, goqu.C(colBorrowerID).Eq(borrowerID))
}

// All implements shell.LoanRepository.
func (s *Store) All(ctx context.Context) (core.Loans, error) {
	return s.selectLoans(ctx, actionAllLoans)
}

func (s *Store) selectLoans(ctx context.Context, action string, where ...exp.Expression) (core.Loans, error) {
	sqlQuery, err := s.buildSelectLoansQuery(where...)
	if err != nil {
		return nil, err
	}

	loans := make(core.Loans, 0)
	err = s.query(ctx, action, sqlQuery, func(rows adapters.DBRows) error {
		loan, scanErr := scanLoan(rows)
		if scanErr != nil {
			return scanErr
		}

		loans = append(loans, loan)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (s *Store) buildSelectLoansQuery(where ...exp.Expression) (string, error) {
	return toSQL(
		s.builder().
			From(s.tables.Loans).
			Select(
				colLoanID,
				colItemID,
				colBorrowerID,
				colPolicyName,
				colDurationDays,
				colStartDate,
				colDueDate,
				colReturnDate,
				colStatus,
				goqu.L(fmt.Sprintf(castToText, colFineAmount)).As(colFineAmount),
				colNotes,
				colRenewalCount,
			).
			Where(where...).
			Order(goqu.I(colStartDate).Asc(), goqu.I(colLoanID).Asc()),
	)
}

func (s *Store) buildUpsertLoanQuery(loan core.Loan) (string, error) {
	var returnDate any
	if loan.ReturnDate != nil {
		returnDate = core.ToCalendarDay(*loan.ReturnDate)
	}

	var fineAmount any
	if loan.FineAmount.Valid {
		fineAmount = loan.FineAmount.Decimal.StringFixed(2)
	}

	return toSQL(
		s.builder().
			Insert(s.tables.Loans).
			Rows(goqu.Record{
				colLoanID:       loan.LoanID,
				colItemID:       loan.ItemID,
				colBorrowerID:   loan.BorrowerID,
				colPolicyName:   loan.PolicyName,
				colDurationDays: loan.DurationDays,
				colStartDate:    core.ToCalendarDay(loan.StartDate),
				colDueDate:      core.ToCalendarDay(loan.DueDate),
				colReturnDate:   returnDate,
				colStatus:       string(loan.Status),
				colFineAmount:   fineAmount,
				colNotes:        loan.Notes,
				colRenewalCount: loan.RenewalCount,
			}).
			OnConflict(goqu.DoUpdate(colLoanID, excluded(
				colDueDate,
				colReturnDate,
				colStatus,
				colFineAmount,
				colNotes,
				colRenewalCount,
			))),
	)
}

func scanLoan(rows adapters.DBRows) (core.Loan, error) {
	var loan core.Loan
	var status string
	var returnDate *time.Time
	var fineAmount *string

	err := rows.Scan(
		&loan.LoanID,
		&loan.ItemID,
		&loan.BorrowerID,
		&loan.PolicyName,
		&loan.DurationDays,
		&loan.StartDate,
		&loan.DueDate,
		&returnDate,
		&status,
		&fineAmount,
		&loan.Notes,
		&loan.RenewalCount,
	)
	if err != nil {
		return core.Loan{}, err
	}

	loan.Status = core.LoanStatus(status)
	loan.StartDate = core.ToCalendarDay(loan.StartDate)
	loan.DueDate = core.ToCalendarDay(loan.DueDate)

	if returnDate != nil {
		day := core.ToCalendarDay(*returnDate)
		loan.ReturnDate = &day
	}

	if fineAmount != nil {
		amount, parseErr := decimal.NewFromString(*fineAmount)
		if parseErr != nil {
			return core.Loan{}, errors.Join(ErrInvalidStoredValue, parseErr)
		}

		loan.FineAmount = decimal.NewNullDecimal(core.ToMonetaryAmount(amount))
	}

	return loan, nil
}
