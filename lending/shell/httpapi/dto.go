package httpapi

import (
	"time"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/circulationstats"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/duesoonloans"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/loansforborrower"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/loansinrange"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/overdueloans"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/coordinator"
)

const dateLayout = "2006-01-02"

type issueLoanRequest struct {
	BorrowerID string `json:"borrowerId" validate:"required"`
	ItemID     string `json:"itemId" validate:"required"`
	Policy     string `json:"policy"`
	Note       string `json:"note" validate:"max=500"`
}

type restockRequest struct {
	AdditionalCopies int `json:"additionalCopies" validate:"min=1"`
}

type finePolicyRequest struct {
	Name string `json:"name" validate:"required"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

type loanResponse struct {
	LoanID          string  `json:"loanId"`
	ItemID          string  `json:"itemId"`
	BorrowerID      string  `json:"borrowerId"`
	Policy          string  `json:"policy"`
	DurationDays    int     `json:"durationDays"`
	StartDate       string  `json:"startDate"`
	DueDate         string  `json:"dueDate"`
	ReturnDate      *string `json:"returnDate,omitempty"`
	Status          string  `json:"status"`
	EffectiveStatus string  `json:"effectiveStatus,omitempty"`
	FineAmount      *string `json:"fineAmount,omitempty"`
	Notes           string  `json:"notes"`
	RenewalCount    int     `json:"renewalCount"`
	DaysLate        *int    `json:"daysLate,omitempty"`
	DaysLeft        *int    `json:"daysLeft,omitempty"`
}

type loansResponse struct {
	Loans []loanResponse `json:"loans"`
	Count int            `json:"count"`
}

type borrowerLoansResponse struct {
	BorrowerID string         `json:"borrowerId"`
	Loans      []loanResponse `json:"loans"`
	Count      int            `json:"count"`
}

type rangeResponse struct {
	From  string         `json:"from"`
	To    string         `json:"to"`
	Loans []loanResponse `json:"loans"`
	Count int            `json:"count"`
}

type itemResponse struct {
	ItemID          string `json:"itemId"`
	Title           string `json:"title"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
}

type statisticsResponse struct {
	Total      int    `json:"total"`
	Open       int    `json:"open"`
	Renewed    int    `json:"renewed"`
	Overdue    int    `json:"overdue"`
	Returned   int    `json:"returned"`
	Cancelled  int    `json:"cancelled"`
	FinesTotal string `json:"finesTotal"`
}

type finePolicyResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toLoanResponse(loan core.Loan) loanResponse {
	response := loanResponse{
		LoanID:       loan.LoanID,
		ItemID:       loan.ItemID,
		BorrowerID:   loan.BorrowerID,
		Policy:       loan.PolicyName,
		DurationDays: loan.DurationDays,
		StartDate:    formatDate(loan.StartDate),
		DueDate:      formatDate(loan.DueDate),
		Status:       string(loan.Status),
		Notes:        loan.Notes,
		RenewalCount: loan.RenewalCount,
	}

	if loan.ReturnDate != nil {
		returnDate := formatDate(*loan.ReturnDate)
		response.ReturnDate = &returnDate
	}

	if loan.FineAmount.Valid {
		fine := loan.FineAmount.Decimal.StringFixed(2)
		response.FineAmount = &fine
	}

	return response
}

func toLoansResponse(loans core.Loans) loansResponse {
	response := loansResponse{Loans: make([]loanResponse, 0, len(loans)), Count: len(loans)}
	for _, loan := range loans {
		response.Loans = append(response.Loans, toLoanResponse(loan))
	}

	return response
}

func toBorrowerLoansResponse(result loansforborrower.BorrowerLoans) borrowerLoansResponse {
	response := borrowerLoansResponse{
		BorrowerID: result.BorrowerID,
		Loans:      make([]loanResponse, 0, len(result.Loans)),
		Count:      result.Count,
	}

	for _, info := range result.Loans {
		loan := toLoanResponse(info.Loan)
		loan.EffectiveStatus = string(info.EffectiveStatus)
		response.Loans = append(response.Loans, loan)
	}

	return response
}

func toRangeResponse(result loansinrange.LoansInRange) rangeResponse {
	response := rangeResponse{
		From:  formatDate(result.From),
		To:    formatDate(result.To),
		Loans: make([]loanResponse, 0, len(result.Loans)),
		Count: result.Count,
	}

	for _, info := range result.Loans {
		loan := toLoanResponse(info.Loan)
		loan.EffectiveStatus = string(info.EffectiveStatus)
		response.Loans = append(response.Loans, loan)
	}

	return response
}

func toOverdueResponse(result overdueloans.OverdueLoans) loansResponse {
	response := loansResponse{Loans: make([]loanResponse, 0, len(result.Loans)), Count: result.Count}
	for _, overdue := range result.Loans {
		loan := toLoanResponse(overdue.Loan)
		daysLate := overdue.DaysLate
		loan.DaysLate = &daysLate
		loan.EffectiveStatus = string(core.LoanStatusOverdue)
		response.Loans = append(response.Loans, loan)
	}

	return response
}

func toDueSoonResponse(result duesoonloans.DueSoonLoans) loansResponse {
	response := loansResponse{Loans: make([]loanResponse, 0, len(result.Loans)), Count: result.Count}
	for _, dueSoon := range result.Loans {
		loan := toLoanResponse(dueSoon.Loan)
		daysLeft := dueSoon.DaysLeft
		loan.DaysLeft = &daysLeft
		response.Loans = append(response.Loans, loan)
	}

	return response
}

func toItemResponse(item core.Item) itemResponse {
	return itemResponse{
		ItemID:          item.ItemID,
		Title:           item.Title,
		TotalCopies:     item.TotalCopies,
		AvailableCopies: item.AvailableCopies,
	}
}

func toStatisticsResponse(stats circulationstats.Statistics) statisticsResponse {
	return statisticsResponse{
		Total:      stats.Total,
		Open:       stats.Open,
		Renewed:    stats.Renewed,
		Overdue:    stats.Overdue,
		Returned:   stats.Returned,
		Cancelled:  stats.Cancelled,
		FinesTotal: stats.FinesTotal.StringFixed(2),
	}
}

func toFinePolicyResponse(info coordinator.FinePolicyInfo) finePolicyResponse {
	return finePolicyResponse{Name: info.Name, Description: info.Description}
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
