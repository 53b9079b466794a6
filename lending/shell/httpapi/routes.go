package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core/finepolicy"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/loansinrange"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/coordinator"
)

// IssueLoan handles POST /loans and answers 201 with the new loan.
func (h *Handler) IssueLoan(c echo.Context) error {
	var req issueLoanRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	loan, err := h.circulation.IssueLoan(c.Request().Context(), req.BorrowerID, req.ItemID, req.Policy, req.Note)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toLoanResponse(loan))
}

// ReturnLoan handles POST /loans/:id/return, the response carries the fine.
func (h *Handler) ReturnLoan(c echo.Context) error {
	loan, err := h.circulation.ReturnLoan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toLoanResponse(loan))
}

// RenewLoan handles POST /loans/:id/renew.
func (h *Handler) RenewLoan(c echo.Context) error {
	loan, err := h.circulation.RenewLoan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toLoanResponse(loan))
}

// CancelLoan handles POST /loans/:id/cancel and answers 204.
func (h *Handler) CancelLoan(c echo.Context) error {
	if err := h.circulation.CancelLoan(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetLoan handles GET /loans/:id.
func (h *Handler) GetLoan(c echo.Context) error {
	loan, err := h.circulation.GetLoan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toLoanResponse(loan))
}

// ListLoans lists all loans, or only those started within [from, to] when both dates are given.
func (h *Handler) ListLoans(c echo.Context) error {
	ctx := c.Request().Context()
	fromParam, toParam := c.QueryParam("from"), c.QueryParam("to")

	if fromParam == "" && toParam == "" {
		loans, err := h.circulation.AllLoans(ctx)
		if err != nil {
			return h.fail(c, err)
		}

		return c.JSON(http.StatusOK, toLoansResponse(loans))
	}

	from, err := time.Parse(dateLayout, fromParam)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "from must be a date like 2006-01-02")
	}

	to, err := time.Parse(dateLayout, toParam)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "to must be a date like 2006-01-02")
	}

	result, err := h.circulation.LoansInRange(ctx, from, to)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toRangeResponse(result))
}

// ActiveLoans lists open loans.
func (h *Handler) ActiveLoans(c echo.Context) error {
	loans, err := h.circulation.ActiveLoans(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toLoansResponse(loans))
}

// OverdueLoans lists open loans past their due date with the fine accrued so far.
func (h *Handler) OverdueLoans(c echo.Context) error {
	result, err := h.circulation.OverdueLoans(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOverdueResponse(result))
}

// DueSoonLoans lists open loans due within ?windowDays, defaulting to the configured window.
func (h *Handler) DueSoonLoans(c echo.Context) error {
	windowDays := h.dueSoonWindowDays
	if windowParam := c.QueryParam("windowDays"); windowParam != "" {
		parsed, err := strconv.Atoi(windowParam)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "windowDays must be a non-negative integer")
		}

		windowDays = parsed
	}

	result, err := h.circulation.DueSoonLoansWithin(c.Request().Context(), windowDays)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toDueSoonResponse(result))
}

// Statistics handles GET /loans/stats.
func (h *Handler) Statistics(c echo.Context) error {
	stats, err := h.circulation.Statistics(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toStatisticsResponse(stats))
}

// BorrowerLoans lists the borrower's open loans, or the whole history with ?history=true.
func (h *Handler) BorrowerLoans(c echo.Context) error {
	includeHistory := false
	if historyParam := c.QueryParam("history"); historyParam != "" {
		parsed, err := strconv.ParseBool(historyParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "history is invalid")
		}

		includeHistory = parsed
	}

	ctx := c.Request().Context()
	query := h.circulation.LoansForBorrower
	if includeHistory {
		query = h.circulation.BorrowerHistory
	}

	result, err := query(ctx, c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toBorrowerLoansResponse(result))
}

// Restock adds copies to an item.
func (h *Handler) Restock(c echo.Context) error {
	var req restockRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.circulation.Restock(c.Request().Context(), c.Param("id"), req.AdditionalCopies)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toItemResponse(item))
}

// GetFinePolicy describes the active fine policy.
func (h *Handler) GetFinePolicy(c echo.Context) error {
	return c.JSON(http.StatusOK, toFinePolicyResponse(h.circulation.FinePolicy()))
}

// SwitchFinePolicy replaces the active fine policy by name.
func (h *Handler) SwitchFinePolicy(c echo.Context) error {
	var req finePolicyRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	info, err := h.circulation.SwitchFinePolicy(c.Request().Context(), req.Name)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, toFinePolicyResponse(info))
}

// fail writes the error response for err. Infrastructure details are not exposed to the client.
func (h *Handler) fail(c echo.Context, err error) error {
	status := StatusFor(err)

	response := errorResponse{Error: err.Error(), Reason: string(core.ReasonOf(err))}
	if status == http.StatusInternalServerError {
		response.Error = http.StatusText(status)
		h.log.Error("circulation request failed",
			zap.Error(err),
			zap.String(shell.LogAttrRequestID, c.Response().Header().Get(echo.HeaderXRequestID)),
		)
	}

	return c.JSON(status, response)
}

// StatusFor maps an error returned by the coordinator to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvariantViolation):
		return http.StatusInternalServerError

	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, core.ErrIneligibleBorrower):
		return http.StatusUnprocessableEntity

	case errors.Is(err, core.ErrNoCapacity),
		errors.Is(err, core.ErrAlreadyReturned),
		errors.Is(err, core.ErrAlreadyRenewed),
		errors.Is(err, core.ErrCurrentlyOverdue),
		errors.Is(err, core.ErrAlreadyCancelled),
		errors.Is(err, core.ErrRenewalNotAllowed):
		return http.StatusConflict

	case errors.Is(err, core.ErrUnknownLoanPolicy),
		errors.Is(err, coordinator.ErrInvalidRestock),
		errors.Is(err, finepolicy.ErrUnknownFinePolicy),
		errors.Is(err, loansinrange.ErrInvalidRange):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
