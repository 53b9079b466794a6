package httpapi_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core/finepolicy"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/loansinrange"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/coordinator"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/httpapi"
)

func Test_Health_ReturnsOK(t *testing.T) {
	t.Parallel()

	// arrange
	a := givenAPI(t)

	// act
	rec := a.do(t, http.MethodGet, "/manage/health", "")

	// assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func Test_IssueLoan_ReturnsCreatedLoan(t *testing.T) {
	t.Parallel()

	// arrange
	a := givenAPI(t)

	// act
	rec := a.do(t, http.MethodPost, "/api/v1/loans", `{"borrowerId":"b-1","itemId":"item-1","policy":"extended"}`)

	// assert
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["loanId"])
	assert.Equal(t, "b-1", body["borrowerId"])
	assert.Equal(t, "item-1", body["itemId"])
	assert.Equal(t, "extended", body["policy"])
	assert.Equal(t, "2025-03-03", body["startDate"])
	assert.Equal(t, "2025-04-02", body["dueDate"])
	assert.Equal(t, string(core.LoanStatusActive), body["status"])
	assert.Equal(t, "extended loan - 30 days", body["notes"])
	assert.NotContains(t, body, "fineAmount")
	assert.NotContains(t, body, "returnDate")
}

func Test_IssueLoan_MapsRejectionsToStatusCodes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		body           string
		expectedStatus int
		expectedReason core.RejectionReason
	}{
		{
			name:           "unknown borrower",
			body:           `{"borrowerId":"nobody","itemId":"item-1"}`,
			expectedStatus: http.StatusNotFound,
			expectedReason: core.ReasonBorrowerNotFound,
		},
		{
			name:           "unknown item",
			body:           `{"borrowerId":"b-1","itemId":"nothing"}`,
			expectedStatus: http.StatusNotFound,
			expectedReason: core.ReasonItemNotFound,
		},
		{
			name:           "inactive borrower",
			body:           `{"borrowerId":"b-inactive","itemId":"item-1"}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedReason: core.ReasonInactiveBorrower,
		},
		{
			name:           "unknown loan policy",
			body:           `{"borrowerId":"b-1","itemId":"item-1","policy":"forever"}`,
			expectedStatus: http.StatusBadRequest,
			expectedReason: core.ReasonUnknownPolicy,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// arrange
			a := givenAPI(t)

			// act
			rec := a.do(t, http.MethodPost, "/api/v1/loans", tc.body)

			// assert
			require.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())
			assert.Equal(t, string(tc.expectedReason), decodeBody(t, rec)["reason"])
		})
	}
}

func Test_IssueLoan_ReturnsConflict_WhenLastCopyIsTaken(t *testing.T) {
	t.Parallel()

	// arrange
	a := givenAPI(t)
	a.givenIssuedLoan(t, "b-1", "item-1")

	// act
	rec := a.do(t, http.MethodPost, "/api/v1/loans", `{"borrowerId":"b-2","itemId":"item-1"}`)

	// assert
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(core.ReasonNoAvailableCopies), decodeBody(t, rec)["reason"])
}

func Test_IssueLoan_ReturnsBadRequest_WhenRequestIsInvalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		body string
	}{
		{name: "missing borrower", body: `{"itemId":"item-1"}`},
		{name: "missing item", body: `{"borrowerId":"b-1"}`},
		{name: "broken json", body: `{"borrowerId":`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// arrange
			a := givenAPI(t)

			// act
			rec := a.do(t, http.MethodPost, "/api/v1/loans", tc.body)

			// assert
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func Test_ReturnLoan_ReportsFixedFine_WhenSixDaysLate(t *testing.T) {
	t.Parallel()

	// arrange
	a := givenAPI(t)
	loanID := a.givenIssuedLoan(t, "b-1", "item-1")
	a.clock.AdvanceDays(20)

	// act
	rec := a.do(t, http.MethodPost, "/api/v1/loans/"+loanID+"/return", "")

	// assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, string(core.LoanStatusReturned), body["status"])
	assert.Equal(t, "12.00", body["fineAmount"])
	assert.Equal(t, "2025-03-23", body["returnDate"])

	again := a.do(t, http.MethodPost, "/api/v1/loans/"+loanID+"/return", "")
	assert.Equal(t, http.StatusConflict, again.Code)
	assert.Equal(t, string(core.ReasonAlreadyReturned), decodeBody(t, again)["reason"])
}

func Test_RenewLoan_SucceedsOnce_ThenConflict(t *testing.T) {
	t.Parallel()

	// arrange
	a := givenAPI(t)
	loanID := a.givenIssuedLoan(t, "b-1", "item-2")

	// act
	first := a.do(t, http.MethodPost, "/api/v1/loans/"+loanID+"/renew", "")
	second := a.do(t, http.MethodPost, "/api/v1/loans/"+loanID+"/renew", "")

	// assert
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	body := decodeBody(t, first)
	assert.Equal(t, string(core.LoanStatusRenewed), body["status"])
	assert.Equal(t, "2025-03-31", body["dueDate"])
	assert.InDelta(t, 1, body["renewalCount"], 0)

	require.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, string(core.ReasonAlreadyRenewed), decodeBody(t, second)["reason"])
}

func Test_CancelLoan_ReturnsNoContent_ThenConflict(t *testing.T) {
	t.Parallel()

	// arrange
	a := givenAPI(t)
	loanID := a.givenIssuedLoan(t, "b-1", "item-1")

	// act
	first := a.do(t, http.MethodPost, "/api/v1/loans/"+loanID+"/cancel", "")
	second := a.do(t, http.MethodPost, "/api/v1/loans/"+loanID+"/cancel", "")

	// assert
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, string(core.ReasonAlreadyCancelled), decodeBody(t, second)["reason"])

	reissued := a.do(t, http.MethodPost, "/api/v1/loans", `{"borrowerId":"b-2","itemId":"item-1"}`)
	assert.Equal(t, http.StatusCreated, reissued.Code)
}

func Test_GetLoan_ReturnsNotFound_WhenUnknown(t *testing.T) {
	t.Parallel()

	// arrange
	a := givenAPI(t)

	// act
	rec := a.do(t, http.MethodGet, "/api/v1/loans/does-not-exist", "")

	// assert
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(core.ReasonLoanNotFound), decodeBody(t, rec)["reason"])
}

func Test_GetLoan_ReturnsLoan(t *testing.T) {
	t.Parallel()

	// arrange
	a := givenAPI(t)
	loanID := a.givenIssuedLoan(t, "b-1", "item-1")

	// act
	rec := a.do(t, http.MethodGet, "/api/v1/loans/"+loanID, "")

	// assert
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, loanID, decodeBody(t, rec)["loanId"])
}

func Test_ListLoans_FiltersByStartDate_WhenRangeIsGiven(t *testing.T) {
	t.Parallel()

	// arrange
	a := givenAPI(t)
	a.givenIssuedLoan(t, "b-1", "item-1")
	a.clock.AdvanceDays(10)
	a.givenIssuedLoan(t, "b-2", "item-2")

	// act
	all := a.do(t, http.MethodGet, "/api/v1/loans", "")
	ranged := a.do(t, http.MethodGet, "/api/v1/loans?from=2025-03-10&to=2025-03-31", "")

	// assert
	require.Equal(t, http.StatusOK, all.Code)
	assert.InDelta(t, 2, decodeBody(t, all)["count"], 0)

	require.Equal(t, http.StatusOK, ranged.Code)
	body := decodeBody(t, ranged)
	assert.InDelta(t, 1, body["count"], 0)
	assert.Equal(t, "2025-03-10", body["from"])
	loans := body["loans"].([]any)
	assert.Equal(t, "b-2", loans[0].(map[string]any)["borrowerId"])
}

func Test_ListLoans_ReturnsBadRequest_WhenRangeIsInvalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		target string
	}{
		{name: "malformed from", target: "/api/v1/loans?from=03/10/2025&to=2025-03-31"},
		{name: "missing to", target: "/api/v1/loans?from=2025-03-10"},
		{name: "inverted", target: "/api/v1/loans?from=2025-03-31&to=2025-03-10"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// arrange
			a := givenAPI(t)

			// act
			rec := a.do(t, http.MethodGet, tc.target, "")

			// assert
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func Test_ReadEndpoints_ReflectOverdueAndDueSoonLoans(t *testing.T) {
	t.Parallel()

	// arrange
	a := givenAPI(t)
	a.givenIssuedLoan(t, "b-1", "item-1")
	a.clock.AdvanceDays(12)
	a.givenIssuedLoan(t, "b-2", "item-2")
	a.clock.AdvanceDays(5)

	// act
	overdue := a.do(t, http.MethodGet, "/api/v1/loans/overdue", "")
	dueSoon := a.do(t, http.MethodGet, "/api/v1/loans/due-soon?windowDays=14", "")
	active := a.do(t, http.MethodGet, "/api/v1/loans/active", "")
	stats := a.do(t, http.MethodGet, "/api/v1/loans/stats", "")

	// assert
	require.Equal(t, http.StatusOK, overdue.Code)
	overdueBody := decodeBody(t, overdue)
	require.InDelta(t, 1, overdueBody["count"], 0)
	overdueLoan := overdueBody["loans"].([]any)[0].(map[string]any)
	assert.Equal(t, "b-1", overdueLoan["borrowerId"])
	assert.InDelta(t, 3, overdueLoan["daysLate"], 0)
	assert.Equal(t, string(core.LoanStatusOverdue), overdueLoan["effectiveStatus"])

	require.Equal(t, http.StatusOK, dueSoon.Code)
	dueSoonBody := decodeBody(t, dueSoon)
	require.InDelta(t, 1, dueSoonBody["count"], 0)
	dueSoonLoan := dueSoonBody["loans"].([]any)[0].(map[string]any)
	assert.Equal(t, "b-2", dueSoonLoan["borrowerId"])
	assert.InDelta(t, 9, dueSoonLoan["daysLeft"], 0)

	require.Equal(t, http.StatusOK, active.Code)
	assert.InDelta(t, 2, decodeBody(t, active)["count"], 0)

	require.Equal(t, http.StatusOK, stats.Code)
	statsBody := decodeBody(t, stats)
	assert.InDelta(t, 2, statsBody["total"], 0)
	assert.InDelta(t, 1, statsBody["overdue"], 0)
	assert.Equal(t, "0.00", statsBody["finesTotal"])
}

func Test_DueSoonLoans_ReturnsBadRequest_WhenWindowIsNegative(t *testing.T) {
	t.Parallel()

	// arrange
	a := givenAPI(t)

	// act
	rec := a.do(t, http.MethodGet, "/api/v1/loans/due-soon?windowDays=-1", "")

	// assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_BorrowerLoans_ListsOpenLoans_OrHistory(t *testing.T) {
	t.Parallel()

	// arrange
	a := givenAPI(t)
	returnedID := a.givenIssuedLoan(t, "b-1", "item-1")
	a.givenIssuedLoan(t, "b-1", "item-2")
	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/api/v1/loans/"+returnedID+"/return", "").Code)

	// act
	open := a.do(t, http.MethodGet, "/api/v1/borrowers/b-1/loans", "")
	history := a.do(t, http.MethodGet, "/api/v1/borrowers/b-1/loans?history=true", "")
	invalid := a.do(t, http.MethodGet, "/api/v1/borrowers/b-1/loans?history=maybe", "")

	// assert
	require.Equal(t, http.StatusOK, open.Code)
	openBody := decodeBody(t, open)
	assert.Equal(t, "b-1", openBody["borrowerId"])
	assert.InDelta(t, 1, openBody["count"], 0)

	require.Equal(t, http.StatusOK, history.Code)
	assert.InDelta(t, 2, decodeBody(t, history)["count"], 0)

	assert.Equal(t, http.StatusBadRequest, invalid.Code)
}

func Test_Restock_AddsCopies_AndRejectsNonPositiveAmounts(t *testing.T) {
	t.Parallel()

	// arrange
	a := givenAPI(t)

	// act
	restocked := a.do(t, http.MethodPost, "/api/v1/items/item-1/restock", `{"additionalCopies":2}`)
	invalid := a.do(t, http.MethodPost, "/api/v1/items/item-1/restock", `{"additionalCopies":0}`)
	unknown := a.do(t, http.MethodPost, "/api/v1/items/nothing/restock", `{"additionalCopies":1}`)

	// assert
	require.Equal(t, http.StatusOK, restocked.Code, restocked.Body.String())
	body := decodeBody(t, restocked)
	assert.InDelta(t, 3, body["totalCopies"], 0)
	assert.InDelta(t, 3, body["availableCopies"], 0)

	assert.Equal(t, http.StatusBadRequest, invalid.Code)
	assert.Equal(t, http.StatusNotFound, unknown.Code)
}

func Test_FinePolicy_CanBeReadAndSwitched(t *testing.T) {
	t.Parallel()

	// arrange
	a := givenAPI(t)

	// act
	before := a.do(t, http.MethodGet, "/api/v1/fine-policy", "")
	switched := a.do(t, http.MethodPut, "/api/v1/fine-policy", `{"name":"progressive"}`)
	unknown := a.do(t, http.MethodPut, "/api/v1/fine-policy", `{"name":"draconian"}`)

	// assert
	require.Equal(t, http.StatusOK, before.Code)
	assert.Equal(t, finepolicy.FixedPolicyName, decodeBody(t, before)["name"])
	assert.Equal(t, "fixed fine of 2.00 per day late", decodeBody(t, before)["description"])

	require.Equal(t, http.StatusOK, switched.Code)
	assert.Equal(t, finepolicy.ProgressivePolicyName, decodeBody(t, switched)["name"])

	assert.Equal(t, http.StatusBadRequest, unknown.Code)
}

func Test_Handler_HidesInfrastructureErrors(t *testing.T) {
	t.Parallel()

	// arrange
	handler, err := httpapi.New(failingCirculation{err: errors.New("connection refused by 10.0.0.7")}, nil)
	require.NoError(t, err)
	a := api{router: handler.NewRouter()}

	// act
	rec := a.do(t, http.MethodGet, "/api/v1/loans", "")

	// assert
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.7")
}

func Test_Handler_ReturnsTooManyRequests_WhenRateIsExceeded(t *testing.T) {
	t.Parallel()

	// arrange
	a := givenAPI(t, httpapi.WithRequestsPerSecond(1))

	// act
	first := a.do(t, http.MethodGet, "/api/v1/loans", "")
	second := a.do(t, http.MethodGet, "/api/v1/loans", "")

	// assert
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func Test_New_Fails_WhenConfigurationIsInvalid(t *testing.T) {
	t.Parallel()

	// act
	_, nilErr := httpapi.New(nil, nil)
	_, rateErr := httpapi.New(failingCirculation{}, nil, httpapi.WithRequestsPerSecond(0))

	// assert
	assert.ErrorIs(t, nilErr, httpapi.ErrNilCirculation)
	assert.ErrorIs(t, rateErr, httpapi.ErrInvalidRequestRate)
}

func Test_StatusFor_MapsErrorKinds(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		err            error
		expectedStatus int
	}{
		{err: core.Reject(core.ErrNotFound, core.ReasonLoanNotFound, "x"), expectedStatus: http.StatusNotFound},
		{err: core.Reject(core.ErrIneligibleBorrower, core.ReasonLimitExceeded, ""), expectedStatus: http.StatusUnprocessableEntity},
		{err: core.Reject(core.ErrNoCapacity, core.ReasonNoAvailableCopies, ""), expectedStatus: http.StatusConflict},
		{err: core.Reject(core.ErrCurrentlyOverdue, core.ReasonCurrentlyOverdue, ""), expectedStatus: http.StatusConflict},
		{err: core.Reject(core.ErrRenewalNotAllowed, core.ReasonRenewalDisabled, ""), expectedStatus: http.StatusConflict},
		{err: coordinator.ErrInvalidRestock, expectedStatus: http.StatusBadRequest},
		{err: loansinrange.ErrInvalidRange, expectedStatus: http.StatusBadRequest},
		{err: errors.Join(core.ErrInvariantViolation, errors.New("release without reserve")), expectedStatus: http.StatusInternalServerError},
		{err: errors.New("disk full"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expectedStatus, httpapi.StatusFor(tc.err), tc.err.Error())
	}
}
