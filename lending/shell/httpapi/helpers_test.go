package httpapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-circulation-go/inventory"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core/finepolicy"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/coordinator"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/httpapi"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/memstore"
	"github.com/AntonStoeckl/lending-circulation-go/testutil/testdoubles"
)

var day0 = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

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

type api struct {
	router *echo.Echo
	clock  *fakeClock
}

func givenAPI(t *testing.T, options ...httpapi.Option) api {
	t.Helper()

	catalog, err := memstore.NewCatalog(
		core.Item{ItemID: "item-1", Title: "Dune", TotalCopies: 1, AvailableCopies: 1},
		core.Item{ItemID: "item-2", Title: "Solaris", TotalCopies: 2, AvailableCopies: 2},
	)
	require.NoError(t, err)

	directory, err := memstore.NewDirectory(
		core.Borrower{BorrowerID: "b-1", Name: "Ada", Email: "ada@example.org", Active: true},
		core.Borrower{BorrowerID: "b-2", Name: "Grace", Email: "grace@example.org", Active: true},
		core.Borrower{BorrowerID: "b-inactive", Name: "Idle", Active: false},
	)
	require.NoError(t, err)

	ledger, err := inventory.NewLedger()
	require.NoError(t, err)

	fines, err := finepolicy.NewCalculatorFromName(finepolicy.FixedPolicyName, finepolicy.DefaultSettings())
	require.NoError(t, err)

	clock := &fakeClock{now: day0}

	circulation, err := coordinator.NewCoordinator(
		catalog, directory, memstore.NewLoanStore(), testdoubles.NewNotificationSinkSpy(), ledger, fines,
		coordinator.WithClock(clock.Now),
	)
	require.NoError(t, err)

	handler, err := httpapi.New(circulation, nil, options...)
	require.NoError(t, err)

	return api{router: handler.NewRouter(), clock: clock}
}

func (a api) do(t *testing.T, method string, target string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	return rec
}

func (a api) givenIssuedLoan(t *testing.T, borrowerID string, itemID string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/v1/loans", `{"borrowerId":"`+borrowerID+`","itemId":"`+itemID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return decodeBody(t, rec)["loanId"].(string)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

// failingCirculation fails every read of all loans.
type failingCirculation struct {
	httpapi.Circulation
	err error
}

func (f failingCirculation) AllLoans(context.Context) (core.Loans, error) {
	return nil, f.err
}
