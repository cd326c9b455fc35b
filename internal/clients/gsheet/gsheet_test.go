package gsheet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"max.ks1230/split-expenses-bot/internal/entity/expense"
	"max.ks1230/split-expenses-bot/internal/model/customerr"
)

var (
	alice = expense.User{ID: "alice", Emoji: "🧑", Name: "Alice"}
	bob   = expense.User{ID: "bob", Emoji: "👨", Name: "Bob"}
)

type testConfig struct{}

func (testConfig) ServiceAccountFile() string    { return "" }
func (testConfig) FileID() string                { return "sheet-id" }
func (testConfig) TransactionsWorksheet() string { return "Transactions" }
func (testConfig) SummaryWorksheet() string      { return "Summary" }
func (testConfig) CellUserInDebt() string        { return "B1" }
func (testConfig) CellAmountToRepay() string     { return "B2" }

func groceries() expense.Transaction {
	return expense.Transaction{
		Date:     time.Date(2024, 3, 1, 18, 5, 0, 0, time.UTC),
		Total:    decimal.RequireFromString("42.50"),
		Title:    "Groceries",
		Category: expense.Category{Name: "Food", Emoji: "🛒"},
		PaidBy:   alice,
		SplitMethod: expense.SplitMethod{
			Name:  "Equal",
			Split: map[string]float64{"alice": 50, "bob": 50},
		},
	}
}

func Test_OnRow_ShouldLayOutBlocksPerUser(t *testing.T) {
	row := Row(groceries(), []expense.User{alice, bob})

	assert.Equal(t, []any{
		2024, 3, 1, "18:5", "Groceries", "Food", 42.5, "Alice", "Equal",
		0.5, 0.5,
		21.25, 21.25,
		0.0, 21.25,
	}, row)
}

type fakeSheets struct {
	insertedAt  int64
	writtenTo   string
	writtenRow  []any
	failWriting bool
	failSummary bool
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/spreadsheets/sheet-id"):
		_, _ = w.Write([]byte(`{"sheets":[{"properties":{"sheetId":7,"title":"Summary"}},{"properties":{"sheetId":42,"title":"Transactions"}}]}`))
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		var req struct {
			Requests []struct {
				InsertDimension struct {
					Range struct {
						SheetID    int64 `json:"sheetId"`
						StartIndex int64 `json:"startIndex"`
					} `json:"range"`
				} `json:"insertDimension"`
			} `json:"requests"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Requests) == 1 {
			f.insertedAt = req.Requests[0].InsertDimension.Range.StartIndex
		}
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		if f.failWriting {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
			return
		}
		var vr struct {
			Values [][]any `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&vr)
		f.writtenTo = path[strings.Index(path, "/values/")+len("/values/"):]
		if len(vr.Values) == 1 {
			f.writtenRow = vr.Values[0]
		}
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodGet && strings.HasSuffix(path, "values:batchGet"):
		if f.failSummary {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"valueRanges":[{"values":[["Bob"]]},{"values":[["21.25"]]}]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := newClient(context.Background(), testConfig{},
		&expense.Catalog{Users: []expense.User{alice, bob}},
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication())
	require.NoError(t, err)
	return c
}

func Test_OnNewClient_ShouldResolveTransactionsSheet(t *testing.T) {
	c := newTestClient(t, &fakeSheets{})

	assert.Equal(t, int64(42), c.transactionsID)
}

func Test_OnSubmit_ShouldInsertRowBelowHeaderAndReadDebtor(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)

	report, err := c.Submit(context.Background(), groceries())

	require.NoError(t, err)
	assert.Equal(t, expense.DebtReport{Debtor: "Bob", Amount: "21.25"}, report)
	assert.Equal(t, int64(1), fake.insertedAt)
	assert.Equal(t, "Transactions!A2", fake.writtenTo)
	require.Len(t, fake.writtenRow, 15)
	assert.Equal(t, "Groceries", fake.writtenRow[4])
}

func Test_OnWriteFailure_ShouldReturnLedgerError(t *testing.T) {
	c := newTestClient(t, &fakeSheets{failWriting: true})

	_, err := c.Submit(context.Background(), groceries())

	require.Error(t, err)
	assert.Equal(t, "cannot save the transaction", customerr.UserMessage(err))
}

func Test_OnSummaryFailureAfterWrite_ShouldReportTransactionAsSaved(t *testing.T) {
	fake := &fakeSheets{failSummary: true}
	c := newTestClient(t, fake)

	_, err := c.Submit(context.Background(), groceries())

	require.Error(t, err)
	assert.Len(t, fake.writtenRow, 15)
	assert.True(t, customerr.IsSaved(err))
	assert.Equal(t, "cannot read the debt summary", customerr.UserMessage(err))
}

func Test_OnWriteFailure_ShouldNotReportTransactionAsSaved(t *testing.T) {
	c := newTestClient(t, &fakeSheets{failWriting: true})

	_, err := c.Submit(context.Background(), groceries())

	assert.False(t, customerr.IsSaved(err))
}
