package extract

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"max.ks1230/split-expenses-bot/internal/entity/expense"
	"max.ks1230/split-expenses-bot/internal/model/chat"
	"max.ks1230/split-expenses-bot/internal/model/ledger"
)

var now = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

type extractorMock struct {
	mock.Mock
}

func (m *extractorMock) Extract(ctx context.Context, schema Schema, systemPrompt, payerName, description string) (Result, error) {
	args := m.Called(ctx, schema, systemPrompt, payerName, description)
	return args.Get(0).(Result), args.Error(1)
}

type recorderMock struct {
	mock.Mock
}

func (m *recorderMock) Record(ctx context.Context, tx expense.Transaction, path string) chat.Reply {
	args := m.Called(ctx, tx, path)
	return args.Get(0).(chat.Reply)
}

func testCatalog() *expense.Catalog {
	return &expense.Catalog{
		Users: []expense.User{
			{ID: "alice", Emoji: "🧑", Name: "Alice"},
			{ID: "bob", Emoji: "👨", Name: "Bob"},
		},
		Categories: []expense.Category{
			{Name: "Food", Emoji: "🛒"},
			{Name: "Home", Emoji: "🏠"},
		},
		SplitMethods: []expense.SplitMethod{
			{Name: "Equal", Split: map[string]float64{"alice": 50, "bob": 50}},
			{Name: "Only Bob", Split: map[string]float64{"bob": 100}},
		},
	}
}

func newTestAdapter(e *extractorMock, r *recorderMock) *Adapter {
	return NewAdapter(testCatalog(), e, r, func() time.Time { return now })
}

func Test_OnBuildSchema_ShouldEnumerateCatalog(t *testing.T) {
	schema := BuildSchema(testCatalog())

	require.Len(t, schema.Fields, 5)
	assert.Equal(t, FieldCategory, schema.Fields[2].Name)
	assert.Equal(t, []string{"Food", "Home"}, schema.Fields[2].Enum)
	assert.Equal(t, []string{"Alice", "Bob"}, schema.Fields[3].Enum)
	assert.Equal(t, []string{"Equal", "Only Bob"}, schema.Fields[4].Enum)
	assert.Equal(t, "Equal", schema.Fields[4].Default)
	assert.Equal(t, KindNumber, schema.Fields[0].Kind)
}

func Test_OnValidate_ShouldApplyDefaultAndReportInvalid(t *testing.T) {
	schema := BuildSchema(testCatalog())

	values, missing := schema.Validate(map[string]any{
		"total":    float64(-1),
		"title":    "  coffee ",
		"category": "Drinks",
		"paid_by":  "Bob",
	})

	assert.Equal(t, []string{FieldTotal, FieldCategory}, missing)
	assert.Equal(t, "coffee", values.String(FieldTitle))
	assert.Equal(t, "Equal", values.String(FieldSplitMethod))
	assert.Equal(t, "Bob", values.String(FieldPaidBy))
}

func Test_OnExtractionWithMissingCategory_ShouldNotCreateTransaction(t *testing.T) {
	e := &extractorMock{}
	r := &recorderMock{}
	e.On("Extract", mock.Anything, mock.Anything, SystemPrompt, "Alice", "coffee 5 dollars").
		Return(Result{Error: "category is unclear", MissingFields: []string{"category"}}, nil)

	reply := newTestAdapter(e, r).Run(context.Background(), "Alice", "coffee 5 dollars")

	assert.Equal(t, "⚠️ Could not read the transaction: category is unclear\nMissing: category\n\nRetry with more details or use /add", reply.Text)
	r.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func Test_OnUnresolvableCategory_ShouldListItAsMissing(t *testing.T) {
	e := &extractorMock{}
	r := &recorderMock{}
	e.On("Extract", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(Result{Payload: map[string]any{
			"total":    float64(5),
			"title":    "coffee",
			"category": "Coffee",
			"paid_by":  "Alice",
		}}, nil)

	_, err := newTestAdapter(e, r).Extract(context.Background(), "Alice", "coffee 5 dollars")

	var incomplete *IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{"category"}, incomplete.Missing)
}

func Test_OnCompletePayload_ShouldSubmitTransaction(t *testing.T) {
	e := &extractorMock{}
	r := &recorderMock{}
	c := testCatalog()
	e.On("Extract", mock.Anything, BuildSchema(c), SystemPrompt, "Bob", "pizza 23.5 paid by bob").
		Return(Result{Payload: map[string]any{
			"total":        23.5,
			"title":        "Pizza",
			"category":     "Food",
			"paid_by":      "Bob",
			"split_method": "Only Bob",
		}}, nil)
	r.On("Record", mock.Anything, expense.Transaction{
		Date:        now,
		Total:       decimal.NewFromFloat(23.5),
		Title:       "Pizza",
		Category:    c.Categories[0],
		PaidBy:      c.Users[1],
		SplitMethod: c.SplitMethods[1],
	}, ledger.PathExtraction).Return(chat.ClearKeyboard("saved")).Once()

	reply := newTestAdapter(e, r).Run(context.Background(), "Bob", "pizza 23.5 paid by bob")

	assert.Equal(t, "saved", reply.Text)
	r.AssertExpectations(t)
}

func Test_OnExtractorFailure_ShouldReportUnavailable(t *testing.T) {
	e := &extractorMock{}
	r := &recorderMock{}
	e.On("Extract", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(Result{}, errors.New("quota exceeded"))

	reply := newTestAdapter(e, r).Run(context.Background(), "Alice", "coffee 5")

	assert.Equal(t, "⚠️ The assistant is not available: extract transaction: quota exceeded\n\nUse /add instead", reply.Text)
	r.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func Test_OnEmptyResult_ShouldBeIncomplete(t *testing.T) {
	e := &extractorMock{}
	e.On("Extract", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(Result{}, nil)

	_, err := newTestAdapter(e, &recorderMock{}).Extract(context.Background(), "Alice", "hello")

	assert.EqualError(t, err, "some fields could not be determined (missing: unknown)")
}
