package ledger

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"max.ks1230/split-expenses-bot/internal/entity/expense"
	"max.ks1230/split-expenses-bot/internal/model/customerr"
)

type backendMock struct {
	mock.Mock
}

func (m *backendMock) Submit(ctx context.Context, tx expense.Transaction) (expense.DebtReport, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(expense.DebtReport), args.Error(1)
}

func (m *backendMock) Debtor(ctx context.Context) (expense.DebtReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(expense.DebtReport), args.Error(1)
}

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, key string, body []byte) error {
	args := m.Called(ctx, key, body)
	return args.Error(0)
}

func groceries() expense.Transaction {
	alice := expense.User{ID: "alice", Emoji: "🧑", Name: "Alice"}
	return expense.Transaction{
		Date:        time.Date(2024, 3, 1, 18, 5, 0, 0, time.UTC),
		Total:       decimal.RequireFromString("42.50"),
		Title:       "Groceries",
		Category:    expense.Category{Name: "Food", Emoji: "🛒"},
		PaidBy:      alice,
		SplitMethod: expense.SplitMethod{Name: "Equal", Split: map[string]float64{"alice": 50, "bob": 50}},
	}
}

func Test_OnSuccessfulSubmit_ShouldReportDebtor(t *testing.T) {
	ctx := context.Background()
	tx := groceries()
	b := &backendMock{}
	b.On("Submit", mock.Anything, tx).
		Return(expense.DebtReport{Debtor: "Bob", Amount: "21.25"}, nil).
		Once()

	reply := NewRecorder(b, nil).Record(ctx, tx, PathGuided)

	assert.Equal(t, "✅ Saved in cloud.\n\nUser in debt: Bob\nAmount to repay: 21.25\n\nUse /add to add more", reply.Text)
	assert.True(t, reply.RemoveKeyboard)
	b.AssertExpectations(t)
}

func Test_OnFailedSubmit_ShouldReportLedgerMessage(t *testing.T) {
	ctx := context.Background()
	tx := groceries()
	b := &backendMock{}
	p := &publisherMock{}
	b.On("Submit", mock.Anything, tx).
		Return(expense.DebtReport{}, customerr.NewLedgerError("sheet is read-only", errors.New("403"))).
		Once()

	reply := NewRecorder(b, p).Record(ctx, tx, PathGuided)

	assert.Equal(t, "❌ Transaction not saved: sheet is read-only\n\nUse /add to start over", reply.Text)
	b.AssertExpectations(t)
	p.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func Test_OnSameTransactionTwice_ShouldSubmitTwice(t *testing.T) {
	ctx := context.Background()
	tx := groceries()
	b := &backendMock{}
	b.On("Submit", mock.Anything, tx).
		Return(expense.DebtReport{Debtor: "Bob", Amount: "42.50"}, nil).
		Twice()

	r := NewRecorder(b, nil)
	r.Record(ctx, tx, PathGuided)
	r.Record(ctx, tx, PathGuided)

	b.AssertNumberOfCalls(t, "Submit", 2)
}

func Test_OnSuccessfulSubmit_ShouldPublishEvent(t *testing.T) {
	ctx := context.Background()
	tx := groceries()
	b := &backendMock{}
	p := &publisherMock{}
	b.On("Submit", mock.Anything, tx).Return(expense.DebtReport{Debtor: "Bob", Amount: "21.25"}, nil)

	var published []byte
	p.On("Publish", mock.Anything, "alice", mock.Anything).
		Run(func(args mock.Arguments) {
			published = args.Get(2).([]byte)
		}).
		Return(nil).
		Once()

	NewRecorder(b, p).Record(ctx, tx, PathExtraction)

	p.AssertExpectations(t)
	var event TransactionEvent
	require.NoError(t, json.Unmarshal(published, &event))
	assert.Equal(t, "Groceries", event.Title)
	assert.Equal(t, "42.5", event.Total)
	assert.Equal(t, map[string]string{"alice": "0.00", "bob": "21.25"}, event.Debts)
}

func Test_OnPublishFailure_ShouldStillReportSaved(t *testing.T) {
	ctx := context.Background()
	tx := groceries()
	b := &backendMock{}
	p := &publisherMock{}
	b.On("Submit", mock.Anything, tx).Return(expense.DebtReport{Debtor: "Bob", Amount: "21.25"}, nil)
	p.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	reply := NewRecorder(b, p).Record(ctx, tx, PathGuided)

	assert.Contains(t, reply.Text, "✅ Saved in cloud.")
}

func Test_OnStatus_ShouldFormatDebtor(t *testing.T) {
	b := &backendMock{}
	b.On("Debtor", mock.Anything).Return(expense.DebtReport{Debtor: "Bob", Amount: "10"}, nil)

	reply := NewRecorder(b, nil).Status(context.Background())

	assert.Equal(t, "User in debt: Bob\nAmount to repay: 10", reply.Text)
}

func Test_OnStatusFailure_ShouldReportError(t *testing.T) {
	b := &backendMock{}
	b.On("Debtor", mock.Anything).Return(expense.DebtReport{}, customerr.NewLedgerError("summary sheet missing", nil))

	reply := NewRecorder(b, nil).Status(context.Background())

	assert.Equal(t, "❌ Can't get the debt status: summary sheet missing", reply.Text)
}

func Test_OnSavedWithoutDebtReport_ShouldReportSavedAndPublish(t *testing.T) {
	ctx := context.Background()
	tx := groceries()
	b := &backendMock{}
	p := &publisherMock{}
	b.On("Submit", mock.Anything, tx).
		Return(expense.DebtReport{}, customerr.NewSummaryError("cannot read the debt summary", errors.New("500"))).
		Once()
	p.On("Publish", mock.Anything, "alice", mock.Anything).Return(nil).Once()

	reply := NewRecorder(b, p).Record(ctx, tx, PathExtraction)

	assert.Equal(t, "✅ Saved in cloud.\n\n⚠️ Can't get the debt status: cannot read the debt summary\n\nUse /add to add more", reply.Text)
	assert.True(t, reply.RemoveKeyboard)
	p.AssertExpectations(t)
}
