package ledger

import (
	"context"
	"fmt"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"go.uber.org/zap"
	"max.ks1230/split-expenses-bot/internal/entity/expense"
	"max.ks1230/split-expenses-bot/internal/logger"
	"max.ks1230/split-expenses-bot/internal/model/chat"
	"max.ks1230/split-expenses-bot/internal/model/customerr"
)

const (
	savedMessage  = "✅ Saved in cloud.\n\nUser in debt: %s\nAmount to repay: %s\n\nUse /add to add more"
	failedMessage = "❌ Transaction not saved: %s\n\nUse /add to start over"
	statusMessage = "User in debt: %s\nAmount to repay: %s"
	noStatus      = "❌ Can't get the debt status: %s"
	savedNoReport = "✅ Saved in cloud.\n\n⚠️ Can't get the debt status: %s\n\nUse /add to add more"
)

type backend interface {
	Submit(ctx context.Context, tx expense.Transaction) (expense.DebtReport, error)
	Debtor(ctx context.Context) (expense.DebtReport, error)
}

type publisher interface {
	Publish(ctx context.Context, key string, body []byte) error
}

// Recorder hands completed transactions over to the ledger and turns the
// outcome into a reply. It never retries and never deduplicates.
type Recorder struct {
	backend   backend
	publisher publisher
}

// NewRecorder builds a Recorder; publisher may be nil when events are off.
func NewRecorder(backend backend, publisher publisher) *Recorder {
	return &Recorder{
		backend:   backend,
		publisher: publisher,
	}
}

func (r *Recorder) Record(ctx context.Context, tx expense.Transaction, path string) chat.Reply {
	span, ctx := opentracing.StartSpanFromContext(ctx, "recordTransaction")
	defer span.Finish()
	span.SetTag("path", path)

	logger.Info("submitting transaction", zap.Stringer("transaction", tx), zap.String("path", path))

	report, err := r.backend.Submit(ctx, tx)
	if err != nil && customerr.IsSaved(err) {
		ext.Error.Set(span, true)
		observeSubmit(path, true)
		logger.Error("transaction saved but debt report failed", zap.Error(err), zap.String("path", path))
		r.publish(ctx, tx)
		return chat.ClearKeyboard(fmt.Sprintf(savedNoReport, customerr.UserMessage(err)))
	}
	if err != nil {
		ext.Error.Set(span, true)
		observeSubmit(path, false)
		logger.Error("failed to submit transaction", zap.Error(err), zap.String("path", path))
		return chat.ClearKeyboard(fmt.Sprintf(failedMessage, customerr.UserMessage(err)))
	}
	observeSubmit(path, true)

	r.publish(ctx, tx)

	return chat.ClearKeyboard(fmt.Sprintf(savedMessage, report.Debtor, report.Amount))
}

func (r *Recorder) Status(ctx context.Context) chat.Reply {
	span, ctx := opentracing.StartSpanFromContext(ctx, "debtStatus")
	defer span.Finish()

	report, err := r.backend.Debtor(ctx)
	if err != nil {
		ext.Error.Set(span, true)
		logger.Error("failed to get debtor", zap.Error(err))
		return chat.Text(fmt.Sprintf(noStatus, customerr.UserMessage(err)))
	}
	return chat.Text(fmt.Sprintf(statusMessage, report.Debtor, report.Amount))
}

func (r *Recorder) publish(ctx context.Context, tx expense.Transaction) {
	if r.publisher == nil {
		return
	}
	event := NewTransactionEvent(tx)
	body, err := event.ToJSON()
	if err != nil {
		logger.Error("cannot marshal transaction event", zap.Error(err))
		return
	}
	if err = r.publisher.Publish(ctx, event.PaidBy, body); err != nil {
		logger.Error("failed to publish transaction event", zap.Error(err))
	}
}
