package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"max.ks1230/split-expenses-bot/internal/entity/expense"
	"max.ks1230/split-expenses-bot/internal/logger"
	"max.ks1230/split-expenses-bot/internal/model/chat"
	"max.ks1230/split-expenses-bot/internal/model/ledger"
)

// SystemPrompt is the instruction given to the inference service.
const SystemPrompt = "Extract the transaction information from the user's message."

const (
	incompleteMessage  = "⚠️ Could not read the transaction: %s\nMissing: %s\n\nRetry with more details or use /add"
	unavailableMessage = "⚠️ The assistant is not available: %s\n\nUse /add instead"
	defaultReason      = "some fields could not be determined"
)

// Result is what the inference service returns: either an error with the
// fields it could not determine, or a payload matching the schema.
type Result struct {
	Error         string
	MissingFields []string
	Payload       map[string]any
}

func (r Result) Failed() bool {
	return r.Error != "" || len(r.MissingFields) > 0 || r.Payload == nil
}

// IncompleteError means no transaction could be built from the message.
type IncompleteError struct {
	Reason  string
	Missing []string
}

func (e *IncompleteError) Error() string {
	return e.Reason + " (missing: " + e.missingList() + ")"
}

func (e *IncompleteError) missingList() string {
	if len(e.Missing) == 0 {
		return "unknown"
	}
	return strings.Join(e.Missing, ", ")
}

type extractor interface {
	Extract(ctx context.Context, schema Schema, systemPrompt, payerName, description string) (Result, error)
}

type recorder interface {
	Record(ctx context.Context, tx expense.Transaction, path string) chat.Reply
}

// Adapter turns a single free-text message into a submitted transaction.
// It holds no conversation state.
type Adapter struct {
	catalog   *expense.Catalog
	extractor extractor
	recorder  recorder
	now       func() time.Time
}

func NewAdapter(catalog *expense.Catalog, extractor extractor, recorder recorder, now func() time.Time) *Adapter {
	return &Adapter{
		catalog:   catalog,
		extractor: extractor,
		recorder:  recorder,
		now:       now,
	}
}

// Run extracts the transaction and submits it, returning the reply for the user.
func (a *Adapter) Run(ctx context.Context, payerName, description string) chat.Reply {
	tx, err := a.Extract(ctx, payerName, description)
	if err != nil {
		var incomplete *IncompleteError
		if errors.As(err, &incomplete) {
			observeExtraction(outcomeIncomplete)
			return chat.ClearKeyboard(fmt.Sprintf(incompleteMessage, incomplete.Reason, incomplete.missingList()))
		}
		observeExtraction(outcomeUnavailable)
		logger.Error("extraction failed", zap.Error(err))
		return chat.ClearKeyboard(fmt.Sprintf(unavailableMessage, err.Error()))
	}
	observeExtraction(outcomeOK)
	return a.recorder.Record(ctx, tx, ledger.PathExtraction)
}

// Extract builds a transaction out of the description without submitting it.
func (a *Adapter) Extract(ctx context.Context, payerName, description string) (expense.Transaction, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "extractTransaction")
	defer span.Finish()

	schema := BuildSchema(a.catalog)
	res, err := a.extractor.Extract(ctx, schema, SystemPrompt, payerName, description)
	if err != nil {
		ext.Error.Set(span, true)
		return expense.Transaction{}, errors.Wrap(err, "extract transaction")
	}
	if res.Failed() {
		reason := res.Error
		if reason == "" {
			reason = defaultReason
		}
		return expense.Transaction{}, &IncompleteError{Reason: reason, Missing: res.MissingFields}
	}

	values, missing := schema.Validate(res.Payload)
	if len(missing) > 0 {
		return expense.Transaction{}, &IncompleteError{Reason: defaultReason, Missing: missing}
	}
	return a.resolve(values)
}

func (a *Adapter) resolve(values Values) (expense.Transaction, error) {
	var missing []string
	category, ok := a.catalog.CategoryByName(values.String(FieldCategory))
	if !ok {
		missing = append(missing, FieldCategory)
	}
	paidBy, ok := a.catalog.UserByName(values.String(FieldPaidBy))
	if !ok {
		missing = append(missing, FieldPaidBy)
	}
	split, ok := a.catalog.SplitMethodByName(values.String(FieldSplitMethod))
	if !ok {
		missing = append(missing, FieldSplitMethod)
	}
	if len(missing) > 0 {
		return expense.Transaction{}, &IncompleteError{Reason: defaultReason, Missing: missing}
	}

	return expense.Transaction{
		Date:        a.now(),
		Total:       decimal.NewFromFloat(values.Number(FieldTotal)),
		Title:       values.String(FieldTitle),
		Category:    category,
		PaidBy:      paidBy,
		SplitMethod: split,
	}, nil
}
