package entry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"max.ks1230/split-expenses-bot/internal/entity/expense"
	"max.ks1230/split-expenses-bot/internal/logger"
	"max.ks1230/split-expenses-bot/internal/model/chat"
	"max.ks1230/split-expenses-bot/internal/model/ledger"
	"max.ks1230/split-expenses-bot/internal/model/suggest"
)

const (
	categoryColumns    = 3
	paidByColumns      = 1
	splitMethodColumns = 1

	categoryPlaceholder    = "Category"
	paidByPlaceholder      = "Paid by"
	splitMethodPlaceholder = "Split Type"
)

const (
	unknownStateMessage   = "⚠️ Unknown state. Reset with /new"
	newTransactionMessage = "🆕 New transaction\n💲 Total:"
	notANumberMessage     = "Not a number. Total:"
	notPositiveMessage    = "Total must be positive. Total:"
	askTitleMessage       = "Total: %s\n✏️ Title:"
	emptyTitleMessage     = "Title can't be empty. Title:"
	askCategoryMessage    = "Title: %s\n🏷 Category:"
	badCategoryMessage    = "Not a valid category. Category:"
	askPaidByMessage      = "Category: %s\n👤 Paid by:"
	badPaidByMessage      = "Not a valid paid by. Paid by:"
	askSplitMessage       = "Paid by: %s\n🔀 Split type:"
	badSplitMessage       = "Not a valid split type. Split type:"
	allDoneMessage        = "Split type: %s\n⭐️ All done!"
	alreadyDoneMessage    = "This transaction is already done. Use /add to add more"
)

type recorder interface {
	Record(ctx context.Context, tx expense.Transaction, path string) chat.Reply
}

type step func(ctx context.Context, draft Draft, text string) (Draft, []chat.Reply)

// Machine walks a conversation through the fields of a transaction.
// It keeps no per-conversation state: the caller owns the drafts and must
// not advance the same draft concurrently.
type Machine struct {
	catalog  *expense.Catalog
	recorder recorder
	now      func() time.Time
	steps    map[State]step
}

func NewMachine(catalog *expense.Catalog, recorder recorder, now func() time.Time) *Machine {
	m := &Machine{
		catalog:  catalog,
		recorder: recorder,
		now:      now,
	}
	m.steps = map[State]step{
		StateStart:               m.start,
		StateAwaitingTotal:       m.total,
		StateAwaitingTitle:       m.title,
		StateAwaitingCategory:    m.category,
		StateAwaitingPaidBy:      m.paidBy,
		StateAwaitingSplitMethod: m.splitMethod,
		StateComplete:            m.complete,
	}
	return m
}

// Advance feeds one message into the draft and returns the updated draft
// together with the replies to send, in order.
func (m *Machine) Advance(ctx context.Context, draft Draft, text string) (Draft, []chat.Reply) {
	s, ok := m.steps[draft.State]
	if !ok {
		logger.Warn("unknown draft state", zap.String("state", string(draft.State)))
		return draft, replies(chat.ClearKeyboard(unknownStateMessage))
	}
	return s(ctx, draft, text)
}

func (m *Machine) start(_ context.Context, _ Draft, _ string) (Draft, []chat.Reply) {
	return Draft{State: StateAwaitingTotal}, replies(chat.ClearKeyboard(newTransactionMessage))
}

func (m *Machine) total(_ context.Context, draft Draft, text string) (Draft, []chat.Reply) {
	total, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return draft, replies(chat.Text(notANumberMessage))
	}
	if !total.IsPositive() {
		return draft, replies(chat.Text(notPositiveMessage))
	}

	draft.Total = total
	draft.State = StateAwaitingTitle
	return draft, replies(chat.Text(fmt.Sprintf(askTitleMessage, total.String())))
}

func (m *Machine) title(_ context.Context, draft Draft, text string) (Draft, []chat.Reply) {
	if strings.TrimSpace(text) == "" {
		return draft, replies(chat.Text(emptyTitleMessage))
	}

	draft.Title = text
	draft.State = StateAwaitingCategory

	labels := m.catalog.CategoryLabels()
	if cat, ok := suggest.Category(text, m.catalog.Categories); ok {
		labels = append([]string{cat.DisplayName()}, labels...)
	}
	kb := chat.NewKeyboard(labels, categoryColumns, categoryPlaceholder)
	return draft, replies(chat.WithKeyboard(fmt.Sprintf(askCategoryMessage, text), kb))
}

func (m *Machine) category(_ context.Context, draft Draft, text string) (Draft, []chat.Reply) {
	cat, ok := m.catalog.CategoryByLabel(text)
	if !ok {
		return draft, replies(chat.WithKeyboard(badCategoryMessage, m.categoryKeyboard()))
	}

	draft.Category = cat
	draft.State = StateAwaitingPaidBy
	return draft, replies(chat.WithKeyboard(fmt.Sprintf(askPaidByMessage, cat.DisplayName()), m.paidByKeyboard()))
}

func (m *Machine) paidBy(_ context.Context, draft Draft, text string) (Draft, []chat.Reply) {
	u, ok := m.catalog.UserByLabel(text)
	if !ok {
		return draft, replies(chat.WithKeyboard(badPaidByMessage, m.paidByKeyboard()))
	}

	draft.PaidBy = u
	draft.State = StateAwaitingSplitMethod
	return draft, replies(chat.WithKeyboard(fmt.Sprintf(askSplitMessage, u.DisplayName()), m.splitMethodKeyboard()))
}

func (m *Machine) splitMethod(ctx context.Context, draft Draft, text string) (Draft, []chat.Reply) {
	s, ok := m.catalog.SplitMethodByName(text)
	if !ok {
		return draft, replies(chat.WithKeyboard(badSplitMessage, m.splitMethodKeyboard()))
	}

	draft.SplitMethod = s
	draft.State = StateComplete

	tx := expense.Transaction{
		Date:        m.now(),
		Total:       draft.Total,
		Title:       draft.Title,
		Category:    draft.Category,
		PaidBy:      draft.PaidBy,
		SplitMethod: draft.SplitMethod,
	}
	done := chat.ClearKeyboard(fmt.Sprintf(allDoneMessage, s.Name))
	return draft, replies(done, m.recorder.Record(ctx, tx, ledger.PathGuided))
}

func (m *Machine) complete(_ context.Context, draft Draft, _ string) (Draft, []chat.Reply) {
	return draft, replies(chat.ClearKeyboard(alreadyDoneMessage))
}

func (m *Machine) categoryKeyboard() *chat.Keyboard {
	return chat.NewKeyboard(m.catalog.CategoryLabels(), categoryColumns, categoryPlaceholder)
}

func (m *Machine) paidByKeyboard() *chat.Keyboard {
	return chat.NewKeyboard(m.catalog.UserLabels(), paidByColumns, paidByPlaceholder)
}

func (m *Machine) splitMethodKeyboard() *chat.Keyboard {
	return chat.NewKeyboard(m.catalog.SplitMethodNames(), splitMethodColumns, splitMethodPlaceholder)
}

func replies(r ...chat.Reply) []chat.Reply {
	return r
}
