package entry

import (
	"strconv"

	"github.com/shopspring/decimal"
	"max.ks1230/split-expenses-bot/internal/entity/expense"
)

type State string

const (
	StateStart               State = "START"
	StateAwaitingTotal       State = "AWAITING_TOTAL"
	StateAwaitingTitle       State = "AWAITING_TITLE"
	StateAwaitingCategory    State = "AWAITING_CATEGORY"
	StateAwaitingPaidBy      State = "AWAITING_PAID_BY"
	StateAwaitingSplitMethod State = "AWAITING_SPLIT_METHOD"
	StateComplete            State = "COMPLETE"
)

// Draft accumulates the fields of one transaction while the user answers.
// Fields are only meaningful once the state has moved past them.
type Draft struct {
	State       State               `json:"state"`
	Total       decimal.Decimal     `json:"total"`
	Title       string              `json:"title"`
	Category    expense.Category    `json:"category"`
	PaidBy      expense.User        `json:"paid_by"`
	SplitMethod expense.SplitMethod `json:"split_method"`
}

// NewDraft returns a draft that starts a new flow on the next Advance.
func NewDraft() Draft {
	return Draft{State: StateStart}
}

// ConversationID identifies one user talking in one chat.
type ConversationID struct {
	ChatID int64
	UserID int64
}

func (c ConversationID) String() string {
	return strconv.FormatInt(c.ChatID, 10) + ":" + strconv.FormatInt(c.UserID, 10)
}
