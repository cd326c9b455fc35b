package ledger

import (
	"encoding/json"
	"time"

	"max.ks1230/split-expenses-bot/internal/entity/expense"
)

// Paths a transaction can come from.
const (
	PathGuided     = "guided"
	PathExtraction = "extraction"
)

// TransactionEvent is published after the ledger accepted a transaction.
type TransactionEvent struct {
	Date        time.Time         `json:"date"`
	Title       string            `json:"title"`
	Category    string            `json:"category"`
	Total       string            `json:"total"`
	PaidBy      string            `json:"paid_by"`
	SplitMethod string            `json:"split_method"`
	Debts       map[string]string `json:"debts"`
}

func NewTransactionEvent(tx expense.Transaction) *TransactionEvent {
	debts := make(map[string]string, len(tx.SplitMethod.Split))
	for userID := range tx.SplitMethod.Split {
		debts[userID] = tx.Debt(userID).StringFixed(2)
	}
	return &TransactionEvent{
		Date:        tx.Date,
		Title:       tx.Title,
		Category:    tx.Category.Name,
		Total:       tx.Total.String(),
		PaidBy:      tx.PaidBy.ID,
		SplitMethod: tx.SplitMethod.Name,
		Debts:       debts,
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
