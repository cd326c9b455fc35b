package expense

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02 15:04"

var hundred = decimal.NewFromInt(100)

type User struct {
	ID    string `yaml:"id" json:"id"`
	Emoji string `yaml:"emoji" json:"emoji"`
	Name  string `yaml:"name" json:"name"`
}

// DisplayName is also the label the user has to pick on the keyboard.
func (u User) DisplayName() string {
	return u.Emoji + " " + u.Name
}

type Category struct {
	Name     string   `yaml:"name" json:"name"`
	Emoji    string   `yaml:"emoji" json:"emoji"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

func (c Category) DisplayName() string {
	return c.Emoji + " " + c.Name
}

// SplitMethod maps user IDs to their percentage of a transaction total.
type SplitMethod struct {
	Name  string             `yaml:"name" json:"name"`
	Split map[string]float64 `yaml:"split" json:"split"`
}

// Percentage returns the share of the given user, 0 if the user takes no part.
func (s SplitMethod) Percentage(userID string) decimal.Decimal {
	return decimal.NewFromFloat(s.Split[userID])
}

type Transaction struct {
	Date        time.Time
	Total       decimal.Decimal
	Title       string
	Category    Category
	PaidBy      User
	SplitMethod SplitMethod
}

// Share is the part of the total that falls on the user.
func (t Transaction) Share(userID string) decimal.Decimal {
	return t.Total.Mul(t.SplitMethod.Percentage(userID)).Div(hundred)
}

// Debt is what the user owes the payer for this transaction.
func (t Transaction) Debt(userID string) decimal.Decimal {
	if userID == t.PaidBy.ID {
		return decimal.Zero
	}
	return t.Share(userID)
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s - %s - %s - %s - %s - %s",
		t.Date.Format(dateLayout),
		t.Title,
		t.Total.String(),
		t.PaidBy.DisplayName(),
		t.Category.DisplayName(),
		t.SplitMethod.Name,
	)
}

// DebtReport is what the ledger tells about the current balance.
type DebtReport struct {
	Debtor string
	Amount string
}
