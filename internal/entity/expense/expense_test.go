package expense

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testCatalog() *Catalog {
	return &Catalog{
		Users: []User{
			{ID: "alice", Emoji: "🧑", Name: "Alice"},
			{ID: "bob", Emoji: "👨", Name: "Bob"},
		},
		Categories: []Category{
			{Name: "Food", Emoji: "🛒", Keywords: []string{"cafe"}},
			{Name: "Home", Emoji: "🏠"},
		},
		SplitMethods: []SplitMethod{
			{Name: "Equal", Split: map[string]float64{"alice": 50, "bob": 50}},
			{Name: "Mostly Alice", Split: map[string]float64{"alice": 70, "bob": 20}},
		},
	}
}

func Test_OnDisplayName_ShouldJoinEmojiAndName(t *testing.T) {
	c := testCatalog()

	assert.Equal(t, "🧑 Alice", c.Users[0].DisplayName())
	assert.Equal(t, "🛒 Food", c.Categories[0].DisplayName())
	assert.Equal(t, []string{"🧑 Alice", "👨 Bob"}, c.UserLabels())
	assert.Equal(t, []string{"🛒 Food", "🏠 Home"}, c.CategoryLabels())
	assert.Equal(t, []string{"Equal", "Mostly Alice"}, c.SplitMethodNames())
}

func Test_OnLabelLookup_ShouldMatchExactly(t *testing.T) {
	c := testCatalog()

	cat, ok := c.CategoryByLabel("🛒 Food")
	assert.True(t, ok)
	assert.Equal(t, "Food", cat.Name)

	_, ok = c.CategoryByLabel("🛒 food")
	assert.False(t, ok)
	_, ok = c.CategoryByLabel("Food")
	assert.False(t, ok)

	u, ok := c.UserByLabel("👨 Bob")
	assert.True(t, ok)
	assert.Equal(t, "bob", u.ID)

	_, ok = c.SplitMethodByName("equal")
	assert.False(t, ok)
}

func Test_OnShareAndDebt_ShouldSplitByPercentage(t *testing.T) {
	c := testCatalog()
	tx := Transaction{
		Date:        time.Date(2024, 3, 1, 18, 5, 0, 0, time.UTC),
		Total:       decimal.RequireFromString("42.50"),
		Title:       "Groceries",
		Category:    c.Categories[0],
		PaidBy:      c.Users[0],
		SplitMethod: c.SplitMethods[0],
	}

	assert.True(t, decimal.RequireFromString("21.25").Equal(tx.Share("alice")))
	assert.True(t, decimal.RequireFromString("21.25").Equal(tx.Share("bob")))
	assert.True(t, decimal.Zero.Equal(tx.Debt("alice")))
	assert.True(t, decimal.RequireFromString("21.25").Equal(tx.Debt("bob")))
	assert.True(t, decimal.Zero.Equal(tx.Share("carol")))
	assert.Equal(t, "2024-03-01 18:05 - Groceries - 42.5 - 🧑 Alice - 🛒 Food - Equal", tx.String())
}

func Test_OnUnbalancedSplit_ShouldBeReported(t *testing.T) {
	c := testCatalog()

	assert.Equal(t, []string{"Mostly Alice"}, c.UnbalancedSplitMethods())
}
