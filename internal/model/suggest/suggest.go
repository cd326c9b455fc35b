package suggest

import (
	"strings"

	"max.ks1230/split-expenses-bot/internal/entity/expense"
)

// Category guesses a category for the title by its keywords. Words are checked
// left to right and the first keyword hit wins. When two categories share a
// keyword the one configured later owns it.
func Category(title string, categories []expense.Category) (expense.Category, bool) {
	byKeyword := make(map[string]expense.Category)
	for _, cat := range categories {
		for _, kw := range cat.Keywords {
			byKeyword[strings.ToLower(kw)] = cat
		}
	}

	for _, word := range strings.Fields(strings.ToLower(title)) {
		if cat, ok := byKeyword[word]; ok {
			return cat, true
		}
	}
	return expense.Category{}, false
}
