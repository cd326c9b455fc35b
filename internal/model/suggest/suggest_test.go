package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"max.ks1230/split-expenses-bot/internal/entity/expense"
)

var categories = []expense.Category{
	{Name: "Food", Emoji: "🛒", Keywords: []string{"cafe", "Pizza"}},
	{Name: "Transport", Emoji: "🚆", Keywords: []string{"train", "taxi"}},
	{Name: "Going out", Emoji: "🎉", Keywords: []string{"bar", "taxi"}},
}

func Test_OnTitleWithKeyword_ShouldSuggestCategory(t *testing.T) {
	cat, ok := Category("dinner at cafe", categories)

	assert.True(t, ok)
	assert.Equal(t, "Food", cat.Name)
}

func Test_OnTitleWithoutKeyword_ShouldSuggestNothing(t *testing.T) {
	_, ok := Category("rent for march", categories)

	assert.False(t, ok)
}

func Test_OnMixedCase_ShouldMatchCaseInsensitively(t *testing.T) {
	cat, ok := Category("PIZZA night", categories)

	assert.True(t, ok)
	assert.Equal(t, "Food", cat.Name)
}

func Test_OnSeveralKeywords_ShouldPickFirstWordInTitle(t *testing.T) {
	cat, ok := Category("train then cafe", categories)

	assert.True(t, ok)
	assert.Equal(t, "Transport", cat.Name)
}

func Test_OnSharedKeyword_ShouldPickLaterCategory(t *testing.T) {
	cat, ok := Category("taxi home", categories)

	assert.True(t, ok)
	assert.Equal(t, "Going out", cat.Name)
}

func Test_OnSuggest_ShouldNotMutateCategories(t *testing.T) {
	_, _ = Category("Pizza", categories)

	assert.Equal(t, []string{"cafe", "Pizza"}, categories[0].Keywords)
}
