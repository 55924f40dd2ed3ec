package chat

import "strings"

// DefaultCategory is used when no keyword set matches a description.
const DefaultCategory = "Other"

// categoryKeywords maps descriptions to categories. Order matters: the first
// set containing a matching keyword wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Food", []string{
		"lunch", "dinner", "breakfast", "food", "coffee", "restaurant",
		"groceries", "grocery", "snack", "meal", "pizza", "burger",
	}},
	{"Transport", []string{
		"taxi", "uber", "grab", "bus", "train", "fuel", "gas", "parking", "fare",
	}},
	{"Entertainment", []string{
		"movie", "cinema", "game", "concert", "netflix", "spotify", "show",
	}},
	{"Utilities", []string{
		"electricity", "water", "internet", "phone", "bill", "rent",
	}},
	{"Shopping", []string{
		"clothes", "shoes", "shopping", "amazon", "gift", "shirt",
	}},
}

// InferCategory picks a category for a free-text expense description by
// checking the keyword sets in order.
func InferCategory(description string) string {
	lower := strings.ToLower(description)
	for _, set := range categoryKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.category
			}
		}
	}
	return DefaultCategory
}
