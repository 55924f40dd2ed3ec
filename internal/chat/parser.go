package chat

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParsedExpense represents an expense parsed out of a chat message.
type ParsedExpense struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	HasDate     bool
}

// naturalExpenseRegex matches phrasings like "I spent $15.50 on lunch" or
// "paid 30 for parking".
var naturalExpenseRegex = regexp.MustCompile(`(?i)(?:spent|paid|cost)\s*\$?(\d+(?:[.,]\d{1,2})?)\s+(?:on|for)\s+(.+)`)

// structuredExpenseRegex matches the explicit add form:
// "add expense: <description>, <amount>, <category>, <YYYY-MM-DD>".
var structuredExpenseRegex = regexp.MustCompile(`(?i)add expense:\s*(.+?)\s*,\s*(\d+(?:[.,]\d{1,2})?)\s*,\s*([^,]+?)\s*,\s*(\d{4}-\d{2}-\d{2})\s*$`)

// ParseNaturalExpense parses a free-text expense mention. The category is not
// inferred here; see InferCategory. Returns nil when the input does not
// describe an expense.
func ParseNaturalExpense(input string) *ParsedExpense {
	m := naturalExpenseRegex.FindStringSubmatch(input)
	if m == nil {
		return nil
	}

	amount, err := parseAmount(m[1])
	if err != nil {
		return nil
	}

	desc := strings.TrimSpace(m[2])
	if desc == "" {
		return nil
	}

	return &ParsedExpense{
		Description: desc,
		Amount:      amount,
	}
}

// ParseStructuredExpense parses the explicit "add expense: ..." form with all
// four fields supplied by the user. Returns nil when the input does not match
// or the date is not a real calendar date.
func ParseStructuredExpense(input string) *ParsedExpense {
	m := structuredExpenseRegex.FindStringSubmatch(input)
	if m == nil {
		return nil
	}

	amount, err := parseAmount(m[2])
	if err != nil {
		return nil
	}

	date, err := time.Parse("2006-01-02", m[4])
	if err != nil {
		return nil
	}

	desc := strings.TrimSpace(m[1])
	category := strings.TrimSpace(m[3])
	if desc == "" || category == "" {
		return nil
	}

	return &ParsedExpense{
		Description: desc,
		Amount:      amount,
		Category:    category,
		Date:        date,
		HasDate:     true,
	}
}

// parseAmount converts a matched amount string, accepting "," as the decimal
// separator. The amount must be greater than zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, ",", ".")
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, errAmountNotPositive
	}
	return amount, nil
}

var errAmountNotPositive = errors.New("amount must be greater than zero")
