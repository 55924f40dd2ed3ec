// Package models defines the domain entities for the expense tracker.
package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the wire format for expense dates.
const DateFormat = "2006-01-02"

// ErrNotFound is returned when a requested expense does not exist.
var ErrNotFound = errors.New("expense not found")

// Expense represents a single expense entry.
type Expense struct {
	ID          int
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
}

// CategoryTotal is one row of a category breakdown.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Insight is a derived, ephemeral observation about current-month spending.
// It is computed per chat turn and never stored.
type Insight struct {
	Kind    string             `json:"kind"`
	Message string             `json:"message"`
	Data    map[string]float64 `json:"data,omitempty"`
}

// Insight kinds.
const (
	InsightSpendingPattern = "spending_pattern"
	InsightSavingTip       = "saving_tip"
)

// ChatResponse is the contract returned by the chat router. Type tells the
// client which follow-up quick-actions to show; Data varies by type.
type ChatResponse struct {
	Reply    string         `json:"reply"`
	Insights []Insight      `json:"insights,omitempty"`
	Type     string         `json:"type"`
	Data     map[string]any `json:"data,omitempty"`
}

// ChatResponse types.
const (
	ChatTypeGreeting         = "greeting"
	ChatTypeSpendingSummary  = "spending_summary"
	ChatTypeSavingTip        = "saving_tip"
	ChatTypeCategoryAnalysis = "category_analysis"
	ChatTypeGeneralAdvice    = "general_advice"
	ChatTypeExpenseHelp      = "expense_help"
	ChatTypeExpenseAdded     = "expense_added"
	ChatTypeFriendlyNudge    = "friendly_nudge"
	ChatTypeError            = "error"
)
