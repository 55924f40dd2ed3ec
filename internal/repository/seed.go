package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pennypal/pennypal/internal/models"
)

// sampleExpenses are the demo rows inserted into an empty store so a fresh
// install has something to show. Dates are assigned relative to the clock at
// seed time so the current-month views are not empty.
var sampleExpenses = []struct {
	description string
	amount      decimal.Decimal
	category    string
	daysAgo     int
}{
	{"Grocery run", decimal.NewFromFloat(54.30), "Food", 1},
	{"Bus pass", decimal.NewFromFloat(25.00), "Transport", 2},
	{"Movie night", decimal.NewFromFloat(18.50), "Entertainment", 3},
	{"Electricity bill", decimal.NewFromFloat(62.75), "Utilities", 4},
	{"Lunch with friends", decimal.NewFromFloat(32.40), "Food", 5},
}

// SeedSampleExpenses inserts the sample rows, but only when the table is
// empty.
func (r *ExpenseRepository) SeedSampleExpenses(ctx context.Context, now time.Time) error {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count expenses: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, s := range sampleExpenses {
		exp := &models.Expense{
			Description: s.description,
			Amount:      s.amount,
			Category:    s.category,
			Date:        now.AddDate(0, 0, -s.daysAgo),
		}
		if err := r.Create(ctx, exp); err != nil {
			return fmt.Errorf("failed to seed expense %q: %w", s.description, err)
		}
	}

	return nil
}
