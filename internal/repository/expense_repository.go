// Package repository handles expense database operations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pennypal/pennypal/internal/database"
	"github.com/pennypal/pennypal/internal/models"
)

// ExpenseRepository handles expense database operations.
type ExpenseRepository struct {
	db database.PGXDB
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db database.PGXDB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Filter narrows a listing. Zero values mean "no constraint".
type Filter struct {
	Category string
	Start    time.Time
	End      time.Time
}

// Create adds a new expense and fills in its assigned id.
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO expenses (description, amount, category, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, expense.Description, expense.Amount, expense.Category, expense.Date,
	).Scan(&expense.ID)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense by id.
func (r *ExpenseRepository) GetByID(ctx context.Context, id int) (*models.Expense, error) {
	var exp models.Expense
	err := r.db.QueryRow(ctx, `
		SELECT id, description, amount, category, date
		FROM expenses WHERE id = $1
	`, id).Scan(&exp.ID, &exp.Description, &exp.Amount, &exp.Category, &exp.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &exp, nil
}

// List retrieves expenses matching the filter, newest first.
// Supplied filter fields are ANDed together.
func (r *ExpenseRepository) List(ctx context.Context, filter Filter) ([]models.Expense, error) {
	query := `
		SELECT id, description, amount, category, date
		FROM expenses
		WHERE 1=1`
	var args []any

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if !filter.Start.IsZero() {
		args = append(args, filter.Start)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !filter.End.IsZero() {
		args = append(args, filter.End)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	query += " ORDER BY date DESC, id DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var exp models.Expense
		if err := rows.Scan(&exp.ID, &exp.Description, &exp.Amount, &exp.Category, &exp.Date); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}

// Update modifies an existing expense. Returns models.ErrNotFound when the id
// does not exist.
func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE expenses SET
			description = $2,
			amount = $3,
			category = $4,
			date = $5
		WHERE id = $1
	`, expense.ID, expense.Description, expense.Amount, expense.Category, expense.Date)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes an expense by id. Returns models.ErrNotFound when the id
// does not exist.
func (r *ExpenseRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MonthlyTotal calculates total spending for the month containing the given
// date. Returns zero when the month has no expenses.
func (r *ExpenseRepository) MonthlyTotal(ctx context.Context, month time.Time) (decimal.Decimal, error) {
	start, end := monthRange(month)
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses
		WHERE date >= $1 AND date < $2
	`, start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get monthly total: %w", err)
	}
	return total, nil
}

// MonthlyTotalsByCategory returns category totals for the month containing
// the given date. Empty map when the month has no expenses.
func (r *ExpenseRepository) MonthlyTotalsByCategory(ctx context.Context, month time.Time) (map[string]decimal.Decimal, error) {
	start, end := monthRange(month)
	rows, err := r.db.Query(ctx, `
		SELECT category, SUM(amount) FROM expenses
		WHERE date >= $1 AND date < $2
		GROUP BY category
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var category string
		var total decimal.Decimal
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals[category] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}
	return totals, nil
}

// CategoryBreakdown returns per-category totals for the month containing the
// given date, sorted by total descending. Row order between equal totals
// follows the store's natural order and is not deterministic.
func (r *ExpenseRepository) CategoryBreakdown(ctx context.Context, month time.Time) ([]models.CategoryTotal, error) {
	start, end := monthRange(month)
	rows, err := r.db.Query(ctx, `
		SELECT category, SUM(amount) AS total FROM expenses
		WHERE date >= $1 AND date < $2
		GROUP BY category
		ORDER BY total DESC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query category breakdown: %w", err)
	}
	defer rows.Close()

	var breakdown []models.CategoryTotal
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, fmt.Errorf("failed to scan breakdown row: %w", err)
		}
		breakdown = append(breakdown, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating breakdown: %w", err)
	}
	return breakdown, nil
}

// monthRange returns the half-open interval [first day of month, first day of
// next month).
func monthRange(month time.Time) (time.Time, time.Time) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
