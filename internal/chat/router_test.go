package chat

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pennypal/pennypal/internal/memory"
	"github.com/pennypal/pennypal/internal/models"
)

// fakeStats is a canned SpendingStats implementation.
type fakeStats struct {
	total     decimal.Decimal
	totals    map[string]decimal.Decimal
	breakdown []models.CategoryTotal
	err       error
}

func (f *fakeStats) MonthlyTotal(context.Context, time.Time) (decimal.Decimal, error) {
	return f.total, f.err
}

func (f *fakeStats) MonthlyTotalsByCategory(context.Context, time.Time) (map[string]decimal.Decimal, error) {
	return f.totals, f.err
}

func (f *fakeStats) CategoryBreakdown(context.Context, time.Time) ([]models.CategoryTotal, error) {
	return f.breakdown, f.err
}

// fakeWriter records created expenses and assigns sequential ids.
type fakeWriter struct {
	created []*models.Expense
	err     error
}

func (f *fakeWriter) Create(_ context.Context, exp *models.Expense) error {
	if f.err != nil {
		return f.err
	}
	exp.ID = len(f.created) + 1
	f.created = append(f.created, exp)
	return nil
}

var testNow = time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)

func newTestRouter(stats *fakeStats, writer *fakeWriter, store memory.Store) *Router {
	if store == nil {
		store = memory.NewInMemoryStore()
	}
	rng := rand.New(rand.NewPCG(1, 2))
	return New(stats, writer, store, rng, func() time.Time { return testNow })
}

func TestRespondGreeting(t *testing.T) {
	t.Parallel()

	t.Run("greets with a fixed reply", func(t *testing.T) {
		t.Parallel()

		r := newTestRouter(&fakeStats{}, &fakeWriter{}, nil)
		resp := r.Respond(context.Background(), "u1", "hello there")
		require.Equal(t, models.ChatTypeGreeting, resp.Type)
		require.Contains(t, greetingReplies, resp.Reply)
		require.Empty(t, resp.Insights)
	})

	t.Run("takes precedence over the spending query", func(t *testing.T) {
		t.Parallel()

		stats := &fakeStats{total: decimal.NewFromInt(100)}
		r := newTestRouter(stats, &fakeWriter{}, nil)
		resp := r.Respond(context.Background(), "u1", "hi, how much have I spent")
		require.Equal(t, models.ChatTypeGreeting, resp.Type)
	})

	t.Run("attaches at most the first insight", func(t *testing.T) {
		t.Parallel()

		stats := &fakeStats{totals: map[string]decimal.Decimal{
			"Food":      decimal.NewFromInt(40),
			"Transport": decimal.NewFromInt(60),
		}}
		r := newTestRouter(stats, &fakeWriter{}, nil)
		resp := r.Respond(context.Background(), "u1", "hello")
		require.Len(t, resp.Insights, 1)
		require.Equal(t, models.InsightSpendingPattern, resp.Insights[0].Kind)
	})
}

func TestRespondNaturalExpense(t *testing.T) {
	t.Parallel()

	t.Run("captures amount, category and today", func(t *testing.T) {
		t.Parallel()

		writer := &fakeWriter{}
		r := newTestRouter(&fakeStats{}, writer, nil)
		resp := r.Respond(context.Background(), "u1", "I spent $15.50 on lunch today")

		require.Equal(t, models.ChatTypeExpenseAdded, resp.Type)
		require.Len(t, writer.created, 1)
		exp := writer.created[0]
		require.Equal(t, "15.50", exp.Amount.StringFixed(2))
		require.Equal(t, "Food", exp.Category)
		require.Equal(t, testNow, exp.Date)
		require.Equal(t, 1, resp.Data["id"])
		require.InDelta(t, 15.50, resp.Data["amount"], 0.001)
		require.Equal(t, "Food", resp.Data["category"])
	})

	t.Run("defaults unknown descriptions to Other", func(t *testing.T) {
		t.Parallel()

		writer := &fakeWriter{}
		r := newTestRouter(&fakeStats{}, writer, nil)
		r.Respond(context.Background(), "u1", "spent $8 on mystery stuff")
		require.Len(t, writer.created, 1)
		require.Equal(t, "Other", writer.created[0].Category)
	})

	t.Run("store failure becomes an in-character apology", func(t *testing.T) {
		t.Parallel()

		writer := &fakeWriter{err: errors.New("connection refused")}
		r := newTestRouter(&fakeStats{}, writer, nil)
		resp := r.Respond(context.Background(), "u1", "spent $8 on coffee")
		require.Equal(t, models.ChatTypeError, resp.Type)
		require.Equal(t, storeFailureReply, resp.Reply)
	})
}

func TestRespondStructuredExpense(t *testing.T) {
	t.Parallel()

	t.Run("captures all four fields", func(t *testing.T) {
		t.Parallel()

		writer := &fakeWriter{}
		r := newTestRouter(&fakeStats{}, writer, nil)
		resp := r.Respond(context.Background(), "u1", "add expense: Taxi ride, 22.00, Transport, 2025-09-01")

		require.Equal(t, models.ChatTypeExpenseAdded, resp.Type)
		require.Len(t, writer.created, 1)
		exp := writer.created[0]
		require.Equal(t, "Taxi ride", exp.Description)
		require.Equal(t, "22.00", exp.Amount.StringFixed(2))
		require.Equal(t, "Transport", exp.Category)
		require.Equal(t, "2025-09-01", exp.Date.Format(models.DateFormat))
		require.Equal(t, "2025-09-01", resp.Data["date"])
	})

	t.Run("falls back to help when the form is incomplete", func(t *testing.T) {
		t.Parallel()

		writer := &fakeWriter{}
		r := newTestRouter(&fakeStats{}, writer, nil)
		resp := r.Respond(context.Background(), "u1", "add expense: just a description")
		require.Equal(t, models.ChatTypeExpenseHelp, resp.Type)
		require.Empty(t, writer.created)
	})
}

func TestRespondSpendingQuery(t *testing.T) {
	t.Parallel()

	t.Run("reports the monthly total", func(t *testing.T) {
		t.Parallel()

		stats := &fakeStats{total: decimal.NewFromFloat(123.45)}
		r := newTestRouter(stats, &fakeWriter{}, nil)
		resp := r.Respond(context.Background(), "u1", "how much have I spent?")

		require.Equal(t, models.ChatTypeSpendingSummary, resp.Type)
		require.Contains(t, resp.Reply, "123.45")
		require.InDelta(t, 123.45, resp.Data["total"], 0.001)
	})

	t.Run("empty store returns the fixed no-expenses reply", func(t *testing.T) {
		t.Parallel()

		r := newTestRouter(&fakeStats{total: decimal.Zero}, &fakeWriter{}, nil)
		resp := r.Respond(context.Background(), "u1", "what is my total?")
		require.Equal(t, models.ChatTypeSpendingSummary, resp.Type)
		require.Equal(t, noExpensesReply, resp.Reply)
	})

	t.Run("store error degrades to the no-expenses reply", func(t *testing.T) {
		t.Parallel()

		stats := &fakeStats{err: errors.New("connection refused")}
		r := newTestRouter(stats, &fakeWriter{}, nil)
		resp := r.Respond(context.Background(), "u1", "what is my total?")
		require.Equal(t, models.ChatTypeSpendingSummary, resp.Type)
		require.Equal(t, noExpensesReply, resp.Reply)
	})
}

func TestRespondSavingAdvice(t *testing.T) {
	t.Parallel()

	r := newTestRouter(&fakeStats{}, &fakeWriter{}, nil)
	resp := r.Respond(context.Background(), "u1", "how can I save more?")
	require.Equal(t, models.ChatTypeSavingTip, resp.Type)
	require.Contains(t, savingTips, resp.Reply)
}

func TestRespondCategoryAnalysis(t *testing.T) {
	t.Parallel()

	t.Run("lists categories with totals and a grand total", func(t *testing.T) {
		t.Parallel()

		stats := &fakeStats{breakdown: []models.CategoryTotal{
			{Category: "Transport", Total: decimal.NewFromInt(60)},
			{Category: "Food", Total: decimal.NewFromInt(40)},
		}}
		r := newTestRouter(stats, &fakeWriter{}, nil)
		resp := r.Respond(context.Background(), "u1", "show my categories")

		require.Equal(t, models.ChatTypeCategoryAnalysis, resp.Type)
		require.Contains(t, resp.Reply, "Transport: $60.00")
		require.Contains(t, resp.Reply, "Food: $40.00")
		require.Contains(t, resp.Reply, "Total: $100.00")
		require.InDelta(t, 100, resp.Data["total"], 0.001)

		rows, ok := resp.Data["breakdown"].([]map[string]any)
		require.True(t, ok)
		require.Len(t, rows, 2)
		require.Equal(t, "Transport", rows[0]["category"])
	})

	t.Run("empty month returns the fixed no-data reply", func(t *testing.T) {
		t.Parallel()

		r := newTestRouter(&fakeStats{}, &fakeWriter{}, nil)
		resp := r.Respond(context.Background(), "u1", "break it down by category")
		require.Equal(t, noCategoryDataReply, resp.Reply)
	})
}

func TestRespondGeneralAdvice(t *testing.T) {
	t.Parallel()

	r := newTestRouter(&fakeStats{}, &fakeWriter{}, nil)
	resp := r.Respond(context.Background(), "u1", "any advice for me?")
	require.Equal(t, models.ChatTypeGeneralAdvice, resp.Type)
	require.Contains(t, generalAdviceReplies, resp.Reply)
}

func TestRespondExpenseHelp(t *testing.T) {
	t.Parallel()

	r := newTestRouter(&fakeStats{}, &fakeWriter{}, nil)
	resp := r.Respond(context.Background(), "u1", "new expense please")
	require.Equal(t, models.ChatTypeExpenseHelp, resp.Type)
	require.Equal(t, expenseHelpReply, resp.Reply)
}

func TestRespondFallback(t *testing.T) {
	t.Parallel()

	t.Run("unmatched messages get a friendly nudge with all insights", func(t *testing.T) {
		t.Parallel()

		stats := &fakeStats{totals: map[string]decimal.Decimal{
			"Food":      decimal.NewFromInt(70),
			"Transport": decimal.NewFromInt(30),
		}}
		r := newTestRouter(stats, &fakeWriter{}, nil)
		resp := r.Respond(context.Background(), "u1", "quack quack")

		require.Equal(t, models.ChatTypeFriendlyNudge, resp.Type)
		require.Contains(t, fallbackReplies, resp.Reply)
		// Food is 70% of spending, so both insights are present.
		require.Len(t, resp.Insights, 2)
		require.Equal(t, models.InsightSavingTip, resp.Insights[1].Kind)
	})
}

func TestRespondConcurrentTurns(t *testing.T) {
	t.Parallel()

	stats := &fakeStats{totals: map[string]decimal.Decimal{
		"Food":      decimal.NewFromInt(40),
		"Transport": decimal.NewFromInt(60),
	}}
	r := newTestRouter(stats, &fakeWriter{}, nil)

	// Run under -race: simultaneous turns from different users share the
	// router's random source and must not corrupt it.
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", i)
			for range 200 {
				resp := r.Respond(context.Background(), userID, "hello")
				if resp == nil || resp.Type != models.ChatTypeGreeting {
					t.Errorf("unexpected response for %s: %+v", userID, resp)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestRespondUpdatesMemory(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemoryStore()
	r := newTestRouter(&fakeStats{}, &fakeWriter{}, store)

	r.Respond(context.Background(), "u1", "Hello THERE")
	require.Equal(t, "hello there", store.Get("u1").LastMessage)

	// Memory is written even when the turn fails to save an expense.
	writer := &fakeWriter{err: errors.New("boom")}
	r = newTestRouter(&fakeStats{}, writer, store)
	r.Respond(context.Background(), "u1", "spent $5 on coffee")
	require.Equal(t, "spent $5 on coffee", store.Get("u1").LastMessage)
}

func TestCurrentInsights(t *testing.T) {
	t.Parallel()

	t.Run("names the top category with its share", func(t *testing.T) {
		t.Parallel()

		stats := &fakeStats{totals: map[string]decimal.Decimal{
			"Food":      decimal.NewFromInt(40),
			"Transport": decimal.NewFromInt(60),
		}}
		r := newTestRouter(stats, &fakeWriter{}, nil)
		insights := r.currentInsights(context.Background())

		require.NotEmpty(t, insights)
		require.Contains(t, insights[0].Message, "Transport")
		require.Contains(t, insights[0].Message, "60%")
		require.InDelta(t, 40, insights[0].Data["Food"], 0.001)
	})

	t.Run("food tip fires above the 30 percent threshold", func(t *testing.T) {
		t.Parallel()

		// Food is 40% of 100, which exceeds the 30% threshold even though
		// Transport is the top category.
		stats := &fakeStats{totals: map[string]decimal.Decimal{
			"Food":      decimal.NewFromInt(40),
			"Transport": decimal.NewFromInt(60),
		}}
		r := newTestRouter(stats, &fakeWriter{}, nil)
		insights := r.currentInsights(context.Background())
		require.Len(t, insights, 2)
		require.Equal(t, mealPrepTip, insights[1].Message)
	})

	t.Run("food tip does not fire at exactly the threshold", func(t *testing.T) {
		t.Parallel()

		stats := &fakeStats{totals: map[string]decimal.Decimal{
			"Food":  decimal.NewFromInt(30),
			"Other": decimal.NewFromInt(70),
		}}
		r := newTestRouter(stats, &fakeWriter{}, nil)
		insights := r.currentInsights(context.Background())
		require.Len(t, insights, 1)
	})

	t.Run("no spending means no insights", func(t *testing.T) {
		t.Parallel()

		r := newTestRouter(&fakeStats{}, &fakeWriter{}, nil)
		require.Empty(t, r.currentInsights(context.Background()))
	})

	t.Run("query errors mean no insights", func(t *testing.T) {
		t.Parallel()

		stats := &fakeStats{err: errors.New("connection refused")}
		r := newTestRouter(stats, &fakeWriter{}, nil)
		require.Empty(t, r.currentInsights(context.Background()))
	})

	t.Run("ties break toward the lexicographically smaller name", func(t *testing.T) {
		t.Parallel()

		stats := &fakeStats{totals: map[string]decimal.Decimal{
			"Transport": decimal.NewFromInt(50),
			"Shopping":  decimal.NewFromInt(50),
		}}
		r := newTestRouter(stats, &fakeWriter{}, nil)
		insights := r.currentInsights(context.Background())
		require.Contains(t, insights[0].Message, "Shopping")
	})
}
