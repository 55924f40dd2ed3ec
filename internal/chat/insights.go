package chat

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pennypal/pennypal/internal/logger"
	"github.com/pennypal/pennypal/internal/models"
)

// foodShareThreshold is the fraction of total spending above which the
// meal-prep tip fires. Fixed heuristic, not configurable.
var foodShareThreshold = decimal.NewFromFloat(0.3)

// currentInsights derives insights from the current month's aggregates.
// A store error degrades to "no insights" so the conversation never breaks.
func (r *Router) currentInsights(ctx context.Context) []models.Insight {
	totals, err := r.stats.MonthlyTotalsByCategory(ctx, r.now())
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Insight query failed, continuing without insights")
		return nil
	}
	if len(totals) == 0 {
		return nil
	}

	total := decimal.Zero
	for _, t := range totals {
		total = total.Add(t)
	}
	if !total.IsPositive() {
		return nil
	}

	// Top category by strictly-greater comparison. Categories are visited in
	// name order, so ties break toward the lexicographically smaller name.
	categories := make([]string, 0, len(totals))
	for c := range totals {
		categories = append(categories, c)
	}
	slices.Sort(categories)

	top := categories[0]
	for _, c := range categories[1:] {
		if totals[c].GreaterThan(totals[top]) {
			top = c
		}
	}

	pct := totals[top].Mul(decimal.NewFromInt(100)).Div(total).Round(0).IntPart()

	data := make(map[string]float64, len(totals))
	for c, t := range totals {
		data[c] = t.InexactFloat64()
	}

	insights := []models.Insight{{
		Kind:    models.InsightSpendingPattern,
		Message: fmt.Sprintf("Most of your spending this month is on %s, at %d%% of your $%s total.", top, pct, total.StringFixed(2)),
		Data:    data,
	}}

	if food, ok := totals["Food"]; ok && food.GreaterThan(total.Mul(foodShareThreshold)) {
		insights = append(insights, models.Insight{
			Kind:    models.InsightSavingTip,
			Message: mealPrepTip,
		})
	}

	return insights
}

// SpendingStats is the read-only aggregate view the router consumes.
// The month argument is any time inside the month of interest.
type SpendingStats interface {
	MonthlyTotal(ctx context.Context, month time.Time) (decimal.Decimal, error)
	MonthlyTotalsByCategory(ctx context.Context, month time.Time) (map[string]decimal.Decimal, error)
	CategoryBreakdown(ctx context.Context, month time.Time) ([]models.CategoryTotal, error)
}
