// Package chat implements the rule-based chat assistant. A message is matched
// against an ordered list of intent rules; the first matching rule produces
// the reply. The router never returns an error to its caller; store failures
// degrade to in-character replies.
package chat

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pennypal/pennypal/internal/logger"
	"github.com/pennypal/pennypal/internal/memory"
	"github.com/pennypal/pennypal/internal/models"
)

// ExpenseCreator is the write side the router needs for captured expenses.
type ExpenseCreator interface {
	Create(ctx context.Context, expense *models.Expense) error
}

// Router routes chat messages to intent handlers.
type Router struct {
	stats  SpendingStats
	writer ExpenseCreator
	memory memory.Store
	now    func() time.Time
	rules  []rule

	// rand.Rand is not safe for concurrent use and chat turns arrive on
	// concurrent HTTP handlers, so every draw holds randMu.
	randMu sync.Mutex
	rand   *rand.Rand
}

// turn carries the per-message state handlers operate on. Intent matching
// uses the lower-cased message; the capture handlers parse the raw text so
// descriptions keep their casing.
type turn struct {
	userID   string
	raw      string
	message  string // lower-cased
	insights []models.Insight
}

// rule pairs a predicate with its handler. Rules are evaluated in order and
// the first match wins.
type rule struct {
	name    string
	matches func(msg string) bool
	handle  func(ctx context.Context, t *turn) *models.ChatResponse
}

// New creates a Router. rng may be nil for a randomly seeded source; now may
// be nil for time.Now. Both are injectable so tests can be deterministic.
func New(stats SpendingStats, writer ExpenseCreator, store memory.Store, rng *rand.Rand, now func() time.Time) *Router {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if now == nil {
		now = time.Now
	}

	r := &Router{
		stats:  stats,
		writer: writer,
		memory: store,
		rand:   rng,
		now:    now,
	}

	// The two capture rules sit ahead of the plain substring rules that would
	// otherwise shadow them ("spent" in the spending query, "add expense" in
	// the help rule). Greeting always goes first.
	r.rules = []rule{
		{"greeting", containsAny("hello", "hi", "hey"), r.handleGreeting},
		{"natural_expense", func(m string) bool { return ParseNaturalExpense(m) != nil }, r.handleNaturalExpense},
		{"structured_expense", func(m string) bool { return ParseStructuredExpense(m) != nil }, r.handleStructuredExpense},
		{"spending_query", containsAny("how much", "spent", "total"), r.handleSpendingQuery},
		{"saving_advice", containsAny("save", "saving"), r.handleSavingAdvice},
		{"category_analysis", containsAny("category", "categories"), r.handleCategoryAnalysis},
		{"general_advice", containsAny("tip", "advice", "help"), r.handleGeneralAdvice},
		{"expense_help", containsAny("add expense", "new expense"), r.handleExpenseHelp},
	}

	return r
}

// Respond processes one chat turn and always returns a ChatResponse.
func (r *Router) Respond(ctx context.Context, userID, message string) *models.ChatResponse {
	raw := strings.TrimSpace(message)
	msg := strings.ToLower(raw)

	// Memory is updated before any reply is produced, on every turn.
	r.memory.Update(userID, msg)

	t := &turn{
		userID:   userID,
		raw:      raw,
		message:  msg,
		insights: r.currentInsights(ctx),
	}

	for _, rule := range r.rules {
		if rule.matches(msg) {
			logger.Log.Debug().
				Str("user", logger.HashUserID(userID)).
				Str("intent", rule.name).
				Str("message", logger.SanitizeMessage(message)).
				Msg("Chat intent matched")
			return rule.handle(ctx, t)
		}
	}

	return r.handleFallback(ctx, t)
}

func (r *Router) handleGreeting(_ context.Context, t *turn) *models.ChatResponse {
	resp := &models.ChatResponse{
		Reply: r.pick(greetingReplies),
		Type:  models.ChatTypeGreeting,
	}
	// Greetings carry at most the first insight.
	if len(t.insights) > 0 {
		resp.Insights = t.insights[:1]
	}
	return resp
}

func (r *Router) handleNaturalExpense(ctx context.Context, t *turn) *models.ChatResponse {
	parsed := ParseNaturalExpense(t.raw)
	if parsed == nil {
		return r.handleFallback(ctx, t)
	}

	exp := &models.Expense{
		Description: parsed.Description,
		Amount:      parsed.Amount,
		Category:    InferCategory(parsed.Description),
		Date:        r.now(),
	}
	if err := r.writer.Create(ctx, exp); err != nil {
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(t.userID)).Msg("Failed to save captured expense")
		return &models.ChatResponse{Reply: storeFailureReply, Type: models.ChatTypeError}
	}

	return &models.ChatResponse{
		Reply: fmt.Sprintf(r.pick(expenseAddedTemplates), exp.Amount.StringFixed(2), exp.Description, exp.Category),
		Type:  models.ChatTypeExpenseAdded,
		Data: map[string]any{
			"id":       exp.ID,
			"amount":   exp.Amount.InexactFloat64(),
			"category": exp.Category,
		},
	}
}

func (r *Router) handleStructuredExpense(ctx context.Context, t *turn) *models.ChatResponse {
	parsed := ParseStructuredExpense(t.raw)
	if parsed == nil {
		return r.handleFallback(ctx, t)
	}

	exp := &models.Expense{
		Description: parsed.Description,
		Amount:      parsed.Amount,
		Category:    parsed.Category,
		Date:        parsed.Date,
	}
	if err := r.writer.Create(ctx, exp); err != nil {
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(t.userID)).Msg("Failed to save captured expense")
		return &models.ChatResponse{Reply: storeFailureReply, Type: models.ChatTypeError}
	}

	return &models.ChatResponse{
		Reply: fmt.Sprintf("Added %q: $%s in %s on %s.",
			exp.Description, exp.Amount.StringFixed(2), exp.Category, exp.Date.Format(models.DateFormat)),
		Type: models.ChatTypeExpenseAdded,
		Data: map[string]any{
			"id":       exp.ID,
			"amount":   exp.Amount.InexactFloat64(),
			"category": exp.Category,
			"date":     exp.Date.Format(models.DateFormat),
		},
	}
}

func (r *Router) handleSpendingQuery(ctx context.Context, t *turn) *models.ChatResponse {
	total, err := r.stats.MonthlyTotal(ctx, r.now())
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Monthly total query failed, answering with no data")
	}
	if err != nil || !total.IsPositive() {
		return &models.ChatResponse{Reply: noExpensesReply, Type: models.ChatTypeSpendingSummary}
	}

	return &models.ChatResponse{
		Reply: fmt.Sprintf(r.pick(spendingTemplates), total.StringFixed(2)),
		Type:  models.ChatTypeSpendingSummary,
		Data:  map[string]any{"total": total.InexactFloat64()},
	}
}

func (r *Router) handleSavingAdvice(_ context.Context, _ *turn) *models.ChatResponse {
	return &models.ChatResponse{Reply: r.pick(savingTips), Type: models.ChatTypeSavingTip}
}

func (r *Router) handleCategoryAnalysis(ctx context.Context, _ *turn) *models.ChatResponse {
	breakdown, err := r.stats.CategoryBreakdown(ctx, r.now())
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Category breakdown query failed, answering with no data")
	}
	if err != nil || len(breakdown) == 0 {
		return &models.ChatResponse{Reply: noCategoryDataReply, Type: models.ChatTypeCategoryAnalysis}
	}

	var b strings.Builder
	b.WriteString("Here's your spending by category this month:\n")
	total := decimal.Zero
	rows := make([]map[string]any, 0, len(breakdown))
	for _, ct := range breakdown {
		fmt.Fprintf(&b, "- %s: $%s\n", ct.Category, ct.Total.StringFixed(2))
		total = total.Add(ct.Total)
		rows = append(rows, map[string]any{
			"category": ct.Category,
			"total":    ct.Total.InexactFloat64(),
		})
	}
	fmt.Fprintf(&b, "Total: $%s", total.StringFixed(2))

	return &models.ChatResponse{
		Reply: b.String(),
		Type:  models.ChatTypeCategoryAnalysis,
		Data: map[string]any{
			"breakdown": rows,
			"total":     total.InexactFloat64(),
		},
	}
}

func (r *Router) handleGeneralAdvice(_ context.Context, _ *turn) *models.ChatResponse {
	return &models.ChatResponse{Reply: r.pick(generalAdviceReplies), Type: models.ChatTypeGeneralAdvice}
}

func (r *Router) handleExpenseHelp(_ context.Context, _ *turn) *models.ChatResponse {
	return &models.ChatResponse{Reply: expenseHelpReply, Type: models.ChatTypeExpenseHelp}
}

func (r *Router) handleFallback(_ context.Context, t *turn) *models.ChatResponse {
	return &models.ChatResponse{
		Reply:    r.pick(fallbackReplies),
		Insights: t.insights,
		Type:     models.ChatTypeFriendlyNudge,
	}
}

func (r *Router) pick(pool []string) string {
	r.randMu.Lock()
	defer r.randMu.Unlock()
	return pool[r.rand.IntN(len(pool))]
}

func containsAny(keywords ...string) func(string) bool {
	return func(msg string) bool {
		for _, kw := range keywords {
			if strings.Contains(msg, kw) {
				return true
			}
		}
		return false
	}
}
