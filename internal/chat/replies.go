package chat

// Fixed reply pools. Selection is uniformly random for cosmetic variety;
// tests assert membership, not exact strings.

var greetingReplies = []string{
	"Hey there! How can I help with your money today?",
	"Hello! Ready to take a look at your spending?",
	"Hi! I'm here to help you keep your budget on track.",
	"Hey! Ask me about your spending, or tell me about a new expense.",
}

var spendingTemplates = []string{
	"You've spent $%s so far this month.",
	"This month's total comes to $%s.",
	"Your spending this month adds up to $%s.",
}

var savingTips = []string{
	"Try the 24-hour rule: wait a day before any non-essential purchase.",
	"Set up an automatic transfer to savings right after payday, even a small one.",
	"Review your subscriptions; cancelling one you forgot about is free money.",
	"Brew coffee at home during the week and make cafe visits a treat.",
	"Pick one no-spend day per week and protect it.",
}

var generalAdviceReplies = []string{
	"A simple place to start: track every expense for two weeks, no matter how small.",
	"Aim to keep essentials around 50% of your income, wants around 30%, savings 20%.",
	"Check your category breakdown weekly; surprises hide in the small stuff.",
	"Give every expense a category; fuzzy 'misc' spending is where budgets leak.",
	"Small recurring costs add up fast. Multiply any subscription by twelve before judging it.",
}

var expenseAddedTemplates = []string{
	"Got it! Logged $%s for \"%s\" under %s.",
	"Saved: $%s on %s (%s).",
	"Done! $%s for %s, filed under %s.",
}

var fallbackReplies = []string{
	"I'm your financial friend! Ask me how much you've spent, or tell me about an expense.",
	"I'm here to help with your money. Try asking about your spending by category.",
	"Not sure I caught that, but as your financial friend, I can log expenses or show totals.",
}

const (
	noExpensesReply = "You haven't recorded any expenses this month yet. Tell me about one and I'll log it!"

	noCategoryDataReply = "No spending data yet. Add a few expenses and I'll break them down by category."

	expenseHelpReply = "To add an expense, just tell me something like \"I spent $12 on lunch\", " +
		"or use the exact form \"add expense: description, amount, category, YYYY-MM-DD\"."

	storeFailureReply = "Sorry, I couldn't save that expense. Please try again in a moment."

	mealPrepTip = "Food is taking a big bite out of your budget this month. " +
		"Meal prepping a few lunches per week is an easy way to claw some of it back."
)
