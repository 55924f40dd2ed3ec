package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pennypal/pennypal/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleStoreError maps repository errors to HTTP responses.
func handleStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// expensePayload is the request body for create/update.
type expensePayload struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

// validate turns a payload into an Expense, or returns the first validation
// failure as a human-readable message.
func (p *expensePayload) validate() (*models.Expense, error) {
	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		return nil, errors.New("description is required")
	}
	if p.Amount <= 0 {
		return nil, errors.New("amount must be a positive number")
	}
	category := strings.TrimSpace(p.Category)
	if category == "" {
		return nil, errors.New("category is required")
	}
	date, err := time.Parse(models.DateFormat, p.Date)
	if err != nil {
		return nil, fmt.Errorf("date must be in %s format", "YYYY-MM-DD")
	}

	return &models.Expense{
		Description: desc,
		Amount:      decimal.NewFromFloat(p.Amount),
		Category:    category,
		Date:        date,
	}, nil
}

// expenseJSON is the wire shape of an expense record.
type expenseJSON struct {
	ID          int     `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

func toExpenseJSON(exp *models.Expense) expenseJSON {
	return expenseJSON{
		ID:          exp.ID,
		Description: exp.Description,
		Amount:      exp.Amount.InexactFloat64(),
		Category:    exp.Category,
		Date:        exp.Date.Format(models.DateFormat),
	}
}
