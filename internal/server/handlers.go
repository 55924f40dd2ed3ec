package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pennypal/pennypal/internal/models"
	"github.com/pennypal/pennypal/internal/repository"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   s.now().Format(time.RFC3339),
	})
}

// listFilter parses the shared category/start/end query parameters.
func listFilter(r *http.Request) (repository.Filter, error) {
	var filter repository.Filter
	filter.Category = strings.TrimSpace(r.URL.Query().Get("category"))

	if v := r.URL.Query().Get("start"); v != "" {
		start, err := time.Parse(models.DateFormat, v)
		if err != nil {
			return filter, fmt.Errorf("start must be in %s format", "YYYY-MM-DD")
		}
		filter.Start = start
	}
	if v := r.URL.Query().Get("end"); v != "" {
		end, err := time.Parse(models.DateFormat, v)
		if err != nil {
			return filter, fmt.Errorf("end must be in %s format", "YYYY-MM-DD")
		}
		filter.End = end
	}
	return filter, nil
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := s.store.List(r.Context(), filter)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	out := make([]expenseJSON, 0, len(expenses))
	for i := range expenses {
		out = append(out, toExpenseJSON(&expenses[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var payload expensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := payload.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.Create(r.Context(), exp); err != nil {
		handleStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseJSON(exp))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	exp, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseJSON(exp))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	var payload expensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := payload.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	exp.ID = id

	if err := s.store.Update(r.Context(), exp); err != nil {
		handleStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseJSON(exp))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		handleStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// quickAddPayload is the minimal quick-add body; description is optional.
type quickAddPayload struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

func (s *Server) handleQuickAdd(w http.ResponseWriter, r *http.Request) {
	var payload quickAddPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}
	category := strings.TrimSpace(payload.Category)
	if category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	desc := strings.TrimSpace(payload.Description)
	if desc == "" {
		desc = "Expense for " + category
	}

	exp := &models.Expense{
		Description: desc,
		Amount:      decimal.NewFromFloat(payload.Amount),
		Category:    category,
		Date:        s.now(),
	}
	if err := s.store.Create(r.Context(), exp); err != nil {
		handleStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseJSON(exp))
}
