package server

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pennypal/pennypal/internal/models"
)

// GenerateExpensesCSV renders expenses as CSV with the header
// id,description,amount,category,date. encoding/csv takes care of quoting
// fields containing commas, quotes or newlines.
func GenerateExpensesCSV(expenses []models.Expense) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "description", "amount", "category", "date"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range expenses {
		row := []string{
			strconv.Itoa(expenses[i].ID),
			expenses[i].Description,
			expenses[i].Amount.StringFixed(2),
			expenses[i].Category,
			expenses[i].Date.Format(models.DateFormat),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
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

	data, err := GenerateExpensesCSV(expenses)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := fmt.Sprintf("expenses_%s.csv", s.now().Format(models.DateFormat))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
