package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-analyze/charts"

	"github.com/pennypal/pennypal/internal/models"
)

// GenerateCategoryChart creates a pie chart of the category breakdown.
// Returns PNG image bytes.
func GenerateCategoryChart(breakdown []models.CategoryTotal, month time.Time) ([]byte, error) {
	if len(breakdown) == 0 {
		return nil, fmt.Errorf("no expenses to chart")
	}

	values := make([]float64, 0, len(breakdown))
	names := make([]string, 0, len(breakdown))
	for _, ct := range breakdown {
		values = append(values, ct.Total.InexactFloat64())
		names = append(names, ct.Category)
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: fmt.Sprintf("Spending by Category - %s", month.Format("January 2006")),
		}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return buf, nil
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	month := s.now()
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := time.Parse("2006-01", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "month must be in YYYY-MM format")
			return
		}
		month = parsed
	}

	breakdown, err := s.store.CategoryBreakdown(r.Context(), month)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if len(breakdown) == 0 {
		writeError(w, http.StatusNotFound, "no expenses for that month")
		return
	}

	img, err := GenerateCategoryChart(breakdown, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}
