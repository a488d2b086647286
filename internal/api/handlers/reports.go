package handlers

import (
	"net/http"
	"time"

	"github.com/dvloznov/finsmart/internal/advisor"
	"github.com/dvloznov/finsmart/internal/api/middleware"
	"github.com/dvloznov/finsmart/internal/report"
)

// TrendMonths is how many months the reports trend covers.
const TrendMonths = 6

// ReportsHandler serves the dashboard, reports and AI advice.
type ReportsHandler struct {
	advisor advisor.Advisor
	now     func() time.Time
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(adv advisor.Advisor) *ReportsHandler {
	return &ReportsHandler{advisor: adv, now: time.Now}
}

// Dashboard handles GET /api/dashboard
func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	c, _ := middleware.ContainerFromContext(r.Context())
	middleware.WriteJSON(w, http.StatusOK, report.BuildDashboard(c.Snapshot(), h.now()))
}

// Reports handles GET /api/reports
func (h *ReportsHandler) Reports(w http.ResponseWriter, r *http.Request) {
	c, _ := middleware.ContainerFromContext(r.Context())
	snap := c.Snapshot()

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"trend":      report.MonthlyTrend(snap.Transactions, h.now(), TrendMonths),
		"byCategory": report.ExpenseByCategory(snap.Transactions, snap.Categories),
	})
}

// Advice handles POST /api/advice. It always answers 200; model failures
// are reported as fallback text.
func (h *ReportsHandler) Advice(w http.ResponseWriter, r *http.Request) {
	c, _ := middleware.ContainerFromContext(r.Context())
	snap := c.Snapshot()

	text := h.advisor.Advice(r.Context(), snap.Transactions, snap.Categories, snap.Accounts)
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"advice": text})
}
