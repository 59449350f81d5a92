package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"budgetview/internal/core"
	"budgetview/internal/log"
)

type categoryBar struct {
	Name   string
	Amount string
	Width  int
}

type trendRow struct {
	Month    string
	Income   string
	Expenses string
	Net      string
}

type dashboardView struct {
	StartDate     string
	EndDate       string
	TotalIncome   string
	TotalExpenses string
	NetBalance    string
	NetNegative   bool
	Bars          []categoryBar
	Trend         []trendRow
	LoadError     string
}

type dashboardPage struct {
	pageContext
	dashboardView
}

// parseDateRange reads the optional start_date/end_date filter. Zero dates let
// the backend default to the current month.
func parseDateRange(r *http.Request) (start, end core.Date) {
	if d, err := core.ParseDate(r.URL.Query().Get("start_date")); err == nil {
		start = d
	}
	if d, err := core.ParseDate(r.URL.Query().Get("end_date")); err == nil {
		end = d
	}
	return start, end
}

func (s *Server) buildDashboardView(r *http.Request) dashboardView {
	start, end := parseDateRange(r)
	view := dashboardView{StartDate: start.String(), EndDate: end.String()}

	summary, err := s.getSummary(r.Context(), start, end)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load summary",
			log.FieldOperation, log.OpRead,
			"error", err)
		view.LoadError = err.Error()
		return view
	}

	symbol := currencySymbol(s.currentSettings(r.Context()).Currency)
	view.TotalIncome = formatAmount(symbol, summary.TotalIncome)
	view.TotalExpenses = formatAmount(symbol, summary.TotalExpenses)
	view.NetBalance = formatAmount(symbol, summary.NetBalance)
	view.NetNegative = summary.NetBalance.IsNegative()

	var max decimal.Decimal
	for _, c := range summary.ExpensesByCategory {
		if c.Amount.GreaterThan(max) {
			max = c.Amount
		}
	}
	for _, c := range summary.ExpensesByCategory {
		view.Bars = append(view.Bars, categoryBar{
			Name:   c.Category,
			Amount: formatAmount(symbol, c.Amount),
			Width:  barWidth(c.Amount, max),
		})
	}

	for _, p := range summary.MonthlyTrend {
		view.Trend = append(view.Trend, trendRow{
			Month:    p.Month,
			Income:   formatAmount(symbol, p.Income),
			Expenses: formatAmount(symbol, p.Expenses),
			Net:      formatAmount(symbol, p.Income.Sub(p.Expenses)),
		})
	}
	return view
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	data := dashboardPage{
		pageContext:   s.pageContext("dashboard"),
		dashboardView: s.buildDashboardView(r),
	}
	s.render(w, r, "dashboard.html", data)
}

// handleSummaryPartial re-renders the summary section for HTMX date-range
// changes. Rapid filter changes race; only the newest request may render, a
// stale one answers 204 and the client keeps what it has.
func (s *Server) handleSummaryPartial(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	ticket := s.summaryGate.Begin()

	view := s.buildDashboardView(r)

	if !s.summaryGate.Commit(ticket) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if view.LoadError != "" {
		errorFragment(http.StatusBadGateway, view.LoadError).Write(w)
		return
	}
	s.render(w, r, "summary_section", view)
}
