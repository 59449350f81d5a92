package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"budgetview/internal/api"
	"budgetview/internal/core"
	"budgetview/internal/log"
)

type budgetRow struct {
	ID         int64
	Category   string
	CategoryID int64
	RawAmount  string
	Allocated  string
	Spent     string
	Remaining string
	Percent   string
	Width     int
	Status    core.BudgetStatus
}

type budgetsPage struct {
	pageContext
	Year       int
	Month      int
	MonthName  string
	PrevYear   int
	PrevMonth  int
	NextYear   int
	NextMonth  int
	Rows       []budgetRow
	Categories []core.Category
	LoadError  string
}

// buildBudgetsView assembles the month's budget table. Budgets, the backend
// comparison and the category list are independent reads, fetched
// concurrently.
func (s *Server) buildBudgetsView(ctx context.Context, year, month int) (budgetsPage, error) {
	data := budgetsPage{
		Year:      year,
		Month:     month,
		MonthName: core.Month(month).Name(),
	}
	data.PrevYear, data.PrevMonth = year, month-1
	if data.PrevMonth < 1 {
		data.PrevYear, data.PrevMonth = year-1, 12
	}
	data.NextYear, data.NextMonth = year, month+1
	if data.NextMonth > 12 {
		data.NextYear, data.NextMonth = year+1, 1
	}

	var (
		budgets api.Page[core.Budget]
		records []core.ComparisonRecord
		cats    []core.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		key := fmt.Sprintf("budgets?%04d-%02d", year, month)
		budgets, err = s.getBudgets(gctx, key, api.BudgetQuery{
			ListParams: api.ListParams{PageSize: 100, Ordering: "category__name"},
			Month:      core.Month(month),
			Year:       year,
		})
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.getComparison(gctx, year, core.Month(month))
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = s.getAllCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return data, err
	}

	symbol := currencySymbol(s.currentSettings(ctx).Currency)
	for _, b := range budgets.Results {
		spent := core.SpentAmount(b, records)
		pct := core.SpentPercent(b.Amount, spent)
		data.Rows = append(data.Rows, budgetRow{
			ID:         b.ID,
			Category:   b.CategoryName,
			CategoryID: b.Category,
			RawAmount:  b.Amount.String(),
			Allocated:  formatAmount(symbol, b.Amount),
			Spent:     formatAmount(symbol, spent),
			Remaining: formatAmount(symbol, core.Remaining(b.Amount, spent)),
			Percent:   pct.StringFixed(0),
			Width:     barWidth(spent, b.Amount),
			Status:    core.StatusFor(b.Amount, spent),
		})
	}

	// Only expense categories can carry a budget.
	for _, c := range cats {
		if c.Type == core.Expense {
			data.Categories = append(data.Categories, c)
		}
	}
	return data, nil
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderBudgets(w, r)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			badRequest("Invalid form submission").Write(w)
			return
		}
		if r.Form.Get("id") != "" {
			s.handleUpdateBudget(w, r)
			return
		}
		s.createBudget(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderBudgets(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)

	data, err := s.buildBudgetsView(r.Context(), year, month)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to build budgets view",
			log.FieldYear, year,
			log.FieldMonth, month,
			"error", err)
		data.LoadError = err.Error()
	}
	data.pageContext = s.pageContext("budgets")

	s.render(w, r, "budgets.html", data)
}

// handleBudgetTablePartial re-renders just the budget table for HTMX month
// navigation.
func (s *Server) handleBudgetTablePartial(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	year, month := parseYearMonth(r)

	data, err := s.buildBudgetsView(r.Context(), year, month)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to build budget table",
			log.FieldYear, year,
			log.FieldMonth, month,
			"error", err)
		errorFragment(http.StatusBadGateway, err.Error()).Write(w)
		return
	}

	s.render(w, r, "budget_table", data)
}

func parseBudgetInput(form url.Values) (core.BudgetInput, error) {
	input := core.BudgetInput{}
	if a, ok := parseAmount(form.Get("amount")); ok {
		input.Amount = a
	}
	if id, ok := parseID(form.Get("category")); ok {
		input.Category = id
	}
	if m, err := strconv.Atoi(form.Get("month")); err == nil {
		input.Month = core.Month(m)
	}
	if y, err := strconv.Atoi(form.Get("year")); err == nil {
		input.Year = y
	}
	return input, input.Validate()
}

func (s *Server) createBudget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		badRequest("Invalid form submission").Write(w)
		return
	}
	input, err := parseBudgetInput(r.Form)
	if err != nil {
		unprocessable(err.Error()).Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	b, err := s.api.CreateBudget(ctx, input)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to create budget",
			log.FieldCategory, input.Category,
			log.FieldMonth, int(input.Month),
			log.FieldYear, input.Year,
			log.FieldOperation, log.OpCreate,
			"error", err)
		s.notify.Error(err.Error())
		backendError(err).Write(w)
		return
	}

	s.budgetCache.InvalidatePrefix("budgets?")
	s.notify.Success("Budget set for " + b.CategoryName)

	s.logger.InfoContext(r.Context(), "Budget created",
		log.FieldCategory, b.Category,
		log.FieldMonth, int(b.Month),
		log.FieldYear, b.Year,
		log.FieldOperation, log.OpCreate)

	NewHTMXResponse().
		TriggerRefresh("budget").
		TriggerFormReset().
		TriggerNotification("success", "Budget saved", 3000).
		BodyHTML(`<div class="success">Budget saved</div>`).
		Write(w)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, http.MethodPut) {
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest("Invalid form submission").Write(w)
		return
	}
	id, ok := parseID(r.Form.Get("id"))
	if !ok {
		badRequest("Missing budget id").Write(w)
		return
	}
	input, err := parseBudgetInput(r.Form)
	if err != nil {
		unprocessable(err.Error()).Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	if _, err := s.api.UpdateBudget(ctx, id, input); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to update budget",
			"budget_id", id,
			log.FieldOperation, log.OpUpdate,
			"error", err)
		s.notify.Error(err.Error())
		backendError(err).Write(w)
		return
	}

	s.budgetCache.InvalidatePrefix("budgets?")
	s.notify.Success("Budget updated")

	NewHTMXResponse().
		TriggerRefresh("budget").
		TriggerFormReset().
		TriggerNotification("success", "Budget updated", 3000).
		BodyHTML(`<div class="success">Budget updated</div>`).
		Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodDelete, http.MethodPost) {
		return
	}
	id, ok := parseBodyID(r)
	if !ok {
		badRequest("Missing budget id").Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	if err := s.api.DeleteBudget(ctx, id); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to delete budget",
			"budget_id", id,
			log.FieldOperation, log.OpDelete,
			"error", err)
		s.notify.Error(err.Error())
		backendError(err).Write(w)
		return
	}

	s.budgetCache.InvalidatePrefix("budgets?")
	s.notify.Success("Budget removed")

	s.logger.InfoContext(r.Context(), "Budget deleted",
		"budget_id", id,
		log.FieldOperation, log.OpDelete)

	NewHTMXResponse().
		TriggerRefresh("budget").
		TriggerNotification("success", "Budget removed", 2000).
		Write(w)
}
