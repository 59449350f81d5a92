package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"budgetview/internal/core"
)

// BudgetQuery selects which budgets to list.
type BudgetQuery struct {
	ListParams
	Category int64
	Month    core.Month
	Year     int
}

func (q BudgetQuery) values() url.Values {
	v := url.Values{}
	q.apply(v)
	if q.Category != 0 {
		v.Set("category", strconv.FormatInt(q.Category, 10))
	}
	if q.Month != 0 {
		// The backend stores months as zero-padded strings.
		v.Set("month", fmt.Sprintf("%02d", int(q.Month)))
	}
	if q.Year != 0 {
		v.Set("year", strconv.Itoa(q.Year))
	}
	return v
}

// ListBudgets returns one page of the user's budgets.
func (c *Client) ListBudgets(ctx context.Context, q BudgetQuery) (Page[core.Budget], error) {
	var page Page[core.Budget]
	if err := c.do(ctx, http.MethodGet, "budgets/", q.values(), nil, &page); err != nil {
		return Page[core.Budget]{}, err
	}
	return page, nil
}

// CreateBudget adds a monthly budget for a category.
func (c *Client) CreateBudget(ctx context.Context, input core.BudgetInput) (core.Budget, error) {
	var b core.Budget
	if err := c.do(ctx, http.MethodPost, "budgets/", nil, input, &b); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

// UpdateBudget replaces the budget with the given ID.
func (c *Client) UpdateBudget(ctx context.Context, id int64, input core.BudgetInput) (core.Budget, error) {
	var b core.Budget
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("budgets/%d/", id), nil, input, &b); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

// DeleteBudget removes the budget with the given ID.
func (c *Client) DeleteBudget(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("budgets/%d/", id), nil, nil, nil)
}

// BudgetComparison returns the backend-computed budget-vs-actual figures for
// every expense category in the given month. The endpoint takes the month as
// "YYYY-MM" and responds with a bare array, not the usual page envelope.
func (c *Client) BudgetComparison(ctx context.Context, year int, month core.Month) ([]core.ComparisonRecord, error) {
	if err := month.Validate(); err != nil {
		return nil, err
	}
	v := url.Values{}
	v.Set("month", fmt.Sprintf("%04d-%02d", year, int(month)))

	var records []core.ComparisonRecord
	if err := c.do(ctx, http.MethodGet, "budget-comparison/", v, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}
