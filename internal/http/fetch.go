package http

import (
	"context"
	"fmt"

	"budgetview/internal/api"
	"budgetview/internal/core"
)

// The get* helpers are cache-then-fetch: a fresh cached response is served
// as-is, otherwise the backend is queried with a bounded timeout and the
// result cached under the request's canonical query string.

func (s *Server) getTransactions(ctx context.Context, key string, q api.TransactionQuery) (api.Page[core.Transaction], error) {
	if page, ok := s.txCache.Get(key); ok {
		s.cacheHit()
		return page, nil
	}
	s.cacheMiss()

	cctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	page, err := s.api.ListTransactions(cctx, q)
	if err != nil {
		return api.Page[core.Transaction]{}, err
	}
	s.txCache.Set(key, page)
	return page, nil
}

func (s *Server) getCategories(ctx context.Context, key string, q api.CategoryQuery) (api.Page[core.Category], error) {
	if page, ok := s.catCache.Get(key); ok {
		s.cacheHit()
		return page, nil
	}
	s.cacheMiss()

	cctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	page, err := s.api.ListCategories(cctx, q)
	if err != nil {
		return api.Page[core.Category]{}, err
	}
	s.catCache.Set(key, page)
	return page, nil
}

// getAllCategories fetches the first hundred categories for select inputs.
func (s *Server) getAllCategories(ctx context.Context) ([]core.Category, error) {
	page, err := s.getCategories(ctx, "categories?all", api.CategoryQuery{
		ListParams: api.ListParams{PageSize: 100, Ordering: "name"},
	})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (s *Server) getBudgets(ctx context.Context, key string, q api.BudgetQuery) (api.Page[core.Budget], error) {
	if page, ok := s.budgetCache.Get(key); ok {
		s.cacheHit()
		return page, nil
	}
	s.cacheMiss()

	cctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	page, err := s.api.ListBudgets(cctx, q)
	if err != nil {
		return api.Page[core.Budget]{}, err
	}
	s.budgetCache.Set(key, page)
	return page, nil
}

func (s *Server) getComparison(ctx context.Context, year int, month core.Month) ([]core.ComparisonRecord, error) {
	key := fmt.Sprintf("comparison?%04d-%02d", year, int(month))
	if records, ok := s.comparisonCache.Get(key); ok {
		s.cacheHit()
		return records, nil
	}
	s.cacheMiss()

	cctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	records, err := s.api.BudgetComparison(cctx, year, month)
	if err != nil {
		return nil, err
	}
	s.comparisonCache.Set(key, records)
	return records, nil
}

func (s *Server) getSummary(ctx context.Context, start, end core.Date) (core.Summary, error) {
	key := "summary?" + start.String() + ".." + end.String()
	if summary, ok := s.summaryCache.Get(key); ok {
		s.cacheHit()
		return summary, nil
	}
	s.cacheMiss()

	cctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	summary, err := s.api.Summary(cctx, start, end)
	if err != nil {
		return core.Summary{}, err
	}
	s.summaryCache.Set(key, summary)
	return summary, nil
}
