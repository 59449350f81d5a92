package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"budgetview/internal/core"
)

// CategoryQuery selects which categories to list. Name is a case-insensitive
// substring match.
type CategoryQuery struct {
	ListParams
	Name string
	Type core.CategoryType
}

func (q CategoryQuery) values() url.Values {
	v := url.Values{}
	q.apply(v)
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.Type != "" {
		v.Set("type", string(q.Type))
	}
	return v
}

// ListCategories returns one page of the user's categories.
func (c *Client) ListCategories(ctx context.Context, q CategoryQuery) (Page[core.Category], error) {
	var page Page[core.Category]
	if err := c.do(ctx, http.MethodGet, "categories/", q.values(), nil, &page); err != nil {
		return Page[core.Category]{}, err
	}
	return page, nil
}

// CreateCategory adds a new category.
func (c *Client) CreateCategory(ctx context.Context, input core.CategoryInput) (core.Category, error) {
	var cat core.Category
	if err := c.do(ctx, http.MethodPost, "categories/", nil, input, &cat); err != nil {
		return core.Category{}, err
	}
	return cat, nil
}

// UpdateCategory replaces the category with the given ID.
func (c *Client) UpdateCategory(ctx context.Context, id int64, input core.CategoryInput) (core.Category, error) {
	var cat core.Category
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("categories/%d/", id), nil, input, &cat); err != nil {
		return core.Category{}, err
	}
	return cat, nil
}

// DeleteCategory removes the category with the given ID.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("categories/%d/", id), nil, nil, nil)
}
