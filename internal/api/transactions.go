package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"budgetview/internal/core"
)

// TransactionQuery selects which transactions to list. Zero values mean
// "no filter".
type TransactionQuery struct {
	ListParams
	StartDate core.Date
	EndDate   core.Date
	Category  int64
	MinAmount decimal.Decimal
	MaxAmount decimal.Decimal
	Type      core.CategoryType
}

func (q TransactionQuery) values() url.Values {
	v := url.Values{}
	q.apply(v)
	if !q.StartDate.IsZero() {
		v.Set("start_date", q.StartDate.String())
	}
	if !q.EndDate.IsZero() {
		v.Set("end_date", q.EndDate.String())
	}
	if q.Category != 0 {
		v.Set("category", strconv.FormatInt(q.Category, 10))
	}
	if !q.MinAmount.IsZero() {
		v.Set("min_amount", q.MinAmount.String())
	}
	if !q.MaxAmount.IsZero() {
		v.Set("max_amount", q.MaxAmount.String())
	}
	if q.Type != "" {
		v.Set("transaction_type", string(q.Type))
	}
	return v
}

// ListTransactions returns one page of transactions, newest first unless the
// query orders otherwise.
func (c *Client) ListTransactions(ctx context.Context, q TransactionQuery) (Page[core.Transaction], error) {
	var page Page[core.Transaction]
	if err := c.do(ctx, http.MethodGet, "transactions/", q.values(), nil, &page); err != nil {
		return Page[core.Transaction]{}, err
	}
	return page, nil
}

// GetTransaction fetches a single transaction by ID.
func (c *Client) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	var tx core.Transaction
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("transactions/%d/", id), nil, nil, &tx); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// CreateTransaction submits a validated transaction and returns the created
// record.
func (c *Client) CreateTransaction(ctx context.Context, input core.TransactionInput) (core.Transaction, error) {
	var tx core.Transaction
	if err := c.do(ctx, http.MethodPost, "transactions/", nil, input, &tx); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// UpdateTransaction replaces the transaction with the given ID.
func (c *Client) UpdateTransaction(ctx context.Context, id int64, input core.TransactionInput) (core.Transaction, error) {
	var tx core.Transaction
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("transactions/%d/", id), nil, input, &tx); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// DeleteTransaction removes the transaction with the given ID.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("transactions/%d/", id), nil, nil, nil)
}
