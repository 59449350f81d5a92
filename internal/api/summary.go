package api

import (
	"context"
	"net/http"
	"net/url"

	"budgetview/internal/core"
)

// Summary fetches the financial summary for the given date range. Zero dates
// are omitted and the backend defaults to the current month.
func (c *Client) Summary(ctx context.Context, start, end core.Date) (core.Summary, error) {
	v := url.Values{}
	if !start.IsZero() {
		v.Set("start_date", start.String())
	}
	if !end.IsZero() {
		v.Set("end_date", end.String())
	}

	var s core.Summary
	if err := c.do(ctx, http.MethodGet, "summary/", v, nil, &s); err != nil {
		return core.Summary{}, err
	}
	return s, nil
}
