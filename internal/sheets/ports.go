// Package sheets defines the outbound port for spreadsheet export.
package sheets

import (
	"context"

	"budgetview/internal/core"
)

// TransactionAppender writes one transaction to the export target and returns
// a reference to where it landed (a cell range for spreadsheets).
type TransactionAppender interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
