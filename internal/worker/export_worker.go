// Package worker copies transactions from the backend to the configured
// spreadsheet as export requests arrive on the queue.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budgetview/internal/amqp"
	"budgetview/internal/core"
	"budgetview/internal/sheets"
)

// TransactionFetcher retrieves one transaction from the backend.
// *api.Client satisfies this.
type TransactionFetcher interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
}

// ExportWorker handles export request messages: fetch the transaction, append
// it to the sheet.
type ExportWorker struct {
	fetcher  TransactionFetcher
	appender sheets.TransactionAppender
}

func NewExportWorker(fetcher TransactionFetcher, appender sheets.TransactionAppender) *ExportWorker {
	return &ExportWorker{
		fetcher:  fetcher,
		appender: appender,
	}
}

// HandleExportRequest processes a single export request message. Returning an
// error requeues the message.
func (w *ExportWorker) HandleExportRequest(ctx context.Context, msg *amqp.ExportRequestMessage) error {
	slog.InfoContext(ctx, "Processing export request", "id", msg.ID)

	tx, err := w.fetcher.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("fetch transaction %d: %w", msg.ID, err)
	}

	ref, err := w.appender.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append transaction %d to sheet: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"id", msg.ID,
		"sheets_ref", ref,
		"description", tx.Description,
		"amount", tx.Amount.String())

	return nil
}
