package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"budgetview/internal/amqp"
	"budgetview/internal/core"
	"budgetview/internal/sheets/memory"
)

type fakeFetcher struct {
	txs map[int64]core.Transaction
	err error
}

func (f *fakeFetcher) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	if f.err != nil {
		return core.Transaction{}, f.err
	}
	tx, ok := f.txs[id]
	if !ok {
		return core.Transaction{}, errors.New("not found")
	}
	return tx, nil
}

func TestHandleExportRequest(t *testing.T) {
	fetcher := &fakeFetcher{txs: map[int64]core.Transaction{
		42: {
			ID:           42,
			Amount:       decimal.RequireFromString("19.99"),
			CategoryName: "Groceries",
			CategoryType: core.Expense,
			Description:  "Weekly shop",
			Date:         core.NewDate(2024, 6, 3),
		},
	}}
	store := memory.New()
	w := NewExportWorker(fetcher, store)

	err := w.HandleExportRequest(context.Background(), amqp.NewExportRequestMessage(42))
	if err != nil {
		t.Fatalf("HandleExportRequest: %v", err)
	}

	rows := store.Rows()
	if len(rows) != 1 {
		t.Fatalf("appended %d rows, want 1", len(rows))
	}
	if rows[0].ID != 42 || rows[0].Description != "Weekly shop" {
		t.Errorf("appended row = %+v", rows[0])
	}
}

func TestHandleExportRequestFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("backend down")}
	w := NewExportWorker(fetcher, memory.New())

	err := w.HandleExportRequest(context.Background(), amqp.NewExportRequestMessage(42))
	if err == nil {
		t.Fatal("expected error when the fetch fails")
	}
}

func TestHandleExportRequestAppendFailure(t *testing.T) {
	fetcher := &fakeFetcher{txs: map[int64]core.Transaction{
		42: {ID: 42, Description: "Weekly shop"},
	}}
	store := memory.New()
	store.FailWith(errors.New("sheet unavailable"))
	w := NewExportWorker(fetcher, store)

	err := w.HandleExportRequest(context.Background(), amqp.NewExportRequestMessage(42))
	if err == nil {
		t.Fatal("expected error when the append fails")
	}
}
