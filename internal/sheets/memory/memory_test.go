package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"budgetview/internal/core"
)

func TestAppendAndRows(t *testing.T) {
	s := New()
	ctx := context.Background()

	tx := core.Transaction{
		ID:           1,
		Amount:       decimal.RequireFromString("12.30"),
		CategoryName: "Groceries",
		Description:  "Milk",
		Date:         core.NewDate(2024, 6, 1),
	}

	ref, err := s.Append(ctx, tx)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want mem:1", ref)
	}

	ref, err = s.Append(ctx, tx)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ref != "mem:2" {
		t.Errorf("ref = %q, want mem:2", ref)
	}

	rows := s.Rows()
	if len(rows) != 2 {
		t.Fatalf("Rows() returned %d entries, want 2", len(rows))
	}
	if rows[0].Description != "Milk" {
		t.Errorf("rows[0].Description = %q", rows[0].Description)
	}
}

func TestFailWith(t *testing.T) {
	s := New()
	boom := errors.New("sheet unavailable")
	s.FailWith(boom)

	if _, err := s.Append(context.Background(), core.Transaction{}); !errors.Is(err, boom) {
		t.Fatalf("Append error = %v, want %v", err, boom)
	}

	s.FailWith(nil)
	if _, err := s.Append(context.Background(), core.Transaction{}); err != nil {
		t.Fatalf("Append after recovery: %v", err)
	}
}
