package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSpentAmount(t *testing.T) {
	records := []ComparisonRecord{
		{CategoryID: 1, Year: 2024, Month: 6, ActualAmount: dec("90")},
		{CategoryID: 2, Year: 2024, Month: 6, ActualAmount: dec("40.50")},
		{CategoryID: 1, Year: 2024, Month: 5, ActualAmount: dec("12")},
	}

	tests := []struct {
		name   string
		budget Budget
		want   string
	}{
		{"exact match", Budget{Category: 1, Year: 2024, Month: 6}, "90"},
		{"second category", Budget{Category: 2, Year: 2024, Month: 6}, "40.50"},
		{"month mismatch", Budget{Category: 2, Year: 2024, Month: 5}, "0"},
		{"year mismatch", Budget{Category: 1, Year: 2023, Month: 6}, "0"},
		{"unknown category", Budget{Category: 9, Year: 2024, Month: 6}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpentAmount(tt.budget, records)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("SpentAmount() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSpentAmountNoRecords(t *testing.T) {
	got := SpentAmount(Budget{Category: 1, Year: 2024, Month: 6}, nil)
	if !got.IsZero() {
		t.Errorf("SpentAmount() with no records = %s, want 0", got)
	}
}

func TestSpentPercent(t *testing.T) {
	tests := []struct {
		name      string
		allocated string
		spent     string
		want      string
	}{
		{"half", "100", "50", "50"},
		{"ninety", "100", "90", "90"},
		{"over", "100", "150", "150"},
		{"zero allocation", "0", "50", "0"}, // must not divide by zero
		{"zero spend", "100", "0", "0"},
		{"fractional", "80", "20", "25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpentPercent(dec(tt.allocated), dec(tt.spent))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("SpentPercent(%s, %s) = %s, want %s", tt.allocated, tt.spent, got, tt.want)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name      string
		allocated string
		spent     string
		want      BudgetStatus
	}{
		{"well under", "100", "10", StatusOnTrack},
		{"just under warning", "100", "79.99", StatusOnTrack},
		{"warning boundary", "100", "80", StatusWarning},
		{"ninety percent", "100", "90", StatusWarning},
		{"just under exceeded", "100", "99.99", StatusWarning},
		{"exceeded boundary", "100", "100", StatusExceeded},
		{"blown", "100", "250", StatusExceeded},
		{"zero allocation stays on track", "0", "500", StatusOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatusFor(dec(tt.allocated), dec(tt.spent))
			if got != tt.want {
				t.Errorf("StatusFor(%s, %s) = %s, want %s", tt.allocated, tt.spent, got, tt.want)
			}
		})
	}
}

func TestRemaining(t *testing.T) {
	if got := Remaining(dec("100"), dec("30")); !got.Equal(dec("70")) {
		t.Errorf("Remaining() = %s, want 70", got)
	}
	if got := Remaining(dec("100"), dec("130")); !got.Equal(dec("-30")) {
		t.Errorf("Remaining() over budget = %s, want -30", got)
	}
}
