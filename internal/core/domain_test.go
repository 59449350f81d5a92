package core

import (
	"encoding/json"
	"testing"
)

func TestMonthJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Month
	}{
		{"padded string", `"06"`, 6},
		{"plain string", `"6"`, 6},
		{"number", `12`, 12},
		{"null", `null`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Month
			if err := json.Unmarshal([]byte(tt.in), &m); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if m != tt.want {
				t.Errorf("unmarshal %s = %d, want %d", tt.in, m, tt.want)
			}
		})
	}

	out, err := json.Marshal(Month(6))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"06"` {
		t.Errorf("marshal Month(6) = %s, want %q", out, "06")
	}
}

func TestMonthValidate(t *testing.T) {
	for _, m := range []Month{1, 6, 12} {
		if err := m.Validate(); err != nil {
			t.Errorf("Month(%d).Validate() = %v, want nil", m, err)
		}
	}
	for _, m := range []Month{0, 13, -1} {
		if err := m.Validate(); err == nil {
			t.Errorf("Month(%d).Validate() = nil, want error", m)
		}
	}
}

func TestDateJSON(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-06-15"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Year() != 2024 || int(d.Time.Month()) != 6 || d.Day() != 15 {
		t.Errorf("unmarshal = %v", d)
	}

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2024-06-15"` {
		t.Errorf("marshal = %s", out)
	}

	if out, _ := json.Marshal(Date{}); string(out) != "null" {
		t.Errorf("marshal zero date = %s, want null", out)
	}
}

func TestBudgetUnmarshalStringAmounts(t *testing.T) {
	// Backend decimals arrive as JSON strings; months as padded strings.
	raw := `{"id":3,"category":7,"category_name":"Groceries","amount":"250.00","month":"06","year":2024}`
	var b Budget
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.ID != 3 || b.Category != 7 || b.Month != 6 || b.Year != 2024 {
		t.Errorf("unexpected budget: %+v", b)
	}
	if !b.Amount.Equal(dec("250")) {
		t.Errorf("amount = %s, want 250", b.Amount)
	}
}

func TestTransactionInputValidate(t *testing.T) {
	good := TransactionInput{
		Amount:          dec("12.50"),
		Description:     "groceries",
		Category:        1,
		Date:            NewDate(2024, 6, 1),
		TransactionType: Expense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*TransactionInput)
		wantErr error
	}{
		{"amount below minimum", func(in *TransactionInput) { in.Amount = dec("0.001") }, ErrAmountTooSmall},
		{"zero amount", func(in *TransactionInput) { in.Amount = dec("0") }, ErrAmountTooSmall},
		{"blank description", func(in *TransactionInput) { in.Description = "   " }, ErrEmptyDescription},
		{"missing category", func(in *TransactionInput) { in.Category = 0 }, ErrMissingCategory},
		{"missing date", func(in *TransactionInput) { in.Date = Date{} }, ErrMissingDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := good
			tt.mutate(&in)
			if err := in.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCategoryInputValidate(t *testing.T) {
	if err := (CategoryInput{Name: "Rent", Type: Expense}).Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	if err := (CategoryInput{Name: "R", Type: Expense}).Validate(); err != ErrNameTooShort {
		t.Errorf("one-char name: got %v, want %v", err, ErrNameTooShort)
	}
	if err := (CategoryInput{Name: " x ", Type: Expense}).Validate(); err != ErrNameTooShort {
		t.Errorf("padded one-char name: got %v, want %v", err, ErrNameTooShort)
	}
	if err := (CategoryInput{Name: "Rent", Type: "savings"}).Validate(); err == nil {
		t.Error("invalid type accepted")
	}
}

func TestBudgetInputValidate(t *testing.T) {
	good := BudgetInput{Amount: dec("100"), Category: 2, Month: 6, Year: 2024}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	bad := good
	bad.Month = 13
	if err := bad.Validate(); err != ErrInvalidMonth {
		t.Errorf("month 13: got %v, want %v", err, ErrInvalidMonth)
	}
}

func TestSignupInputValidate(t *testing.T) {
	good := SignupInput{Username: "alice", Email: "alice@x.com", Password: "password1"}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	tests := []struct {
		name    string
		in      SignupInput
		wantErr error
	}{
		{"missing username", SignupInput{Email: "a@b.co", Password: "password1"}, ErrMissingUsername},
		{"bad email", SignupInput{Username: "a", Email: "nope", Password: "password1"}, ErrInvalidEmail},
		{"short password", SignupInput{Username: "a", Email: "a@b.co", Password: "short"}, ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.in.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
