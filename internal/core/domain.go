package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  CategoryType = "income"
	Expense CategoryType = "expense"
)

type (
	// CategoryType distinguishes income from expense categories.
	CategoryType string

	// Date is a calendar date exchanged with the backend as "YYYY-MM-DD".
	Date struct {
		time.Time
	}

	// Month is a 1-12 month number. The backend stores budget months as
	// zero-padded strings ("06") but reports comparison months as numbers,
	// so Month accepts both encodings and always sends the padded form.
	Month int

	Category struct {
		ID   int64        `json:"id"`
		Name string       `json:"name"`
		Type CategoryType `json:"type"`
	}

	Transaction struct {
		ID           int64           `json:"id"`
		Amount       decimal.Decimal `json:"amount"`
		Category     int64           `json:"category"`
		CategoryName string          `json:"category_name,omitempty"`
		CategoryType CategoryType    `json:"category_type,omitempty"`
		Description  string          `json:"description"`
		Date         Date            `json:"date"`
	}

	Budget struct {
		ID           int64           `json:"id"`
		Category     int64           `json:"category"`
		CategoryName string          `json:"category_name,omitempty"`
		Amount       decimal.Decimal `json:"amount"`
		Month        Month           `json:"month"`
		Year         int             `json:"year"`
	}

	// ComparisonRecord is the backend-computed budget-vs-actual figure for
	// one category and month.
	ComparisonRecord struct {
		CategoryID   int64           `json:"category_id"`
		CategoryName string          `json:"category_name"`
		BudgetAmount decimal.Decimal `json:"budget_amount"`
		ActualAmount decimal.Decimal `json:"actual_amount"`
		Difference   decimal.Decimal `json:"difference"`
		Year         int             `json:"year"`
		Month        Month           `json:"month"`
	}

	CategoryAmount struct {
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
	}

	TrendPoint struct {
		Month    string          `json:"month"` // "YYYY-MM"
		Income   decimal.Decimal `json:"income"`
		Expenses decimal.Decimal `json:"expenses"`
	}

	Summary struct {
		TotalIncome        decimal.Decimal  `json:"total_income"`
		TotalExpenses      decimal.Decimal  `json:"total_expenses"`
		NetBalance         decimal.Decimal  `json:"net_balance"`
		ExpensesByCategory []CategoryAmount `json:"expenses_by_category"`
		MonthlyTrend       []TrendPoint     `json:"monthly_trend"`
	}

	Profile struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		MemberSince Date   `json:"member_since"`
	}

	Settings struct {
		Currency           string `json:"currency"`
		EmailNotifications bool   `json:"email_notifications"`
	}
)

var (
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	ErrInvalidDate  = errors.New("invalid date")
)

// DefaultSettings apply until the user saves their own preferences.
func DefaultSettings() Settings {
	return Settings{Currency: "USD", EmailNotifications: true}
}

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Month) Validate() error {
	if m < 1 || m > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Name returns the English month name, or "" for out-of-range values.
func (m Month) Name() string {
	if m.Validate() != nil {
		return ""
	}
	return time.Month(m).String()
}

func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("%02d", int(m)))
}

func (m *Month) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*m = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("parse month %q: %w", s, err)
	}
	*m = Month(n)
	return nil
}

func (t CategoryType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return fmt.Errorf("invalid category type %q", string(t))
}
