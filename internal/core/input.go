package core

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Form inputs are validated before any network call; a failing Validate keeps
// the submission entirely client-side.

var (
	ErrEmptyDescription = errors.New("description is required")
	ErrMissingCategory  = errors.New("category is required")
	ErrMissingDate      = errors.New("date is required")
	ErrAmountTooSmall   = errors.New("amount must be at least 0.01")
	ErrNameTooShort     = errors.New("name must be at least 2 characters")
	ErrMissingUsername  = errors.New("username is required")
	ErrInvalidEmail     = errors.New("a valid email address is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrMissingPassword  = errors.New("password is required")
	ErrMissingYear      = errors.New("year is required")
)

// MinAmount is the smallest accepted monetary amount.
var MinAmount = decimal.New(1, -2) // 0.01

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type (
	TransactionInput struct {
		Amount          decimal.Decimal `json:"amount"`
		Description     string          `json:"description"`
		Category        int64           `json:"category"`
		Date            Date            `json:"date"`
		TransactionType CategoryType    `json:"transaction_type"`
	}

	CategoryInput struct {
		Name string       `json:"name"`
		Type CategoryType `json:"type"`
	}

	BudgetInput struct {
		Amount   decimal.Decimal `json:"amount"`
		Category int64           `json:"category"`
		Month    Month           `json:"month"`
		Year     int             `json:"year"`
	}

	SignupInput struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	ProfileInput struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}

	SettingsInput struct {
		Currency           string `json:"currency"`
		EmailNotifications bool   `json:"email_notifications"`
	}
)

func validAmount(a decimal.Decimal) error {
	if a.LessThan(MinAmount) {
		return ErrAmountTooSmall
	}
	return nil
}

func (in TransactionInput) Validate() error {
	if err := validAmount(in.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if in.Category == 0 {
		return ErrMissingCategory
	}
	if in.Date.IsZero() {
		return ErrMissingDate
	}
	return in.TransactionType.Validate()
}

func (in CategoryInput) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < 2 {
		return ErrNameTooShort
	}
	return in.Type.Validate()
}

func (in BudgetInput) Validate() error {
	if err := validAmount(in.Amount); err != nil {
		return err
	}
	if in.Category == 0 {
		return ErrMissingCategory
	}
	if err := in.Month.Validate(); err != nil {
		return err
	}
	if in.Year == 0 {
		return ErrMissingYear
	}
	return nil
}

func (in SignupInput) Validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return ErrMissingUsername
	}
	if !emailPattern.MatchString(in.Email) {
		return ErrInvalidEmail
	}
	if len(in.Password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}

func (in LoginInput) Validate() error {
	if !emailPattern.MatchString(in.Email) {
		return ErrInvalidEmail
	}
	if in.Password == "" {
		return ErrMissingPassword
	}
	return nil
}

func (in ProfileInput) Validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return ErrMissingUsername
	}
	if !emailPattern.MatchString(in.Email) {
		return ErrInvalidEmail
	}
	return nil
}
