package google

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"budgetview/internal/core"
)

func TestNewFromEnvRequiresSpreadsheetID(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")

	if _, err := NewFromEnv(context.Background()); err == nil {
		t.Fatal("NewFromEnv should fail without GOOGLE_SPREADSHEET_ID")
	}
}

func TestNewFromEnvRequiresCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-123")
	t.Setenv("GOOGLE_OAUTH_CLIENT_JSON", "")
	t.Setenv("GOOGLE_OAUTH_CLIENT_FILE", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	if _, err := NewFromEnv(context.Background()); err == nil {
		t.Fatal("NewFromEnv should fail without credentials")
	}
}

func TestNewFromEnvOAuthClientWithoutToken(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-123")
	t.Setenv("GOOGLE_OAUTH_CLIENT_JSON", `{
		"installed": {
			"client_id": "client-id",
			"client_secret": "client-secret",
			"redirect_uris": ["http://localhost"],
			"auth_uri": "https://accounts.google.com/o/oauth2/auth",
			"token_uri": "https://oauth2.googleapis.com/token"
		}
	}`)
	t.Setenv("GOOGLE_OAUTH_TOKEN_JSON", "")
	t.Setenv("GOOGLE_OAUTH_TOKEN_FILE", "")

	_, err := NewFromEnv(context.Background())
	if err == nil {
		t.Fatal("NewFromEnv should fail when an OAuth client is configured without a token")
	}
	if !strings.Contains(err.Error(), "token") {
		t.Errorf("error should mention the missing token, got %q", err)
	}
}

func TestReadEnvCredentialInlineWins(t *testing.T) {
	t.Setenv("TEST_CRED_JSON", `{"inline": true}`)
	t.Setenv("TEST_CRED_FILE", "/does/not/exist")

	data, err := readEnvCredential("TEST_CRED_JSON", "TEST_CRED_FILE")
	if err != nil {
		t.Fatalf("readEnvCredential: %v", err)
	}
	if string(data) != `{"inline": true}` {
		t.Errorf("readEnvCredential = %q, want the inline JSON", data)
	}
}

func TestReadEnvCredentialAbsent(t *testing.T) {
	t.Setenv("TEST_CRED_JSON", "")
	t.Setenv("TEST_CRED_FILE", "")

	data, err := readEnvCredential("TEST_CRED_JSON", "TEST_CRED_FILE")
	if err != nil {
		t.Fatalf("readEnvCredential: %v", err)
	}
	if data != nil {
		t.Errorf("readEnvCredential = %q, want nil when neither variable is set", data)
	}
}

func TestRowValues(t *testing.T) {
	tx := core.Transaction{
		ID:           42,
		Amount:       decimal.RequireFromString("19.99"),
		CategoryName: "Groceries",
		CategoryType: core.Expense,
		Description:  "Weekly shop",
		Date:         core.NewDate(2024, 6, 3),
	}

	row := rowValues(tx)
	want := []any{"2024-06-03", "Weekly shop", "Groceries", "expense", "19.99"}

	if len(row) != len(want) {
		t.Fatalf("rowValues returned %d columns, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %d = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestAppendWithoutService(t *testing.T) {
	c := &Client{spreadsheetID: "sheet-123", sheetName: "Transactions"}

	if _, err := c.Append(context.Background(), core.Transaction{}); err == nil {
		t.Fatal("Append should fail when the sheets service is not initialized")
	}
}
