package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"budgetview/internal/core"
	"budgetview/internal/session"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess := session.NewStore(context.Background(), nil)
	return NewClient(srv.URL, sess, nil), sess
}

func TestClientAttachesTokenWhenLoggedIn(t *testing.T) {
	var gotAuth string
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"results":[],"count":0}`))
	})

	ctx := context.Background()
	if _, err := client.ListTransactions(ctx, TransactionQuery{}); err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("logged-out request carried Authorization %q", gotAuth)
	}

	sess.SetToken(ctx, "abc123")
	if _, err := client.ListTransactions(ctx, TransactionQuery{}); err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if gotAuth != "Token abc123" {
		t.Errorf("Authorization = %q, want Token abc123", gotAuth)
	}
}

func TestClientErrorNormalization(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantStatus int
	}{
		{
			name:       "detail field",
			status:     401,
			body:       `{"detail":"Invalid token."}`,
			wantMsg:    "Error 401: Invalid token.",
			wantStatus: 401,
		},
		{
			name:       "validation object",
			status:     400,
			body:       `{"amount":["This field is required."]}`,
			wantMsg:    `Error 400: {"amount":["This field is required."]}`,
			wantStatus: 400,
		},
		{
			name:       "non-JSON body",
			status:     502,
			body:       `<html>Bad Gateway</html>`,
			wantMsg:    "Error 502: Bad Gateway",
			wantStatus: 502,
		},
		{
			name:       "empty body",
			status:     500,
			body:       "",
			wantMsg:    "Error 500: Internal Server Error",
			wantStatus: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.ListTransactions(context.Background(), TransactionQuery{})
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *api.Error", err)
			}
			if apiErr.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", apiErr.Status, tt.wantStatus)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestClientUnreachableBackend(t *testing.T) {
	sess := session.NewStore(context.Background(), nil)
	client := NewClient("http://127.0.0.1:1", sess, nil)

	_, err := client.Summary(context.Background(), core.Date{}, core.Date{})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *api.Error", err)
	}
	if apiErr.Status != 0 {
		t.Errorf("Status = %d, want 0 for transport failure", apiErr.Status)
	}
	if apiErr.Message != MsgCannotConnect {
		t.Errorf("Message = %q, want %q", apiErr.Message, MsgCannotConnect)
	}
}

func TestClientContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListCategories(ctx, CategoryQuery{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestListTransactionsQueryAndDecode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/transactions/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("page_size") != "10" || q.Get("ordering") != "-date" {
			t.Errorf("paging params = %v", q)
		}
		if q.Get("start_date") != "2024-06-01" || q.Get("category") != "7" {
			t.Errorf("filter params = %v", q)
		}
		if q.Get("min_amount") != "5" || q.Get("transaction_type") != "expense" {
			t.Errorf("filter params = %v", q)
		}
		w.Write([]byte(`{
			"results": [
				{"id": 1, "amount": "42.50", "category": 7, "category_name": "Groceries",
				 "category_type": "expense", "description": "Weekly shop", "date": "2024-06-03"}
			],
			"count": 23
		}`))
	})

	page, err := client.ListTransactions(context.Background(), TransactionQuery{
		ListParams: ListParams{Page: 2, PageSize: 10, Ordering: "-date"},
		StartDate:  core.NewDate(2024, 6, 1),
		Category:   7,
		MinAmount:  decimal.NewFromInt(5),
		Type:       core.Expense,
	})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if page.Count != 23 || len(page.Results) != 1 {
		t.Fatalf("page = count %d, %d results", page.Count, len(page.Results))
	}
	tx := page.Results[0]
	if !tx.Amount.Equal(decimal.RequireFromString("42.50")) {
		t.Errorf("Amount = %s", tx.Amount)
	}
	if tx.CategoryName != "Groceries" || tx.Date.String() != "2024-06-03" {
		t.Errorf("decoded transaction = %+v", tx)
	}
}

func TestBudgetComparisonMonthParam(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/budget-comparison/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("month"); got != "2024-06" {
			t.Errorf("month = %q, want 2024-06", got)
		}
		w.Write([]byte(`[
			{"category_id": 7, "category_name": "Groceries", "budget_amount": "100",
			 "actual_amount": "90", "difference": "10", "year": 2024, "month": 6}
		]`))
	})

	records, err := client.BudgetComparison(context.Background(), 2024, 6)
	if err != nil {
		t.Fatalf("BudgetComparison: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.CategoryID != 7 || rec.Month != 6 || !rec.ActualAmount.Equal(decimal.NewFromInt(90)) {
		t.Errorf("record = %+v", rec)
	}
}

func TestBudgetComparisonRejectsBadMonth(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be sent for an invalid month")
	})

	if _, err := client.BudgetComparison(context.Background(), 2024, 13); !errors.Is(err, core.ErrInvalidMonth) {
		t.Fatalf("error = %v, want ErrInvalidMonth", err)
	}
}

func TestSignupAndLogin(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/signup/":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"message":"User created successfully","token":"tok-signup","username":"alice"}`))
		case "/api/login/":
			w.Write([]byte(`{"token":"tok-login","username":"alice"}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	})

	ctx := context.Background()
	signup, err := client.Signup(ctx, core.SignupInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if signup.Token != "tok-signup" || signup.Username != "alice" {
		t.Errorf("signup response = %+v", signup)
	}

	login, err := client.Login(ctx, core.LoginInput{Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.Token != "tok-login" {
		t.Errorf("login token = %q", login.Token)
	}
}

func TestDeleteTransactionNoContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/transactions/5/" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteTransaction(context.Background(), 5); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
}

func TestGateLatestWins(t *testing.T) {
	var g Gate

	first := g.Begin()
	second := g.Begin()

	if g.Commit(first) {
		t.Error("stale ticket should not commit")
	}
	if !g.Commit(second) {
		t.Error("latest ticket should commit")
	}
	// Committing is not consuming; the latest ticket stays valid until a
	// newer fetch begins.
	if !g.Commit(second) {
		t.Error("latest ticket should stay committable")
	}
}
