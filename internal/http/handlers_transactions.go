package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"budgetview/internal/api"
	"budgetview/internal/core"
	"budgetview/internal/log"
)

type transactionRow struct {
	ID          int64
	Date        string
	Description string
	Category    string
	CategoryID  int64
	Type        core.CategoryType
	Amount      string
	RawAmount   string
}

type transactionsPage struct {
	pageContext
	Rows       []transactionRow
	Categories []core.Category
	Count      int
	Page       int
	PrevPage   int
	NextPage   int
	HasPrev    bool
	HasNext    bool
	Ordering   string
	Filters    url.Values
	LoadError  string
}

// parseTransactionQuery maps the page's filter controls onto the backend's
// list parameters. Unparseable values fall back to "no filter".
func parseTransactionQuery(q url.Values) api.TransactionQuery {
	tq := api.TransactionQuery{ListParams: parsePaging(q, "-date")}
	if d, err := core.ParseDate(q.Get("start_date")); err == nil {
		tq.StartDate = d
	}
	if d, err := core.ParseDate(q.Get("end_date")); err == nil {
		tq.EndDate = d
	}
	if id, ok := parseID(q.Get("category")); ok {
		tq.Category = id
	}
	if a, ok := parseAmount(q.Get("min_amount")); ok {
		tq.MinAmount = a
	}
	if a, ok := parseAmount(q.Get("max_amount")); ok {
		tq.MaxAmount = a
	}
	if t := core.CategoryType(q.Get("transaction_type")); t.Validate() == nil {
		tq.Type = t
	}
	return tq
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderTransactions(w, r)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			badRequest("Invalid form submission").Write(w)
			return
		}
		// The entry form doubles as the edit form: a filled id means update.
		if r.Form.Get("id") != "" {
			s.handleUpdateTransaction(w, r)
			return
		}
		s.createTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	tq := parseTransactionQuery(query)
	if tq.Page == 0 {
		tq.Page = 1
	}

	data := transactionsPage{
		pageContext: s.pageContext("transactions"),
		Page:        tq.Page,
		PrevPage:    tq.Page - 1,
		NextPage:    tq.Page + 1,
		Ordering:    tq.Ordering,
		Filters:     query,
	}

	symbol := currencySymbol(s.currentSettings(r.Context()).Currency)

	page, err := s.getTransactions(r.Context(), "transactions?"+query.Encode(), tq)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list transactions",
			log.FieldOperation, log.OpList,
			log.FieldPage, tq.Page,
			"error", err)
		data.LoadError = err.Error()
	} else {
		data.Count = page.Count
		data.HasPrev = tq.Page > 1
		pageSize := tq.PageSize
		if pageSize == 0 {
			pageSize = 20
		}
		data.HasNext = tq.Page*pageSize < page.Count
		for _, tx := range page.Results {
			data.Rows = append(data.Rows, transactionRow{
				ID:          tx.ID,
				Date:        tx.Date.String(),
				Description: tx.Description,
				Category:    tx.CategoryName,
				CategoryID:  tx.Category,
				Type:        tx.CategoryType,
				Amount:      formatAmount(symbol, tx.Amount),
				RawAmount:   tx.Amount.String(),
			})
		}
	}

	cats, err := s.getAllCategories(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list categories for transaction form", "error", err)
	}
	data.Categories = cats

	s.render(w, r, "transactions.html", data)
}

// parseTransactionInput reads the shared create/update form fields.
func parseTransactionInput(form url.Values) (core.TransactionInput, error) {
	input := core.TransactionInput{
		Description:     sanitizeInput(form.Get("description")),
		TransactionType: core.CategoryType(form.Get("transaction_type")),
	}
	if a, ok := parseAmount(form.Get("amount")); ok {
		input.Amount = a
	}
	if id, ok := parseID(form.Get("category")); ok {
		input.Category = id
	}
	if d, err := core.ParseDate(form.Get("date")); err == nil {
		input.Date = d
	}
	return input, input.Validate()
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		badRequest("Invalid form submission").Write(w)
		return
	}
	input, err := parseTransactionInput(r.Form)
	if err != nil {
		unprocessable(err.Error()).Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	tx, err := s.api.CreateTransaction(ctx, input)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to create transaction",
			log.FieldOperation, log.OpCreate,
			log.FieldCategory, input.Category,
			"error", err)
		s.notify.Error(err.Error())
		backendError(err).Write(w)
		return
	}

	atomic.AddInt64(&s.appMetrics.transactionsCreated, 1)
	s.invalidateTransactionViews()
	s.notify.Success("Transaction added: " + tx.Description)

	s.logger.InfoContext(r.Context(), "Transaction created",
		log.FieldTransactionID, tx.ID,
		log.FieldCategory, tx.Category,
		log.FieldOperation, log.OpCreate,
		"amount", tx.Amount.String())

	s.publishExport(r.Context(), tx.ID)

	NewHTMXResponse().
		TriggerRefresh("transaction").
		TriggerFormReset().
		TriggerNotification("success", "Transaction added", 3000).
		BodyHTML(`<div class="success">Transaction saved</div>`).
		Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, http.MethodPut) {
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest("Invalid form submission").Write(w)
		return
	}
	id, ok := parseID(r.Form.Get("id"))
	if !ok {
		badRequest("Missing transaction id").Write(w)
		return
	}
	input, err := parseTransactionInput(r.Form)
	if err != nil {
		unprocessable(err.Error()).Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	tx, err := s.api.UpdateTransaction(ctx, id, input)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to update transaction",
			log.FieldTransactionID, id,
			log.FieldOperation, log.OpUpdate,
			"error", err)
		s.notify.Error(err.Error())
		backendError(err).Write(w)
		return
	}

	s.invalidateTransactionViews()
	s.notify.Success("Transaction updated: " + tx.Description)

	s.logger.InfoContext(r.Context(), "Transaction updated",
		log.FieldTransactionID, tx.ID,
		log.FieldOperation, log.OpUpdate)

	NewHTMXResponse().
		TriggerRefresh("transaction").
		TriggerFormReset().
		TriggerNotification("success", "Transaction updated", 3000).
		BodyHTML(`<div class="success">Transaction updated</div>`).
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodDelete, http.MethodPost) {
		return
	}
	id, ok := parseBodyID(r)
	if !ok {
		badRequest("Missing transaction id").Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	if err := s.api.DeleteTransaction(ctx, id); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to delete transaction",
			log.FieldTransactionID, id,
			log.FieldOperation, log.OpDelete,
			"error", err)
		s.notify.Error(err.Error())
		backendError(err).Write(w)
		return
	}

	s.invalidateTransactionViews()
	s.notify.Success("Transaction deleted")

	s.logger.InfoContext(r.Context(), "Transaction deleted",
		log.FieldTransactionID, id,
		log.FieldOperation, log.OpDelete)

	NewHTMXResponse().
		TriggerRefresh("transaction").
		TriggerNotification("success", "Transaction deleted", 2000).
		Write(w)
}

// publishExport queues the transaction for spreadsheet export. Failures are
// logged, never surfaced: the export is a side channel.
func (s *Server) publishExport(ctx context.Context, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExportRequest(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "Failed to queue transaction export",
			log.FieldTransactionID, id,
			log.FieldComponent, log.ComponentAMQP,
			log.FieldOperation, log.OpExport,
			"error", err)
	}
}

// parseBodyID extracts an "id" field from a form- or JSON-encoded body, the
// two encodings HTMX delete buttons produce.
func parseBodyID(r *http.Request) (int64, bool) {
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") || r.Method == http.MethodDelete {
		body, err := io.ReadAll(io.LimitReader(r.Body, 4<<10))
		if err != nil {
			return 0, false
		}
		if len(body) > 0 && body[0] == '{' {
			var payload struct {
				ID json.Number `json:"id"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				return 0, false
			}
			return parseID(payload.ID.String())
		}
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return 0, false
		}
		return parseID(form.Get("id"))
	}
	if err := r.ParseForm(); err != nil {
		return 0, false
	}
	return parseID(r.Form.Get("id"))
}
