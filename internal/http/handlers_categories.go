package http

import (
	"context"
	"net/http"
	"net/url"

	"budgetview/internal/api"
	"budgetview/internal/core"
	"budgetview/internal/log"
)

type categoriesPage struct {
	pageContext
	Categories []core.Category
	Count      int
	Name       string
	Type       string
	LoadError  string
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderCategories(w, r)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			badRequest("Invalid form submission").Write(w)
			return
		}
		if r.Form.Get("id") != "" {
			s.handleUpdateCategory(w, r)
			return
		}
		s.createCategory(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderCategories(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	cq := api.CategoryQuery{
		ListParams: parsePaging(query, "name"),
		Name:       sanitizeInput(query.Get("name")),
	}
	if t := core.CategoryType(query.Get("type")); t.Validate() == nil {
		cq.Type = t
	}

	data := categoriesPage{
		pageContext: s.pageContext("categories"),
		Name:        cq.Name,
		Type:        string(cq.Type),
	}

	page, err := s.getCategories(r.Context(), "categories?"+query.Encode(), cq)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list categories",
			log.FieldOperation, log.OpList,
			"error", err)
		data.LoadError = err.Error()
	} else {
		data.Categories = page.Results
		data.Count = page.Count
	}

	s.render(w, r, "categories.html", data)
}

func parseCategoryInput(form url.Values) (core.CategoryInput, error) {
	input := core.CategoryInput{
		Name: sanitizeInput(form.Get("name")),
		Type: core.CategoryType(form.Get("type")),
	}
	return input, input.Validate()
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		badRequest("Invalid form submission").Write(w)
		return
	}
	input, err := parseCategoryInput(r.Form)
	if err != nil {
		unprocessable(err.Error()).Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	cat, err := s.api.CreateCategory(ctx, input)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to create category",
			log.FieldOperation, log.OpCreate,
			"name", input.Name,
			"error", err)
		s.notify.Error(err.Error())
		backendError(err).Write(w)
		return
	}

	s.catCache.InvalidatePrefix("categories?")
	s.notify.Success("Category added: " + cat.Name)

	s.logger.InfoContext(r.Context(), "Category created",
		log.FieldCategory, cat.ID,
		log.FieldOperation, log.OpCreate,
		"name", cat.Name)

	NewHTMXResponse().
		TriggerRefresh("category").
		TriggerFormReset().
		TriggerNotification("success", "Category added", 3000).
		BodyHTML(`<div class="success">Category saved</div>`).
		Write(w)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, http.MethodPut) {
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest("Invalid form submission").Write(w)
		return
	}
	id, ok := parseID(r.Form.Get("id"))
	if !ok {
		badRequest("Missing category id").Write(w)
		return
	}
	input, err := parseCategoryInput(r.Form)
	if err != nil {
		unprocessable(err.Error()).Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	cat, err := s.api.UpdateCategory(ctx, id, input)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to update category",
			log.FieldCategory, id,
			log.FieldOperation, log.OpUpdate,
			"error", err)
		s.notify.Error(err.Error())
		backendError(err).Write(w)
		return
	}

	// A rename shows up in transaction and budget rows too.
	s.catCache.InvalidatePrefix("categories?")
	s.txCache.InvalidatePrefix("transactions?")
	s.budgetCache.InvalidatePrefix("budgets?")
	s.notify.Success("Category updated: " + cat.Name)

	NewHTMXResponse().
		TriggerRefresh("category").
		TriggerFormReset().
		TriggerNotification("success", "Category updated", 3000).
		BodyHTML(`<div class="success">Category updated</div>`).
		Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodDelete, http.MethodPost) {
		return
	}
	id, ok := parseBodyID(r)
	if !ok {
		badRequest("Missing category id").Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	if err := s.api.DeleteCategory(ctx, id); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to delete category",
			log.FieldCategory, id,
			log.FieldOperation, log.OpDelete,
			"error", err)
		s.notify.Error(err.Error())
		backendError(err).Write(w)
		return
	}

	// Deleting a category cascades to its transactions and budgets.
	s.catCache.InvalidatePrefix("categories?")
	s.budgetCache.InvalidatePrefix("budgets?")
	s.invalidateTransactionViews()
	s.notify.Success("Category deleted")

	s.logger.InfoContext(r.Context(), "Category deleted",
		log.FieldCategory, id,
		log.FieldOperation, log.OpDelete)

	NewHTMXResponse().
		TriggerRefresh("category").
		TriggerNotification("success", "Category deleted", 2000).
		Write(w)
}
