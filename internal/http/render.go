package http

import (
	"net/http"

	"budgetview/internal/log"
	"budgetview/internal/notify"
)

// pageContext is the data every full page template receives alongside its own
// view model.
type pageContext struct {
	Username      string
	Active        string
	Notifications []notify.Message
}

func (s *Server) pageContext(active string) pageContext {
	return pageContext{
		Username:      s.session.Username(),
		Active:        active,
		Notifications: s.notify.Active(),
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldComponent, log.ComponentTemplate)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			"error", err,
			"template", name,
			log.FieldComponent, log.ComponentTemplate)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
