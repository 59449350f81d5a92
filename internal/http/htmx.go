package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// HTMXResponse builds an HTMX-aware response: HX-Trigger events plus an HTML
// fragment body.
type HTMXResponse struct {
	triggers   map[string]any
	statusCode int
	body       []byte
}

func NewHTMXResponse() *HTMXResponse {
	return &HTMXResponse{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
	}
}

func (b *HTMXResponse) Status(code int) *HTMXResponse {
	b.statusCode = code
	return b
}

// Trigger adds a named client-side event to the HX-Trigger header.
func (b *HTMXResponse) Trigger(name string, data any) *HTMXResponse {
	b.triggers[name] = data
	return b
}

// TriggerRefresh tells list views and the summary to refetch.
func (b *HTMXResponse) TriggerRefresh(resource string) *HTMXResponse {
	return b.Trigger(resource+":changed", struct{}{})
}

func (b *HTMXResponse) TriggerFormReset() *HTMXResponse {
	return b.Trigger("form:reset", struct{}{})
}

// TriggerNotification shows a toast on the client.
func (b *HTMXResponse) TriggerNotification(level, message string, durationMs int) *HTMXResponse {
	return b.Trigger("show-notification", map[string]any{
		"type":     level,
		"message":  message,
		"duration": durationMs,
	})
}

func (b *HTMXResponse) BodyHTML(html string) *HTMXResponse {
	b.body = []byte(html)
	return b
}

// Write sends the built response.
func (b *HTMXResponse) Write(w http.ResponseWriter) {
	if len(b.triggers) > 0 {
		if payload, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(payload))
		}
	}
	if len(b.body) > 0 {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// errorFragment builds an error div with the message escaped for display.
func errorFragment(statusCode int, message string) *HTMXResponse {
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`)
}

func badRequest(message string) *HTMXResponse {
	return errorFragment(http.StatusBadRequest, message)
}

func unprocessable(message string) *HTMXResponse {
	return errorFragment(http.StatusUnprocessableEntity, message)
}

// backendError maps a gateway failure onto an error fragment. The gateway has
// already normalized the message for display, so it is passed through as-is.
func backendError(err error) *HTMXResponse {
	return errorFragment(http.StatusBadGateway, err.Error())
}

// requireMethod writes a 405 and reports false when the method is not allowed.
func requireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	allow := ""
	for i, m := range methods {
		if i > 0 {
			allow += ", "
		}
		allow += m
	}
	w.Header().Set("Allow", allow)
	w.WriteHeader(http.StatusMethodNotAllowed)
	return false
}
