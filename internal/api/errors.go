package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// MsgCannotConnect is shown whenever the backend is unreachable, regardless of
// the underlying transport failure.
const MsgCannotConnect = "Cannot connect to the server. Please check your internet connection or try again later."

// Error is a normalized backend failure. Status is the HTTP status code, or 0
// when the request never reached the server. Message is ready for display.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// connectError wraps a transport-level failure.
func connectError() *Error {
	return &Error{Status: 0, Message: MsgCannotConnect}
}

// normalizeError turns a non-2xx response body into an Error. Precedence: a
// "detail" field wins, then any JSON object or array body serialized verbatim,
// then the standard status text.
func normalizeError(status int, body []byte) *Error {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err == nil {
		if obj, ok := parsed.(map[string]any); ok {
			if detail, ok := obj["detail"].(string); ok {
				return &Error{Status: status, Message: fmt.Sprintf("Error %d: %s", status, detail)}
			}
		}
		switch parsed.(type) {
		case map[string]any, []any:
			var compact bytes.Buffer
			if err := json.Compact(&compact, body); err == nil {
				return &Error{Status: status, Message: fmt.Sprintf("Error %d: %s", status, compact.String())}
			}
		}
	}
	return &Error{Status: status, Message: fmt.Sprintf("Error %d: %s", status, http.StatusText(status))}
}
