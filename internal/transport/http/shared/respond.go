// Package shared holds the response helpers every handler uses.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "aseara/pkg/domain-errors"
)

// errorBody is the uniform error envelope.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error onto an HTTP status and the error
// envelope. Unknown errors become opaque 500s.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)
	body := errorBody{
		Error:            string(code),
		ErrorDescription: dErrors.MessageOf(err),
	}
	if status == http.StatusInternalServerError {
		body.ErrorDescription = "internal error"
	}
	WriteJSON(w, status, body)
}
