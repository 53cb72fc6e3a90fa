// Package shared centralizes JSON envelope helpers so every handler speaks
// the same response dialect.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "intake/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates a domain error into the JSON error envelope. Errors
// without a code are treated as internal and their message withheld.
func WriteError(w http.ResponseWriter, err error) {
	de := dErrors.Load(err)
	if de == nil {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: string(dErrors.CodeInternal)})
		return
	}
	resp := ErrorResponse{Error: string(de.Code), Message: de.Message, Details: de.Details}
	if de.Code == dErrors.CodeInternal {
		// Internal details stay in logs.
		resp.Message = ""
		resp.Details = nil
	}
	WriteJSON(w, dErrors.ToHTTPStatus(de.Code), resp)
}
