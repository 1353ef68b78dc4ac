package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	acct "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
)

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// WriteError renders err with an operation-identifying prefix, mapping
// accounting error families onto HTTP status codes.
func WriteError(w http.ResponseWriter, operation string, err error) {
	status := http.StatusInternalServerError
	var vErr *acct.ValidationError
	switch {
	case errors.As(err, &vErr):
		status = http.StatusBadRequest
	case errors.Is(err, acct.ErrUnbalanced), errors.Is(err, acct.ErrTooFewEntries):
		status = http.StatusBadRequest
	case acct.IsConflict(err):
		status = http.StatusConflict
	case acct.IsProtected(err):
		status = http.StatusForbidden
	case errors.Is(err, acct.ErrAccountNotFound), errors.Is(err, acct.ErrRecordNotFound), errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	}
	WriteJSON(w, status, errorBody{Error: operation + " failed: " + err.Error()})
}
