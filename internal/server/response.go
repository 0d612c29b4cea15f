package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sheikh-saqib/bank-ledger/internal/ledger"
)

var errUnauthorized = errors.New("invalid identifier or credential")

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps ledger errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrAccountNotFound), errors.Is(err, ledger.ErrInvalidDestination),
		errors.Is(err, ledger.ErrInvalidSource):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateIdentifier), errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
