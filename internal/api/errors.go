// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pooja61096/uscensus/internal/census"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps client errors onto gateway status codes. Upstream
// failures of any kind surface as 502; 503 is reserved for the open
// circuit breaker, where backing off actually helps.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, census.ErrInvalidInput):
		code = http.StatusBadRequest
	case errors.Is(err, census.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, census.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	case errors.Is(err, census.ErrCircuitOpen):
		code = http.StatusServiceUnavailable
	case errors.Is(err, census.ErrForbidden),
		errors.Is(err, census.ErrUpstreamError),
		errors.Is(err, census.ErrBadResponse),
		errors.Is(err, census.ErrUpstreamUnavailable):
		code = http.StatusBadGateway
	}

	writeJSON(w, code, errorBody{Error: err.Error()})
}
