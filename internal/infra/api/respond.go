package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/infra/logging"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, logger *zerolog.Logger, err error) {
	l := logging.With(r.Context(), logger)
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Message: "Not found"})
	case errors.Is(err, domain.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Unauthorized"})
	case errors.Is(err, domain.ErrMissingEmail):
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "No user email on file"})
	case errors.Is(err, domain.ErrInvalidSignature):
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid webhook signature"})
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request"})
	case errors.Is(err, domain.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody{Message: "Already exists"})
	case errors.Is(err, domain.ErrConfiguration):
		l.Error().Err(err).Msg("configuration error")
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Server is not configured for this request"})
	case errors.Is(err, domain.ErrBillingProvider):
		l.Error().Err(err).Msg("billing provider error")
		writeJSON(w, http.StatusBadGateway, errorBody{Message: providerMessage(err)})
	case errors.Is(err, context.DeadlineExceeded):
		l.Warn().Err(err).Msg("request timed out")
		writeJSON(w, http.StatusGatewayTimeout, errorBody{Message: "Request timed out"})
	default:
		l.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Internal error"})
	}
}

// providerMessage strips our sentinel prefixes and keeps the provider's text.
func providerMessage(err error) string {
	msg := err.Error()
	prefix := domain.ErrBillingProvider.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		msg = msg[i+len(prefix):]
	}
	return msg
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields.
// An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return domain.ErrInvalidArgument
	}
	if dec.More() {
		return domain.ErrInvalidArgument
	}
	return nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.ErrInvalidArgument
	}
	return n, nil
}
