package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/EdwinCycling/WerkplekPlanner/internal/application"
	"github.com/EdwinCycling/WerkplekPlanner/internal/i18n"
)

// localizerFunc produces a localizer when the request context carries none.
type localizerFunc func() *i18n.Localizer

type responder struct {
	fallback localizerFunc
	logger   *slog.Logger
}

func newResponder(fallback localizerFunc, logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{fallback: fallback, logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError renders a localized error body for the given kind label.
func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, kind string) {
	r.writeJSON(ctx, w, status, errorResponse{
		ErrorCode: kind,
		Message:   r.localizerFor(ctx).ErrorMessage(kind),
	})
}

// handleServiceError maps application errors onto HTTP statuses with a
// localized message.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, "unexpected")
		return
	}

	r.loggerFor(ctx).ErrorContext(ctx, "request failed", "error", err, "error_kind", application.ErrorKind(err))

	switch {
	case errors.Is(err, application.ErrUnauthorized):
		r.writeError(ctx, w, http.StatusForbidden, "unauthorized")
	case errors.Is(err, application.ErrNotFound):
		r.writeError(ctx, w, http.StatusNotFound, "not_found")
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeError(ctx, w, http.StatusConflict, "already_exists")
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeError(ctx, w, http.StatusUnauthorized, "invalid_credentials")
	case errors.Is(err, application.ErrSessionExpired):
		r.writeError(ctx, w, http.StatusUnauthorized, "session_expired")
	case errors.Is(err, application.ErrSessionRevoked):
		r.writeError(ctx, w, http.StatusUnauthorized, "session_revoked")
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				ErrorCode: "validation",
				Message:   r.localizerFor(ctx).ErrorMessage("validation"),
				Errors:    vErr.FieldErrors,
			})
			return
		}
		r.writeError(ctx, w, http.StatusInternalServerError, "unexpected")
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func (r responder) localizerFor(ctx context.Context) *i18n.Localizer {
	if localizer, ok := LocalizerFromContext(ctx); ok {
		return localizer
	}
	if r.fallback != nil {
		return r.fallback()
	}
	return nil
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
