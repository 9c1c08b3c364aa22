package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/EdwinCycling/WerkplekPlanner/internal/application"
	"github.com/EdwinCycling/WerkplekPlanner/internal/i18n"
)

type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (application.Principal, error)
}

// RequireSession rejects requests without a valid session token and stores
// the resolved principal in the request context.
func RequireSession(validator SessionValidator, bundle *goi18n.Bundle, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(func() *i18n.Localizer { return i18n.NewLocalizer(bundle) }, logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractTokenFromRequest(r)
			if token == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, "invalid_credentials")
				return
			}

			principal, err := validator.ValidateSession(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, application.ErrSessionExpired):
					responder.writeError(r.Context(), w, http.StatusUnauthorized, "session_expired")
				case errors.Is(err, application.ErrSessionRevoked):
					responder.writeError(r.Context(), w, http.StatusUnauthorized, "session_revoked")
				case errors.Is(err, application.ErrUnauthorized), errors.Is(err, application.ErrInvalidCredentials), errors.Is(err, application.ErrNotFound):
					responder.writeError(r.Context(), w, http.StatusUnauthorized, "invalid_credentials")
				default:
					responder.writeError(r.Context(), w, http.StatusInternalServerError, "unexpected")
				}
				return
			}

			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a request scoped logger with a sequential request id.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}

// NegotiateLanguage resolves the response language from the lang query
// parameter or the Accept-Language header and stores a localizer in the
// request context.
func NegotiateLanguage(bundle *goi18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			localizer := i18n.NewLocalizer(bundle, r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
			w.Header().Set("Content-Language", localizer.Language())
			ctx := ContextWithLocalizer(r.Context(), localizer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
