package http

import (
	"context"
	"log/slog"

	"github.com/EdwinCycling/WerkplekPlanner/internal/application"
	"github.com/EdwinCycling/WerkplekPlanner/internal/i18n"
	"github.com/EdwinCycling/WerkplekPlanner/internal/logging"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	localizerContextKey contextKey = "localizer"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithLocalizer returns a derived context carrying the negotiated localizer.
func ContextWithLocalizer(ctx context.Context, localizer *i18n.Localizer) context.Context {
	return context.WithValue(ctx, localizerContextKey, localizer)
}

// LocalizerFromContext extracts the negotiated localizer from context if available.
func LocalizerFromContext(ctx context.Context) (*i18n.Localizer, bool) {
	localizer, ok := ctx.Value(localizerContextKey).(*i18n.Localizer)
	return localizer, ok && localizer != nil
}

// ContextWithLogger returns a derived context carrying a request scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request scoped logger from context if available.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
