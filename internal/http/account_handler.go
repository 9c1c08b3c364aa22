package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/EdwinCycling/WerkplekPlanner/internal/application"
)

type accountService interface {
	ChangePassword(ctx context.Context, params application.ChangePasswordParams) error
	RequestPasswordReset(ctx context.Context, params application.RequestPasswordResetParams) (application.RequestPasswordResetResult, error)
	CompletePasswordReset(ctx context.Context, params application.CompletePasswordResetParams) error
}

type AccountHandler struct {
	service   accountService
	responder responder
	logger    *slog.Logger
}

func NewAccountHandler(service accountService, fallback localizerFunc, logger *slog.Logger) *AccountHandler {
	base := defaultLogger(logger)
	return &AccountHandler{service: service, responder: newResponder(fallback, base), logger: base}
}

func (h *AccountHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AccountHandler", operation, attrs...)
}

// ChangePassword replaces the acting user's password.
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "ChangePassword", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode password request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "validation")
		return
	}

	logger := h.log(r.Context(), "ChangePassword", "user_id", principal.UserID)

	err := h.service.ChangePassword(r.Context(), application.ChangePasswordParams{
		Principal:       principal,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "password change rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	clearSessionCookie(w)
	logger.InfoContext(r.Context(), "password changed")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// RequestPasswordReset issues a reset token for the given email. Unknown
// emails yield the same response as known ones.
func (h *AccountHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req passwordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "RequestPasswordReset", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reset request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "validation")
		return
	}

	logger := h.log(r.Context(), "RequestPasswordReset", "email", req.Email)

	result, err := h.service.RequestPasswordReset(r.Context(), application.RequestPasswordResetParams{Email: req.Email})
	if err != nil {
		// Do not disclose whether the account exists.
		if errors.Is(err, application.ErrNotFound) {
			logger.InfoContext(r.Context(), "reset requested for unknown email")
			h.responder.writeJSON(r.Context(), w, http.StatusAccepted, passwordResetResponse{})
			return
		}
		logger.ErrorContext(r.Context(), "reset request failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "reset token issued")
	h.responder.writeJSON(r.Context(), w, http.StatusAccepted, passwordResetResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339Nano),
	})
}

// CompletePasswordReset exchanges a reset token for a new password.
func (h *AccountHandler) CompletePasswordReset(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req completeResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CompletePasswordReset", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reset completion", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "validation")
		return
	}

	logger := h.log(r.Context(), "CompletePasswordReset", "token_present", req.Token != "")

	err := h.service.CompletePasswordReset(r.Context(), application.CompletePasswordResetParams{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "reset completion rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "password reset completed")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

type passwordResetResponse struct {
	Token     string `json:"token,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

type completeResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
