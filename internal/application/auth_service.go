package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// CredentialStore exposes user credential operations required by the auth service.
type CredentialStore interface {
	GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error)
	GetUser(ctx context.Context, id string) (User, error)
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}

// SessionRepository captures the persistence interactions for issued sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	RevokeSessionsForUser(ctx context.Context, userID string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// PasswordResetRepository captures the persistence interactions for reset tokens.
type PasswordResetRepository interface {
	CreateReset(ctx context.Context, token, userID string, expiresAt time.Time) error
	GetReset(ctx context.Context, token string) (userID string, expiresAt time.Time, used bool, err error)
	MarkResetUsed(ctx context.Context, token string, usedAt time.Time) error
	DeleteExpiredResets(ctx context.Context, reference time.Time) error
}

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

const minPasswordLength = 8

// AuthService coordinates login, session validation and password management.
type AuthService struct {
	credentials    CredentialStore
	sessions       SessionRepository
	resets         PasswordResetRepository
	verifyPassword PasswordVerifier
	hashPassword   func(password string) (string, error)
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	resetTTL       time.Duration
	logger         *slog.Logger
}

// AuthServiceConfig bundles the dependencies of an AuthService.
type AuthServiceConfig struct {
	Credentials    CredentialStore
	Sessions       SessionRepository
	Resets         PasswordResetRepository
	VerifyPassword PasswordVerifier
	HashPassword   func(password string) (string, error)
	TokenGenerator func() string
	Now            func() time.Time
	SessionTTL     time.Duration
	ResetTTL       time.Duration
	Logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.VerifyPassword == nil {
		cfg.VerifyPassword = VerifyPassword
	}
	if cfg.HashPassword == nil {
		cfg.HashPassword = func(password string) (string, error) {
			return CreatePasswordHash(password, DefaultArgon2idParams)
		}
	}
	if cfg.TokenGenerator == nil {
		cfg.TokenGenerator = func() string { return "" }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	return &AuthService{
		credentials:    cfg.Credentials,
		sessions:       cfg.Sessions,
		resets:         cfg.Resets,
		verifyPassword: cfg.VerifyPassword,
		hashPassword:   cfg.HashPassword,
		tokenGenerator: cfg.TokenGenerator,
		now:            cfg.Now,
		sessionTTL:     cfg.SessionTTL,
		resetTTL:       cfg.ResetTTL,
		logger:         defaultLogger(cfg.Logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Authenticate validates credentials and issues a new session token.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (result AuthenticateResult, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.credentials == nil {
		err = fmt.Errorf("credential store not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	password := params.Password

	logger := s.loggerWith(ctx, "Authenticate",
		"email", email,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With(
			"user_id", result.User.ID,
			"session_id", result.Session.ID,
		).InfoContext(ctx, "authentication succeeded")
	}()

	if email == "" || password == "" {
		err = ErrInvalidCredentials
		return
	}

	var creds UserCredentials
	creds, err = s.credentials.GetUserCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = ErrInvalidCredentials
			return
		}
		return
	}

	if err = s.verifyPassword(creds.PasswordHash, password); err != nil {
		err = ErrInvalidCredentials
		return
	}

	now := s.now()
	session := Session{
		ID:        s.tokenGenerator(),
		UserID:    creds.User.ID,
		Token:     s.tokenGenerator(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if session.Token == "" {
		session.Token = session.ID
	}

	if s.sessions != nil {
		if err = s.sessions.DeleteExpiredSessions(ctx, now); err != nil {
			return
		}

		var persisted Session
		persisted, err = s.sessions.CreateSession(ctx, session)
		if err != nil {
			return
		}
		session = persisted
	}

	result = AuthenticateResult{User: creds.User, Session: session}
	return
}

// ValidateSession verifies that the provided token corresponds to an active session and returns its principal.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (principal Principal, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.sessions == nil {
		err = fmt.Errorf("session repository not configured")
		return
	}
	if s.credentials == nil {
		err = fmt.Errorf("credential store not configured")
		return
	}

	trimmed := strings.TrimSpace(token)
	logger := s.loggerWith(ctx, "ValidateSession", "token_provided", trimmed != "")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "session validation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("principal_id", principal.UserID).InfoContext(ctx, "session validated")
	}()

	if trimmed == "" {
		err = ErrInvalidCredentials
		return
	}

	var session Session
	session, err = s.sessions.GetSession(ctx, trimmed)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = ErrUnauthorized
		}
		return
	}

	now := s.now()
	if session.RevokedAt != nil && !session.RevokedAt.IsZero() {
		err = ErrSessionRevoked
		return
	}
	if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(now) {
		err = ErrSessionExpired
		return
	}

	var user User
	user, err = s.credentials.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = ErrUnauthorized
		}
		return
	}

	principal = Principal{UserID: user.ID}
	return
}

// RevokeSession invalidates an existing session token.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}

	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return ErrInvalidCredentials
	}

	logger := s.loggerWith(ctx, "RevokeSession", "token_provided", trimmed != "")

	if _, err := s.sessions.RevokeSession(ctx, trimmed, s.now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.ErrorContext(ctx, "failed to revoke session", "error", ErrInvalidCredentials, "error_kind", ErrorKind(ErrInvalidCredentials))
			return ErrInvalidCredentials
		}
		logger.ErrorContext(ctx, "failed to revoke session", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.sessions.DeleteExpiredSessions(ctx, s.now()); err != nil {
		logger.ErrorContext(ctx, "failed to prune expired sessions", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "session revoked")
	return nil
}

// ChangePassword replaces the acting user's password after verifying the current one.
// All other sessions of the user are revoked.
func (s *AuthService) ChangePassword(ctx context.Context, params ChangePasswordParams) (err error) {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.credentials == nil {
		return fmt.Errorf("credential store not configured")
	}

	logger := s.loggerWith(ctx, "ChangePassword", "user_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "password change failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "password changed")
	}()

	if params.Principal.UserID == "" {
		err = ErrUnauthorized
		return
	}

	vErr := &ValidationError{}
	if params.CurrentPassword == "" {
		vErr.add("currentPassword", "current password is required")
	}
	if err = validateNewPassword(params.NewPassword, vErr); err != nil {
		return
	}

	var user User
	user, err = s.credentials.GetUser(ctx, params.Principal.UserID)
	if err != nil {
		return
	}

	var creds UserCredentials
	creds, err = s.credentials.GetUserCredentialsByEmail(ctx, user.Email)
	if err != nil {
		return
	}

	if err = s.verifyPassword(creds.PasswordHash, params.CurrentPassword); err != nil {
		err = ErrInvalidCredentials
		return
	}

	var hash string
	hash, err = s.hashPassword(params.NewPassword)
	if err != nil {
		return
	}

	if err = s.credentials.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return
	}

	if s.sessions != nil {
		err = s.sessions.RevokeSessionsForUser(ctx, user.ID, s.now())
	}
	return
}

// RequestPasswordReset issues a one-time reset token for the given email.
// An unknown email yields ErrNotFound so the HTTP layer can decide how much
// to disclose.
func (s *AuthService) RequestPasswordReset(ctx context.Context, params RequestPasswordResetParams) (result RequestPasswordResetResult, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.credentials == nil {
		err = fmt.Errorf("credential store not configured")
		return
	}
	if s.resets == nil {
		err = fmt.Errorf("reset repository not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	logger := s.loggerWith(ctx, "RequestPasswordReset", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "password reset request failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "password reset token issued")
	}()

	if email == "" {
		vErr := &ValidationError{}
		vErr.add("email", "email is required")
		err = vErr
		return
	}

	var creds UserCredentials
	creds, err = s.credentials.GetUserCredentialsByEmail(ctx, email)
	if err != nil {
		return
	}

	now := s.now()
	if err = s.resets.DeleteExpiredResets(ctx, now); err != nil {
		return
	}

	token := s.tokenGenerator()
	expiresAt := now.Add(s.resetTTL)
	if err = s.resets.CreateReset(ctx, token, creds.User.ID, expiresAt); err != nil {
		return
	}

	result = RequestPasswordResetResult{Token: token, ExpiresAt: expiresAt}
	return
}

// CompletePasswordReset consumes a reset token and stores the new password.
func (s *AuthService) CompletePasswordReset(ctx context.Context, params CompletePasswordResetParams) (err error) {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.credentials == nil {
		return fmt.Errorf("credential store not configured")
	}
	if s.resets == nil {
		return fmt.Errorf("reset repository not configured")
	}

	token := strings.TrimSpace(params.Token)
	logger := s.loggerWith(ctx, "CompletePasswordReset", "token_provided", token != "")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "password reset failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "password reset completed")
	}()

	if token == "" {
		err = ErrInvalidCredentials
		return
	}
	vErr := &ValidationError{}
	if err = validateNewPassword(params.NewPassword, vErr); err != nil {
		return
	}

	userID, expiresAt, used, getErr := s.resets.GetReset(ctx, token)
	if getErr != nil {
		if errors.Is(getErr, ErrNotFound) {
			err = ErrInvalidCredentials
			return
		}
		err = getErr
		return
	}

	now := s.now()
	if used || !expiresAt.After(now) {
		err = ErrInvalidCredentials
		return
	}

	var hash string
	hash, err = s.hashPassword(params.NewPassword)
	if err != nil {
		return
	}

	if err = s.resets.MarkResetUsed(ctx, token, now); err != nil {
		return
	}
	if err = s.credentials.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return
	}
	if s.sessions != nil {
		err = s.sessions.RevokeSessionsForUser(ctx, userID, now)
	}
	return
}

func validateNewPassword(password string, vErr *ValidationError) error {
	if len(password) < minPasswordLength {
		vErr.add("newPassword", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}
