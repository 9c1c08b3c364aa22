package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/EdwinCycling/WerkplekPlanner/internal/application"
	"github.com/EdwinCycling/WerkplekPlanner/internal/config"
	httptransport "github.com/EdwinCycling/WerkplekPlanner/internal/http"
	"github.com/EdwinCycling/WerkplekPlanner/internal/i18n"
	"github.com/EdwinCycling/WerkplekPlanner/internal/persistence"
	"github.com/EdwinCycling/WerkplekPlanner/internal/persistence/sqlite"
	"github.com/EdwinCycling/WerkplekPlanner/internal/schedule"
)

func main() {
	// A missing .env file is fine; the environment rules either way.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("failed to load timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	userRepo := sqlite.NewUserRepository(pool)
	entryRepo := sqlite.NewScheduleRepository(pool)
	sessionRepo := sqlite.NewSessionRepository(pool)
	resetRepo := sqlite.NewPasswordResetRepository(pool)

	if cfg.SeedAdminEmail != "" {
		if err := seedAccount(context.Background(), userRepo, idGenerator, cfg); err != nil {
			logger.Error("failed to seed account", "email", cfg.SeedAdminEmail, "error", err)
			os.Exit(1)
		}
	}

	authService := application.NewAuthService(application.AuthServiceConfig{
		Credentials:    newCredentialStoreAdapter(userRepo),
		Sessions:       newSessionRepositoryAdapter(sessionRepo),
		Resets:         newPasswordResetAdapter(resetRepo),
		TokenGenerator: tokenGenerator,
		Now:            now,
		SessionTTL:     cfg.SessionTTL,
		ResetTTL:       cfg.ResetTTL,
		Logger:         logger,
	})
	teamService := application.NewTeamService(newUserDirectoryAdapter(userRepo), logger)
	scheduleService := application.NewScheduleService(application.ScheduleServiceConfig{
		Store:        newScheduleStoreAdapter(entryRepo),
		Team:         teamService,
		Now:          now,
		Location:     location,
		HorizonWeeks: cfg.PlanningHorizonWeeks,
		PrefillYears: cfg.HolidayPrefillYears,
		Logger:       logger,
	})

	if err := scheduleService.LoadSnapshot(context.Background()); err != nil {
		logger.Error("failed to load schedule snapshot", "error", err)
		os.Exit(1)
	}

	bundle := i18n.NewBundle()
	fallbackLocalizer := func() *i18n.Localizer { return i18n.NewLocalizer(bundle, cfg.DefaultLanguage) }

	authHandler := httptransport.NewAuthHandler(authService, fallbackLocalizer, logger)
	accountHandler := httptransport.NewAccountHandler(authService, fallbackLocalizer, logger)
	teamHandler := httptransport.NewTeamHandler(teamService, fallbackLocalizer, logger)
	scheduleHandler := httptransport.NewScheduleHandler(scheduleService, fallbackLocalizer, logger)
	overviewHandler := httptransport.NewOverviewHandler(scheduleService, now, location, fallbackLocalizer, logger)
	insightsHandler := httptransport.NewInsightsHandler(scheduleService, fallbackLocalizer, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:     authHandler,
		Account:  accountHandler,
		Team:     teamHandler,
		Schedule: scheduleHandler,
		Overview: overviewHandler,
		Insights: insightsHandler,
	})

	protected := httptransport.RequireSession(authService, bundle, logger)(router)
	routed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if httptransport.PublicPath(r.URL.Path) {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	})
	handler := httptransport.RequestLogger(logger)(httptransport.NegotiateLanguage(bundle)(routed))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("workplace planner API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

// seedAccount creates the configured bootstrap account when it does not exist.
func seedAccount(ctx context.Context, users persistence.UserRepository, idGenerator func() string, cfg config.Config) error {
	if _, err := users.GetUserByEmail(ctx, cfg.SeedAdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return err
	}

	hash, err := application.CreatePasswordHash(cfg.SeedAdminPassword, application.DefaultArgon2idParams)
	if err != nil {
		return err
	}
	return users.CreateUser(ctx, persistence.User{
		ID:           idGenerator(),
		Email:        cfg.SeedAdminEmail,
		DisplayName:  cfg.SeedAdminName,
		PasswordHash: hash,
	})
}

type credentialStoreAdapter struct {
	repo persistence.UserRepository
}

func newCredentialStoreAdapter(repo persistence.UserRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, mapPersistenceError(err)
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

func (a *credentialStoreAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *credentialStoreAdapter) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	return mapPersistenceError(a.repo.UpdatePasswordHash(ctx, userID, passwordHash))
}

type userDirectoryAdapter struct {
	repo persistence.UserRepository
}

func newUserDirectoryAdapter(repo persistence.UserRepository) *userDirectoryAdapter {
	return &userDirectoryAdapter{repo: repo}
}

func (a *userDirectoryAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.repo.ListUsers(ctx)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

func (a *userDirectoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSessionsForUser(ctx context.Context, userID string, revokedAt time.Time) error {
	return mapPersistenceError(a.repo.RevokeSessionsForUser(ctx, userID, revokedAt))
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return mapPersistenceError(a.repo.DeleteExpiredSessions(ctx, reference))
}

type passwordResetAdapter struct {
	repo persistence.PasswordResetRepository
}

func newPasswordResetAdapter(repo persistence.PasswordResetRepository) *passwordResetAdapter {
	return &passwordResetAdapter{repo: repo}
}

func (a *passwordResetAdapter) CreateReset(ctx context.Context, token, userID string, expiresAt time.Time) error {
	return mapPersistenceError(a.repo.CreateReset(ctx, persistence.PasswordReset{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}))
}

func (a *passwordResetAdapter) GetReset(ctx context.Context, token string) (string, time.Time, bool, error) {
	stored, err := a.repo.GetReset(ctx, token)
	if err != nil {
		return "", time.Time{}, false, mapPersistenceError(err)
	}
	return stored.UserID, stored.ExpiresAt, stored.UsedAt != nil, nil
}

func (a *passwordResetAdapter) MarkResetUsed(ctx context.Context, token string, usedAt time.Time) error {
	return mapPersistenceError(a.repo.MarkResetUsed(ctx, token, usedAt))
}

func (a *passwordResetAdapter) DeleteExpiredResets(ctx context.Context, reference time.Time) error {
	return mapPersistenceError(a.repo.DeleteExpiredResets(ctx, reference))
}

type scheduleStoreAdapter struct {
	repo persistence.ScheduleRepository
}

func newScheduleStoreAdapter(repo persistence.ScheduleRepository) *scheduleStoreAdapter {
	return &scheduleStoreAdapter{repo: repo}
}

func (a *scheduleStoreAdapter) UpsertEntry(ctx context.Context, userID, date string, loc schedule.Location) error {
	return mapPersistenceError(a.repo.UpsertEntry(ctx, persistence.ScheduleEntry{
		UserID:   userID,
		Date:     date,
		Location: string(loc),
	}))
}

func (a *scheduleStoreAdapter) DeleteEntry(ctx context.Context, userID, date string) error {
	return mapPersistenceError(a.repo.DeleteEntry(ctx, userID, date))
}

func (a *scheduleStoreAdapter) ListEntries(ctx context.Context, userIDs []string) ([]application.StoredEntry, error) {
	models, err := a.repo.ListEntries(ctx, userIDs)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	entries := make([]application.StoredEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, application.StoredEntry{
			UserID:   model.UserID,
			Date:     model.Date,
			Location: schedule.Location(model.Location),
		})
	}
	return entries, nil
}

// mapPersistenceError translates storage sentinels into application sentinels.
func mapPersistenceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return application.ErrAlreadyExists
	default:
		return err
	}
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:          model.ID,
		Email:       model.Email,
		DisplayName: model.DisplayName,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		RevokedAt: cloneTime(session.RevokedAt),
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:        model.ID,
		UserID:    model.UserID,
		Token:     model.Token,
		ExpiresAt: model.ExpiresAt,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		RevokedAt: cloneTime(model.RevokedAt),
	}
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
