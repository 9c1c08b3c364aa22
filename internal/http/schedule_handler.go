package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/EdwinCycling/WerkplekPlanner/internal/application"
	"github.com/EdwinCycling/WerkplekPlanner/internal/schedule"
)

type scheduleService interface {
	Snapshot() *schedule.Snapshot
	UpdateEntry(ctx context.Context, params application.UpdateEntryParams) error
	ClearEntry(ctx context.Context, params application.ClearEntryParams) error
	CopyWeek(ctx context.Context, params application.CopyWeekParams) error
	MarkWeekOff(ctx context.Context, params application.MarkWeekOffParams) error
}

type ScheduleHandler struct {
	service   scheduleService
	responder responder
	logger    *slog.Logger
}

func NewScheduleHandler(service scheduleService, fallback localizerFunc, logger *slog.Logger) *ScheduleHandler {
	base := defaultLogger(logger)
	return &ScheduleHandler{service: service, responder: newResponder(fallback, base), logger: base}
}

func (h *ScheduleHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ScheduleHandler", operation, attrs...)
}

// GetSnapshot returns the full schedule map together with its version.
func (h *ScheduleHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	snap := h.service.Snapshot()
	entries := make(map[string]map[string]string)
	for userID, cells := range snap.Entries() {
		converted := make(map[string]string, len(cells))
		for date, loc := range cells {
			converted[date] = string(loc)
		}
		entries[userID] = converted
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, snapshotResponse{
		Version: snap.Version(),
		Entries: entries,
	})
}

// UpdateEntry writes one schedule cell for the acting user.
func (h *ScheduleHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	var req updateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateEntry", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode entry request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "validation")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = principal.UserID
	}

	logger := h.log(r.Context(), "UpdateEntry", "user_id", userID, "date", req.Date, "location", req.Location)

	err := h.service.UpdateEntry(r.Context(), application.UpdateEntryParams{
		Principal: principal,
		UserID:    userID,
		Date:      req.Date,
		Location:  schedule.Location(req.Location),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "entry update rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "entry updated")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// ClearEntry removes one schedule cell for the acting user.
func (h *ScheduleHandler) ClearEntry(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	var req clearEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "ClearEntry", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode clear request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "validation")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = principal.UserID
	}

	logger := h.log(r.Context(), "ClearEntry", "user_id", userID, "date", req.Date)

	err := h.service.ClearEntry(r.Context(), application.ClearEntryParams{
		Principal: principal,
		UserID:    userID,
		Date:      req.Date,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "entry clear rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "entry cleared")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// CopyWeek copies the acting user's week onto another week.
func (h *ScheduleHandler) CopyWeek(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	var req copyWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CopyWeek", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode copy request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "validation")
		return
	}

	logger := h.log(r.Context(), "CopyWeek", "source", req.SourceDate, "target", req.TargetDate)

	err := h.service.CopyWeek(r.Context(), application.CopyWeekParams{
		Principal:  principal,
		SourceDate: req.SourceDate,
		TargetDate: req.TargetDate,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "week copy rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "week copied")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// MarkWeekOff marks the acting user's week as planned vacation.
func (h *ScheduleHandler) MarkWeekOff(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	var req markWeekOffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "MarkWeekOff", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode week off request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "validation")
		return
	}

	logger := h.log(r.Context(), "MarkWeekOff", "date", req.Date)

	err := h.service.MarkWeekOff(r.Context(), application.MarkWeekOffParams{
		Principal: principal,
		Date:      req.Date,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "mark week off rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "week marked off")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type snapshotResponse struct {
	Version uint64                       `json:"version"`
	Entries map[string]map[string]string `json:"entries"`
}

type updateEntryRequest struct {
	UserID   string `json:"user_id,omitempty"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

type clearEntryRequest struct {
	UserID string `json:"user_id,omitempty"`
	Date   string `json:"date"`
}

type copyWeekRequest struct {
	SourceDate string `json:"source_date"`
	TargetDate string `json:"target_date"`
}

type markWeekOffRequest struct {
	Date string `json:"date"`
}
