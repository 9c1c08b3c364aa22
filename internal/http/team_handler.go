package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/EdwinCycling/WerkplekPlanner/internal/application"
)

type teamService interface {
	ListTeamMembers(ctx context.Context) ([]application.TeamMember, error)
	GetTeamMember(ctx context.Context, id string) (application.TeamMember, error)
}

type TeamHandler struct {
	service   teamService
	responder responder
	logger    *slog.Logger
}

func NewTeamHandler(service teamService, fallback localizerFunc, logger *slog.Logger) *TeamHandler {
	base := defaultLogger(logger)
	return &TeamHandler{service: service, responder: newResponder(fallback, base), logger: base}
}

// List returns every colleague ordered by display name.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "TeamHandler", "List")

	members, err := h.service.ListTeamMembers(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list team members", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]memberDTO, 0, len(members))
	for _, member := range members {
		payload = append(payload, toMemberDTO(member))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, teamResponse{Members: payload})
}

// Get returns one colleague by id.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/team/")
	if id == "" || strings.Contains(id, "/") {
		h.responder.writeError(r.Context(), w, http.StatusNotFound, "not_found")
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "TeamHandler", "Get", "member_id", id)

	member, err := h.service.GetTeamMember(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to fetch team member", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toMemberDTO(member))
}

type memberDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type teamResponse struct {
	Members []memberDTO `json:"members"`
}

func toMemberDTO(member application.TeamMember) memberDTO {
	return memberDTO{ID: member.ID, Email: member.Email, DisplayName: member.DisplayName}
}
