package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/EdwinCycling/WerkplekPlanner/internal/application"
)

type insightsService interface {
	Insights(ctx context.Context, year int) (application.Insights, error)
}

type InsightsHandler struct {
	service   insightsService
	responder responder
	logger    *slog.Logger
}

func NewInsightsHandler(service insightsService, fallback localizerFunc, logger *slog.Logger) *InsightsHandler {
	base := defaultLogger(logger)
	return &InsightsHandler{service: service, responder: newResponder(fallback, base), logger: base}
}

// Get serves the yearly team statistics. The year query parameter defaults
// to the current year.
func (h *InsightsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, "validation")
			return
		}
		year = parsed
	}

	logger := handlerLogger(r.Context(), h.logger, "InsightsHandler", "Get", "year", year)

	view, err := h.service.Insights(r.Context(), year)
	if err != nil {
		logger.ErrorContext(r.Context(), "insights failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toInsightsDTO(view))
}

type dateCountDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type upcomingOffDayDTO struct {
	Member memberDTO `json:"member"`
	Date   string    `json:"date"`
}

type insightsResponse struct {
	Year                int                 `json:"year"`
	LocationPopularity  map[string]int      `json:"location_popularity"`
	MonthlyVacations    [12]int             `json:"monthly_vacations"`
	TopVacationDays     []dateCountDTO      `json:"top_vacation_days"`
	RemoteWorkByWeekday [5]int              `json:"remote_work_by_weekday"`
	UpcomingOffDays     []upcomingOffDayDTO `json:"upcoming_off_days"`
	VacationingThisWeek []memberDTO         `json:"vacationing_this_week"`
}

func toInsightsDTO(view application.Insights) insightsResponse {
	resp := insightsResponse{
		Year:                view.Year,
		LocationPopularity:  make(map[string]int, len(view.LocationPopularity)),
		MonthlyVacations:    view.MonthlyVacations,
		RemoteWorkByWeekday: view.RemoteWorkByWeekday,
		TopVacationDays:     make([]dateCountDTO, 0, len(view.TopVacationDays)),
		UpcomingOffDays:     make([]upcomingOffDayDTO, 0, len(view.UpcomingOffDays)),
		VacationingThisWeek: make([]memberDTO, 0, len(view.VacationingThisWeek)),
	}
	for location, count := range view.LocationPopularity {
		resp.LocationPopularity[string(location)] = count
	}
	for _, entry := range view.TopVacationDays {
		resp.TopVacationDays = append(resp.TopVacationDays, dateCountDTO{Date: entry.Date, Count: entry.Count})
	}
	for _, offDay := range view.UpcomingOffDays {
		resp.UpcomingOffDays = append(resp.UpcomingOffDays, upcomingOffDayDTO{Member: toMemberDTO(offDay.Member), Date: offDay.Date})
	}
	for _, member := range view.VacationingThisWeek {
		resp.VacationingThisWeek = append(resp.VacationingThisWeek, toMemberDTO(member))
	}
	return resp
}
