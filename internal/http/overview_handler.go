package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/EdwinCycling/WerkplekPlanner/internal/application"
	"github.com/EdwinCycling/WerkplekPlanner/internal/calendar"
	"github.com/EdwinCycling/WerkplekPlanner/internal/holiday"
	"github.com/EdwinCycling/WerkplekPlanner/internal/i18n"
)

type overviewService interface {
	DayOverview(ctx context.Context, date string) (application.DayOverview, error)
	WeekOverview(ctx context.Context, date string) (application.WeekOverview, error)
}

type OverviewHandler struct {
	service   overviewService
	now       func() time.Time
	location  *time.Location
	responder responder
	logger    *slog.Logger
}

func NewOverviewHandler(service overviewService, now func() time.Time, location *time.Location, fallback localizerFunc, logger *slog.Logger) *OverviewHandler {
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	base := defaultLogger(logger)
	return &OverviewHandler{
		service:   service,
		now:       now,
		location:  location,
		responder: newResponder(fallback, base),
		logger:    base,
	}
}

// Day serves the per-date overview. The date query parameter defaults to today.
func (h *OverviewHandler) Day(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = calendar.DateString(h.now().In(h.location))
	}

	logger := handlerLogger(r.Context(), h.logger, "OverviewHandler", "Day", "date", date)

	view, err := h.service.DayOverview(r.Context(), date)
	if err != nil {
		logger.ErrorContext(r.Context(), "day overview failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDayOverviewDTO(view, h.localizer(r), h.location))
}

// Week serves the Monday-start week overview. The date query parameter
// selects the week and defaults to today.
func (h *OverviewHandler) Week(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = calendar.DateString(h.now().In(h.location))
	}

	logger := handlerLogger(r.Context(), h.logger, "OverviewHandler", "Week", "date", date)

	view, err := h.service.WeekOverview(r.Context(), date)
	if err != nil {
		logger.ErrorContext(r.Context(), "week overview failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toWeekOverviewDTO(view, h.localizer(r), h.location))
}

func (h *OverviewHandler) localizer(r *http.Request) *i18n.Localizer {
	if localizer, ok := LocalizerFromContext(r.Context()); ok {
		return localizer
	}
	if h.responder.fallback != nil {
		return h.responder.fallback()
	}
	return nil
}

type dayEntryDTO struct {
	Member        memberDTO `json:"member"`
	Location      string    `json:"location"`
	LocationLabel string    `json:"location_label"`
}

type dayOverviewResponse struct {
	Date         string                 `json:"date"`
	LongDate     string                 `json:"long_date"`
	RelativeDay  string                 `json:"relative_day,omitempty"`
	Holiday      string                 `json:"holiday,omitempty"`
	HolidayLabel string                 `json:"holiday_label,omitempty"`
	Entries      []dayEntryDTO          `json:"entries"`
	ByOffice     map[string][]memberDTO `json:"by_office"`
	Vacationing  []memberDTO            `json:"vacationing"`
}

func toDayOverviewDTO(view application.DayOverview, localizer *i18n.Localizer, loc *time.Location) dayOverviewResponse {
	resp := dayOverviewResponse{
		Date:        view.Date,
		RelativeDay: localizer.RelativeDayLabel(view.Relative),
		Holiday:     view.Holiday,
		ByOffice:    make(map[string][]memberDTO),
		Entries:     make([]dayEntryDTO, 0, len(view.Entries)),
		Vacationing: make([]memberDTO, 0, len(view.Vacationing)),
	}
	if day, err := calendar.ParseDate(view.Date, loc); err == nil {
		resp.LongDate = localizer.LongDate(day)
	}
	if view.Holiday != "" {
		resp.HolidayLabel = localizer.HolidayName(holiday.Name(view.Holiday))
	}
	for _, entry := range view.Entries {
		resp.Entries = append(resp.Entries, dayEntryDTO{
			Member:        toMemberDTO(entry.Member),
			Location:      string(entry.Location),
			LocationLabel: localizer.LocationLabel(entry.Location),
		})
	}
	for office, members := range view.ByOffice {
		converted := make([]memberDTO, 0, len(members))
		for _, member := range members {
			converted = append(converted, toMemberDTO(member))
		}
		resp.ByOffice[string(office)] = converted
	}
	for _, member := range view.Vacationing {
		resp.Vacationing = append(resp.Vacationing, toMemberDTO(member))
	}
	return resp
}

type weekRowDTO struct {
	Member      memberDTO `json:"member"`
	Locations   [5]string `json:"locations"`
	Vacationing bool      `json:"vacationing"`
}

type weekOverviewResponse struct {
	WeekStart  string       `json:"week_start"`
	WeekNumber int          `json:"week_number"`
	Workdays   [5]string    `json:"workdays"`
	Holidays   [5]string    `json:"holidays"`
	Rows       []weekRowDTO `json:"rows"`
}

func toWeekOverviewDTO(view application.WeekOverview, localizer *i18n.Localizer, loc *time.Location) weekOverviewResponse {
	resp := weekOverviewResponse{
		WeekStart:  view.WeekStart,
		WeekNumber: view.WeekNumber,
		Workdays:   view.Workdays,
		Rows:       make([]weekRowDTO, 0, len(view.Rows)),
	}
	for i, name := range view.Holidays {
		if name != "" {
			resp.Holidays[i] = localizer.HolidayName(holiday.Name(name))
		}
	}
	for _, row := range view.Rows {
		dto := weekRowDTO{Member: toMemberDTO(row.Member), Vacationing: row.Vacationing}
		for i, location := range row.Locations {
			dto.Locations[i] = string(location)
		}
		resp.Rows = append(resp.Rows, dto)
	}
	return resp
}
