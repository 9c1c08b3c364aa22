// Package i18n renders user-facing labels, dates and error messages in the
// languages the planner supports (Dutch and English).
package i18n

import (
	"fmt"
	"time"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/EdwinCycling/WerkplekPlanner/internal/calendar"
	"github.com/EdwinCycling/WerkplekPlanner/internal/holiday"
	"github.com/EdwinCycling/WerkplekPlanner/internal/schedule"
)

var supported = []language.Tag{language.Dutch, language.English}

var matcher = language.NewMatcher(supported)

// NewBundle builds the message bundle with every translation the planner
// ships. Messages are registered in code so the binary stays self-contained.
func NewBundle() *goi18n.Bundle {
	bundle := goi18n.NewBundle(language.Dutch)
	mustAdd(bundle, language.Dutch, dutchMessages)
	mustAdd(bundle, language.English, englishMessages)
	return bundle
}

func mustAdd(bundle *goi18n.Bundle, tag language.Tag, messages map[string]string) {
	msgs := make([]*goi18n.Message, 0, len(messages))
	for id, other := range messages {
		msgs = append(msgs, &goi18n.Message{ID: id, Other: other})
	}
	if err := bundle.AddMessages(tag, msgs...); err != nil {
		panic(err)
	}
}

// Localizer resolves message IDs for one negotiated language.
type Localizer struct {
	localizer *goi18n.Localizer
	tag       language.Tag
}

// NewLocalizer negotiates the best supported language from the given
// preferences (Accept-Language values or explicit codes) and returns a
// localizer for it. With no usable preference Dutch is used.
func NewLocalizer(bundle *goi18n.Bundle, preferences ...string) *Localizer {
	tag, _ := language.MatchStrings(matcher, preferences...)
	base, _ := tag.Base()
	for _, candidate := range supported {
		if candidateBase, _ := candidate.Base(); candidateBase == base {
			tag = candidate
			break
		}
	}
	return &Localizer{
		localizer: goi18n.NewLocalizer(bundle, tag.String()),
		tag:       tag,
	}
}

// Language returns the negotiated language code, e.g. "nl" or "en".
func (l *Localizer) Language() string {
	if l == nil {
		return ""
	}
	return l.tag.String()
}

func (l *Localizer) message(id string) string {
	if l == nil || l.localizer == nil {
		return id
	}
	msg, err := l.localizer.Localize(&goi18n.LocalizeConfig{MessageID: id})
	if err != nil {
		return id
	}
	return msg
}

// LocationLabel renders a schedule location for display.
func (l *Localizer) LocationLabel(loc schedule.Location) string {
	if loc == "" {
		return l.message("location.unset")
	}
	return l.message("location." + string(loc))
}

// HolidayName renders a public holiday name.
func (l *Localizer) HolidayName(name holiday.Name) string {
	return l.message("holiday." + string(name))
}

// RelativeDayLabel renders a relative day classification; dates outside the
// two-day window around today yield an empty string.
func (l *Localizer) RelativeDayLabel(rel calendar.RelativeDay) string {
	switch rel {
	case calendar.RelativeDayBeforeYesterday:
		return l.message("relative.dayBeforeYesterday")
	case calendar.RelativeYesterday:
		return l.message("relative.yesterday")
	case calendar.RelativeToday:
		return l.message("relative.today")
	case calendar.RelativeTomorrow:
		return l.message("relative.tomorrow")
	case calendar.RelativeDayAfterTomorrow:
		return l.message("relative.dayAfterTomorrow")
	}
	return ""
}

// ErrorMessage renders a stable error kind label as a user-facing message.
func (l *Localizer) ErrorMessage(kind string) string {
	if kind == "" {
		kind = "unexpected"
	}
	return l.message("error." + kind)
}

// LongDate renders a date in the long form of the negotiated language,
// e.g. "maandag 1 januari 2024" or "Monday, January 1, 2024".
func (l *Localizer) LongDate(t time.Time) string {
	weekday := l.message("weekday." + weekdayKeys[t.Weekday()])
	month := l.message("month." + monthKeys[t.Month()-1])
	if l != nil && l.tag == language.English {
		return fmt.Sprintf("%s, %s %d, %d", weekday, month, t.Day(), t.Year())
	}
	return fmt.Sprintf("%s %d %s %d", weekday, t.Day(), month, t.Year())
}

var weekdayKeys = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

var monthKeys = [12]string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var dutchMessages = map[string]string{
	"location.unset":         "Onbekend",
	"location.home":          "Thuis",
	"location.delft":         "Delft",
	"location.eindhoven":     "Eindhoven",
	"location.gent":          "Gent",
	"location.utrecht":       "Utrecht",
	"location.zwolle":        "Zwolle",
	"location.other":         "Elders",
	"location.off":           "Vrij",
	"location.scheduled_off": "Gepland vrij",
	"location.holiday":       "Feestdag",

	"holiday.newYearsDay":        "Nieuwjaarsdag",
	"holiday.easterMonday":       "Tweede paasdag",
	"holiday.kingsDay":           "Koningsdag",
	"holiday.ascensionDay":       "Hemelvaartsdag",
	"holiday.whitMonday":         "Tweede pinksterdag",
	"holiday.christmasDay":       "Eerste kerstdag",
	"holiday.secondChristmasDay": "Tweede kerstdag",

	"relative.dayBeforeYesterday": "eergisteren",
	"relative.yesterday":          "gisteren",
	"relative.today":              "vandaag",
	"relative.tomorrow":           "morgen",
	"relative.dayAfterTomorrow":   "overmorgen",

	"error.unauthorized":        "Je hebt geen toegang tot deze actie.",
	"error.not_found":           "Niet gevonden.",
	"error.already_exists":      "Bestaat al.",
	"error.invalid_credentials": "Onjuiste inloggegevens.",
	"error.session_expired":     "Je sessie is verlopen. Log opnieuw in.",
	"error.session_revoked":     "Je sessie is beëindigd. Log opnieuw in.",
	"error.validation":          "De invoer is ongeldig.",
	"error.unexpected":          "Er is iets misgegaan. Probeer het later opnieuw.",

	"weekday.monday":    "maandag",
	"weekday.tuesday":   "dinsdag",
	"weekday.wednesday": "woensdag",
	"weekday.thursday":  "donderdag",
	"weekday.friday":    "vrijdag",
	"weekday.saturday":  "zaterdag",
	"weekday.sunday":    "zondag",

	"month.january":   "januari",
	"month.february":  "februari",
	"month.march":     "maart",
	"month.april":     "april",
	"month.may":       "mei",
	"month.june":      "juni",
	"month.july":      "juli",
	"month.august":    "augustus",
	"month.september": "september",
	"month.october":   "oktober",
	"month.november":  "november",
	"month.december":  "december",
}

var englishMessages = map[string]string{
	"location.unset":         "Unknown",
	"location.home":          "Home",
	"location.delft":         "Delft",
	"location.eindhoven":     "Eindhoven",
	"location.gent":          "Ghent",
	"location.utrecht":       "Utrecht",
	"location.zwolle":        "Zwolle",
	"location.other":         "Elsewhere",
	"location.off":           "Day off",
	"location.scheduled_off": "Planned day off",
	"location.holiday":       "Public holiday",

	"holiday.newYearsDay":        "New Year's Day",
	"holiday.easterMonday":       "Easter Monday",
	"holiday.kingsDay":           "King's Day",
	"holiday.ascensionDay":       "Ascension Day",
	"holiday.whitMonday":         "Whit Monday",
	"holiday.christmasDay":       "Christmas Day",
	"holiday.secondChristmasDay": "Second Christmas Day",

	"relative.dayBeforeYesterday": "the day before yesterday",
	"relative.yesterday":          "yesterday",
	"relative.today":              "today",
	"relative.tomorrow":           "tomorrow",
	"relative.dayAfterTomorrow":   "the day after tomorrow",

	"error.unauthorized":        "You are not allowed to perform this action.",
	"error.not_found":           "Not found.",
	"error.already_exists":      "Already exists.",
	"error.invalid_credentials": "Invalid email or password.",
	"error.session_expired":     "Your session has expired. Please sign in again.",
	"error.session_revoked":     "Your session has ended. Please sign in again.",
	"error.validation":          "The input is invalid.",
	"error.unexpected":          "Something went wrong. Please try again later.",

	"weekday.monday":    "Monday",
	"weekday.tuesday":   "Tuesday",
	"weekday.wednesday": "Wednesday",
	"weekday.thursday":  "Thursday",
	"weekday.friday":    "Friday",
	"weekday.saturday":  "Saturday",
	"weekday.sunday":    "Sunday",

	"month.january":   "January",
	"month.february":  "February",
	"month.march":     "March",
	"month.april":     "April",
	"month.may":       "May",
	"month.june":      "June",
	"month.july":      "July",
	"month.august":    "August",
	"month.september": "September",
	"month.october":   "October",
	"month.november":  "November",
	"month.december":  "December",
}
