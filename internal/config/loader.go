package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the planner service.
type Config struct {
	HTTPPort             int
	SQLiteDSN            string
	SessionTTL           time.Duration
	ResetTTL             time.Duration
	PlanningHorizonWeeks int
	HolidayPrefillYears  int
	DefaultLanguage      string
	Timezone             string
	SeedAdminEmail       string
	SeedAdminPassword    string
	SeedAdminName        string
}

// Load parses configuration values from the current process environment.
//
// The loader applies defaults for optional fields while validating the values
// that are present; every offending variable is reported at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:             8080,
		SQLiteDSN:            "file:werkplek.db?_foreign_keys=on",
		SessionTTL:           24 * time.Hour,
		ResetTTL:             time.Hour,
		PlanningHorizonWeeks: 13,
		HolidayPrefillYears:  7,
		DefaultLanguage:      "nl",
		Timezone:             "Europe/Amsterdam",
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("WERKPLEK_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "WERKPLEK_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("WERKPLEK_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("WERKPLEK_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "WERKPLEK_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if ttlValue := strings.TrimSpace(os.Getenv("WERKPLEK_RESET_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "WERKPLEK_RESET_TTL")
		} else {
			cfg.ResetTTL = ttl
		}
	}

	if weeksValue := strings.TrimSpace(os.Getenv("WERKPLEK_PLANNING_HORIZON_WEEKS")); weeksValue != "" {
		weeks, err := strconv.Atoi(weeksValue)
		if err != nil || weeks <= 0 {
			invalid = append(invalid, "WERKPLEK_PLANNING_HORIZON_WEEKS")
		} else {
			cfg.PlanningHorizonWeeks = weeks
		}
	}

	if yearsValue := strings.TrimSpace(os.Getenv("WERKPLEK_HOLIDAY_PREFILL_YEARS")); yearsValue != "" {
		years, err := strconv.Atoi(yearsValue)
		if err != nil || years <= 0 {
			invalid = append(invalid, "WERKPLEK_HOLIDAY_PREFILL_YEARS")
		} else {
			cfg.HolidayPrefillYears = years
		}
	}

	if lang := strings.TrimSpace(os.Getenv("WERKPLEK_DEFAULT_LANGUAGE")); lang != "" {
		switch strings.ToLower(lang) {
		case "nl", "en":
			cfg.DefaultLanguage = strings.ToLower(lang)
		default:
			invalid = append(invalid, "WERKPLEK_DEFAULT_LANGUAGE")
		}
	}

	if tz := strings.TrimSpace(os.Getenv("WERKPLEK_TIMEZONE")); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			invalid = append(invalid, "WERKPLEK_TIMEZONE")
		} else {
			cfg.Timezone = tz
		}
	}

	cfg.SeedAdminEmail = strings.TrimSpace(os.Getenv("WERKPLEK_SEED_ADMIN_EMAIL"))
	cfg.SeedAdminPassword = os.Getenv("WERKPLEK_SEED_ADMIN_PASSWORD")
	cfg.SeedAdminName = strings.TrimSpace(os.Getenv("WERKPLEK_SEED_ADMIN_NAME"))
	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword == "" {
		invalid = append(invalid, "WERKPLEK_SEED_ADMIN_PASSWORD")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
