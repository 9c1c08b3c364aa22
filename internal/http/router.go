package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Auth       *AuthHandler
	Account    *AccountHandler
	Team       *TeamHandler
	Schedule   *ScheduleHandler
	Overview   *OverviewHandler
	Insights   *InsightsHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Auth != nil {
		mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.CreateSession(w, r)
		})
		mux.HandleFunc("/sessions/current", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Auth.DeleteCurrentSession(w, r)
		})
	}

	if cfg.Account != nil {
		mux.HandleFunc("/account/password", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Account.ChangePassword(w, r)
		})
		mux.HandleFunc("/account/password-reset", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Account.RequestPasswordReset(w, r)
		})
		mux.HandleFunc("/account/password-reset/complete", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Account.CompletePasswordReset(w, r)
		})
	}

	if cfg.Team != nil {
		mux.HandleFunc("/team", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Team.List(w, r)
		})
		mux.HandleFunc("/team/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Team.Get(w, r)
		})
	}

	if cfg.Schedule != nil {
		mux.HandleFunc("/schedule", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Schedule.GetSnapshot(w, r)
		})
		mux.HandleFunc("/schedule/entries", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPut:
				cfg.Schedule.UpdateEntry(w, r)
			case http.MethodDelete:
				cfg.Schedule.ClearEntry(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
		mux.HandleFunc("/schedule/week/copy", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Schedule.CopyWeek(w, r)
		})
		mux.HandleFunc("/schedule/week/off", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Schedule.MarkWeekOff(w, r)
		})
	}

	if cfg.Overview != nil {
		mux.HandleFunc("/overview/day", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Overview.Day(w, r)
		})
		mux.HandleFunc("/overview/week", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Overview.Week(w, r)
		})
	}

	if cfg.Insights != nil {
		mux.HandleFunc("/insights", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Insights.Get(w, r)
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

// PublicPath reports whether a request path may be served without a session.
func PublicPath(path string) bool {
	switch {
	case strings.EqualFold(path, "/sessions"):
		return true
	case strings.EqualFold(path, "/account/password-reset"),
		strings.EqualFold(path, "/account/password-reset/complete"):
		return true
	}
	return false
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
