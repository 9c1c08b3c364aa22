package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/EdwinCycling/WerkplekPlanner/internal/application"
	"github.com/EdwinCycling/WerkplekPlanner/internal/i18n"
)

func TestRequireSession(t *testing.T) {
	t.Parallel()

	bundle := i18n.NewBundle()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("missing token is rejected before the validator runs", func(t *testing.T) {
		t.Parallel()

		validator := &sessionValidatorStub{err: errors.New("must not be called")}
		nextCalled := false
		handler := RequireSession(validator, bundle, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schedule", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		if nextCalled {
			t.Fatal("next handler ran without a token")
		}
		if validator.calls != 0 {
			t.Fatalf("validator ran %d times for a tokenless request", validator.calls)
		}
		if kind := decodeErrorResponse(t, rec).ErrorCode; kind != "invalid_credentials" {
			t.Fatalf("error_code = %q, want %q", kind, "invalid_credentials")
		}
	})

	t.Run("validator failures map onto error kinds", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantKind   string
		}{
			{name: "expired", err: application.ErrSessionExpired, wantStatus: http.StatusUnauthorized, wantKind: "session_expired"},
			{name: "revoked", err: application.ErrSessionRevoked, wantStatus: http.StatusUnauthorized, wantKind: "session_revoked"},
			{name: "unknown token", err: application.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantKind: "invalid_credentials"},
			{name: "missing session row", err: application.ErrNotFound, wantStatus: http.StatusUnauthorized, wantKind: "invalid_credentials"},
			{name: "backend failure", err: errors.New("store offline"), wantStatus: http.StatusInternalServerError, wantKind: "unexpected"},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				validator := &sessionValidatorStub{err: tc.err}
				handler := RequireSession(validator, bundle, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					t.Error("next handler ran despite validation failure")
				}))

				req := httptest.NewRequest(http.MethodGet, "/schedule", nil)
				req.Header.Set("Authorization", "Bearer bad-token")
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, req)

				if rec.Code != tc.wantStatus {
					t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
				}
				if kind := decodeErrorResponse(t, rec).ErrorCode; kind != tc.wantKind {
					t.Fatalf("error_code = %q, want %q", kind, tc.wantKind)
				}
			})
		}
	})

	t.Run("valid token stores the principal in context", func(t *testing.T) {
		t.Parallel()

		validator := &sessionValidatorStub{principal: application.Principal{UserID: "user-1"}}
		var got application.Principal
		var ok bool
		handler := RequireSession(validator, bundle, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok = PrincipalFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))

		req := httptest.NewRequest(http.MethodGet, "/schedule", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
		}
		if !ok || got.UserID != "user-1" {
			t.Fatalf("principal = %+v (present=%v), want user-1", got, ok)
		}
		if validator.token != "good-token" {
			t.Fatalf("validated token = %q, want %q", validator.token, "good-token")
		}
	})

	t.Run("token sources are tried in order", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name      string
			configure func(req *http.Request)
			want      string
		}{
			{
				name: "bearer header wins over header and cookie",
				configure: func(req *http.Request) {
					req.Header.Set("Authorization", "Bearer from-bearer")
					req.Header.Set("X-Session-Token", "from-header")
					req.AddCookie(&http.Cookie{Name: "session_token", Value: "from-cookie"})
				},
				want: "from-bearer",
			},
			{
				name: "session header wins over cookie",
				configure: func(req *http.Request) {
					req.Header.Set("X-Session-Token", "from-header")
					req.AddCookie(&http.Cookie{Name: "session_token", Value: "from-cookie"})
				},
				want: "from-header",
			},
			{
				name: "cookie is the last fallback",
				configure: func(req *http.Request) {
					req.AddCookie(&http.Cookie{Name: "session_token", Value: "from-cookie"})
				},
				want: "from-cookie",
			},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				validator := &sessionValidatorStub{principal: application.Principal{UserID: "user-1"}}
				handler := RequireSession(validator, bundle, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusNoContent)
				}))

				req := httptest.NewRequest(http.MethodGet, "/schedule", nil)
				tc.configure(req)
				handler.ServeHTTP(httptest.NewRecorder(), req)

				if validator.token != tc.want {
					t.Fatalf("validated token = %q, want %q", validator.token, tc.want)
				}
			})
		}
	})
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if LoggerFromContext(r.Context()) == nil {
			t.Error("request context carries no logger")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/team", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
		}
	}

	output := buf.String()
	for _, want := range []string{`"request_id":1`, `"request_id":2`, "request started", "request completed", `"path":"/team"`} {
		if !strings.Contains(output, want) {
			t.Errorf("log output missing %q:\n%s", want, output)
		}
	}
}

func TestNegotiateLanguage(t *testing.T) {
	t.Parallel()

	bundle := i18n.NewBundle()

	tests := []struct {
		name           string
		query          string
		acceptLanguage string
		want           string
	}{
		{name: "defaults to dutch", want: "nl"},
		{name: "accept language header selects english", acceptLanguage: "en-US,en;q=0.9", want: "en"},
		{name: "lang query overrides the header", query: "?lang=en", acceptLanguage: "nl-NL", want: "en"},
		{name: "unsupported language falls back to dutch", acceptLanguage: "de-DE", want: "nl"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var localizer *i18n.Localizer
			handler := NegotiateLanguage(bundle)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				localizer, _ = LocalizerFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			}))

			req := httptest.NewRequest(http.MethodGet, "/team"+tc.query, nil)
			if tc.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tc.acceptLanguage)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if got := rec.Header().Get("Content-Language"); got != tc.want {
				t.Fatalf("Content-Language = %q, want %q", got, tc.want)
			}
			if localizer == nil {
				t.Fatal("request context carries no localizer")
			}
			if got := localizer.Language(); got != tc.want {
				t.Fatalf("localizer language = %q, want %q", got, tc.want)
			}
		})
	}
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Message == "" {
		t.Fatal("error response carries no message")
	}
	return resp
}

type sessionValidatorStub struct {
	principal application.Principal
	err       error
	token     string
	calls     int
}

func (s *sessionValidatorStub) ValidateSession(_ context.Context, token string) (application.Principal, error) {
	s.calls++
	s.token = token
	if s.err != nil {
		return application.Principal{}, s.err
	}
	return s.principal, nil
}
