package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestContextWithLogger(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	ctx := ContextWithLogger(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Fatalf("FromContext = %v, want the stored logger", got)
	}

	if got := FromContext(context.Background()); got != nil {
		t.Fatalf("FromContext on a bare context = %v, want nil", got)
	}

	// Nil inputs must not derive a new context.
	if got := ContextWithLogger(context.Background(), nil); FromContext(got) != nil {
		t.Fatal("nil logger was stored")
	}
}

func TestScoped(t *testing.T) {
	t.Parallel()

	t.Run("prefers the context logger over the fallback", func(t *testing.T) {
		t.Parallel()

		var ctxBuf, fallbackBuf bytes.Buffer
		ctxLogger := slog.New(slog.NewTextHandler(&ctxBuf, nil))
		fallback := slog.New(slog.NewTextHandler(&fallbackBuf, nil))

		ctx := ContextWithLogger(context.Background(), ctxLogger)
		Scoped(ctx, fallback, "service", "AuthService").Info("resolved")

		if !strings.Contains(ctxBuf.String(), "service=AuthService") {
			t.Fatalf("context logger output = %q", ctxBuf.String())
		}
		if fallbackBuf.Len() != 0 {
			t.Fatalf("fallback logger was used: %q", fallbackBuf.String())
		}
	})

	t.Run("falls back when the context carries no logger", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fallback := slog.New(slog.NewTextHandler(&buf, nil))

		Scoped(context.Background(), fallback, "operation", "Load").Info("resolved")

		if !strings.Contains(buf.String(), "operation=Load") {
			t.Fatalf("fallback output = %q", buf.String())
		}
	})

	t.Run("never returns nil", func(t *testing.T) {
		t.Parallel()

		if Scoped(context.Background(), nil) == nil {
			t.Fatal("Scoped returned nil without a fallback")
		}
	})
}
