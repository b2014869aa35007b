package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAPIKey(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	handler := RequireAPIKey(string(hash), nil)(okHandler())

	tests := []struct {
		name   string
		path   string
		key    string
		status int
	}{
		{name: "missing key", path: "/rooms", status: http.StatusUnauthorized},
		{name: "wrong key", path: "/rooms", key: "guess", status: http.StatusUnauthorized},
		{name: "matching key", path: "/rooms", key: "s3cret", status: http.StatusOK},
		{name: "matching key again", path: "/rooms", key: "s3cret", status: http.StatusOK},
		{name: "health check is exempt", path: "/healthz", status: http.StatusOK},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.key != "" {
			req.Header.Set(APIKeyHeader, tc.key)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, rec.Code)
		}
	}

	t.Run("empty hash disables the check", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireAPIKey("", nil)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	handler := RateLimit(1, 2, nil)(okHandler())
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected other client to be admitted, got %d", rec.Code)
	}
}

func TestClientLimiters_Sweep(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	limiters := newClientLimiters(rate.Limit(1), 1, func() time.Time { return now })
	limiters.allow("a")
	limiters.allow("b")

	now = now.Add(2 * limiterIdleTTL)
	limiters.allow("c")

	if len(limiters.clients) != 1 {
		t.Fatalf("expected idle clients to be swept, have %d", len(limiters.clients))
	}
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var sawLogger bool
	handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = LoggerFromContext(r.Context()) != nil
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/rooms", nil))

	if !sawLogger {
		t.Fatal("expected request logger in context")
	}
	out := buf.String()
	if !strings.Contains(out, "request_id=1") || !strings.Contains(out, "status=418") {
		t.Fatalf("unexpected log output: %s", out)
	}
}
