package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestNewRouterLogsRequestCompleted(t *testing.T) {
	var buf bytes.Buffer
	router, cleanup := setupTestRouter(t, nil, newBufferLogger(&buf))
	defer cleanup()

	rr := doRequest(router, http.MethodGet, "/api/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	logs := buf.String()
	for _, want := range []string{
		"http request completed",
		"component=api",
		"method=GET",
		"path=/api/health",
		"route=/api/health",
		"status=200",
		"request_id=",
		"duration_ms=",
	} {
		if !strings.Contains(logs, want) {
			t.Fatalf("expected %q in logs, got %q", want, logs)
		}
	}
}

func TestNewRouterLogsWarnForBadRequest(t *testing.T) {
	var buf bytes.Buffer
	router, cleanup := setupTestRouter(t, nil, newBufferLogger(&buf))
	defer cleanup()

	rr := doRequest(router, http.MethodPut, "/api/settings", map[string]string{"theme": "sepia"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	logs := buf.String()
	if !strings.Contains(logs, "level=WARN") {
		t.Fatalf("expected warn level log, got %q", logs)
	}
	if !strings.Contains(logs, "status=400") {
		t.Fatalf("expected status=400 in log, got %q", logs)
	}
	if !strings.Contains(logs, `error_message="Unknown theme. Choose light, dark or system."`) {
		t.Fatalf("expected error message in log, got %q", logs)
	}
}

func TestNewRouterLogsServerErrorAsErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	router, cleanup := setupTestRouter(t, failingGenerator(nil), newBufferLogger(&buf))
	defer cleanup()

	rr := doRequest(router, http.MethodGet, "/api/news", nil)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}

	logs := buf.String()
	if !strings.Contains(logs, "level=ERROR msg=\"http request completed\"") {
		t.Fatalf("expected error level request log, got %q", logs)
	}
	if !strings.Contains(logs, "status=502") {
		t.Fatalf("expected status=502 in log, got %q", logs)
	}
}

func TestRecoveryLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := requestLoggingMiddleware(logger)(recoveryLoggingMiddleware(logger)(panicking))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"error":"internal server error"`) {
		t.Fatalf("expected structured error response, got %q", rr.Body.String())
	}

	logs := buf.String()
	if !strings.Contains(logs, "panic recovered") || !strings.Contains(logs, "panic=boom") {
		t.Fatalf("expected panic recovery log, got %q", logs)
	}
	if !strings.Contains(logs, `error_message="internal server error"`) {
		t.Fatalf("expected request log to carry the error message, got %q", logs)
	}
}

func TestNewRouterUsesCoreLoggerForRequestLogs(t *testing.T) {
	var buf bytes.Buffer
	router, cleanup := setupTestRouter(t, nil, newBufferLogger(&buf))
	defer cleanup()

	var defaultBuf bytes.Buffer
	oldDefault := slog.Default()
	slog.SetDefault(newBufferLogger(&defaultBuf))
	t.Cleanup(func() {
		slog.SetDefault(oldDefault)
	})

	rr := doRequest(router, http.MethodGet, "/api/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(buf.String(), "http request completed") {
		t.Fatalf("expected logs written through core logger, got %q", buf.String())
	}
	if defaultBuf.Len() != 0 {
		t.Fatalf("expected no log written to slog default, got %q", defaultBuf.String())
	}
}
