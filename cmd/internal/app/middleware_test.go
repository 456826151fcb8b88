package app

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLogMeta(t *testing.T) {
	cases := []struct {
		status int
		level  slog.Level
		result string
	}{
		{200, slog.LevelInfo, "success"},
		{201, slog.LevelInfo, "success"},
		{204, slog.LevelInfo, "success"},
		{301, slog.LevelInfo, "redirect"},
		{400, slog.LevelWarn, "client_error"},
		{401, slog.LevelWarn, "client_error"},
		{404, slog.LevelWarn, "client_error"},
		{500, slog.LevelError, "server_error"},
		{503, slog.LevelError, "server_error"},
	}

	for _, tc := range cases {
		level, result := requestLogMeta(tc.status)
		if level != tc.level || result != tc.result {
			t.Errorf("requestLogMeta(%d) = (%v, %q), want (%v, %q)",
				tc.status, level, result, tc.level, tc.result)
		}
	}
}

func TestStatusClass(t *testing.T) {
	cases := []struct {
		status int
		want   string
	}{
		{200, "2xx"},
		{302, "3xx"},
		{404, "4xx"},
		{500, "5xx"},
	}

	for _, tc := range cases {
		if got := statusClass(tc.status); got != tc.want {
			t.Errorf("statusClass(%d) = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestLoggingResponseWriterDefaultsTo200(t *testing.T) {
	rec := httptest.NewRecorder()
	lrw := &loggingResponseWriter{ResponseWriter: rec, status: http.StatusOK}

	if _, err := lrw.Write([]byte("ok")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if lrw.status != http.StatusOK {
		t.Fatalf("status = %d, want 200", lrw.status)
	}
	if lrw.bytes != 2 {
		t.Fatalf("bytes = %d, want 2", lrw.bytes)
	}
}

func TestLoggingResponseWriterCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	lrw := &loggingResponseWriter{ResponseWriter: rec, status: http.StatusOK}

	lrw.WriteHeader(http.StatusTeapot)

	if lrw.status != http.StatusTeapot {
		t.Fatalf("status = %d, want %d", lrw.status, http.StatusTeapot)
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("recorder code = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestWithRequestLoggingEmitsOneLine(t *testing.T) {
	var buf strings.Builder
	log := slog.New(slog.NewTextHandler(&buf, nil))

	h := WithRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), log)

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := buf.String()
	if !strings.Contains(out, "http.request") {
		t.Fatalf("log output missing request line: %q", out)
	}
	if !strings.Contains(out, "status=404") {
		t.Fatalf("log output missing status: %q", out)
	}
	if !strings.Contains(out, "result=client_error") {
		t.Fatalf("log output missing result: %q", out)
	}
	if !strings.Contains(out, "level=WARN") {
		t.Fatalf("4xx should log at warn: %q", out)
	}
}
