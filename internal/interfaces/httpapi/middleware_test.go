package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
	"github.com/riskibarqy/clan-bingo/internal/platform/metrics"
)

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: " /healthz ", want: false},
		{path: "/readyz", want: false},
		{path: "/metrics", want: false},
		{path: "/v1/events", want: true},
		{path: "/v1/events/event-1/rotation", want: true},
	}
	for _, tt := range tests {
		if got := shouldTraceRequest(tt.path); got != tt.want {
			t.Fatalf("shouldTraceRequest(%q)=%v want=%v", tt.path, got, tt.want)
		}
	}
}

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	if !shouldCreateHTTPAPISpan("httpapi.Handler.EvaluatePlayer") {
		t.Fatalf("expected handler span")
	}
	if shouldCreateHTTPAPISpan("httpapi.writeError") {
		t.Fatalf("did not expect helper span")
	}
}

func TestRequireOpsToken(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name   string
		token  string
		header string
		value  string
		want   int
	}{
		{name: "open when unset", token: "", want: http.StatusNoContent},
		{name: "missing", token: "s3cret", want: http.StatusUnauthorized},
		{name: "wrong", token: "s3cret", header: opsTokenHeader, value: "nope", want: http.StatusUnauthorized},
		{name: "ops header", token: "s3cret", header: opsTokenHeader, value: "s3cret", want: http.StatusNoContent},
		{name: "bearer", token: "s3cret", header: "Authorization", value: "bearer s3cret", want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/evaluations/run", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			RequireOpsToken(tt.token, ok).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestRequestLogging_RecordsStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := logging.FromZap(zap.New(core))
	failing := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) })
	handler := RequestLogging(logger, failing)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/events/e1/leaderboard", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected health check to be skipped, got %d entries", len(entries))
	}
	if entries[0].Message != "http request failed" {
		t.Fatalf("unexpected message: %q", entries[0].Message)
	}
	if got := entries[0].ContextMap()["status"]; got != int64(http.StatusServiceUnavailable) {
		t.Fatalf("unexpected status field: %v (%T)", got, got)
	}
}

func histogramCount(t *testing.T, route, code string) uint64 {
	t.Helper()
	var m dto.Metric
	if err := metrics.HTTPRequestDuration.WithLabelValues(route, code).(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("read histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRouteMetrics_LabelsByPattern(t *testing.T) {
	const pattern = "GET /v1/events/{eventID}/rotation"
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RouteMetrics(mux)

	matched := histogramCount(t, pattern, "200")
	unmatched := histogramCount(t, "unmatched", "404")

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/events/e1/rotation", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/nope", nil))

	if got := histogramCount(t, pattern, "200"); got != matched+1 {
		t.Fatalf("expected one observation for %s, got %d", pattern, got-matched)
	}
	if got := histogramCount(t, "unmatched", "404"); got != unmatched+1 {
		t.Fatalf("expected one unmatched observation, got %d", got-unmatched)
	}
}
