package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tourhub/tourhub/internal/shared"
)

func scrape(t *testing.T, metrics *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	return rr.Body.String()
}

func TestMetricsHandlerExposesPrometheusMetrics(t *testing.T) {
	body := scrape(t, NewMetrics())
	if !strings.Contains(body, "go_goroutines") {
		t.Fatalf("expected runtime metrics, got: %s", body)
	}
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/api/v1/destinations/{id}")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/destinations/1", nil)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}

	body := scrape(t, metrics)
	if !strings.Contains(body, `tourhub_http_requests_total{code="418",route="/api/v1/destinations/{id}"} 1`) {
		t.Fatalf("expected metrics to record request, got: %s", body)
	}
	if !strings.Contains(body, `tourhub_http_request_duration_seconds_bucket{route="/api/v1/destinations/{id}"`) {
		t.Fatalf("expected duration histogram to be present, got: %s", body)
	}
}

func TestObserveOperation(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveOperation("accommodation", "create", "", 3*time.Millisecond)
	metrics.ObserveOperation("accommodation", "create", shared.CodeForbidden, time.Millisecond)
	metrics.ObserveOperation("accommodation", "create", shared.CodeForbidden, time.Millisecond)

	body := scrape(t, metrics)
	for _, want := range []string{
		`tourhub_service_operations_total{code="OK",entity="accommodation",operation="create"} 1`,
		`tourhub_service_operations_total{code="FORBIDDEN",entity="accommodation",operation="create"} 2`,
		`tourhub_service_operation_duration_seconds_count{entity="accommodation",operation="create"} 3`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in: %s", want, body)
		}
	}

	var nilMetrics *Metrics
	nilMetrics.ObserveOperation("post", "list", "", time.Second)
}
