package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/gsod-weather/internal/dataset"
	"github.com/i474232898/gsod-weather/internal/tools"
	"github.com/i474232898/gsod-weather/internal/weather"
)

// stubService answers every operation with err, or with a found result.
type stubService struct {
	err        error
	seriesReq  weather.SeriesRequest
	nearestReq weather.NearestRequest
}

func (s *stubService) ResolveCity(_ context.Context, req weather.CityRequest) (weather.CityResolution, error) {
	if s.err != nil {
		return weather.CityResolution{}, s.err
	}
	return weather.CityResolution{Found: true, Station: &weather.Station{STN: "037720", WBAN: "99999", Name: strings.ToUpper(req.City)}}, nil
}

func (s *stubService) NearestStation(_ context.Context, req weather.NearestRequest) (weather.NearestResolution, error) {
	s.nearestReq = req
	return weather.NearestResolution{Found: false, Reason: weather.ReasonNoNearbyStation}, s.err
}

func (s *stubService) RangeSummary(context.Context, weather.RangeRequest) (weather.RangeSummary, error) {
	if s.err != nil {
		return weather.RangeSummary{}, s.err
	}
	return weather.RangeSummary{Found: false, Reason: weather.ReasonNoRangeData}, nil
}

func (s *stubService) YearlyMaxTemp(_ context.Context, req weather.YearRequest) (weather.YearlyMax, error) {
	return weather.YearlyMax{Found: true, Year: req.Year}, s.err
}

func (s *stubService) DailySeries(_ context.Context, req weather.SeriesRequest) (weather.Series, error) {
	s.seriesReq = req
	return weather.Series{STN: req.STN, WBAN: req.WBAN}, s.err
}

type readiness struct{ err error }

func (r readiness) CheckReadiness(context.Context) error { return r.err }

func newTestApp(t *testing.T, svc tools.WeatherService) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})

	registry := tools.NewRegistry(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := tools.RegisterWeatherTools(registry, svc); err != nil {
		t.Fatalf("register tools: %v", err)
	}
	RegisterRoutes(app, svc, registry, time.Second)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("decode body: %v", err)
	}
	return resp.StatusCode, out
}

// TestYearlyMaxYearValidation verifies that the yearly-max endpoint rejects a
// missing or non-numeric year before reaching the service.
func TestYearlyMaxYearValidation(t *testing.T) {
	app := newTestApp(t, &stubService{})

	for _, target := range []string{
		"/api/v1/stations/037720/99999/yearly-max",
		"/api/v1/stations/037720/99999/yearly-max?year=twenty",
	} {
		status, body := do(t, app, http.MethodGet, target, "")
		if status != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", target, http.StatusBadRequest, status)
		}
		if body["field"] != "year" || body["error"] != true {
			t.Fatalf("%s: unexpected body %v", target, body)
		}
	}

	status, body := do(t, app, http.MethodGet, "/api/v1/stations/037720/99999/yearly-max?year=2020", "")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
	if body["year"] != float64(2020) {
		t.Fatalf("expected year 2020, got %v", body["year"])
	}
}

// TestNotFoundIsNotAnError checks that found=false results are plain 200s.
func TestNotFoundIsNotAnError(t *testing.T) {
	app := newTestApp(t, &stubService{})

	status, body := do(t, app, http.MethodGet, "/api/v1/stations/037720/99999/summary?start_date=1900-01-01&end_date=1900-01-02", "")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
	if body["found"] != false || body["reason"] != weather.ReasonNoRangeData {
		t.Fatalf("unexpected body %v", body)
	}
}

// TestErrorStatusMapping verifies the status code chosen for each error kind.
func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &weather.ValidationError{Field: "end_date", Message: "must not be before start_date"}, http.StatusBadRequest},
		{"upstream", &weather.UpstreamError{Op: "range_summary", Err: errors.New("Access Denied")}, http.StatusBadGateway},
		{"breaker open", &weather.UpstreamError{Op: "range_summary", Err: fmt.Errorf("%w: open", dataset.ErrCircuitOpen)}, http.StatusServiceUnavailable},
		{"deadline", &weather.UpstreamError{Op: "range_summary", Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, &stubService{err: tt.err})
			status, body := do(t, app, http.MethodGet, "/api/v1/stations/037720/99999/summary?start_date=2020-01-01&end_date=2020-01-03", "")
			if status != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, status)
			}
			if body["message"] != tt.err.Error() {
				t.Fatalf("expected message %q, got %v", tt.err.Error(), body["message"])
			}
		})
	}
}

// TestSeriesMetricsQuery verifies comma-separated metrics reach the service.
func TestSeriesMetricsQuery(t *testing.T) {
	svc := &stubService{}
	app := newTestApp(t, svc)

	status, _ := do(t, app, http.MethodGet, "/api/v1/stations/037720/99999/series?start_date=2020-01-01&end_date=2020-01-31&metrics=rain_mm,wind_kmh", "")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
	want := []string{"rain_mm", "wind_kmh"}
	if !reflect.DeepEqual(svc.seriesReq.Metrics, want) {
		t.Fatalf("metrics = %v, want %v", svc.seriesReq.Metrics, want)
	}
	if svc.seriesReq.STN != "037720" || svc.seriesReq.EndDate != "2020-01-31" {
		t.Fatalf("unexpected request %+v", svc.seriesReq)
	}
}

// TestSeriesMetricsTrailingComma verifies empty metric entries are dropped.
func TestSeriesMetricsTrailingComma(t *testing.T) {
	svc := &stubService{}
	app := newTestApp(t, svc)

	status, _ := do(t, app, http.MethodGet, "/api/v1/stations/037720/99999/series?start_date=2020-01-01&end_date=2020-01-31&metrics=rain_mm,", "")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
	want := []string{"rain_mm"}
	if !reflect.DeepEqual(svc.seriesReq.Metrics, want) {
		t.Fatalf("metrics = %v, want %v", svc.seriesReq.Metrics, want)
	}
}

// TestNearestStationCoordinates verifies lat/lon parsing.
func TestNearestStationCoordinates(t *testing.T) {
	svc := &stubService{}
	app := newTestApp(t, svc)

	status, _ := do(t, app, http.MethodGet, "/api/v1/stations/nearest?lat=51.5&lon=-0.12", "")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
	if svc.nearestReq.Lat == nil || *svc.nearestReq.Lat != 51.5 || *svc.nearestReq.Lon != -0.12 {
		t.Fatalf("unexpected request %+v", svc.nearestReq)
	}

	status, body := do(t, app, http.MethodGet, "/api/v1/stations/nearest?lat=north", "")
	if status != http.StatusBadRequest || body["field"] != "lat" {
		t.Fatalf("expected 400 on lat, got %d %v", status, body)
	}
}

// TestToolEndpoints covers tool discovery and invocation.
func TestToolEndpoints(t *testing.T) {
	app := newTestApp(t, &stubService{})

	status, body := do(t, app, http.MethodGet, "/api/v1/tools", "")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
	if list, ok := body["tools"].([]any); !ok || len(list) != 5 {
		t.Fatalf("expected 5 tools, got %v", body["tools"])
	}

	status, body = do(t, app, http.MethodPost, "/api/v1/tools/resolve_city", `{"city":"london"}`)
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
	if body["name"] != "LONDON" || body["found"] != true {
		t.Fatalf("unexpected body %v", body)
	}

	status, _ = do(t, app, http.MethodPost, "/api/v1/tools/resolve_city", `{"city":`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected status %d on malformed args, got %d", http.StatusBadRequest, status)
	}

	status, _ = do(t, app, http.MethodPost, "/api/v1/tools/forecast", `{}`)
	if status != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, status)
	}
}

// TestOpsEndpoints checks liveness and readiness.
func TestOpsEndpoints(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterOps(app, "gsod-weather", readiness{err: errors.New("dataset probe: not yet run")})

	status, body := do(t, app, http.MethodGet, "/health", "")
	if status != http.StatusOK || body["status"] != "ok" || body["service"] != "gsod-weather" {
		t.Fatalf("unexpected /health response %d %v", status, body)
	}

	status, body = do(t, app, http.MethodGet, "/readyz", "")
	if status != http.StatusServiceUnavailable || body["status"] != "not ready" {
		t.Fatalf("unexpected /readyz response %d %v", status, body)
	}

	ready := fiber.New()
	RegisterOps(ready, "gsod-weather", readiness{})
	status, body = do(t, ready, http.MethodGet, "/readyz", "")
	if status != http.StatusOK || body["status"] != "ready" {
		t.Fatalf("unexpected /readyz response %d %v", status, body)
	}
}
