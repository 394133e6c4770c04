package httpapi

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/gsod-weather/internal/tools"
	"github.com/i474232898/gsod-weather/internal/weather"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app. Every request
// runs under queryTimeout.
func RegisterRoutes(app *fiber.App, svc tools.WeatherService, registry *tools.Registry, queryTimeout time.Duration) {
	h := &handlers{svc: svc, registry: registry, timeout: queryTimeout}

	v1 := app.Group("/api/v1")

	v1.Get("/stations/resolve", h.resolveCity)
	v1.Get("/stations/nearest", h.nearestStation)
	v1.Get("/stations/:stn/:wban/summary", h.rangeSummary)
	v1.Get("/stations/:stn/:wban/yearly-max", h.yearlyMax)
	v1.Get("/stations/:stn/:wban/series", h.dailySeries)

	v1.Get("/tools", h.listTools)
	v1.Post("/tools/:name", h.invokeTool)
}

type handlers struct {
	svc      tools.WeatherService
	registry *tools.Registry
	timeout  time.Duration
}

func (h *handlers) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.timeout)
}

func (h *handlers) resolveCity(c *fiber.Ctx) error {
	req := weather.CityRequest{
		City:        c.Query("city"),
		CountryCode: c.Query("country"),
	}

	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.registry.Observe(tools.ResolveCity, func() (any, error) {
		return h.svc.ResolveCity(ctx, req)
	})
	return respond(c, res, err)
}

func (h *handlers) nearestStation(c *fiber.Ctx) error {
	req := weather.NearestRequest{
		City:        c.Query("city"),
		CountryCode: c.Query("country"),
	}
	var err error
	if req.Lat, err = optionalFloat(c, "lat"); err != nil {
		return err
	}
	if req.Lon, err = optionalFloat(c, "lon"); err != nil {
		return err
	}

	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.registry.Observe(tools.NearestStation, func() (any, error) {
		return h.svc.NearestStation(ctx, req)
	})
	return respond(c, res, err)
}

func (h *handlers) rangeSummary(c *fiber.Ctx) error {
	req := rangeRequest(c)

	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.registry.Observe(tools.RangeWeatherSummary, func() (any, error) {
		return h.svc.RangeSummary(ctx, req)
	})
	return respond(c, res, err)
}

func (h *handlers) yearlyMax(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return &weather.ValidationError{Field: "year", Message: "must be an integer"}
	}
	req := weather.YearRequest{StationRef: stationRef(c), Year: year}

	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.registry.Observe(tools.YearlyMaxTemp, func() (any, error) {
		return h.svc.YearlyMaxTemp(ctx, req)
	})
	return respond(c, res, err)
}

func (h *handlers) dailySeries(c *fiber.Ctx) error {
	req := weather.SeriesRequest{RangeRequest: rangeRequest(c)}
	req.Metrics = splitMetrics(c.Query("metrics"))

	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.registry.Observe(tools.DailyWeatherSeries, func() (any, error) {
		return h.svc.DailySeries(ctx, req)
	})
	return respond(c, res, err)
}

func (h *handlers) listTools(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"tools": h.registry.List()})
}

func (h *handlers) invokeTool(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.registry.Invoke(ctx, c.Params("name"), c.Body())
	if errors.Is(err, tools.ErrUnknownTool) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return respond(c, res, err)
}

func stationRef(c *fiber.Ctx) weather.StationRef {
	return weather.StationRef{STN: c.Params("stn"), WBAN: c.Params("wban")}
}

func rangeRequest(c *fiber.Ctx) weather.RangeRequest {
	return weather.RangeRequest{
		StationRef: stationRef(c),
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
	}
}

func optionalFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &weather.ValidationError{Field: key, Message: "must be a number"}
	}
	return &f, nil
}

func respond(c *fiber.Ctx, res any, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// splitMetrics reads a comma-separated metrics list, dropping empty entries so
// a trailing comma is harmless.
func splitMetrics(raw string) []string {
	var out []string
	for _, m := range strings.Split(raw, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}
