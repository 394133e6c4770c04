package httpapi

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/gsod-weather/internal/dataset"
	"github.com/i474232898/gsod-weather/internal/weather"
)

// ErrorHandler renders every handler error as {"error": true, "message": ...}.
// Validation failures map to 400 and dataset failures to 502, with 503 while
// the circuit breaker is open and 504 on deadline.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	body := fiber.Map{
		"error":   true,
		"message": err.Error(),
	}

	var (
		fe *fiber.Error
		ve *weather.ValidationError
		ue *weather.UpstreamError
	)
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.As(err, &ve):
		code = fiber.StatusBadRequest
		if ve.Field != "" {
			body["field"] = ve.Field
		}
	case errors.Is(err, dataset.ErrCircuitOpen):
		code = fiber.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = fiber.StatusGatewayTimeout
	case errors.As(err, &ue):
		code = fiber.StatusBadGateway
	}

	return c.Status(code).JSON(body)
}
