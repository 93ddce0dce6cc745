// Package httpapi exposes the prediction orchestrator over HTTP with Fiber.
package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sartorproj/gotrend/compare"
	"github.com/sartorproj/gotrend/forecast"
	"github.com/sartorproj/gotrend/prediction"
	"github.com/sartorproj/gotrend/timeseries"
)

// Body is the JSON payload of every POST endpoint.
type Body struct {
	Points  []timeseries.Point `json:"points"`
	Request prediction.Request `json:"request"`
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
	Code    int      `json:"code"`
}

// Handler serves the forecasting endpoints.
type Handler struct {
	orchestrator *prediction.Orchestrator
	timeout      time.Duration
	startTime    time.Time
}

// NewHandler creates a handler. Requests that run longer than timeout are
// canceled; a zero timeout means 30 seconds.
func NewHandler(orchestrator *prediction.Orchestrator, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Handler{
		orchestrator: orchestrator,
		timeout:      timeout,
		startTime:    time.Now(),
	}
}

// Register mounts the routes on router.
func (h *Handler) Register(router fiber.Router) {
	router.Get("/health", h.Health)

	v1 := router.Group("/v1")
	v1.Post("/forecast", h.Forecast)
	v1.Post("/compare", h.Compare)
	v1.Post("/analyze", h.Analyze)
	v1.Post("/validate", h.Validate)
}

// Health handles GET /health
func (h *Handler) Health(c *fiber.Ctx) error {
	cfg := h.orchestrator.Config()
	return c.JSON(fiber.Map{
		"status":       "healthy",
		"service":      "trendcastd",
		"uptime":       time.Since(h.startTime).String(),
		"defaultModel": cfg.DefaultModel,
		"models":       forecast.ModelTypes(),
	})
}

// Forecast handles POST /v1/forecast
func (h *Handler) Forecast(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	result, err := h.orchestrator.GeneratePredictions(ctx, body.Points, body.Request)
	if err != nil {
		return respondError(c, "Failed to generate forecast", err)
	}
	return c.JSON(result)
}

// Compare handles POST /v1/compare
func (h *Handler) Compare(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}

	result, err := h.orchestrator.Compare(body.Points, body.Request)
	if err != nil {
		return respondError(c, "Failed to compare models", err)
	}
	return c.JSON(result)
}

// Analyze handles POST /v1/analyze
func (h *Handler) Analyze(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}

	analysis, err := h.orchestrator.Analyze(body.Points, body.Request.EntityID)
	if err != nil {
		return respondError(c, "Failed to analyze series", err)
	}
	return c.JSON(analysis)
}

// Validate handles POST /v1/validate. Invalid input is reported in the
// body with status 200.
func (h *Handler) Validate(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}
	return c.JSON(h.orchestrator.Validate(body.Points, body.Request))
}

func parseBody(c *fiber.Ctx) (*Body, error) {
	var body Body
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return &body, nil
}

// StatusFor maps an orchestrator error to an HTTP status code.
func StatusFor(err error) int {
	var verr *prediction.ValidationError
	var insufficient *forecast.InsufficientDataError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest
	case errors.As(err, &insufficient), errors.Is(err, compare.ErrNoModel):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, title string, err error) error {
	code := StatusFor(err)
	resp := ErrorResponse{
		Error:   title,
		Message: err.Error(),
		Code:    code,
	}
	var verr *prediction.ValidationError
	if errors.As(err, &verr) {
		resp.Details = verr.Errors
	}
	return c.Status(code).JSON(resp)
}

// ErrorHandler renders errors that escape the handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "Request failed",
		Message: err.Error(),
		Code:    code,
	})
}
