package http

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck verifica una dependencia (DB, Redis). nil = OK.
type HealthCheck func(ctx context.Context) error

// HealthHandler liveness y readiness.
type HealthHandler struct {
	checks map[string]HealthCheck
}

// NewHealthHandler recibe los checks de readiness por nombre.
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Live GET /health
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready GET /health/ready: 503 si algún check falla.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := fiber.StatusOK
	result := fiber.Map{}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			requestLog(c).Warn().Err(err).Str("check", name).Msg("readiness falló")
			result[name] = "error"
			status = fiber.StatusServiceUnavailable
			continue
		}
		result[name] = "ok"
	}
	return c.Status(status).JSON(result)
}
