package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obras-backoffice/internal/application/dto"
)

// moduleChecker es el contrato mínimo que necesita el middleware para verificar módulos.
// Lo implementa *usecase.ModuleService.
type moduleChecker interface {
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
}

// RequireModule verifica que la empresa del token tenga el módulo activo
// (billing para documentos, projects para obras). Va DESPUÉS de AuthMiddleware.
//
//   - 401 si no hay company_id en el contexto.
//   - 403 si el módulo no está contratado.
//   - 503 si falla la consulta; el error queda en el log de la petición.
func RequireModule(moduleName string, checker moduleChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "company_id no encontrado en el token",
			})
		}

		active, err := checker.HasActiveModule(c.UserContext(), companyID, moduleName)
		if err != nil {
			requestLog(c).Error().Err(err).Str("module", moduleName).Msg("verificación de módulo falló")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "MODULE_CHECK_FAILED",
				Message: "no se pudo verificar el módulo, intente más tarde",
			})
		}

		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "MODULE_DISABLED",
				Message: "el módulo '" + moduleName + "' no está activo para esta empresa",
			})
		}

		return c.Next()
	}
}
