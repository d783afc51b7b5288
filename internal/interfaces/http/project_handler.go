package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obras-backoffice/internal/application/dto"
	"github.com/jhoicas/obras-backoffice/internal/application/usecase"
)

const projectNotFound = "obra no encontrada"

// ProjectHandler obras (protegido, módulo projects).
type ProjectHandler struct {
	uc *usecase.ProjectUseCase
}

// NewProjectHandler construye el handler.
func NewProjectHandler(uc *usecase.ProjectUseCase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

// Create godoc
// @Summary      Crear obra
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProjectRequest  true  "Obra"
// @Success      201   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	var in dto.CreateProjectRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err, projectNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/projects?client_id=&limit=&offset=
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), companyID, c.Query("client_id"), pageFromQuery(c))
	if err != nil {
		return writeError(c, err, projectNotFound)
	}
	return c.JSON(out)
}

func (h *ProjectHandler) GetByID(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err, projectNotFound)
	}
	return c.JSON(out)
}

func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	var in dto.UpdateProjectRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err, projectNotFound)
	}
	return c.JSON(out)
}

// Close cierra la obra (fecha de término = hoy). Una obra cerrada no admite cambios.
// POST /api/projects/:id/close
func (h *ProjectHandler) Close(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	out, err := h.uc.Close(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err, projectNotFound)
	}
	return c.JSON(out)
}
