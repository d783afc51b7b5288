package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obras-backoffice/internal/application/dto"
	"github.com/jhoicas/obras-backoffice/internal/application/usecase"
)

const clientNotFound = "cliente no encontrado"

// ClientHandler CRUD de clientes (protegido).
type ClientHandler struct {
	uc *usecase.ClientUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *usecase.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateClientRequest  true  "Cliente"
// @Success      201   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	var in dto.CreateClientRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err, clientNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/clients?limit=&offset=
func (h *ClientHandler) List(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), companyID, pageFromQuery(c))
	if err != nil {
		return writeError(c, err, clientNotFound)
	}
	return c.JSON(out)
}

// GetByID GET /api/clients/:id
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err, clientNotFound)
	}
	return c.JSON(out)
}

// Update PUT /api/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	var in dto.UpdateClientRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err, clientNotFound)
	}
	return c.JSON(out)
}

// Delete DELETE /api/clients/:id. Con documentos u obras asociadas responde 409.
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), companyID, c.Params("id")); err != nil {
		return writeError(c, err, clientNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// pageFromQuery limit/offset de la query, normalizados con los topes de dto.PageRequest.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", dto.DefaultPageLimit),
		Offset: c.QueryInt("offset", 0),
	}
	page.DefaultPage()
	return page
}
