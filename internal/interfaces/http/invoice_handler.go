package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obras-backoffice/internal/application/billing"
	"github.com/jhoicas/obras-backoffice/internal/application/dto"
)

const invoiceNotFound = "documento no encontrado"

// InvoiceHandler maneja documentos tributarios y sus cadenas (protegido, módulo billing).
type InvoiceHandler struct {
	uc     *billing.InvoiceUseCase
	report *billing.ChainReportUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, report *billing.ChainReportUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, report: report}
}

// List godoc
// @Summary      Listar documentos agrupados por cadena
// @Description  Cada fila es el documento maestro de una cadena; children trae el resto ordenado por fecha.
// @Tags         invoices
// @Produce      json
// @Param        q          query  string  false  "Búsqueda por folio, cliente o descripción"
// @Param        type       query  string  false  "SALE, PURCHASE, CREDIT_NOTE, DEBIT_NOTE, DISPATCH_GUIDE"
// @Param        client_id  query  string  false  "Cliente"
// @Param        from       query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to         query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        min_total  query  number  false  "Total mínimo"
// @Param        max_total  query  number  false  "Total máximo"
// @Param        sort       query  string  false  "folio, date, client, total, payment, type"
// @Param        dir        query  string  false  "asc o desc"
// @Param        toggle     query  string  false  "Columna pulsada: invierte dir si coincide con sort"
// @Success      200  {object}  dto.InvoiceListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	var q dto.InvoiceQuery
	if ok, err := queryAndValidate(c, &q); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), companyID, q)
	if err != nil {
		return writeError(c, err, invoiceNotFound)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar documento
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Documento"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	var in dto.CreateInvoiceRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err, invoiceNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener documento
// @Tags         invoices
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err, invoiceNotFound)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Reemplazar documento
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del documento"
// @Param        body  body  dto.UpdateInvoiceRequest  true  "Documento completo"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	var in dto.UpdateInvoiceRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err, invoiceNotFound)
	}
	return c.JSON(out)
}

// Void anula el documento (no hay borrado físico).
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Void(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	if err := h.uc.Void(c.UserContext(), companyID, c.Params("id")); err != nil {
		return writeError(c, err, invoiceNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Chain godoc
// @Summary      Cadena completa de un documento
// @Description  Todos los documentos conectados por referencias, en orden cronológico, más el ID del maestro.
// @Tags         invoices
// @Produce      json
// @Param        id   path  string  true  "ID de cualquier documento de la cadena"
// @Success      200  {object}  dto.ChainResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id}/chain [get]
func (h *InvoiceHandler) Chain(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	out, err := h.uc.Chain(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err, invoiceNotFound)
	}
	return c.JSON(out)
}

// ChainPDF GET /api/invoices/:id/chain.pdf
func (h *InvoiceHandler) ChainPDF(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	body, filename, err := h.report.PDF(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err, invoiceNotFound)
	}
	return sendAttachment(c, "application/pdf", filename, body)
}

// ChainXML GET /api/invoices/:id/chain.xml
func (h *InvoiceHandler) ChainXML(c *fiber.Ctx) error {
	companyID, ok, err := companyOrAbort(c)
	if !ok {
		return err
	}
	body, filename, err := h.report.XML(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err, invoiceNotFound)
	}
	return sendAttachment(c, "application/xml", filename, body)
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}
