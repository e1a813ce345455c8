package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Repuestos-api/internal/application/dto"
	"github.com/jhoicas/Repuestos-api/internal/application/quotation"
)

// QuotationHandler expone el ciclo de vida de cotizaciones.
type QuotationHandler struct {
	svc *quotation.Service
	log zerolog.Logger
}

// NewQuotationHandler construye el handler.
func NewQuotationHandler(svc *quotation.Service, log zerolog.Logger) *QuotationHandler {
	return &QuotationHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Crear cotización (borrador; submit=true la envía)
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateQuotationRequest  true  "cliente e ítems"
// @Success      201   {object}  dto.QuotationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotations [post]
func (h *QuotationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Preview godoc
// @Summary      Calcular totales sin persistir
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PreviewRequest  true  "líneas del carrito"
// @Success      200   {object}  dto.PreviewResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/quotations/preview [post]
func (h *QuotationHandler) Preview(c *fiber.Ctx) error {
	var in dto.PreviewRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Preview(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener cotización
// @Tags         quotations
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuotationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotations/{id} [get]
func (h *QuotationHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar cotizaciones visibles para el usuario
// @Tags         quotations
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "estado"
// @Param        limit   query  int     false  "límite"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.QuotationListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/quotations [get]
func (h *QuotationHandler) List(c *fiber.Ctx) error {
	var in dto.QuotationListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.svc.List(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ReplaceItems godoc
// @Summary      Reemplazar ítems (solo draft o pending)
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la cotización"
// @Param        body  body  dto.UpdateItemsRequest  true  "ítems y ajustes"
// @Success      200   {object}  dto.QuotationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotations/{id}/items [put]
func (h *QuotationHandler) ReplaceItems(c *fiber.Ctx) error {
	var in dto.UpdateItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.ReplaceItems(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Enviar cotización (cliente: pending; vendedor: confirmed)
// @Tags         quotations
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuotationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/quotations/{id}/submit [post]
func (h *QuotationHandler) Submit(c *fiber.Ctx) error {
	out, err := h.svc.Submit(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar y reservar inventario (vendedor)
// @Tags         quotations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuotationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/quotations/{id}/confirm [post]
func (h *QuotationHandler) Confirm(c *fiber.Ctx) error {
	out, err := h.svc.Confirm(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar cotización y liberar reservas
// @Tags         quotations
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuotationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/quotations/{id}/cancel [post]
func (h *QuotationHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.svc.Cancel(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ConvertToInvoice godoc
// @Summary      Facturar cotización confirmada (vendedor)
// @Tags         quotations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la cotización"
// @Success      201  {object}  dto.InvoiceResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/quotations/{id}/invoice [post]
func (h *QuotationHandler) ConvertToInvoice(c *fiber.Ctx) error {
	out, err := h.svc.ConvertToInvoice(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetInvoice godoc
// @Summary      Obtener factura con seriales
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *QuotationHandler) GetInvoice(c *fiber.Ctx) error {
	out, err := h.svc.GetInvoice(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Stock godoc
// @Summary      Unidades de una parte por estado
// @Tags         parts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la parte"
// @Success      200  {object}  dto.StockSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id}/stock [get]
func (h *QuotationHandler) Stock(c *fiber.Ctx) error {
	out, err := h.svc.Stock(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
