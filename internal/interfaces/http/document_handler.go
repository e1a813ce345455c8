package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Repuestos-api/internal/application/documents"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DocumentHandler descarga de PDF y XLSX.
type DocumentHandler struct {
	uc  *documents.UseCase
	log zerolog.Logger
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *documents.UseCase, log zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{uc: uc, log: log}
}

// QuotationPDF godoc
// @Summary      Descargar PDF de la cotización
// @Tags         documents
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotations/{id}/pdf [get]
func (h *DocumentHandler) QuotationPDF(c *fiber.Ctx) error {
	b, name, err := h.uc.QuotationPDF(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendFile(c, b, name, "application/pdf")
}

// QuotationXLSX godoc
// @Summary      Descargar la cotización en Excel
// @Tags         documents
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotations/{id}/xlsx [get]
func (h *DocumentHandler) QuotationXLSX(c *fiber.Ctx) error {
	b, name, err := h.uc.QuotationXLSX(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendFile(c, b, name, mimeXLSX)
}

// InvoicePDF godoc
// @Summary      Descargar PDF de la factura
// @Tags         documents
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *DocumentHandler) InvoicePDF(c *fiber.Ctx) error {
	b, name, err := h.uc.InvoicePDF(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendFile(c, b, name, "application/pdf")
}

func sendFile(c *fiber.Ctx, b []byte, name, mime string) error {
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(b)
}
