package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Repuestos-api/internal/application/auth"
	"github.com/jhoicas/Repuestos-api/internal/application/documents"
	"github.com/jhoicas/Repuestos-api/internal/application/quotation"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Quotations *quotation.Service
	Documents  *documents.UseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
	JWTIssuer  string
	Log        zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	required := AuthMiddleware(deps.JWTSecret, deps.JWTIssuer)
	optional := OptionalAuth(deps.JWTSecret, deps.JWTIssuer)
	sellerOnly := RequireRole(entity.RoleSeller)

	// Auth: login público, alta de usuarios solo vendedor
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/register", required, sellerOnly, authHandler.Register)

	// Cotizaciones: crear, previsualizar, leer, editar, enviar y cancelar admiten anónimo
	qh := NewQuotationHandler(deps.Quotations, deps.Log)
	dh := NewDocumentHandler(deps.Documents, deps.Log)
	quotes := api.Group("/quotations")
	quotes.Post("/preview", optional, qh.Preview)
	quotes.Post("/", optional, qh.Create)
	quotes.Get("/", required, qh.List)
	quotes.Get("/:id", optional, qh.Get)
	quotes.Put("/:id/items", optional, qh.ReplaceItems)
	quotes.Post("/:id/submit", optional, qh.Submit)
	quotes.Post("/:id/cancel", optional, qh.Cancel)
	quotes.Post("/:id/confirm", required, sellerOnly, qh.Confirm)
	quotes.Post("/:id/invoice", required, sellerOnly, qh.ConvertToInvoice)
	quotes.Get("/:id/pdf", optional, dh.QuotationPDF)
	quotes.Get("/:id/xlsx", optional, dh.QuotationXLSX)

	// Facturas
	invoices := api.Group("/invoices", required)
	invoices.Get("/:id", qh.GetInvoice)
	invoices.Get("/:id/pdf", dh.InvoicePDF)

	// Inventario
	api.Get("/parts/:id/stock", required, sellerOnly, qh.Stock)
}
