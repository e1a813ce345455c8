package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DraftLine línea de un carrito aún no persistido. UnitPrice solo lo fija el
// vendedor; si va vacío se toma el precio del catálogo.
type DraftLine struct {
	PartID          string           `json:"part_id"`
	Description     string           `json:"description,omitempty"`
	Quantity        int              `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
}

// CreateQuotationRequest body para POST /api/quotations.
// Submit=true crea y envía en la misma transacción.
type CreateQuotationRequest struct {
	CompanyID       string          `json:"company_id,omitempty"`
	CustomerName    string          `json:"customer_name,omitempty"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	Items           []DraftLine     `json:"items"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	ShippingAmount  decimal.Decimal `json:"shipping_amount"`
	PaymentTerms    string          `json:"payment_terms,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	InternalNotes   string          `json:"internal_notes,omitempty"`
	Submit          bool            `json:"submit"`
}

// UpdateItemsRequest body para PUT /api/quotations/:id/items. Los ajustes nil
// conservan el valor actual.
type UpdateItemsRequest struct {
	Items           []DraftLine      `json:"items"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	ShippingAmount  *decimal.Decimal `json:"shipping_amount,omitempty"`
}

// PreviewRequest body para POST /api/quotations/preview.
type PreviewRequest struct {
	Items           []DraftLine     `json:"items"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	ShippingAmount  decimal.Decimal `json:"shipping_amount"`
}

// PreviewLine total de una línea del borrador.
type PreviewLine struct {
	LineNo          int              `json:"line_no"`
	PartID          string           `json:"part_id"`
	Quantity        int              `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	ListPrice       *decimal.Decimal `json:"list_price,omitempty"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	TotalPrice      decimal.Decimal  `json:"total_price"`
}

// PreviewResponse resumen financiero de un borrador, redondeado a 2 decimales.
type PreviewResponse struct {
	Lines          []PreviewLine   `json:"lines"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalSavings   decimal.Decimal `json:"total_savings"`
}

// QuotationItemResponse línea persistida.
type QuotationItemResponse struct {
	ID                string           `json:"id"`
	LineNo            int              `json:"line_no"`
	PartID            string           `json:"part_id"`
	Description       string           `json:"description,omitempty"`
	Quantity          int              `json:"quantity"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	ListPrice         *decimal.Decimal `json:"list_price,omitempty"`
	DiscountPercent   decimal.Decimal  `json:"discount_percent"`
	TotalPrice        decimal.Decimal  `json:"total_price"`
	BackorderQuantity int              `json:"backorder_quantity,omitempty"`
}

// QuotationResponse cotización con ítems. Status es el estado efectivo
// (expired si validUntil ya pasó aunque el barrido no haya corrido).
type QuotationResponse struct {
	ID              string                  `json:"id"`
	QuotationNumber string                  `json:"quotation_number"`
	CompanyID       string                  `json:"company_id,omitempty"`
	CustomerName    string                  `json:"customer_name,omitempty"`
	CustomerEmail   string                  `json:"customer_email,omitempty"`
	CustomerPhone   string                  `json:"customer_phone,omitempty"`
	Status          string                  `json:"status"`
	Subtotal        decimal.Decimal         `json:"subtotal"`
	DiscountPercent decimal.Decimal         `json:"discount_percent"`
	DiscountAmount  decimal.Decimal         `json:"discount_amount"`
	ShippingAmount  decimal.Decimal         `json:"shipping_amount"`
	TaxRate         decimal.Decimal         `json:"tax_rate"`
	TaxAmount       decimal.Decimal         `json:"tax_amount"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	TotalSavings    decimal.Decimal         `json:"total_savings"`
	ValidUntil      time.Time               `json:"valid_until"`
	PaymentTerms    string                  `json:"payment_terms,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	InternalNotes   string                  `json:"internal_notes,omitempty"` // solo vendedor
	CreatedBy       string                  `json:"created_by,omitempty"`
	ConfirmedBy     string                  `json:"confirmed_by,omitempty"`
	ConfirmedAt     *time.Time              `json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time              `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	Items           []QuotationItemResponse `json:"items"`
}

// QuotationListRequest query de GET /api/quotations.
type QuotationListRequest struct {
	PageRequest
	Status string `query:"status"`
}

// QuotationListResponse página de cotizaciones (sin ítems).
type QuotationListResponse struct {
	Items []QuotationResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// StockSummaryResponse conteo de unidades por estado para GET /api/parts/:id/stock.
type StockSummaryResponse struct {
	PartID      string `json:"part_id"`
	Available   int    `json:"available"`
	Reserved    int    `json:"reserved"`
	Sold        int    `json:"sold"`
	Damaged     int    `json:"damaged"`
	Maintenance int    `json:"maintenance"`
	Total       int    `json:"total"`
}
