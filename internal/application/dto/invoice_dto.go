package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemResponse línea de factura con los seriales despachados.
type InvoiceItemResponse struct {
	ID              string          `json:"id"`
	LineNo          int             `json:"line_no"`
	QuotationItemID string          `json:"quotation_item_id,omitempty"`
	PartID          string          `json:"part_id"`
	Description     string          `json:"description,omitempty"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	SerialNumbers   []string        `json:"serial_numbers"`
}

// InvoiceResponse factura emitida desde una cotización. Es una foto: no cambia
// si la cotización se modifica después.
type InvoiceResponse struct {
	ID             string                `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	QuotationID    string                `json:"quotation_id"`
	CompanyID      string                `json:"company_id,omitempty"`
	CustomerName   string                `json:"customer_name,omitempty"`
	CustomerEmail  string                `json:"customer_email,omitempty"`
	CustomerPhone  string                `json:"customer_phone,omitempty"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	ShippingAmount decimal.Decimal       `json:"shipping_amount"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	PaymentTerms   string                `json:"payment_terms,omitempty"`
	Notes          string                `json:"notes,omitempty"`
	IssuedAt       time.Time             `json:"issued_at"`
	Items          []InvoiceItemResponse `json:"items"`
}
