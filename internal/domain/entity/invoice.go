package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice factura generada al convertir una cotización confirmada.
// Es una foto: cambios posteriores en la cotización no la alteran.
type Invoice struct {
	ID             string
	InvoiceNumber  string
	QuotationID    string
	CompanyID      string
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	ShippingAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	PaymentTerms   string
	Notes          string
	IssuedAt       time.Time
	CreatedBy      string
	CreatedAt      time.Time
}
