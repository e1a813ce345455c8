package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una cotización.
const (
	QuotationStatusDraft     = "draft"
	QuotationStatusPending   = "pending"   // enviada por cliente, espera confirmación del vendedor
	QuotationStatusConfirmed = "confirmed" // unidades reservadas
	QuotationStatusInvoiced  = "invoiced"  // terminal
	QuotationStatusCancelled = "cancelled" // terminal
	QuotationStatusExpired   = "expired"   // terminal
)

// Quotation cabecera de una cotización. Los montos son derivados: se recalculan
// desde los ítems en cada transacción que los modifica, nunca se toman del cliente.
type Quotation struct {
	ID              string
	QuotationNumber string
	CompanyID       string // vacío = cliente no registrado (usa campos de contacto)
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal // descuento global (solo vendedor)
	DiscountAmount  decimal.Decimal
	ShippingAmount  decimal.Decimal
	TaxRate         decimal.Decimal // fracción, ej. 0.085
	TaxAmount       decimal.Decimal
	TotalAmount     decimal.Decimal
	Status          string
	ValidUntil      time.Time
	PaymentTerms    string
	Notes           string
	InternalNotes   string
	CreatedBy       string
	ConfirmedBy     string
	ConfirmedAt     *time.Time
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasContact indica si hay contacto suficiente para enviar la cotización:
// empresa vinculada, o nombre + email del cliente.
func (q *Quotation) HasContact() bool {
	if q.CompanyID != "" {
		return true
	}
	return q.CustomerName != "" && q.CustomerEmail != ""
}

// IsTerminal estados desde los que no hay transición posible.
func (q *Quotation) IsTerminal() bool {
	switch q.Status {
	case QuotationStatusInvoiced, QuotationStatusCancelled, QuotationStatusExpired:
		return true
	}
	return false
}

// IsEditable los ítems solo se modifican en draft o pending.
func (q *Quotation) IsEditable() bool {
	return q.Status == QuotationStatusDraft || q.Status == QuotationStatusPending
}
