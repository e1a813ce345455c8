package quotation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Repuestos-api/internal/application/dto"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	"github.com/jhoicas/Repuestos-api/internal/domain/pricing"
	domquote "github.com/jhoicas/Repuestos-api/internal/domain/quotation"
)

// toResponse redondea a centavos y aplica el estado efectivo. Las notas
// internas solo se muestran al vendedor.
func (s *Service) toResponse(q *entity.Quotation, items []*entity.QuotationItem, actor domquote.Actor) *dto.QuotationResponse {
	out := &dto.QuotationResponse{
		ID:              q.ID,
		QuotationNumber: q.QuotationNumber,
		CompanyID:       q.CompanyID,
		CustomerName:    q.CustomerName,
		CustomerEmail:   q.CustomerEmail,
		CustomerPhone:   q.CustomerPhone,
		Status:          domquote.EffectiveStatus(q.Status, q.ValidUntil, s.now()),
		Subtotal:        pricing.Round(q.Subtotal),
		DiscountPercent: q.DiscountPercent,
		DiscountAmount:  pricing.Round(q.DiscountAmount),
		ShippingAmount:  pricing.Round(q.ShippingAmount),
		TaxRate:         q.TaxRate,
		TaxAmount:       pricing.Round(q.TaxAmount),
		TotalAmount:     pricing.Round(q.TotalAmount),
		TotalSavings:    decimal.Zero,
		ValidUntil:      q.ValidUntil,
		PaymentTerms:    q.PaymentTerms,
		Notes:           q.Notes,
		CreatedBy:       q.CreatedBy,
		ConfirmedBy:     q.ConfirmedBy,
		ConfirmedAt:     q.ConfirmedAt,
		CancelledAt:     q.CancelledAt,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
		Items:           make([]dto.QuotationItemResponse, 0, len(items)),
	}
	if actor.IsSeller() {
		out.InternalNotes = q.InternalNotes
	}
	savings := decimal.Zero
	for _, l := range pricingLines(items) {
		savings = savings.Add(pricing.LineSavings(l))
	}
	out.TotalSavings = pricing.Round(savings)
	for _, it := range items {
		out.Items = append(out.Items, dto.QuotationItemResponse{
			ID:                it.ID,
			LineNo:            it.LineNo,
			PartID:            it.PartID,
			Description:       it.Description,
			Quantity:          it.Quantity,
			UnitPrice:         pricing.Round(it.UnitPrice),
			ListPrice:         nullToPtr(it.ListPrice),
			DiscountPercent:   it.Discount,
			TotalPrice:        pricing.Round(it.TotalPrice),
			BackorderQuantity: it.BackorderQuantity,
		})
	}
	return out
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		QuotationID:    inv.QuotationID,
		CompanyID:      inv.CompanyID,
		CustomerName:   inv.CustomerName,
		CustomerEmail:  inv.CustomerEmail,
		CustomerPhone:  inv.CustomerPhone,
		Subtotal:       pricing.Round(inv.Subtotal),
		DiscountAmount: pricing.Round(inv.DiscountAmount),
		ShippingAmount: pricing.Round(inv.ShippingAmount),
		TaxAmount:      pricing.Round(inv.TaxAmount),
		TotalAmount:    pricing.Round(inv.TotalAmount),
		PaymentTerms:   inv.PaymentTerms,
		Notes:          inv.Notes,
		IssuedAt:       inv.IssuedAt,
		Items:          make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	for _, it := range items {
		serials := it.SerialNumbers
		if serials == nil {
			serials = []string{}
		}
		out.Items = append(out.Items, dto.InvoiceItemResponse{
			ID:              it.ID,
			LineNo:          it.LineNo,
			QuotationItemID: it.QuotationItemID,
			PartID:          it.PartID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       pricing.Round(it.UnitPrice),
			DiscountPercent: it.Discount,
			TotalPrice:      pricing.Round(it.TotalPrice),
			SerialNumbers:   serials,
		})
	}
	return out
}

func cloneQuotation(q *entity.Quotation) *entity.Quotation {
	cp := *q
	return &cp
}

func cloneItems(items []*entity.QuotationItem) []*entity.QuotationItem {
	out := make([]*entity.QuotationItem, len(items))
	for i, it := range items {
		cp := *it
		out[i] = &cp
	}
	return out
}

func timePtr(t time.Time) *time.Time { return &t }

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
