package quotation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Repuestos-api/internal/application/dto"
	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	"github.com/jhoicas/Repuestos-api/internal/domain/pricing"
	domquote "github.com/jhoicas/Repuestos-api/internal/domain/quotation"
)

// sellerOnly descuentos, envío y notas internas los fija el vendedor. La UI los
// deshabilita para el cliente, pero la regla se aplica aquí.
func sellerOnly(actor domquote.Actor, discount, shipping decimal.Decimal, internalNotes string) error {
	if actor.IsSeller() {
		return nil
	}
	switch {
	case !discount.IsZero():
		return fmt.Errorf("%w: discount_percent: solo el vendedor aplica descuentos", domain.ErrForbidden)
	case !shipping.IsZero():
		return fmt.Errorf("%w: shipping_amount: solo el vendedor fija el envío", domain.ErrForbidden)
	case internalNotes != "":
		return fmt.Errorf("%w: internal_notes: solo el vendedor escribe notas internas", domain.ErrForbidden)
	}
	return nil
}

// resolveLines convierte el borrador en ítems con la foto del catálogo. El
// cliente siempre recibe el precio vigente; el vendedor puede fijar otro.
func (s *Service) resolveLines(ctx context.Context, actor domquote.Actor, draft []dto.DraftLine) ([]*entity.QuotationItem, error) {
	items := make([]*entity.QuotationItem, 0, len(draft))
	for i, d := range draft {
		line := i + 1
		if !actor.IsSeller() {
			if d.UnitPrice != nil {
				return nil, fmt.Errorf("%w: línea %d: solo el vendedor fija el precio unitario", domain.ErrForbidden, line)
			}
			if !d.DiscountPercent.IsZero() {
				return nil, fmt.Errorf("%w: línea %d: solo el vendedor aplica descuento de línea", domain.ErrForbidden, line)
			}
		}
		if d.PartID == "" {
			return nil, &domain.ValidationError{Field: "part_id", Line: line, Message: "requerido"}
		}
		part, err := s.parts.GetByID(ctx, d.PartID)
		if err != nil {
			return nil, fmt.Errorf("línea %d: consultar catálogo: %w", line, err)
		}
		if part == nil {
			return nil, fmt.Errorf("línea %d: parte %s: %w", line, d.PartID, domain.ErrNotFound)
		}
		if !part.IsActive {
			return nil, &domain.ValidationError{Field: "part_id", Line: line, Message: "la parte no está activa en el catálogo"}
		}

		price := part.Price
		if d.UnitPrice != nil {
			price = *d.UnitPrice
		}
		desc := d.Description
		if desc == "" {
			desc = part.Name
		}
		items = append(items, &entity.QuotationItem{
			LineNo:      line,
			PartID:      part.ID,
			Description: desc,
			Quantity:    d.Quantity,
			UnitPrice:   price,
			ListPrice:   part.ListPrice,
			Discount:    d.DiscountPercent,
		})
	}
	return items, nil
}

func pricingLines(items []*entity.QuotationItem) []pricing.Line {
	lines := make([]pricing.Line, len(items))
	for i, it := range items {
		lines[i] = pricing.Line{
			PartID:          it.PartID,
			UnitPrice:       it.UnitPrice,
			ListPrice:       it.ListPrice,
			Quantity:        it.Quantity,
			DiscountPercent: it.Discount,
		}
	}
	return lines
}

// reprice recalcula desde los ítems y escribe los derivados en q e items.
// Nunca se confía en un total recibido.
func reprice(q *entity.Quotation, items []*entity.QuotationItem) (pricing.Summary, error) {
	sum, err := pricing.Calculate(pricingLines(items), pricing.Adjustments{
		DiscountPercent: q.DiscountPercent,
		ShippingAmount:  q.ShippingAmount,
		TaxRate:         q.TaxRate,
	})
	if err != nil {
		return pricing.Summary{}, err
	}
	for i, it := range items {
		it.TotalPrice = sum.LineTotals[i]
	}
	q.Subtotal = sum.Subtotal
	q.DiscountAmount = sum.DiscountAmount
	q.TaxAmount = sum.TaxAmount
	q.TotalAmount = sum.TotalAmount
	return sum, nil
}

// Preview valora un carrito local sin persistir nada.
func (s *Service) Preview(ctx context.Context, actor domquote.Actor, in dto.PreviewRequest) (*dto.PreviewResponse, error) {
	if err := sellerOnly(actor, in.DiscountPercent, in.ShippingAmount, ""); err != nil {
		return nil, err
	}
	items, err := s.resolveLines(ctx, actor, in.Items)
	if err != nil {
		return nil, err
	}
	sum, err := pricing.Calculate(pricingLines(items), pricing.Adjustments{
		DiscountPercent: in.DiscountPercent,
		ShippingAmount:  in.ShippingAmount,
		TaxRate:         s.cfg.TaxRate,
	})
	if err != nil {
		return nil, err
	}
	r := sum.Rounded()
	out := &dto.PreviewResponse{
		Lines:          make([]dto.PreviewLine, len(items)),
		Subtotal:       r.Subtotal,
		DiscountAmount: r.DiscountAmount,
		ShippingAmount: r.ShippingAmount,
		TaxRate:        s.cfg.TaxRate,
		TaxAmount:      r.TaxAmount,
		TotalAmount:    r.TotalAmount,
		TotalSavings:   r.TotalSavings,
	}
	for i, it := range items {
		out.Lines[i] = dto.PreviewLine{
			LineNo:          it.LineNo,
			PartID:          it.PartID,
			Quantity:        it.Quantity,
			UnitPrice:       pricing.Round(it.UnitPrice),
			ListPrice:       nullToPtr(it.ListPrice),
			DiscountPercent: it.Discount,
			TotalPrice:      r.LineTotals[i],
		}
	}
	return out, nil
}

func nullToPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := pricing.Round(d.Decimal)
	return &v
}
