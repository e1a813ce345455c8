// Package pricing calcula los totales de una cotización a partir de sus líneas.
// Es puro: sin persistencia ni efectos secundarios. Los montos se llevan con
// precisión completa; el redondeo a 2 decimales ocurre solo al presentar (Rounded).
package pricing

import (
	"fmt"

	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxDiscountPercent tope de descuento por línea y global.
var MaxDiscountPercent = decimal.NewFromInt(50)

// Line línea a valorar. Sirve igual para un borrador local (sin ID) y para un
// QuotationItem persistido.
type Line struct {
	PartID          string
	UnitPrice       decimal.Decimal
	ListPrice       decimal.NullDecimal
	Quantity        int
	DiscountPercent decimal.Decimal
}

// Adjustments ajustes a nivel cotización.
type Adjustments struct {
	DiscountPercent decimal.Decimal
	ShippingAmount  decimal.Decimal
	TaxRate         decimal.Decimal // fracción: 0.085 = 8.5%
}

// Summary resultado del cálculo. TotalSavings es informativo y no entra en TotalAmount.
type Summary struct {
	LineTotals     []decimal.Decimal
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	ShippingAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	TotalSavings   decimal.Decimal
}

// LineTotal = unitPrice × quantity × (1 − discount/100).
func LineTotal(l Line) decimal.Decimal {
	gross := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	return gross.Sub(percentOf(gross, l.DiscountPercent))
}

// LineSavings = [(listPrice − unitPrice) + unitPrice × discount/100] × quantity.
// Sin precio de lista el primer término es cero.
func LineSavings(l Line) decimal.Decimal {
	perUnit := percentOf(l.UnitPrice, l.DiscountPercent)
	if l.ListPrice.Valid {
		perUnit = perUnit.Add(l.ListPrice.Decimal.Sub(l.UnitPrice))
	}
	return perUnit.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Validate rechaza entradas fuera de rango. Los descuentos fuera de [0,50] son
// error, no se recortan.
func Validate(lines []Line, adj Adjustments) error {
	for i, l := range lines {
		n := i + 1
		if l.Quantity < 1 {
			return &domain.ValidationError{Field: "quantity", Line: n, Message: fmt.Sprintf("debe ser un entero positivo (recibido %d)", l.Quantity)}
		}
		if l.UnitPrice.IsNegative() {
			return &domain.ValidationError{Field: "unit_price", Line: n, Message: "no puede ser negativo"}
		}
		if l.ListPrice.Valid && l.ListPrice.Decimal.IsNegative() {
			return &domain.ValidationError{Field: "list_price", Line: n, Message: "no puede ser negativo"}
		}
		if !inPercentRange(l.DiscountPercent) {
			return &domain.ValidationError{Field: "discount", Line: n, Message: "debe estar entre 0 y 50 (recibido " + l.DiscountPercent.String() + ")"}
		}
	}
	if !inPercentRange(adj.DiscountPercent) {
		return domain.NewValidationError("discount_percent", "debe estar entre 0 y 50 (recibido "+adj.DiscountPercent.String()+")")
	}
	if adj.ShippingAmount.IsNegative() {
		return domain.NewValidationError("shipping_amount", "no puede ser negativo")
	}
	if adj.TaxRate.IsNegative() || adj.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return domain.NewValidationError("tax_rate", "debe ser una fracción en [0,1)")
	}
	return nil
}

// Calculate valida y produce el resumen financiero. Cero líneas => subtotal 0.
// El impuesto se cobra sobre (subtotal − descuento + envío), en ese orden.
func Calculate(lines []Line, adj Adjustments) (Summary, error) {
	if err := Validate(lines, adj); err != nil {
		return Summary{}, err
	}
	s := Summary{
		LineTotals:     make([]decimal.Decimal, len(lines)),
		Subtotal:       decimal.Zero,
		TotalSavings:   decimal.Zero,
		ShippingAmount: adj.ShippingAmount,
	}
	for i, l := range lines {
		lt := LineTotal(l)
		s.LineTotals[i] = lt
		s.Subtotal = s.Subtotal.Add(lt)
		s.TotalSavings = s.TotalSavings.Add(LineSavings(l))
	}
	s.DiscountAmount = percentOf(s.Subtotal, adj.DiscountPercent)
	taxBase := s.Subtotal.Sub(s.DiscountAmount).Add(adj.ShippingAmount)
	s.TaxAmount = taxBase.Mul(adj.TaxRate)
	s.TotalAmount = s.Subtotal.Sub(s.DiscountAmount).Add(s.TaxAmount).Add(adj.ShippingAmount)
	return s, nil
}

// Rounded copia del resumen con todos los montos a 2 decimales (presentación).
func (s Summary) Rounded() Summary {
	out := Summary{
		LineTotals:     make([]decimal.Decimal, len(s.LineTotals)),
		Subtotal:       Round(s.Subtotal),
		DiscountAmount: Round(s.DiscountAmount),
		ShippingAmount: Round(s.ShippingAmount),
		TaxAmount:      Round(s.TaxAmount),
		TotalAmount:    Round(s.TotalAmount),
		TotalSavings:   Round(s.TotalSavings),
	}
	for i, lt := range s.LineTotals {
		out.LineTotals[i] = Round(lt)
	}
	return out
}

// Round redondeo monetario half-up a centavos.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// percentOf = amount × pct / 100, exacto (Shift evita la división).
func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Shift(-2)
}

func inPercentRange(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(MaxDiscountPercent)
}
