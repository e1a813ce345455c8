package pricing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/jhoicas/Repuestos-api/internal/domain/pricing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// carrito base: 2× parte A a $100 y 1× parte B a $50 con 10% de descuento de línea.
func baseCart() []pricing.Line {
	return []pricing.Line{
		{PartID: "A", UnitPrice: d("100"), Quantity: 2},
		{PartID: "B", UnitPrice: d("50"), Quantity: 1, DiscountPercent: d("10")},
	}
}

func TestCalculate_ClienteSinAjustes(t *testing.T) {
	s, err := pricing.Calculate(baseCart(), pricing.Adjustments{TaxRate: d("0.085")})
	require.NoError(t, err)

	assert.True(t, d("245").Equal(s.Subtotal), "subtotal = 2×100 + 50×0.9")
	assert.True(t, d("20.825").Equal(s.TaxAmount), "el impuesto se guarda con precisión completa")
	assert.True(t, d("265.825").Equal(s.TotalAmount))
	assert.Equal(t, "265.83", s.Rounded().TotalAmount.StringFixed(2))
}

func TestCalculate_VendedorConDescuentoYEnvio(t *testing.T) {
	s, err := pricing.Calculate(baseCart(), pricing.Adjustments{
		DiscountPercent: d("10"),
		ShippingAmount:  d("25"),
		TaxRate:         d("0.085"),
	})
	require.NoError(t, err)

	assert.True(t, d("24.5").Equal(s.DiscountAmount))
	assert.True(t, d("20.8675").Equal(s.TaxAmount), "impuesto sobre 245 − 24.50 + 25")
	assert.True(t, d("266.3675").Equal(s.TotalAmount))
	assert.Equal(t, "266.37", s.Rounded().TotalAmount.StringFixed(2))
}

func TestCalculate_IndependienteDelOrden(t *testing.T) {
	lines := []pricing.Line{
		{UnitPrice: d("19.99"), Quantity: 3, DiscountPercent: d("12.5")},
		{UnitPrice: d("0.333"), Quantity: 7},
		{UnitPrice: d("1234.56"), Quantity: 1, DiscountPercent: d("50")},
		{UnitPrice: d("7.07"), Quantity: 11, DiscountPercent: d("3")},
	}
	adj := pricing.Adjustments{DiscountPercent: d("7"), ShippingAmount: d("13.13"), TaxRate: d("0.19")}
	first, err := pricing.Calculate(lines, adj)
	require.NoError(t, err)

	reversed := make([]pricing.Line, len(lines))
	for i := range lines {
		reversed[len(lines)-1-i] = lines[i]
	}
	second, err := pricing.Calculate(reversed, adj)
	require.NoError(t, err)

	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	assert.True(t, first.TaxAmount.Equal(second.TaxAmount))
	assert.True(t, first.TotalSavings.Equal(second.TotalSavings))
}

func TestCalculate_RecalculoEsIdempotente(t *testing.T) {
	adj := pricing.Adjustments{DiscountPercent: d("10"), ShippingAmount: d("25"), TaxRate: d("0.085")}
	first, err := pricing.Calculate(baseCart(), adj)
	require.NoError(t, err)
	second, err := pricing.Calculate(baseCart(), adj)
	require.NoError(t, err)

	assertSameSummary(t, first.Rounded(), second.Rounded())
	assertSameSummary(t, first.Rounded(), first.Rounded().Rounded())
}

func assertSameSummary(t *testing.T, want, got pricing.Summary) {
	t.Helper()
	assert.True(t, want.Subtotal.Equal(got.Subtotal), "subtotal")
	assert.True(t, want.DiscountAmount.Equal(got.DiscountAmount), "descuento")
	assert.True(t, want.ShippingAmount.Equal(got.ShippingAmount), "envío")
	assert.True(t, want.TaxAmount.Equal(got.TaxAmount), "impuesto")
	assert.True(t, want.TotalAmount.Equal(got.TotalAmount), "total")
	require.Len(t, got.LineTotals, len(want.LineTotals))
	for i := range want.LineTotals {
		assert.True(t, want.LineTotals[i].Equal(got.LineTotals[i]), "línea %d", i+1)
	}
}

func TestCalculate_SinLineas(t *testing.T) {
	s, err := pricing.Calculate(nil, pricing.Adjustments{TaxRate: d("0.085")})
	require.NoError(t, err)
	assert.True(t, s.Subtotal.IsZero())
	assert.True(t, s.TotalAmount.IsZero())
	assert.Empty(t, s.LineTotals)
}

func TestCalculate_AhorroNoSeRestaDelTotal(t *testing.T) {
	lines := []pricing.Line{
		{UnitPrice: d("80"), ListPrice: decimal.NewNullDecimal(d("100")), Quantity: 2, DiscountPercent: d("10")},
	}
	s, err := pricing.Calculate(lines, pricing.Adjustments{})
	require.NoError(t, err)

	// (100 − 80 + 8) × 2
	assert.True(t, d("56").Equal(s.TotalSavings))
	assert.True(t, d("144").Equal(s.TotalAmount), "el ahorro es informativo")
}

func TestValidate_Rangos(t *testing.T) {
	cases := []struct {
		name  string
		lines []pricing.Line
		adj   pricing.Adjustments
		field string
		line  int
	}{
		{"cantidad cero", []pricing.Line{{UnitPrice: d("1"), Quantity: 0}}, pricing.Adjustments{}, "quantity", 1},
		{"descuento de línea > 50", []pricing.Line{{UnitPrice: d("1"), Quantity: 1}, {UnitPrice: d("1"), Quantity: 1, DiscountPercent: d("50.01")}}, pricing.Adjustments{}, "discount", 2},
		{"descuento de línea negativo", []pricing.Line{{UnitPrice: d("1"), Quantity: 1, DiscountPercent: d("-1")}}, pricing.Adjustments{}, "discount", 1},
		{"precio negativo", []pricing.Line{{UnitPrice: d("-1"), Quantity: 1}}, pricing.Adjustments{}, "unit_price", 1},
		{"descuento global > 50", nil, pricing.Adjustments{DiscountPercent: d("51")}, "discount_percent", 0},
		{"envío negativo", nil, pricing.Adjustments{ShippingAmount: d("-5")}, "shipping_amount", 0},
		{"tasa de impuesto >= 1", nil, pricing.Adjustments{TaxRate: d("8.5")}, "tax_rate", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pricing.Calculate(tc.lines, tc.adj)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
			assert.Equal(t, tc.line, ve.Line)
		})
	}
}

func TestValidate_LimitesIncluidos(t *testing.T) {
	lines := []pricing.Line{{UnitPrice: d("10"), Quantity: 1, DiscountPercent: d("50")}}
	s, err := pricing.Calculate(lines, pricing.Adjustments{DiscountPercent: d("0")})
	require.NoError(t, err)
	assert.True(t, d("5").Equal(s.Subtotal))
}
