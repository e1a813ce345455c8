package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Repuestos-api/internal/application/documents"
)

func sampleLines() []documents.Line {
	return []documents.Line{
		{LineNo: 1, PartNumber: "CAT-1R0750", Description: "Filtro de combustible", Quantity: 2,
			UnitPrice: decimal.NewFromInt(100), Total: decimal.NewFromInt(200)},
		{LineNo: 2, PartNumber: "KOM-600-211", Description: "Filtro de aceite", Quantity: 3, Backorder: 1,
			UnitPrice: decimal.NewFromInt(50), Discount: decimal.NewFromInt(10), Total: decimal.RequireFromString("135"),
			Serials: []string{"SN-001", "SN-002"}},
	}
}

func TestGenerateQuotationPDF(t *testing.T) {
	g := NewMarotoPDFGenerator()
	b, err := g.GenerateQuotationPDF(context.Background(), &documents.QuotationDocument{
		Issuer:     "Repuestos Pesados S.A.S.",
		Number:     "COT-2026-000001",
		CreatedAt:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC),
		Customer:   documents.Party{Name: "Minera Andina", Contact: "Laura Ríos", Email: "compras@andina.test"},
		TaxRate:    decimal.RequireFromString("0.085"),
		Lines:      sampleLines(),
		Totals: documents.Totals{
			Subtotal: decimal.NewFromInt(335),
			Tax:      decimal.RequireFromString("28.48"),
			Total:    decimal.RequireFromString("363.48"),
		},
		Notes: "Entrega en faena",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestGenerateInvoicePDF(t *testing.T) {
	g := NewMarotoPDFGenerator()
	b, err := g.GenerateInvoicePDF(context.Background(), &documents.InvoiceDocument{
		Issuer:          "Repuestos Pesados S.A.S.",
		Number:          "FAC-2026-000001",
		QuotationNumber: "COT-2026-000001",
		IssuedAt:        time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		Lines:           sampleLines(),
		Totals:          documents.Totals{Subtotal: decimal.NewFromInt(335), Total: decimal.NewFromInt(335)},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "999,90", formatMoney(decimal.RequireFromString("999.9")))
	assert.Equal(t, "25.000,50", formatMoney(decimal.RequireFromString("25000.5")))
	assert.Equal(t, "1.000.000,00", formatMoney(decimal.NewFromInt(1000000)))
}

func TestSplitEvery(t *testing.T) {
	assert.Equal(t, []string{"ab", "cd", "e"}, splitEvery("abcde", 2))
	assert.Nil(t, splitEvery("", 3))
}
