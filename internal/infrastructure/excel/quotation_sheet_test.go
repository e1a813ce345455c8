package excel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Repuestos-api/internal/application/documents"
)

func TestGenerateQuotationXLSX(t *testing.T) {
	doc := &documents.QuotationDocument{
		Issuer:     "Repuestos Pesados S.A.S.",
		Number:     "COT-2026-000007",
		CreatedAt:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC),
		Customer:   documents.Party{Name: "=HYPERLINK(\"x\")"},
		TaxRate:    decimal.RequireFromString("0.085"),
		Lines: []documents.Line{
			{LineNo: 1, PartNumber: "CAT-1R0750", Description: "Filtro de combustible", Quantity: 2,
				UnitPrice: decimal.NewFromInt(100), Total: decimal.NewFromInt(200)},
			{LineNo: 2, PartNumber: "KOM-600-211", Description: "Filtro de aceite", Quantity: 1,
				UnitPrice: decimal.NewFromInt(50), Discount: decimal.NewFromInt(10), Total: decimal.NewFromInt(45)},
		},
		Totals: documents.Totals{
			Subtotal: decimal.NewFromInt(245),
			Tax:      decimal.RequireFromString("20.83"),
			Total:    decimal.RequireFromString("265.83"),
		},
	}

	b, err := NewSheetGenerator().GenerateQuotationXLSX(context.Background(), doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Equal(t, []string{"COT-2026-000007"}, sheets)

	title, _ := f.GetCellValue(sheets[0], "A1")
	assert.Equal(t, "Repuestos Pesados S.A.S. - Cotización COT-2026-000007", title)

	customer, _ := f.GetCellValue(sheets[0], "C2")
	assert.Equal(t, "'=HYPERLINK(\"x\")", customer)

	part, _ := f.GetCellValue(sheets[0], "B8")
	assert.Equal(t, "KOM-600-211", part)

	// fila de TOTAL: líneas en 7-8, blanco en 9, totales de 10 a 14
	label, _ := f.GetCellValue(sheets[0], "F14")
	assert.Equal(t, "TOTAL:", label)
	total, _ := f.GetCellValue(sheets[0], "G14", excelize.Options{RawCellValue: true})
	assert.Equal(t, "265.83", total)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Cotizacion", sheetName(""))
	assert.Len(t, sheetName("COT-2026-000001-con-un-sufijo-muy-largo"), 31)
}
