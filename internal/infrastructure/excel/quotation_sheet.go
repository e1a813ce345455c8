// Package excel exporta cotizaciones a hojas de cálculo XLSX.
package excel

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Repuestos-api/internal/application/documents"
)

var _ documents.SheetGenerator = (*SheetGenerator)(nil)

// SheetGenerator implementa documents.SheetGenerator con excelize.
type SheetGenerator struct{}

// NewSheetGenerator construye el generador.
func NewSheetGenerator() *SheetGenerator { return &SheetGenerator{} }

var (
	columns = []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	widths  = []float64{6, 18, 40, 8, 14, 10, 16, 12}
	headers = []string{"#", "N° Parte", "Descripción", "Cant.", "Precio Unit.", "Dto. %", "Total", "Pendiente"}
)

const headerRow = 6

// GenerateQuotationXLSX escribe una hoja con cabecera, líneas y totales. Los
// montos se guardan como números para que el cliente pueda operar con ellos.
func (g *SheetGenerator) GenerateQuotationXLSX(_ context.Context, doc *documents.QuotationDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(doc.Number)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	lastCol := columns[len(columns)-1]
	for i, c := range columns {
		if err := f.SetColWidth(sheet, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	// ── Cabecera (filas 1-4) ────────────────────────────────────────────
	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", sanitizeCell(doc.Issuer+" - Cotización "+doc.Number))
	f.SetCellStyle(sheet, "A1", lastCol+"1", st.title)

	f.SetCellValue(sheet, "A2", "Cliente:")
	f.SetCellValue(sheet, "C2", sanitizeCell(doc.Customer.Name))
	f.SetCellValue(sheet, "A3", "Fecha:")
	f.SetCellValue(sheet, "C3", doc.CreatedAt.Format("2006-01-02"))
	f.SetCellValue(sheet, "A4", "Válida hasta:")
	f.SetCellValue(sheet, "C4", doc.ValidUntil.Format("2006-01-02"))
	f.SetCellStyle(sheet, "A2", "A4", st.label)

	// ── Líneas ──────────────────────────────────────────────────────────
	for i, h := range headers {
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", columns[i], headerRow), h)
	}
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), st.header)

	r := headerRow + 1
	for _, l := range doc.Lines {
		values := []interface{}{
			l.LineNo,
			sanitizeCell(l.PartNumber),
			sanitizeCell(l.Description),
			l.Quantity,
			l.UnitPrice.InexactFloat64(),
			l.Discount.InexactFloat64(),
			l.Total.InexactFloat64(),
			l.Backorder,
		}
		for i, v := range values {
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", columns[i], r), v)
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", r), fmt.Sprintf("D%d", r), st.cell)
		f.SetCellStyle(sheet, fmt.Sprintf("E%d", r), fmt.Sprintf("E%d", r), st.money)
		f.SetCellStyle(sheet, fmt.Sprintf("F%d", r), fmt.Sprintf("F%d", r), st.cell)
		f.SetCellStyle(sheet, fmt.Sprintf("G%d", r), fmt.Sprintf("G%d", r), st.money)
		f.SetCellStyle(sheet, fmt.Sprintf("H%d", r), fmt.Sprintf("H%d", r), st.cell)
		r++
	}

	// ── Totales ─────────────────────────────────────────────────────────
	r++
	totals := []struct {
		label string
		value float64
	}{
		{"Subtotal:", doc.Totals.Subtotal.InexactFloat64()},
		{"Descuento:", doc.Totals.Discount.InexactFloat64()},
		{"Envío:", doc.Totals.Shipping.InexactFloat64()},
		{"Impuesto (" + doc.TaxRate.Shift(2).String() + "%):", doc.Totals.Tax.InexactFloat64()},
		{"TOTAL:", doc.Totals.Total.InexactFloat64()},
	}
	for _, t := range totals {
		f.SetCellValue(sheet, fmt.Sprintf("F%d", r), t.label)
		f.SetCellStyle(sheet, fmt.Sprintf("F%d", r), fmt.Sprintf("F%d", r), st.summaryLabel)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", r), t.value)
		f.SetCellStyle(sheet, fmt.Sprintf("G%d", r), fmt.Sprintf("G%d", r), st.summaryValue)
		r++
	}

	if doc.PaymentTerms != "" {
		r++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), "Forma de pago: "+sanitizeCell(doc.PaymentTerms))
	}
	if doc.Notes != "" {
		r++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), "Notas: "+sanitizeCell(doc.Notes))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

type styles struct {
	title, label, header, cell, money, summaryLabel, summaryValue int
}

func newStyles(f *excelize.File) (styles, error) {
	var (
		st  styles
		err error
	)
	moneyFmt := "#,##0.00"
	defs := []struct {
		dst   *int
		name  string
		style *excelize.Style
	}{
		{&st.title, "title", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}},
		{&st.label, "label", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 10}}},
		{&st.header, "header", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 10},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thinBorders(),
		}},
		{&st.cell, "cell", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()}},
		{&st.money, "money", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders(), CustomNumFmt: &moneyFmt}},
		{&st.summaryLabel, "summary label", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 10},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{&st.summaryValue, "summary value", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 10}, CustomNumFmt: &moneyFmt}},
	}
	for _, d := range defs {
		if *d.dst, err = f.NewStyle(d.style); err != nil {
			return st, fmt.Errorf("create %s style: %w", d.name, err)
		}
	}
	return st, nil
}

// sheetName nombre de hoja válido (máx. 31 caracteres).
func sheetName(number string) string {
	if number == "" {
		return "Cotizacion"
	}
	if len(number) > 31 {
		return number[:31]
	}
	return number
}

// sanitizeCell evita inyección de fórmulas anteponiendo una comilla a los
// caracteres iniciales que Excel interpreta como fórmula.
func sanitizeCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
