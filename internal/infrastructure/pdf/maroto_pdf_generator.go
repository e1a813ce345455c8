// Package pdf implementa la representación impresa de cotizaciones y facturas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor              │  COTIZACIÓN/FACTURA N° + Fecha│
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Empresa + NIT + contacto                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | N° Parte | Descripción | Cant | P.Unit | Dto | Total│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / Envío / Impuesto / TOTAL    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONDICIONES: vigencia, pago, notas                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Repuestos-api/internal/application/documents"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 170, Green: 60, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ documents.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa documents.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateQuotationPDF genera el PDF de la cotización y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateQuotationPDF(_ context.Context, doc *documents.QuotationDocument) ([]byte, error) {
	m := newDocument("Cotización "+doc.Number, doc.Issuer)

	m.AddRows(headerRow(doc.Issuer, "COTIZACIÓN", doc.Number,
		"Fecha: "+doc.CreatedAt.Format("02/01/2006"),
		"Válida hasta: "+doc.ValidUntil.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(doc.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(doc.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc.Totals, "Impuesto ("+doc.TaxRate.Shift(2).String()+"%):"))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(conditionsRows(doc.PaymentTerms, doc.Notes,
		"Precios sujetos a disponibilidad de inventario al momento de la confirmación.")...)

	return generate(m)
}

// GenerateInvoicePDF genera el PDF de la factura, con los seriales despachados.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc *documents.InvoiceDocument) ([]byte, error) {
	m := newDocument("Factura "+doc.Number, doc.Issuer)

	ref := ""
	if doc.QuotationNumber != "" {
		ref = "Cotización: " + doc.QuotationNumber
	}
	m.AddRows(headerRow(doc.Issuer, "FACTURA DE VENTA", doc.Number,
		"Fecha: "+doc.IssuedAt.Format("02/01/2006"), ref))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(doc.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(doc.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc.Totals, "Impuesto:"))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(conditionsRows(doc.PaymentTerms, doc.Notes, "Conserve este documento como soporte de la compra.")...)

	return generate(m)
}

func newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(author, true).
		Build()
	return maroto.New(cfg)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq) y tipo de documento + número + fechas (der).
func headerRow(issuer, kind, number, date1, date2 string) core.Row {
	return row.New(22).Add(
		col.New(7).Add(
			text.New(issuer, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Repuestos y partes para maquinaria pesada", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(kind, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New(date1, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New(date2, props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del cliente.
func customerRow(c documents.Party) core.Row {
	details := []string{}
	if c.TaxID != "" {
		details = append(details, "NIT/CC: "+c.TaxID)
	}
	if c.Contact != "" && c.Contact != c.Name {
		details = append(details, "Contacto: "+c.Contact)
	}
	details = append(details,
		"Email: "+nonEmpty(c.Email, "-"),
		"Tel: "+nonEmpty(c.Phone, "-"),
	)
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(c.Name, "Cliente sin registrar"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(strings.Join(details, "   |   "), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("N° Parte", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Cant.", 1, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea, más seriales o faltante si aplica.
func tableDetailRows(lines []documents.Line) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		desc := l.Description
		if !l.Discount.IsZero() {
			desc += fmt.Sprintf(" (dto. %s%%)", l.Discount.String())
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(l.LineNo), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(l.PartNumber, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(desc, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprint(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New("$"+formatMoney(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New("$"+formatMoney(l.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
		if len(l.Serials) > 0 {
			for _, chunk := range splitEvery(strings.Join(l.Serials, ", "), 110) {
				result = append(result, row.New(4).Add(col.New(12).Add(
					text.New("Seriales: "+chunk, props.Text{Size: 6.5, Color: colorGray, Left: 12}),
				)))
			}
		}
		if l.Backorder > 0 {
			result = append(result, row.New(4).Add(col.New(12).Add(
				text.New(fmt.Sprintf("Pendiente por despachar: %d unidad(es)", l.Backorder),
					props.Text{Size: 6.5, Color: colorWarn, Left: 12}),
			)))
		}
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(t documents.Totals, taxLabel string) core.Row {
	labels := col.New(3)
	values := col.New(3)
	top := 0.0
	add := func(l, v string) {
		labels.Add(text.New(l, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}))
		values.Add(text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}))
		top += 5
	}
	add("Subtotal:", "$"+formatMoney(t.Subtotal))
	if !t.Discount.IsZero() {
		add("Descuento:", "-$"+formatMoney(t.Discount))
	}
	if !t.Shipping.IsZero() {
		add("Envío:", "$"+formatMoney(t.Shipping))
	}
	add(taxLabel, "$"+formatMoney(t.Tax))
	labels.Add(text.New("TOTAL:", props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: top + 1,
	}))
	values.Add(text.New("$"+formatMoney(t.Total), props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top + 1,
	}))
	return row.New(top+10).Add(col.New(6), labels, values)
}

// conditionsRows: condiciones de pago, notas y leyenda.
func conditionsRows(terms, notes, legend string) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("CONDICIONES", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
	}
	if terms != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Forma de pago: "+terms, props.Text{Size: 8, Top: 1}),
		)))
	}
	if notes != "" {
		for _, chunk := range splitEvery(notes, 120) {
			rows = append(rows, row.New(4).Add(col.New(12).Add(
				text.New(chunk, props.Text{Size: 8, Color: colorGray, Top: 0.5}),
			)))
		}
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(legend, props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney miles con punto y 2 decimales con coma.
// Ej: 25000.5 → "25.000,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf) + "," + frac
}

// splitEvery divide s en trozos de max n runas.
func splitEvery(s string, n int) []string {
	r := []rune(s)
	var parts []string
	for len(r) > n {
		parts = append(parts, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
