// Package documents arma los documentos imprimibles de cotizaciones y facturas
// (PDF y hoja de cálculo) a partir de las entidades persistidas.
package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	"github.com/jhoicas/Repuestos-api/internal/domain/pricing"
	domquote "github.com/jhoicas/Repuestos-api/internal/domain/quotation"
	"github.com/jhoicas/Repuestos-api/internal/domain/repository"
)

// Source lecturas con control de acceso (implementado por quotation.Service).
type Source interface {
	Load(ctx context.Context, actor domquote.Actor, id string) (*entity.Quotation, []*entity.QuotationItem, error)
	LoadInvoice(ctx context.Context, actor domquote.Actor, id string) (*entity.Invoice, []*entity.InvoiceItem, error)
}

// PDFGenerator renderiza documentos a PDF.
type PDFGenerator interface {
	GenerateQuotationPDF(ctx context.Context, doc *QuotationDocument) ([]byte, error)
	GenerateInvoicePDF(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
}

// SheetGenerator exporta la cotización a XLSX.
type SheetGenerator interface {
	GenerateQuotationXLSX(ctx context.Context, doc *QuotationDocument) ([]byte, error)
}

// Line línea lista para imprimir; los montos ya vienen redondeados a 2 decimales.
type Line struct {
	LineNo      int
	PartNumber  string
	Description string
	Quantity    int
	Backorder   int
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	Serials     []string
}

// Totals montos de cabecera redondeados.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Party datos del cliente impresos en el documento.
type Party struct {
	Name    string
	Contact string
	Email   string
	Phone   string
	TaxID   string
	Address string
}

// QuotationDocument cotización lista para renderizar. No incluye notas internas.
type QuotationDocument struct {
	Issuer       string
	Number       string
	Status       string
	CreatedAt    time.Time
	ValidUntil   time.Time
	Customer     Party
	PaymentTerms string
	Notes        string
	TaxRate      decimal.Decimal
	Lines        []Line
	Totals       Totals
}

// InvoiceDocument factura lista para renderizar.
type InvoiceDocument struct {
	Issuer          string
	Number          string
	QuotationNumber string
	IssuedAt        time.Time
	Customer        Party
	PaymentTerms    string
	Notes           string
	Lines           []Line
	Totals          Totals
}

// UseCase genera PDF y XLSX respetando la visibilidad del actor.
type UseCase struct {
	source    Source
	parts     repository.PartRepository
	companies repository.CompanyRepository
	quotes    repository.QuotationRepository
	pdf       PDFGenerator
	sheet     SheetGenerator
	issuer    string
}

// NewUseCase construye el caso de uso inyectando todas sus dependencias.
func NewUseCase(
	source Source,
	parts repository.PartRepository,
	companies repository.CompanyRepository,
	quotes repository.QuotationRepository,
	pdf PDFGenerator,
	sheet SheetGenerator,
	issuer string,
) *UseCase {
	return &UseCase{
		source:    source,
		parts:     parts,
		companies: companies,
		quotes:    quotes,
		pdf:       pdf,
		sheet:     sheet,
		issuer:    issuer,
	}
}

// QuotationPDF devuelve (bytes, nombre de archivo).
func (uc *UseCase) QuotationPDF(ctx context.Context, actor domquote.Actor, id string) ([]byte, string, error) {
	doc, err := uc.quotationDocument(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.GenerateQuotationPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return b, fmt.Sprintf("cotizacion_%s.pdf", doc.Number), nil
}

// QuotationXLSX devuelve (bytes, nombre de archivo).
func (uc *UseCase) QuotationXLSX(ctx context.Context, actor domquote.Actor, id string) ([]byte, string, error) {
	doc, err := uc.quotationDocument(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.sheet.GenerateQuotationXLSX(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("xlsx: generación fallida: %w", err)
	}
	return b, fmt.Sprintf("cotizacion_%s.xlsx", doc.Number), nil
}

// InvoicePDF devuelve (bytes, nombre de archivo).
func (uc *UseCase) InvoicePDF(ctx context.Context, actor domquote.Actor, id string) ([]byte, string, error) {
	inv, items, err := uc.source.LoadInvoice(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	doc := &InvoiceDocument{
		Issuer:       uc.issuer,
		Number:       inv.InvoiceNumber,
		IssuedAt:     inv.IssuedAt,
		PaymentTerms: inv.PaymentTerms,
		Notes:        inv.Notes,
		Totals: Totals{
			Subtotal: pricing.Round(inv.Subtotal),
			Discount: pricing.Round(inv.DiscountAmount),
			Shipping: pricing.Round(inv.ShippingAmount),
			Tax:      pricing.Round(inv.TaxAmount),
			Total:    pricing.Round(inv.TotalAmount),
		},
	}
	if q, err := uc.quotes.GetByID(ctx, inv.QuotationID); err == nil && q != nil {
		doc.QuotationNumber = q.QuotationNumber
	}
	doc.Customer, err = uc.party(ctx, inv.CompanyID, inv.CustomerName, inv.CustomerEmail, inv.CustomerPhone)
	if err != nil {
		return nil, "", err
	}
	for _, it := range items {
		number, desc := uc.describe(ctx, it.PartID, it.Description)
		doc.Lines = append(doc.Lines, Line{
			LineNo:      it.LineNo,
			PartNumber:  number,
			Description: desc,
			Quantity:    it.Quantity,
			UnitPrice:   pricing.Round(it.UnitPrice),
			Discount:    it.Discount,
			Total:       pricing.Round(it.TotalPrice),
			Serials:     it.SerialNumbers,
		})
	}

	b, err := uc.pdf.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return b, fmt.Sprintf("factura_%s.pdf", doc.Number), nil
}

func (uc *UseCase) quotationDocument(ctx context.Context, actor domquote.Actor, id string) (*QuotationDocument, error) {
	q, items, err := uc.source.Load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	doc := &QuotationDocument{
		Issuer:       uc.issuer,
		Number:       q.QuotationNumber,
		Status:       q.Status,
		CreatedAt:    q.CreatedAt,
		ValidUntil:   q.ValidUntil,
		PaymentTerms: q.PaymentTerms,
		Notes:        q.Notes,
		TaxRate:      q.TaxRate,
		Totals: Totals{
			Subtotal: pricing.Round(q.Subtotal),
			Discount: pricing.Round(q.DiscountAmount),
			Shipping: pricing.Round(q.ShippingAmount),
			Tax:      pricing.Round(q.TaxAmount),
			Total:    pricing.Round(q.TotalAmount),
		},
	}
	doc.Customer, err = uc.party(ctx, q.CompanyID, q.CustomerName, q.CustomerEmail, q.CustomerPhone)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		number, desc := uc.describe(ctx, it.PartID, it.Description)
		doc.Lines = append(doc.Lines, Line{
			LineNo:      it.LineNo,
			PartNumber:  number,
			Description: desc,
			Quantity:    it.Quantity,
			Backorder:   it.BackorderQuantity,
			UnitPrice:   pricing.Round(it.UnitPrice),
			Discount:    it.Discount,
			Total:       pricing.Round(it.TotalPrice),
		})
	}
	return doc, nil
}

func (uc *UseCase) party(ctx context.Context, companyID, name, email, phone string) (Party, error) {
	p := Party{Name: name, Contact: name, Email: email, Phone: phone}
	if companyID == "" {
		return p, nil
	}
	c, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return p, fmt.Errorf("obtener empresa: %w", err)
	}
	if c != nil {
		p.Name = c.Name
		p.TaxID = c.TaxID
		p.Address = c.Address
		if p.Contact == "" {
			p.Contact = c.ContactName
		}
	}
	return p, nil
}

// describe número de parte y descripción; si la línea no trae descripción usa el catálogo.
func (uc *UseCase) describe(ctx context.Context, partID, desc string) (string, string) {
	number := partID
	part, err := uc.parts.GetByID(ctx, partID)
	if err != nil || part == nil {
		if desc == "" {
			desc = "Parte " + partID // fallback
		}
		return number, desc
	}
	number = part.PartNumber
	if desc == "" {
		desc = part.Name
	}
	return number, desc
}
