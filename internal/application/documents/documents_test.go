package documents_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Repuestos-api/internal/application/documents"
	"github.com/jhoicas/Repuestos-api/internal/application/dto"
	"github.com/jhoicas/Repuestos-api/internal/application/quotation"
	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	domquote "github.com/jhoicas/Repuestos-api/internal/domain/quotation"
	"github.com/jhoicas/Repuestos-api/internal/testhelpers"
)

var (
	seller   = domquote.Actor{UserID: "u-seller", Role: domquote.RoleSeller}
	customer = domquote.Actor{UserID: "u-customer", Role: domquote.RoleCustomer, CompanyID: "C1"}
	other    = domquote.Actor{UserID: "u-other", Role: domquote.RoleCustomer}
)

// captura el documento recibido en lugar de renderizarlo.
type fakeRenderer struct {
	quote   *documents.QuotationDocument
	invoice *documents.InvoiceDocument
	fail    error
}

func (r *fakeRenderer) GenerateQuotationPDF(_ context.Context, doc *documents.QuotationDocument) ([]byte, error) {
	r.quote = doc
	return []byte("%PDF"), r.fail
}

func (r *fakeRenderer) GenerateInvoicePDF(_ context.Context, doc *documents.InvoiceDocument) ([]byte, error) {
	r.invoice = doc
	return []byte("%PDF"), r.fail
}

func (r *fakeRenderer) GenerateQuotationXLSX(_ context.Context, doc *documents.QuotationDocument) ([]byte, error) {
	r.quote = doc
	return []byte("PK"), r.fail
}

func setup(t *testing.T) (*quotation.Service, *documents.UseCase, *fakeRenderer, *testhelpers.Store) {
	t.Helper()
	store := testhelpers.NewStore()
	store.AddPart("A", "100", "120")
	store.AddCompany(&entity.Company{ID: "C1", Name: "Minera Andina", TaxID: "900123456", ContactName: "Laura Ríos", Email: "compras@andina.test"})
	store.AddUnits("A", 2, time.Now().Add(-time.Hour))

	svc := quotation.NewService(quotation.Deps{
		Tx:        store,
		Quotes:    store.Quotations(),
		Units:     store.PartItems(),
		Invoices:  store.Invoices(),
		Parts:     store.Parts(),
		Companies: store.Companies(),
	}, quotation.DefaultConfig(), zerolog.Nop())
	r := &fakeRenderer{}
	uc := documents.NewUseCase(svc, store.Parts(), store.Companies(), store.Quotations(), r, r, "Repuestos Pesados S.A.S.")
	return svc, uc, r, store
}

func TestQuotationPDF_ArmaDocumento(t *testing.T) {
	svc, uc, r, _ := setup(t)
	ctx := context.Background()

	q, err := svc.Create(ctx, customer, dto.CreateQuotationRequest{
		Items:         []dto.DraftLine{{PartID: "A", Quantity: 2}},
		InternalNotes: "",
		Notes:         "Entrega en faena",
	})
	require.NoError(t, err)

	b, name, err := uc.QuotationPDF(ctx, customer, q.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
	assert.Equal(t, "cotizacion_"+q.QuotationNumber+".pdf", name)

	doc := r.quote
	require.NotNil(t, doc)
	assert.Equal(t, "Repuestos Pesados S.A.S.", doc.Issuer)
	assert.Equal(t, "Minera Andina", doc.Customer.Name)
	assert.Equal(t, "Laura Ríos", doc.Customer.Contact)
	assert.Equal(t, "900123456", doc.Customer.TaxID)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "PN-A", doc.Lines[0].PartNumber)
	assert.Equal(t, "Parte A", doc.Lines[0].Description)
	assert.Equal(t, "217.00", doc.Totals.Total.StringFixed(2))
	assert.Equal(t, "Entrega en faena", doc.Notes)
}

func TestQuotationXLSX_RespetaVisibilidad(t *testing.T) {
	svc, uc, _, _ := setup(t)
	ctx := context.Background()

	q, err := svc.Create(ctx, customer, dto.CreateQuotationRequest{Items: []dto.DraftLine{{PartID: "A", Quantity: 1}}})
	require.NoError(t, err)

	_, _, err = uc.QuotationXLSX(ctx, other, q.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden), err)

	_, name, err := uc.QuotationXLSX(ctx, seller, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "cotizacion_"+q.QuotationNumber+".xlsx", name)
}

func TestInvoicePDF_IncluyeSeriales(t *testing.T) {
	svc, uc, r, _ := setup(t)
	ctx := context.Background()

	q, err := svc.Create(ctx, seller, dto.CreateQuotationRequest{
		CompanyID: "C1",
		Items:     []dto.DraftLine{{PartID: "A", Quantity: 2}},
		Submit:    true,
	})
	require.NoError(t, err)
	require.Equal(t, entity.QuotationStatusConfirmed, q.Status)

	inv, err := svc.ConvertToInvoice(ctx, seller, q.ID)
	require.NoError(t, err)

	_, name, err := uc.InvoicePDF(ctx, customer, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "factura_"+inv.InvoiceNumber+".pdf", name)

	doc := r.invoice
	require.NotNil(t, doc)
	assert.Equal(t, q.QuotationNumber, doc.QuotationNumber)
	require.Len(t, doc.Lines, 1)
	assert.Len(t, doc.Lines[0].Serials, 2)
	assert.Equal(t, inv.TotalAmount.StringFixed(2), doc.Totals.Total.StringFixed(2))
}

func TestQuotationPDF_ErrorDelGenerador(t *testing.T) {
	svc, uc, r, _ := setup(t)
	ctx := context.Background()
	r.fail = errors.New("fuente no disponible")

	q, err := svc.Create(ctx, seller, dto.CreateQuotationRequest{CompanyID: "C1", Items: []dto.DraftLine{{PartID: "A", Quantity: 1}}})
	require.NoError(t, err)

	_, _, err = uc.QuotationPDF(ctx, seller, q.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuente no disponible")
}

func TestQuotationPDF_NoEncontrada(t *testing.T) {
	_, uc, _, _ := setup(t)
	_, _, err := uc.QuotationPDF(context.Background(), seller, "00000000-0000-0000-0000-000000000000")
	assert.True(t, errors.Is(err, domain.ErrNotFound), err)
}
