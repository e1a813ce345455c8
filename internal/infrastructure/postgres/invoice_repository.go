package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	"github.com/jhoicas/Repuestos-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, invoice_number, quotation_id, company_id, customer_name, customer_email, customer_phone,
	subtotal, discount_amount, shipping_amount, tax_amount, total_amount, payment_terms, notes,
	issued_at, created_by, created_at`

// Create persiste la cabecera. Una cotización genera a lo sumo una factura
// (UNIQUE quotation_id).
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.QuotationID, nullIfEmpty(inv.CompanyID),
		nullIfEmpty(inv.CustomerName), nullIfEmpty(inv.CustomerEmail), nullIfEmpty(inv.CustomerPhone),
		inv.Subtotal, inv.DiscountAmount, inv.ShippingAmount, inv.TaxAmount, inv.TotalAmount,
		nullIfEmpty(inv.PaymentTerms), nullIfEmpty(inv.Notes),
		inv.IssuedAt, nullIfEmpty(inv.CreatedBy), inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("factura de la cotización %s: %w", inv.QuotationID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea con sus seriales (text[]).
func (r *InvoiceRepo) CreateItem(ctx context.Context, it *entity.InvoiceItem) error {
	serials := it.SerialNumbers
	if serials == nil {
		serials = []string{}
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, quotation_item_id, line_no, part_id, description,
			quantity, unit_price, discount, total_price, serial_numbers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.InvoiceID, nullIfEmpty(it.QuotationItemID), it.LineNo, it.PartID, nullIfEmpty(it.Description),
		it.Quantity, it.UnitPrice, it.Discount, it.TotalPrice, serials,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item line %d: %w", it.LineNo, err)
	}
	return nil
}

// GetByID factura por ID o nil.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.findOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetByQuotationID factura emitida desde la cotización o nil.
func (r *InvoiceRepo) GetByQuotationID(ctx context.Context, quotationID string) (*entity.Invoice, error) {
	return r.findOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE quotation_id = $1`, quotationID)
}

func (r *InvoiceRepo) findOne(ctx context.Context, query string, arg any) (*entity.Invoice, error) {
	var (
		inv                                             entity.Invoice
		companyID, name, email, phone, terms, notes, by *string
	)
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.QuotationID, &companyID, &name, &email, &phone,
		&inv.Subtotal, &inv.DiscountAmount, &inv.ShippingAmount, &inv.TaxAmount, &inv.TotalAmount,
		&terms, &notes, &inv.IssuedAt, &by, &inv.CreatedAt,
	)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.CompanyID = emptyIfNull(companyID)
	inv.CustomerName = emptyIfNull(name)
	inv.CustomerEmail = emptyIfNull(email)
	inv.CustomerPhone = emptyIfNull(phone)
	inv.PaymentTerms = emptyIfNull(terms)
	inv.Notes = emptyIfNull(notes)
	inv.CreatedBy = emptyIfNull(by)
	return &inv, nil
}

// GetItems líneas de la factura por número de línea.
func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, quotation_item_id, line_no, part_id, description,
			quantity, unit_price, discount, total_price, serial_numbers
		FROM invoice_items WHERE invoice_id = $1 ORDER BY line_no`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var (
			it          entity.InvoiceItem
			qItem, desc *string
		)
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &qItem, &it.LineNo, &it.PartID, &desc,
			&it.Quantity, &it.UnitPrice, &it.Discount, &it.TotalPrice, &it.SerialNumbers,
		); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		it.QuotationItemID = emptyIfNull(qItem)
		it.Description = emptyIfNull(desc)
		list = append(list, &it)
	}
	return list, rows.Err()
}

// NextNumber PREFIJO-AÑO-000123 desde la secuencia invoice_number_seq.
func (r *InvoiceRepo) NextNumber(ctx context.Context, prefix string, now time.Time) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, now.Year(), n), nil
}
