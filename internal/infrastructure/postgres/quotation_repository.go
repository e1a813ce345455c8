package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	"github.com/jhoicas/Repuestos-api/internal/domain/repository"
)

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

// QuotationRepo implementación de QuotationRepository (usable con pool o tx).
type QuotationRepo struct {
	q Querier
}

// NewQuotationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

const quotationColumns = `id, quotation_number, company_id, customer_name, customer_email, customer_phone,
	subtotal, discount_percent, discount_amount, shipping_amount, tax_rate, tax_amount, total_amount,
	status, valid_until, payment_terms, notes, internal_notes,
	created_by, confirmed_by, confirmed_at, cancelled_at, created_at, updated_at`

const quotationItemColumns = `id, quotation_id, line_no, part_id, description, quantity,
	unit_price, list_price, discount, total_price, backorder_quantity, created_at`

// Create persiste la cabecera.
func (r *QuotationRepo) Create(ctx context.Context, q *entity.Quotation) error {
	query := `INSERT INTO quotations (` + quotationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`
	_, err := r.q.Exec(ctx, query,
		q.ID, q.QuotationNumber, nullIfEmpty(q.CompanyID),
		nullIfEmpty(q.CustomerName), nullIfEmpty(q.CustomerEmail), nullIfEmpty(q.CustomerPhone),
		q.Subtotal, q.DiscountPercent, q.DiscountAmount, q.ShippingAmount, q.TaxRate, q.TaxAmount, q.TotalAmount,
		q.Status, q.ValidUntil, nullIfEmpty(q.PaymentTerms), nullIfEmpty(q.Notes), nullIfEmpty(q.InternalNotes),
		nullIfEmpty(q.CreatedBy), nullIfEmpty(q.ConfirmedBy), q.ConfirmedAt, q.CancelledAt, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número %s: %w", q.QuotationNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert quotation: %w", err)
	}
	return nil
}

// Update persiste totales, ajustes, estado y auditoría. El número y el creador no cambian.
func (r *QuotationRepo) Update(ctx context.Context, q *entity.Quotation) error {
	query := `
		UPDATE quotations SET
			company_id = $2, customer_name = $3, customer_email = $4, customer_phone = $5,
			subtotal = $6, discount_percent = $7, discount_amount = $8, shipping_amount = $9,
			tax_rate = $10, tax_amount = $11, total_amount = $12, status = $13, valid_until = $14,
			payment_terms = $15, notes = $16, internal_notes = $17,
			confirmed_by = $18, confirmed_at = $19, cancelled_at = $20, updated_at = $21
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		q.ID, nullIfEmpty(q.CompanyID),
		nullIfEmpty(q.CustomerName), nullIfEmpty(q.CustomerEmail), nullIfEmpty(q.CustomerPhone),
		q.Subtotal, q.DiscountPercent, q.DiscountAmount, q.ShippingAmount,
		q.TaxRate, q.TaxAmount, q.TotalAmount, q.Status, q.ValidUntil,
		nullIfEmpty(q.PaymentTerms), nullIfEmpty(q.Notes), nullIfEmpty(q.InternalNotes),
		nullIfEmpty(q.ConfirmedBy), q.ConfirmedAt, q.CancelledAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quotation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene la cabecera o nil si no existe.
func (r *QuotationRepo) GetByID(ctx context.Context, id string) (*entity.Quotation, error) {
	q, err := scanQuotation(r.q.QueryRow(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	return q, nil
}

// GetForUpdate bloquea la fila; si el lock_timeout vence es contención reintentable.
func (r *QuotationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Quotation, error) {
	q, err := scanQuotation(r.q.QueryRow(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		if isLockContention(err) {
			return nil, fmt.Errorf("bloquear cotización %s: %w", id, domain.ErrReservationContention)
		}
		return nil, fmt.Errorf("lock quotation: %w", err)
	}
	return q, nil
}

// List cotizaciones filtradas, más recientes primero.
func (r *QuotationRepo) List(ctx context.Context, f repository.QuotationFilter) ([]*entity.Quotation, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	switch {
	case f.Status == "":
	case f.Now.IsZero() || f.Status == entity.QuotationStatusInvoiced || f.Status == entity.QuotationStatusCancelled:
		add("status = $%d", f.Status)
	case f.Status == entity.QuotationStatusExpired:
		add("(status = 'expired' OR (status IN ('draft', 'pending', 'confirmed') AND valid_until < $%d))", f.Now)
	default:
		add("status = $%d", f.Status)
		add("valid_until >= $%d", f.Now)
	}
	if f.CompanyID != "" {
		add("company_id = $%d", f.CompanyID)
	}
	if f.CreatedBy != "" {
		add("created_by = $%d", f.CreatedBy)
	}
	query := `SELECT ` + quotationColumns + ` FROM quotations`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	var limit any // LIMIT NULL = sin límite
	if f.Limit > 0 {
		limit = f.Limit
	}
	args = append(args, limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// ReplaceItems borra y vuelve a insertar los ítems.
func (r *QuotationRepo) ReplaceItems(ctx context.Context, quotationID string, items []*entity.QuotationItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM quotation_items WHERE quotation_id = $1`, quotationID); err != nil {
		return fmt.Errorf("delete quotation items: %w", err)
	}
	query := `INSERT INTO quotation_items (` + quotationItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, it := range items {
		_, err := r.q.Exec(ctx, query,
			it.ID, quotationID, it.LineNo, it.PartID, nullIfEmpty(it.Description), it.Quantity,
			it.UnitPrice, it.ListPrice, it.Discount, it.TotalPrice, it.BackorderQuantity, it.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert quotation item line %d: %w", it.LineNo, err)
		}
	}
	return nil
}

// UpdateItem persiste los derivados de un ítem (total y back-order). Precio y
// cantidad son la foto original y no se tocan.
func (r *QuotationRepo) UpdateItem(ctx context.Context, it *entity.QuotationItem) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE quotation_items SET total_price = $2, backorder_quantity = $3 WHERE id = $1`,
		it.ID, it.TotalPrice, it.BackorderQuantity,
	)
	if err != nil {
		return fmt.Errorf("update quotation item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetItems ítems por número de línea.
func (r *QuotationRepo) GetItems(ctx context.Context, quotationID string) ([]*entity.QuotationItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+quotationItemColumns+` FROM quotation_items WHERE quotation_id = $1 ORDER BY line_no`,
		quotationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list quotation items: %w", err)
	}
	defer rows.Close()
	var list []*entity.QuotationItem
	for rows.Next() {
		var (
			it   entity.QuotationItem
			desc *string
		)
		if err := rows.Scan(
			&it.ID, &it.QuotationID, &it.LineNo, &it.PartID, &desc, &it.Quantity,
			&it.UnitPrice, &it.ListPrice, &it.Discount, &it.TotalPrice, &it.BackorderQuantity, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quotation item: %w", err)
		}
		it.Description = emptyIfNull(desc)
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListExpirable IDs no terminales con valid_until vencido, los más viejos primero.
func (r *QuotationRepo) ListExpirable(ctx context.Context, now time.Time, limit int) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id FROM quotations
		WHERE status IN ('draft', 'pending', 'confirmed') AND valid_until < $1
		ORDER BY valid_until, id
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expirable quotations: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan quotation id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// NextNumber PREFIJO-AÑO-000123 desde la secuencia quotation_number_seq.
func (r *QuotationRepo) NextNumber(ctx context.Context, prefix string, now time.Time) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('quotation_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next quotation number: %w", err)
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, now.Year(), n), nil
}

func scanQuotation(row pgxScanner) (*entity.Quotation, error) {
	var (
		q                             entity.Quotation
		companyID, name, email, phone *string
		terms, notes, internal        *string
		createdBy, confirmedBy        *string
	)
	err := row.Scan(
		&q.ID, &q.QuotationNumber, &companyID, &name, &email, &phone,
		&q.Subtotal, &q.DiscountPercent, &q.DiscountAmount, &q.ShippingAmount, &q.TaxRate, &q.TaxAmount, &q.TotalAmount,
		&q.Status, &q.ValidUntil, &terms, &notes, &internal,
		&createdBy, &confirmedBy, &q.ConfirmedAt, &q.CancelledAt, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	q.CompanyID = emptyIfNull(companyID)
	q.CustomerName = emptyIfNull(name)
	q.CustomerEmail = emptyIfNull(email)
	q.CustomerPhone = emptyIfNull(phone)
	q.PaymentTerms = emptyIfNull(terms)
	q.Notes = emptyIfNull(notes)
	q.InternalNotes = emptyIfNull(internal)
	q.CreatedBy = emptyIfNull(createdBy)
	q.ConfirmedBy = emptyIfNull(confirmedBy)
	return &q, nil
}
