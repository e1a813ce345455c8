package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	"github.com/jhoicas/Repuestos-api/internal/domain/repository"
)

var _ repository.PartItemRepository = (*PartItemRepo)(nil)

// PartItemRepo unidades físicas de inventario. Los métodos que bloquean o
// modifican estado deben correr dentro de la transacción del TxRunner.
type PartItemRepo struct {
	q Querier
}

// NewPartItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartItemRepository(q Querier) *PartItemRepo {
	return &PartItemRepo{q: q}
}

const partItemColumns = `id, part_id, bar_code, serial_number, location, shelve_location, supplier_id,
	purchase_price, condition, status, quotation_id, added_on, updated_at`

// Create registra una unidad nueva.
func (r *PartItemRepo) Create(ctx context.Context, it *entity.PartItem) error {
	query := `INSERT INTO part_items (` + partItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.PartID, it.BarCode, nullIfEmpty(it.SerialNumber), nullIfEmpty(it.Location),
		nullIfEmpty(it.ShelveLocation), nullIfEmpty(it.SupplierID), it.PurchasePrice,
		it.Condition, it.Status, nullIfEmpty(it.QuotationID), it.AddedOn, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("código de barras %s: %w", it.BarCode, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert part item: %w", err)
	}
	return nil
}

// GetByID unidad por ID o nil.
func (r *PartItemRepo) GetByID(ctx context.Context, id string) (*entity.PartItem, error) {
	it, err := scanPartItem(r.q.QueryRow(ctx, `SELECT `+partItemColumns+` FROM part_items WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part item: %w", err)
	}
	return it, nil
}

// GetByBarCode unidad por código de barras o nil.
func (r *PartItemRepo) GetByBarCode(ctx context.Context, barCode string) (*entity.PartItem, error) {
	it, err := scanPartItem(r.q.QueryRow(ctx, `SELECT `+partItemColumns+` FROM part_items WHERE bar_code = $1`, barCode))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part item by bar code: %w", err)
	}
	return it, nil
}

// LockAvailable SELECT … FOR UPDATE sobre las unidades available más antiguas.
// Si otra transacción cambia una fila mientras esperamos, Postgres la descarta
// sin reemplazo y se devuelven menos de limit.
func (r *PartItemRepo) LockAvailable(ctx context.Context, partID string, limit int) ([]*entity.PartItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+partItemColumns+`
		FROM part_items
		WHERE part_id = $1 AND status = 'available'
		ORDER BY added_on, id
		LIMIT $2
		FOR UPDATE`, partID, limit)
	if err != nil {
		return nil, r.lockErr(partID, err)
	}
	defer rows.Close()
	var list []*entity.PartItem
	for rows.Next() {
		it, err := scanPartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan part item: %w", err)
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, r.lockErr(partID, err)
	}
	return list, nil
}

func (r *PartItemRepo) lockErr(partID string, err error) error {
	if isLockContention(err) {
		return &domain.ReservationContentionError{PartID: partID}
	}
	return fmt.Errorf("lock part items: %w", err)
}

// CountAvailable unidades available de la parte.
func (r *PartItemRepo) CountAvailable(ctx context.Context, partID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM part_items WHERE part_id = $1 AND status = 'available'`, partID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count available: %w", err)
	}
	return n, nil
}

// CountReserved unidades reserved de la parte bajo la cotización.
func (r *PartItemRepo) CountReserved(ctx context.Context, quotationID, partID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM part_items WHERE quotation_id = $1 AND part_id = $2 AND status = 'reserved'`,
		quotationID, partID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count reserved: %w", err)
	}
	return n, nil
}

// Claim reserva las unidades indicadas. La condición status = 'available'
// impide tomar una unidad que otra transacción ya reservó.
func (r *PartItemRepo) Claim(ctx context.Context, quotationID string, ids []string) (int, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE part_items SET status = 'reserved', quotation_id = $1, updated_at = now()
		WHERE id = ANY($2) AND status = 'available'`, quotationID, ids)
	if err != nil {
		if isLockContention(err) {
			return 0, &domain.ReservationContentionError{}
		}
		return 0, fmt.Errorf("claim part items: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

// ReleaseByQuotation devuelve a available las unidades reserved de la cotización.
func (r *PartItemRepo) ReleaseByQuotation(ctx context.Context, quotationID string) (int, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE part_items SET status = 'available', quotation_id = NULL, updated_at = now()
		WHERE quotation_id = $1 AND status = 'reserved'`, quotationID)
	if err != nil {
		return 0, fmt.Errorf("release part items: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

// FinalizeByQuotation pasa a sold las unidades reserved y las devuelve en orden FIFO.
func (r *PartItemRepo) FinalizeByQuotation(ctx context.Context, quotationID string) ([]*entity.PartItem, error) {
	rows, err := r.q.Query(ctx, `
		WITH sold AS (
			UPDATE part_items SET status = 'sold', updated_at = now()
			WHERE quotation_id = $1 AND status = 'reserved'
			RETURNING `+partItemColumns+`
		)
		SELECT `+partItemColumns+` FROM sold ORDER BY added_on, id`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("finalize part items: %w", err)
	}
	return collectPartItems(rows)
}

// ListByQuotation unidades reservadas o vendidas bajo la cotización.
func (r *PartItemRepo) ListByQuotation(ctx context.Context, quotationID string) ([]*entity.PartItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+partItemColumns+` FROM part_items WHERE quotation_id = $1 ORDER BY added_on, id`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("list part items by quotation: %w", err)
	}
	return collectPartItems(rows)
}

// StockSummary conteo por estado en una sola consulta.
func (r *PartItemRepo) StockSummary(ctx context.Context, partID string) (*entity.StockSummary, error) {
	s := &entity.StockSummary{PartID: partID}
	err := r.q.QueryRow(ctx, `
		SELECT
			count(*) FILTER (WHERE status = 'available'),
			count(*) FILTER (WHERE status = 'reserved'),
			count(*) FILTER (WHERE status = 'sold'),
			count(*) FILTER (WHERE status = 'damaged'),
			count(*) FILTER (WHERE status = 'maintenance')
		FROM part_items WHERE part_id = $1`, partID,
	).Scan(&s.Available, &s.Reserved, &s.Sold, &s.Damaged, &s.Maintenance)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	return s, nil
}

type partItemRows interface {
	pgxScanner
	Next() bool
	Err() error
	Close()
}

func collectPartItems(rows partItemRows) ([]*entity.PartItem, error) {
	defer rows.Close()
	var list []*entity.PartItem
	for rows.Next() {
		it, err := scanPartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan part item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func scanPartItem(row pgxScanner) (*entity.PartItem, error) {
	var (
		it                                      entity.PartItem
		serial, location, shelve, supplier, qid *string
	)
	err := row.Scan(
		&it.ID, &it.PartID, &it.BarCode, &serial, &location, &shelve, &supplier,
		&it.PurchasePrice, &it.Condition, &it.Status, &qid, &it.AddedOn, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.SerialNumber = emptyIfNull(serial)
	it.Location = emptyIfNull(location)
	it.ShelveLocation = emptyIfNull(shelve)
	it.SupplierID = emptyIfNull(supplier)
	it.QuotationID = emptyIfNull(qid)
	return &it, nil
}
