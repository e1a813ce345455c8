package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	"github.com/jhoicas/Repuestos-api/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

// PartRepo lectura del catálogo de partes.
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador.
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

const partColumns = `id, part_number, name, description, brand, price, list_price, is_active, created_at, updated_at`

// GetByID parte por ID o nil.
func (r *PartRepo) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	p, err := scanPart(r.q.QueryRow(ctx, `SELECT `+partColumns+` FROM parts WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return p, nil
}

// GetByPartNumber parte por número de parte o nil.
func (r *PartRepo) GetByPartNumber(ctx context.Context, partNumber string) (*entity.Part, error) {
	p, err := scanPart(r.q.QueryRow(ctx, `SELECT `+partColumns+` FROM parts WHERE part_number = $1`, partNumber))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part by number: %w", err)
	}
	return p, nil
}

func scanPart(row pgxScanner) (*entity.Part, error) {
	var (
		p           entity.Part
		desc, brand *string
	)
	if err := row.Scan(
		&p.ID, &p.PartNumber, &p.Name, &desc, &brand, &p.Price, &p.ListPrice, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Description = emptyIfNull(desc)
	p.Brand = emptyIfNull(brand)
	return &p, nil
}
