package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
)

// QuotationFilter filtros para listar cotizaciones.
// Con Now distinto de cero, Status se compara contra el estado efectivo: una
// cotización no terminal con valid_until < Now cuenta como expired.
type QuotationFilter struct {
	Status    string
	Now       time.Time
	CompanyID string
	CreatedBy string
	Limit     int
	Offset    int
}

// QuotationRepository puerto de persistencia para cotizaciones e ítems.
type QuotationRepository interface {
	Create(ctx context.Context, q *entity.Quotation) error
	// Update persiste cabecera: totales, estado y auditoría.
	Update(ctx context.Context, q *entity.Quotation) error
	GetByID(ctx context.Context, id string) (*entity.Quotation, error)
	// GetForUpdate bloquea la fila de la cotización (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Quotation, error)
	List(ctx context.Context, f QuotationFilter) ([]*entity.Quotation, error)
	// ReplaceItems borra y vuelve a insertar los ítems de la cotización.
	ReplaceItems(ctx context.Context, quotationID string, items []*entity.QuotationItem) error
	UpdateItem(ctx context.Context, item *entity.QuotationItem) error
	GetItems(ctx context.Context, quotationID string) ([]*entity.QuotationItem, error)
	// ListExpirable IDs de cotizaciones no terminales con valid_until < now.
	ListExpirable(ctx context.Context, now time.Time, limit int) ([]string, error)
	// NextNumber siguiente número legible (COT-2026-000123).
	NextNumber(ctx context.Context, prefix string, now time.Time) (string, error)
}
