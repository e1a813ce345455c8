package repository

import (
	"context"

	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
)

// PartItemRepository puerto para las unidades físicas de inventario.
// Los métodos de bloqueo deben usarse dentro de una transacción.
type PartItemRepository interface {
	Create(ctx context.Context, item *entity.PartItem) error
	GetByID(ctx context.Context, id string) (*entity.PartItem, error)
	GetByBarCode(ctx context.Context, barCode string) (*entity.PartItem, error)
	// LockAvailable bloquea hasta limit unidades available de la parte, más antiguas primero
	// (added_on, id). Puede devolver menos si otra transacción las tomó mientras esperaba.
	LockAvailable(ctx context.Context, partID string, limit int) ([]*entity.PartItem, error)
	CountAvailable(ctx context.Context, partID string) (int, error)
	// CountReserved unidades reserved de la parte bajo la cotización.
	CountReserved(ctx context.Context, quotationID, partID string) (int, error)
	// Claim marca las unidades como reserved para la cotización. Solo afecta filas available.
	Claim(ctx context.Context, quotationID string, ids []string) (int, error)
	// ReleaseByQuotation devuelve a available todas las unidades reserved de la cotización.
	ReleaseByQuotation(ctx context.Context, quotationID string) (int, error)
	// FinalizeByQuotation pasa a sold todas las unidades reserved de la cotización y las devuelve.
	FinalizeByQuotation(ctx context.Context, quotationID string) ([]*entity.PartItem, error)
	ListByQuotation(ctx context.Context, quotationID string) ([]*entity.PartItem, error)
	StockSummary(ctx context.Context, partID string) (*entity.StockSummary, error)
}
