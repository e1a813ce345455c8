package repository

import (
	"context"

	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
)

// PartRepository puerto de lectura al catálogo (precio vigente y de lista).
type PartRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Part, error)
	GetByPartNumber(ctx context.Context, partNumber string) (*entity.Part, error)
}
