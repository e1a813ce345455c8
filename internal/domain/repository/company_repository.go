package repository

import (
	"context"

	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
)

// CompanyRepository directorio de empresas cliente.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Company, error)
}
