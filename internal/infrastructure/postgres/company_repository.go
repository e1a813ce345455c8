package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	"github.com/jhoicas/Repuestos-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo directorio de empresas cliente sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `
		SELECT id, name, tax_id, contact_name, email, phone, address, payment_terms, status, created_at, updated_at
		FROM companies WHERE id = $1`
	var (
		c                                         entity.Company
		taxID, contact, email, phone, addr, terms *string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &taxID, &contact, &email, &phone, &addr, &terms, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	c.TaxID = emptyIfNull(taxID)
	c.ContactName = emptyIfNull(contact)
	c.Email = emptyIfNull(email)
	c.Phone = emptyIfNull(phone)
	c.Address = emptyIfNull(addr)
	c.PaymentTerms = emptyIfNull(terms)
	return &c, nil
}
