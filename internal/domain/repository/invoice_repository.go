package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
)

// InvoiceRepository puerto de persistencia para facturas y sus ítems.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByQuotationID(ctx context.Context, quotationID string) (*entity.Invoice, error)
	GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	NextNumber(ctx context.Context, prefix string, now time.Time) (string, error)
}
