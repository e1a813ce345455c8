package quotation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Repuestos-api/internal/application/reservation"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	"github.com/jhoicas/Repuestos-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con repos atados a ella. Si fn
// devuelve error (o el contexto se cancela) no queda nada escrito.
type TxRunner interface {
	RunQuotation(ctx context.Context, fn func(
		quoteRepo repository.QuotationRepository,
		unitRepo repository.PartItemRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// EventPublisher recibe los eventos de ciclo de vida después del commit.
type EventPublisher interface {
	Publish(ctx context.Context, ev entity.QuotationEvent) error
}

// Deps colaboradores del servicio. Los repos sueltos se usan solo para lecturas
// fuera de transacción.
type Deps struct {
	Tx        TxRunner
	Quotes    repository.QuotationRepository
	Units     repository.PartItemRepository
	Invoices  repository.InvoiceRepository
	Parts     repository.PartRepository
	Companies repository.CompanyRepository
	Ledger    *reservation.Ledger
	Events    EventPublisher
	Clock     func() time.Time
}

// Config parámetros de negocio.
type Config struct {
	ValidityDays   int
	TaxRate        decimal.Decimal // fracción, tarifa plana
	AllowBackorder bool
	MaxRetries     int           // reintentos ante contención, además del primer intento
	RetryBackoff   time.Duration // espera inicial, se duplica en cada reintento
	NumberPrefix   string
	InvoicePrefix  string
	ExpiryBatch    int
}

// DefaultConfig valores por defecto: 30 días, 8.5%, todo o nada.
func DefaultConfig() Config {
	return Config{
		ValidityDays:  30,
		TaxRate:       decimal.RequireFromString("0.085"),
		MaxRetries:    3,
		RetryBackoff:  50 * time.Millisecond,
		NumberPrefix:  "COT",
		InvoicePrefix: "FAC",
		ExpiryBatch:   100,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ValidityDays <= 0 {
		c.ValidityDays = d.ValidityDays
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = d.RetryBackoff
	}
	if c.NumberPrefix == "" {
		c.NumberPrefix = d.NumberPrefix
	}
	if c.InvoicePrefix == "" {
		c.InvoicePrefix = d.InvoicePrefix
	}
	if c.ExpiryBatch <= 0 {
		c.ExpiryBatch = d.ExpiryBatch
	}
	return c
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, entity.QuotationEvent) error { return nil }
