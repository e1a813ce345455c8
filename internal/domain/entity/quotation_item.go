package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotationItem línea persistida de una cotización. UnitPrice y ListPrice son
// la foto del catálogo al momento de agregar la línea y no cambian después.
type QuotationItem struct {
	ID                string
	QuotationID       string
	LineNo            int
	PartID            string
	Description       string
	Quantity          int
	UnitPrice         decimal.Decimal
	ListPrice         decimal.NullDecimal
	Discount          decimal.Decimal // porcentaje de descuento de línea [0,50]
	TotalPrice        decimal.Decimal
	BackorderQuantity int // unidades no reservadas por política de back-order
	CreatedAt         time.Time
}
