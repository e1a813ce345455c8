package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part entrada del catálogo (abstracta). Las unidades físicas son PartItem.
type Part struct {
	ID          string
	PartNumber  string
	Name        string
	Description string
	Brand       string
	Price       decimal.Decimal     // precio de venta vigente
	ListPrice   decimal.NullDecimal // precio de referencia antes de descuento
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
