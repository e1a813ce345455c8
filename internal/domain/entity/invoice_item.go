package entity

import "github.com/shopspring/decimal"

// InvoiceItem línea de factura. SerialNumbers lista las unidades despachadas
// (serial o código de barras).
type InvoiceItem struct {
	ID              string
	InvoiceID       string
	QuotationItemID string // vacío si la línea no viene de una cotización
	LineNo          int
	PartID          string
	Description     string
	Quantity        int
	UnitPrice       decimal.Decimal
	Discount        decimal.Decimal
	TotalPrice      decimal.Decimal
	SerialNumbers   []string
}
