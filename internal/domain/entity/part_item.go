package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Condición física de una unidad.
const (
	PartConditionNew         = "new"
	PartConditionRefurbished = "refurbished"
	PartConditionUsed        = "used"
	PartConditionDamaged     = "damaged"
)

// Estado de disponibilidad de una unidad.
const (
	PartItemStatusAvailable   = "available"
	PartItemStatusReserved    = "reserved"
	PartItemStatusSold        = "sold"
	PartItemStatusDamaged     = "damaged"
	PartItemStatusMaintenance = "maintenance"
)

// PartItem unidad física rastreable de una parte.
// QuotationID está presente si y solo si Status es reserved o sold.
type PartItem struct {
	ID             string
	PartID         string
	BarCode        string
	SerialNumber   string
	Location       string
	ShelveLocation string
	SupplierID     string
	PurchasePrice  decimal.NullDecimal
	Condition      string
	Status         string
	QuotationID    string
	AddedOn        time.Time
	UpdatedAt      time.Time
}

// Claimed indica si la unidad está comprometida con una cotización.
func (p *PartItem) Claimed() bool {
	return p.Status == PartItemStatusReserved || p.Status == PartItemStatusSold
}

// Identifier serial si existe, si no el código de barras.
func (p *PartItem) Identifier() string {
	if p.SerialNumber != "" {
		return p.SerialNumber
	}
	return p.BarCode
}

// ValidPartCondition valida la condición declarada de una unidad.
func ValidPartCondition(c string) bool {
	switch c {
	case PartConditionNew, PartConditionRefurbished, PartConditionUsed, PartConditionDamaged:
		return true
	}
	return false
}

// ValidPartItemStatus valida el estado de una unidad.
func ValidPartItemStatus(s string) bool {
	switch s {
	case PartItemStatusAvailable, PartItemStatusReserved, PartItemStatusSold,
		PartItemStatusDamaged, PartItemStatusMaintenance:
		return true
	}
	return false
}

// StockSummary conteo de unidades de una parte por estado.
type StockSummary struct {
	PartID      string
	Available   int
	Reserved    int
	Sold        int
	Damaged     int
	Maintenance int
}

// Total suma de todas las unidades de la parte.
func (s StockSummary) Total() int {
	return s.Available + s.Reserved + s.Sold + s.Damaged + s.Maintenance
}
