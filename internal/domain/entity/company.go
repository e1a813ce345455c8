package entity

import "time"

// Company empresa cliente del directorio. Resuelve companyId -> contacto.
type Company struct {
	ID           string
	Name         string
	TaxID        string
	ContactName  string
	Email        string
	Phone        string
	Address      string
	PaymentTerms string // condiciones por defecto para sus cotizaciones
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
