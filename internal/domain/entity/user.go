package entity

import "time"

// Roles válidos para User.
const (
	RoleSeller   = "seller"
	RoleCustomer = "customer"
)

// User usuario autenticado. Los clientes pueden estar vinculados a una Company.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // seller, customer
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
