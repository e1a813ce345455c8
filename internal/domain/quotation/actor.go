package quotation

import "github.com/jhoicas/Repuestos-api/internal/domain/entity"

// Role rol del actor que ejecuta una operación.
type Role string

const (
	RoleSeller    Role = "seller"
	RoleCustomer  Role = "customer"
	RoleAnonymous Role = "anonymous"
	RoleSystem    Role = "system" // barrido de vencimientos
)

// Actor identidad y rol de quien opera. Se pasa explícitamente en cada llamada
// al servicio; nunca se guarda en estado global.
type Actor struct {
	UserID    string
	CompanyID string
	Role      Role
}

// Anonymous actor sin sesión.
func Anonymous() Actor { return Actor{Role: RoleAnonymous} }

// System actor para transiciones disparadas por tiempo.
func System() Actor { return Actor{Role: RoleSystem} }

// ActorFromClaims traduce los claims del token. Un rol desconocido se trata como anónimo.
func ActorFromClaims(userID, companyID, role string) Actor {
	switch role {
	case entity.RoleSeller:
		return Actor{UserID: userID, CompanyID: companyID, Role: RoleSeller}
	case entity.RoleCustomer:
		return Actor{UserID: userID, CompanyID: companyID, Role: RoleCustomer}
	}
	return Anonymous()
}

// IsSeller el vendedor puede fijar precios, descuentos y envío, y confirmar.
func (a Actor) IsSeller() bool { return a.Role == RoleSeller }

// Owns indica si el actor creó la cotización (o pertenece a su empresa).
func (a Actor) Owns(q *entity.Quotation) bool {
	if a.UserID != "" && q.CreatedBy == a.UserID {
		return true
	}
	return a.Role == RoleCustomer && a.CompanyID != "" && q.CompanyID == a.CompanyID
}

// CanView vendedores ven todo; clientes solo lo propio.
func (a Actor) CanView(q *entity.Quotation) bool {
	return a.IsSeller() || a.Owns(q)
}
