// Package quotation define la máquina de estados de una cotización y quién
// puede disparar cada transición.
//
//	draft ──submit(cliente)──> pending ──confirm(vendedor)──> confirmed ──invoice(vendedor)──> invoiced
//	  └──────submit(vendedor)──────────────────────────────────┘
//	draft|pending|confirmed ──cancel──> cancelled
//	draft|pending|confirmed ──expire(sistema)──> expired
package quotation

import (
	"fmt"
	"time"

	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
)

// Action acción solicitada sobre una cotización.
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionConfirm Action = "confirm"
	ActionInvoice Action = "invoice"
	ActionCancel  Action = "cancel"
	ActionExpire  Action = "expire"
)

// Guard datos que las precondiciones necesitan, calculados por el servicio.
type Guard struct {
	ItemCount    int
	HasContact   bool
	OwnedByActor bool
	Now          time.Time
	ValidUntil   time.Time
}

func (g Guard) expired() bool { return g.Now.After(g.ValidUntil) }

// Target estado destino de la acción para el actor dado. Un vendedor que envía
// pasa directo a confirmed; cualquier otro queda en pending.
func Target(action Action, actor Actor) string {
	switch action {
	case ActionSubmit:
		if actor.IsSeller() {
			return entity.QuotationStatusConfirmed
		}
		return entity.QuotationStatusPending
	case ActionConfirm:
		return entity.QuotationStatusConfirmed
	case ActionInvoice:
		return entity.QuotationStatusInvoiced
	case ActionCancel:
		return entity.QuotationStatusCancelled
	case ActionExpire:
		return entity.QuotationStatusExpired
	}
	return string(action)
}

// Transition valida la acción y devuelve el nuevo estado. El orden de chequeo es:
// estado y vigencia (StateConflict), rol (Forbidden), precondiciones. Así una cotización
// terminal siempre responde StateConflict sin importar quién lo intente.
func Transition(current string, action Action, actor Actor, g Guard) (string, error) {
	target := Target(action, actor)
	conflict := func(reason string) error {
		return &domain.StateConflictError{Current: current, Requested: target, Reason: reason}
	}

	if IsTerminal(current) {
		return "", conflict("la cotización está en un estado terminal")
	}
	// Vencida en lectura es vencida para toda acción salvo el propio vencimiento.
	if action != ActionExpire && g.expired() {
		return "", &domain.StateConflictError{Current: entity.QuotationStatusExpired, Requested: target, Reason: "la cotización está vencida"}
	}

	switch action {
	case ActionSubmit:
		if current != entity.QuotationStatusDraft {
			return "", conflict("solo se envían cotizaciones en borrador")
		}
		if actor.Role == RoleSystem {
			return "", fmt.Errorf("%w: el sistema no envía cotizaciones", domain.ErrForbidden)
		}
		if !actor.IsSeller() && !g.OwnedByActor {
			return "", fmt.Errorf("%w: la cotización pertenece a otro cliente", domain.ErrForbidden)
		}
		if g.ItemCount < 1 {
			return "", domain.NewValidationError("items", "la cotización no tiene ítems")
		}
		if !actor.IsSeller() && !g.HasContact {
			return "", domain.NewValidationError("customer", "se requiere nombre y email de contacto o una empresa vinculada")
		}

	case ActionConfirm:
		if current != entity.QuotationStatusDraft && current != entity.QuotationStatusPending {
			return "", conflict("solo se confirman cotizaciones en borrador o pendientes")
		}
		if !actor.IsSeller() {
			return "", fmt.Errorf("%w: solo el vendedor puede confirmar", domain.ErrForbidden)
		}
		if g.ItemCount < 1 {
			return "", domain.NewValidationError("items", "la cotización no tiene ítems")
		}

	case ActionInvoice:
		if current != entity.QuotationStatusConfirmed {
			return "", conflict("solo se facturan cotizaciones confirmadas")
		}
		if !actor.IsSeller() {
			return "", fmt.Errorf("%w: solo el vendedor puede facturar", domain.ErrForbidden)
		}

	case ActionCancel:
		switch actor.Role {
		case RoleSeller:
		case RoleCustomer, RoleAnonymous:
			if current != entity.QuotationStatusDraft || !g.OwnedByActor {
				return "", fmt.Errorf("%w: el cliente solo puede cancelar sus propios borradores", domain.ErrForbidden)
			}
		default:
			return "", fmt.Errorf("%w: cancelación no permitida para el rol %s", domain.ErrForbidden, actor.Role)
		}

	case ActionExpire:
		if actor.Role != RoleSystem {
			return "", fmt.Errorf("%w: el vencimiento lo aplica el sistema", domain.ErrForbidden)
		}
		if !g.expired() {
			return "", conflict("la cotización sigue vigente")
		}

	default:
		return "", domain.NewValidationError("action", fmt.Sprintf("acción desconocida %q", action))
	}
	return target, nil
}

// IsTerminal invoiced, cancelled y expired no admiten transiciones.
func IsTerminal(status string) bool {
	switch status {
	case entity.QuotationStatusInvoiced, entity.QuotationStatusCancelled, entity.QuotationStatusExpired:
		return true
	}
	return false
}

// EffectiveStatus estado visible en lectura: una cotización no terminal con
// validUntil vencido se muestra como expired aunque el barrido no haya pasado.
func EffectiveStatus(status string, validUntil, now time.Time) string {
	if !IsTerminal(status) && now.After(validUntil) {
		return entity.QuotationStatusExpired
	}
	return status
}

// ItemsEditable los ítems solo cambian en draft o pending; el cliente solo en lo propio.
func ItemsEditable(status string, actor Actor, owned bool) error {
	if status != entity.QuotationStatusDraft && status != entity.QuotationStatusPending {
		return &domain.StateConflictError{Current: status, Requested: status, Reason: "los ítems solo se modifican en borrador o pendiente"}
	}
	if actor.IsSeller() {
		return nil
	}
	if !owned {
		return fmt.Errorf("%w: la cotización pertenece a otro cliente", domain.ErrForbidden)
	}
	return nil
}
