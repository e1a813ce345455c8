package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrValidation            = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrStateConflict         = errors.New("transición de estado no permitida")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrReservationContention = errors.New("inventario bloqueado por otra operación, reintente")
)

// ValidationError describe una entrada malformada. Line es 1-based; 0 = nivel cotización.
type ValidationError struct {
	Field   string
	Line    int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("línea %d: %s: %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is permite errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError atajo para errores a nivel cotización.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StateConflictError transición ilegal: nombra el estado actual y el solicitado.
type StateConflictError struct {
	Current   string
	Requested string
	Reason    string
}

func (e *StateConflictError) Error() string {
	msg := fmt.Sprintf("no se puede pasar de %q a %q", e.Current, e.Requested)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *StateConflictError) Is(target error) bool { return target == ErrStateConflict }

// InsufficientStockError una línea no pudo reservar todas sus unidades.
type InsufficientStockError struct {
	Line      int
	PartID    string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("línea %d (parte %s): stock insuficiente: solicitadas %d, disponibles %d",
		e.Line, e.PartID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// ReservationContentionError no se obtuvo el bloqueo de las unidades a tiempo. Reintentable.
type ReservationContentionError struct {
	PartID   string
	Attempts int
}

func (e *ReservationContentionError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("parte %s: inventario bloqueado por otra operación tras %d intentos", e.PartID, e.Attempts)
	}
	return fmt.Sprintf("parte %s: inventario bloqueado por otra operación", e.PartID)
}

func (e *ReservationContentionError) Is(target error) bool { return target == ErrReservationContention }
