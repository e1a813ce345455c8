// Package reservation asigna unidades físicas (PartItem) a cotizaciones.
//
// Todas las operaciones reciben el repositorio atado a la transacción del caller:
// la reserva, la liberación y la venta se confirman o revierten junto con la
// transición de estado que las disparó.
package reservation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	"github.com/jhoicas/Repuestos-api/internal/domain/repository"
)

// Ledger libro de reservas de inventario. No guarda estado propio.
type Ledger struct {
	log zerolog.Logger
}

// NewLedger construye el ledger.
func NewLedger(log zerolog.Logger) *Ledger {
	return &Ledger{log: log.With().Str("component", "reservation").Logger()}
}

// Request demanda de una línea de cotización. Line es 1-based y solo se usa en errores.
type Request struct {
	Line         int
	QuotationID  string
	PartID       string
	Quantity     int
	AllowPartial bool // back-order: reservar lo que haya y reportar el faltante
}

// Result unidades tomadas en esta llamada y faltante (solo con AllowPartial).
type Result struct {
	UnitIDs         []string
	AlreadyReserved int
	Shortfall       int
}

// Reserve toma Quantity unidades available de la parte (FIFO por added_on) y las
// marca reserved para la cotización. Es todo o nada salvo AllowPartial.
// Solo reserva la diferencia con lo ya reservado, así nunca supera lo pedido.
func (l *Ledger) Reserve(ctx context.Context, units repository.PartItemRepository, req Request) (*Result, error) {
	if req.QuotationID == "" || req.PartID == "" {
		return nil, &domain.ValidationError{Field: "part_id", Line: req.Line, Message: "cotización y parte son obligatorias"}
	}
	if req.Quantity < 1 {
		return nil, &domain.ValidationError{Field: "quantity", Line: req.Line, Message: "debe ser un entero positivo"}
	}

	already, err := units.CountReserved(ctx, req.QuotationID, req.PartID)
	if err != nil {
		return nil, fmt.Errorf("reserva línea %d: %w", req.Line, err)
	}
	res := &Result{AlreadyReserved: already}
	need := req.Quantity - already
	if need <= 0 {
		return res, nil
	}

	locked, err := units.LockAvailable(ctx, req.PartID, need)
	if err != nil {
		return nil, fmt.Errorf("reserva línea %d: %w", req.Line, err)
	}

	if len(locked) < need {
		// Con FOR UPDATE + LIMIT, filas tomadas por otra tx mientras esperábamos se
		// descartan sin reemplazo; si aún hay stock suficiente es contención, no faltante.
		available, err := units.CountAvailable(ctx, req.PartID)
		if err != nil {
			return nil, fmt.Errorf("reserva línea %d: %w", req.Line, err)
		}
		if available >= need {
			return nil, &domain.ReservationContentionError{PartID: req.PartID}
		}
		if !req.AllowPartial {
			return nil, &domain.InsufficientStockError{
				Line: req.Line, PartID: req.PartID,
				Requested: req.Quantity, Available: already + available,
			}
		}
		res.Shortfall = need - len(locked)
	}

	if len(locked) == 0 {
		return res, nil
	}
	ids := make([]string, len(locked))
	for i, u := range locked {
		ids[i] = u.ID
	}
	n, err := units.Claim(ctx, req.QuotationID, ids)
	if err != nil {
		return nil, fmt.Errorf("reserva línea %d: %w", req.Line, err)
	}
	if n != len(ids) {
		return nil, &domain.ReservationContentionError{PartID: req.PartID}
	}
	res.UnitIDs = ids

	l.log.Debug().
		Str("quotation_id", req.QuotationID).
		Str("part_id", req.PartID).
		Int("reserved", n).
		Int("shortfall", res.Shortfall).
		Msg("unidades reservadas")
	return res, nil
}

// Release devuelve a available todas las unidades reservadas por la cotización.
func (l *Ledger) Release(ctx context.Context, units repository.PartItemRepository, quotationID string) (int, error) {
	n, err := units.ReleaseByQuotation(ctx, quotationID)
	if err != nil {
		return 0, fmt.Errorf("liberar reservas: %w", err)
	}
	l.log.Debug().Str("quotation_id", quotationID).Int("released", n).Msg("reservas liberadas")
	return n, nil
}

// Finalize convierte en sold todas las unidades reservadas por la cotización.
// Irreversible desde este componente.
func (l *Ledger) Finalize(ctx context.Context, units repository.PartItemRepository, quotationID string) ([]*entity.PartItem, error) {
	sold, err := units.FinalizeByQuotation(ctx, quotationID)
	if err != nil {
		return nil, fmt.Errorf("finalizar reservas: %w", err)
	}
	l.log.Debug().Str("quotation_id", quotationID).Int("sold", len(sold)).Msg("unidades vendidas")
	return sold, nil
}

// StockSummary conteo por estado de las unidades de una parte.
func (l *Ledger) StockSummary(ctx context.Context, units repository.PartItemRepository, partID string) (*entity.StockSummary, error) {
	if partID == "" {
		return nil, domain.NewValidationError("part_id", "requerido")
	}
	return units.StockSummary(ctx, partID)
}
