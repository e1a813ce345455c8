// Package events publica los eventos de ciclo de vida de cotizaciones.
package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Repuestos-api/internal/application/quotation"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
)

var _ quotation.EventPublisher = (*LogPublisher)(nil)

// LogPublisher escribe cada evento como una línea estructurada. La capa de
// notificaciones consume el log; no hay broker en este despliegue.
type LogPublisher struct {
	log zerolog.Logger
}

// NewLogPublisher construye el publicador.
func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log.With().Str("component", "events").Logger()}
}

// Publish nunca falla.
func (p *LogPublisher) Publish(_ context.Context, ev entity.QuotationEvent) error {
	e := p.log.Info().
		Str("event", ev.Type).
		Str("quotation_id", ev.QuotationID).
		Str("quotation_number", ev.QuotationNumber).
		Str("status", ev.Status).
		Time("occurred_at", ev.OccurredAt)
	if ev.InvoiceID != "" {
		e = e.Str("invoice_id", ev.InvoiceID).Str("invoice_number", ev.InvoiceNumber)
	}
	if ev.ActorID != "" {
		e = e.Str("actor_id", ev.ActorID)
	}
	e.Msg("evento de cotización")
	return nil
}
