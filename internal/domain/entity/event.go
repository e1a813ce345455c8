package entity

import "time"

// Tipos de evento emitidos hacia la capa de documentos/notificaciones.
const (
	EventQuotationSubmitted = "quotation.submitted"
	EventQuotationConfirmed = "quotation.confirmed"
	EventQuotationCancelled = "quotation.cancelled"
	EventQuotationExpired   = "quotation.expired"
	EventInvoiceCreated     = "invoice.created"
)

// QuotationEvent evento de ciclo de vida, publicado tras el commit.
type QuotationEvent struct {
	Type            string
	QuotationID     string
	QuotationNumber string
	Status          string
	InvoiceID       string
	InvoiceNumber   string
	ActorID         string
	OccurredAt      time.Time
}
