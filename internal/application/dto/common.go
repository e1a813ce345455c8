package dto

const (
	// DefaultPageSize tamaño de página cuando el cliente no envía limit.
	DefaultPageSize = 20
	// MaxPageSize tope de filas por página en listados de cotizaciones.
	MaxPageSize = 100
)

// PageRequest ventana limit/offset de GET /api/quotations.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage normaliza la ventana: limit en [1, MaxPageSize], offset >= 0.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageSize
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse ventana efectivamente aplicada. HasMore indica que existe al
// menos una fila después de la página.
type PageResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// ErrorResponse cuerpo de error de la API; Code es estable, Message legible.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
