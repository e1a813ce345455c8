package quotation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper barrido periódico de vencimientos. Entre barridos la lectura ya
// muestra expired gracias al estado efectivo.
type Sweeper struct {
	svc      *Service
	interval time.Duration
	log      zerolog.Logger
}

// NewSweeper construye el barrido. interval <= 0 usa una hora.
func NewSweeper(svc *Service, interval time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{svc: svc, interval: interval, log: log.With().Str("component", "expiry-sweeper").Logger()}
}

// Run barre una vez al arrancar y luego en cada tick, hasta que ctx se cancele.
func (w *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		w.Sweep(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Sweep una pasada. Devuelve cuántas cotizaciones venció.
func (w *Sweeper) Sweep(ctx context.Context) int {
	n, err := w.svc.ExpireDue(ctx)
	if err != nil && ctx.Err() == nil {
		w.log.Error().Err(err).Int("expired", n).Msg("barrido de vencimientos con errores")
	} else if n > 0 {
		w.log.Info().Int("expired", n).Msg("cotizaciones vencidas")
	}
	return n
}
