package quotation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Repuestos-api/internal/domain"
)

// withRetry reintenta fn solo ante contención de inventario, con espera
// exponencial y un número acotado de intentos. Cualquier otro error sale tal cual.
func (s *Service) withRetry(ctx context.Context, op string, fn func() error) error {
	attempts := s.cfg.MaxRetries + 1
	wait := s.cfg.RetryBackoff

	var err error
	for i := 1; i <= attempts; i++ {
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrReservationContention) {
			return err
		}
		if i == attempts {
			break
		}
		s.log.Warn().Err(err).Str("op", op).Int("attempt", i).Dur("backoff", wait).Msg("contención de inventario, reintentando")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}
		wait *= 2
	}

	var ce *domain.ReservationContentionError
	if errors.As(err, &ce) {
		ce.Attempts = attempts
	}
	return err
}
