package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Repuestos-api/internal/application/dto"
	"github.com/jhoicas/Repuestos-api/internal/domain"
)

// errorStatus traduce errores de dominio a (status, code). El mensaje es el
// texto del error tipado.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrStateConflict):
		return fiber.StatusConflict, "STATE_CONFLICT"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrReservationContention):
		return fiber.StatusServiceUnavailable, "RESERVATION_CONTENTION"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fiber.StatusServiceUnavailable, "TIMEOUT"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		msg = "error interno"
	}
	if status == fiber.StatusServiceUnavailable {
		c.Set(fiber.HeaderRetryAfter, "1")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
