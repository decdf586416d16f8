package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contabilidad-api/pkg/logger"
)

// requestObserver lo implementa *metrics.Recorder.
type requestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Observe registra latencia y estado de cada petición; los 5xx se loguean con su error interno.
func Observe(log *logger.Logger, rec requestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		if rec != nil {
			rec.ObserveRequest(c.Method(), c.Route().Path, status, elapsed)
		}
		if status >= fiber.StatusInternalServerError && log != nil {
			cause, _ := c.Locals(LocalError).(error)
			if cause == nil {
				cause = err
			}
			log.Error().Err(cause).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", status).
				Dur("elapsed", elapsed).
				Msg("petición fallida")
		}
		return err
	}
}
