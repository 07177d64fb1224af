package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fileapi/internal/logger"
)

// Logger is a middleware that logs each HTTP request as one JSON entry.
// Fields:
// - request_id (taken from context locals set by RequestID middleware)
// - method
// - path
// - status
// - latency (in milliseconds)
//
// Server errors are logged at error level, client errors at warn.
func Logger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusFromError(err)
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		lvl := zapcore.InfoLevel
		switch {
		case status >= fiber.StatusInternalServerError:
			lvl = zapcore.ErrorLevel
		case status >= fiber.StatusBadRequest:
			lvl = zapcore.WarnLevel
		}

		if ce := log.Check(lvl, "request"); ce != nil {
			ce.Write(
				zap.String("request_id", rid),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
			)
		}

		return err
	}
}

// LoggerWithWriter is Logger over a JSON logger writing to w.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logger.NewWithWriter(w, "info", loc))
}

func statusFromError(err error) int {
	if e, ok := err.(*fiber.Error); ok {
		return e.Code
	}
	return fiber.StatusInternalServerError
}
