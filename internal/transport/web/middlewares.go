package web

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"
)

func (s *Server) accessLogMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now().UTC()

			err := next(c)

			traceID := uuid.NewString()

			if sc := trace.SpanContextFromContext(c.Request().Context()); sc.IsValid() {
				traceID = sc.TraceID().String()
			}

			s.l.LogInfo(
				"type: access, method: %s, url: %s, status: %d, userAgent: %s, traceID: %s, latency: %s",
				c.Request().Method,
				c.Request().URL.Path,
				c.Response().Status,
				c.Request().UserAgent(),
				traceID,
				time.Since(start),
			)

			return err
		}
	}
}
