package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// RequestLog returns Echo middleware that emits one structured log line per
// request after the handler finishes. Callers may supply their own request ID
// in the X-Request-ID header; otherwise one is minted here. Either way the ID
// is echoed back in the response and stashed on the echo context for handlers
// downstream.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			reqID := ensureRequestID(c)

			err := next(c)

			req := c.Request()
			log.Info("request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", c.RealIP(),
				"request_id", reqID,
			)
			return err
		}
	}
}

// ensureRequestID resolves the request ID for this request, minting one when
// the caller sent none, and propagates it to the response and echo context.
func ensureRequestID(c echo.Context) string {
	reqID := c.Request().Header.Get(requestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	c.Set("request_id", reqID)
	c.Response().Header().Set(requestIDHeader, reqID)
	return reqID
}
