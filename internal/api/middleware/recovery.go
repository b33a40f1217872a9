package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
)

// stackBufSize bounds the stack trace captured per recovered panic.
const stackBufSize = 8 << 10

// Recovery returns Echo middleware that converts a handler panic into a 500
// response. The panic value and a truncated stack trace go to the log; the
// client only ever sees a generic error body.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				stack := make([]byte, stackBufSize)
				stack = stack[:runtime.Stack(stack, false)]

				req := c.Request()
				log.Error("panic recovered",
					"method", req.Method,
					"path", req.URL.Path,
					"error", fmt.Sprint(r),
					"stack", string(stack),
				)

				err = c.JSON(http.StatusInternalServerError, echo.Map{
					"error": "internal server error",
				})
			}()
			return next(c)
		}
	}
}
