package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs one line per request. The webhook route is Telegram
// retraffic and the scan routes can legitimately take seconds, so latency and
// response size matter more here than the remote address.
func RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			res := c.Response()
			log.Printf("%s %s -> %d %dB in %s",
				c.Request().Method,
				c.Request().RequestURI,
				res.Status,
				res.Size,
				time.Since(start).Round(time.Millisecond),
			)

			return err
		}
	}
}
