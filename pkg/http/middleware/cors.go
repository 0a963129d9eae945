package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

// CORS returns CORS middleware.
func CORS(cfg CORSConfig) echo.MiddlewareFunc {
	allowMethods := strings.Join(cfg.AllowMethods, ",")
	allowHeaders := strings.Join(cfg.AllowHeaders, ",")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			res := c.Response().Header()

			allowed := ""
			for _, o := range cfg.AllowOrigins {
				if o == "*" || o == origin {
					allowed = o
					break
				}
			}
			if allowed != "" {
				res.Set(echo.HeaderAccessControlAllowOrigin, allowed)
			}

			if c.Request().Method == http.MethodOptions {
				res.Set(echo.HeaderAccessControlAllowMethods, allowMethods)
				res.Set(echo.HeaderAccessControlAllowHeaders, allowHeaders)
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}
