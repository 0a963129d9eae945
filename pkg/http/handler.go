package http

import "github.com/labstack/echo/v4"

// Handler is implemented by anything that mounts routes onto the server's
// Echo instance; the bot webhook and the REST API register through it.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
