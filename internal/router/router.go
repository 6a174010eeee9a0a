// Package router defines how HTTP routes are registered for the control API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-transaction-seeder/internal/handler"
	"github.com/iliyamo/cinema-transaction-seeder/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterRunControl registers the run-control endpoints under /v1 behind
// operator authentication.  The secret must match the one used when
// issuing operator tokens.
func RegisterRunControl(e *echo.Echo, h *handler.RunHandler, secret string) {
	g := e.Group("/v1")
	g.Use(middleware.OperatorAuth(secret))
	g.POST("/runs", h.Start)
	g.GET("/runs/latest", h.Latest)
}
