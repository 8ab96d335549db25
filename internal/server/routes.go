package server

import (
	"github.com/dwellsight/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Portfolio query routes
	apiRoutes.GET("/portfolios", routes.GetPortfoliosHandler)
	apiRoutes.GET("/portfolios/:slug", routes.GetPortfolioHandler)
	apiRoutes.GET("/buildings/:bbl/portfolio", routes.GetBuildingPortfolioHandler)

	// Discovery trigger route
	apiRoutes.POST("/discoveries", routes.CreateDiscoveryHandler)
}
