package routes

import (
	"errors"
	"net/http"

	"github.com/dwellsight/backend/internal/server/middleware"
	"github.com/dwellsight/backend/pkg/logger"
	"github.com/dwellsight/backend/pkg/store"
	pgstore "github.com/dwellsight/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// GetPortfoliosHandler lists all portfolios ordered descending by an
// aggregate: ?sort=units (default), value, or buildings.
func GetPortfoliosHandler(c echo.Context) error {
	sortField := store.SortByUnits
	switch c.QueryParam("sort") {
	case "", "units":
	case "value":
		sortField = store.SortByValue
	case "buildings":
		sortField = store.SortByBuildings
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid sort field"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	storage := pgstore.NewPortfolioDBStorage(conn)

	portfolios, err := storage.ListPortfolios(ctx, sortField)
	if err != nil {
		logger.Error("Failed to list portfolios", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, portfolios)
}

// GetPortfolioHandler returns one portfolio with its member buildings.
func GetPortfolioHandler(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing slug"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	storage := pgstore.NewPortfolioDBStorage(conn)

	portfolio, err := storage.GetPortfolioBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Portfolio not found"})
		}
		logger.Error("Failed to get portfolio", "slug", slug, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, portfolio)
}

// GetBuildingPortfolioHandler resolves which portfolio, if any, a parcel
// belongs to.
func GetBuildingPortfolioHandler(c echo.Context) error {
	bbl := c.Param("bbl")
	if bbl == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing bbl"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	storage := pgstore.NewPortfolioDBStorage(conn)

	portfolio, err := storage.FindPortfolioByBuilding(ctx, bbl)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Building is not in a portfolio"})
		}
		logger.Error("Failed to resolve building portfolio", "bbl", bbl, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, portfolio)
}
