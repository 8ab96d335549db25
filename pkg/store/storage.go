// Package store defines the persistence contract for portfolios.
package store

import (
	"context"
	"errors"

	"github.com/dwellsight/backend/pkg/common"
)

// ErrNotFound is returned by lookups that match no portfolio.
var ErrNotFound = errors.New("portfolio not found")

// SortField selects the aggregate a portfolio listing is ordered by
// (descending). The zero value sorts by total residential units.
type SortField string

const (
	SortByUnits     SortField = "total_units"
	SortByValue     SortField = "total_value"
	SortByBuildings SortField = "building_count"
)

// PortfolioStorage persists and queries discovered portfolios.
//
// UpsertPortfolio is keyed by slug: when the slug is new, the portfolio
// row and all member-building snapshot rows are written in one
// transaction; when it exists, only the aggregate fields and the
// entity/officer/address lists are refreshed — member rows are not
// re-synchronized. Re-running discovery on unchanged input is therefore
// idempotent.
type PortfolioStorage interface {
	UpsertPortfolio(ctx context.Context, p common.Portfolio) error
	ListPortfolios(ctx context.Context, sort SortField) ([]common.Portfolio, error)
	GetPortfolioBySlug(ctx context.Context, slug string) (common.Portfolio, error)
	FindPortfolioByBuilding(ctx context.Context, bbl string) (common.Portfolio, error)
}
