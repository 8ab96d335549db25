// Package pgx implements store.PortfolioStorage on PostgreSQL.
package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/dwellsight/backend/internal/util"
	"github.com/dwellsight/backend/pkg/common"
	"github.com/dwellsight/backend/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// PortfolioDBStorage implements store.PortfolioStorage using pgx.
type PortfolioDBStorage struct {
	conn pgxIConn
}

// NewPortfolioDBStorage creates a storage backed by an existing connection
// or pool.
func NewPortfolioDBStorage(conn pgxIConn) *PortfolioDBStorage {
	return &PortfolioDBStorage{conn: conn}
}

const upsertPortfolioSQL = `
INSERT INTO portfolios (
	name, slug, building_count, total_units, total_value, borough,
	entity_names, officer_names, addresses
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (slug) DO UPDATE SET
	name           = EXCLUDED.name,
	building_count = EXCLUDED.building_count,
	total_units    = EXCLUDED.total_units,
	total_value    = EXCLUDED.total_value,
	borough        = EXCLUDED.borough,
	entity_names   = EXCLUDED.entity_names,
	officer_names  = EXCLUDED.officer_names,
	addresses      = EXCLUDED.addresses,
	updated_at     = now()
RETURNING id, (xmax = 0) AS inserted;
`

const insertBuildingSQL = `
INSERT INTO portfolio_buildings (
	portfolio_id, bbl, address, borough, units_res, floors,
	year_built, assessed_value, owner_name, building_class, zoning
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (bbl) DO NOTHING;
`

// UpsertPortfolio writes one portfolio keyed by slug. A new slug inserts
// the portfolio together with its member-building snapshots in one
// transaction; an existing slug only refreshes the portfolio row, leaving
// the snapshots from the creating run in place.
func (s *PortfolioDBStorage) UpsertPortfolio(ctx context.Context, p common.Portfolio) error {
	if len(p.Buildings) < 2 {
		return fmt.Errorf("refusing to persist portfolio %q with %d buildings", p.Slug, len(p.Buildings))
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var portfolioID int64
	var inserted bool
	err = tx.QueryRow(ctx, upsertPortfolioSQL,
		util.SanitizePostgresText(p.Name),
		p.Slug,
		p.BuildingCount,
		p.TotalUnits,
		p.TotalValue,
		p.Borough,
		sanitizeAll(p.EntityNames),
		sanitizeAll(p.OfficerNames),
		sanitizeAll(p.Addresses),
	).Scan(&portfolioID, &inserted)
	if err != nil {
		return fmt.Errorf("failed to upsert portfolio %q: %w", p.Slug, err)
	}

	if inserted {
		for _, b := range p.Buildings {
			_, err = tx.Exec(ctx, insertBuildingSQL,
				portfolioID,
				b.BBL,
				util.SanitizePostgresText(b.Address),
				b.Borough,
				b.UnitsRes,
				b.Floors,
				b.YearBuilt,
				b.AssessedValue,
				util.SanitizePostgresText(b.OwnerName),
				b.BuildingClass,
				b.Zoning,
			)
			if err != nil {
				return fmt.Errorf("failed to insert building %s: %w", b.BBL, err)
			}
		}
	}

	return tx.Commit(ctx)
}

// ListPortfolios returns all portfolios without their buildings, ordered
// descending by the requested aggregate.
func (s *PortfolioDBStorage) ListPortfolios(ctx context.Context, sort store.SortField) ([]common.Portfolio, error) {
	orderBy := "total_units"
	switch sort {
	case store.SortByValue:
		orderBy = "total_value"
	case store.SortByBuildings:
		orderBy = "building_count"
	case store.SortByUnits, "":
	default:
		return nil, fmt.Errorf("unsupported sort field %q", sort)
	}

	query := fmt.Sprintf(`
		SELECT id, name, slug, building_count, total_units, total_value, borough,
		       entity_names, officer_names, addresses, created_at, updated_at
		FROM portfolios
		ORDER BY %s DESC, slug ASC;
	`, orderBy)

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	portfolios := make([]common.Portfolio, 0)
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

// GetPortfolioBySlug returns one portfolio with its member buildings.
func (s *PortfolioDBStorage) GetPortfolioBySlug(ctx context.Context, slug string) (common.Portfolio, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, name, slug, building_count, total_units, total_value, borough,
		       entity_names, officer_names, addresses, created_at, updated_at
		FROM portfolios
		WHERE slug = $1;
	`, slug)
	if err != nil {
		return common.Portfolio{}, fmt.Errorf("failed to get portfolio %q: %w", slug, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return common.Portfolio{}, store.ErrNotFound
	}
	p, err := scanPortfolio(rows)
	rows.Close()
	if err != nil {
		return common.Portfolio{}, err
	}

	buildings, err := s.portfolioBuildings(ctx, p.ID)
	if err != nil {
		return common.Portfolio{}, err
	}
	p.Buildings = buildings
	return p, nil
}

// FindPortfolioByBuilding resolves the portfolio owning a parcel through
// its membership row. BBLs are unique across portfolio_buildings, so a
// parcel belongs to at most one portfolio.
func (s *PortfolioDBStorage) FindPortfolioByBuilding(ctx context.Context, bbl string) (common.Portfolio, error) {
	var slug string
	err := s.conn.QueryRow(ctx, `
		SELECT p.slug
		FROM portfolio_buildings pb
		JOIN portfolios p ON p.id = pb.portfolio_id
		WHERE pb.bbl = $1;
	`, bbl).Scan(&slug)
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return common.Portfolio{}, store.ErrNotFound
		}
		return common.Portfolio{}, fmt.Errorf("failed to resolve portfolio for %s: %w", bbl, err)
	}
	return s.GetPortfolioBySlug(ctx, slug)
}

func (s *PortfolioDBStorage) portfolioBuildings(ctx context.Context, portfolioID int64) ([]common.PortfolioBuilding, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT bbl, address, borough, units_res, floors, year_built,
		       assessed_value, owner_name, building_class, zoning
		FROM portfolio_buildings
		WHERE portfolio_id = $1
		ORDER BY units_res DESC, bbl ASC;
	`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio buildings: %w", err)
	}
	defer rows.Close()

	var buildings []common.PortfolioBuilding
	for rows.Next() {
		var b common.PortfolioBuilding
		err := rows.Scan(
			&b.BBL, &b.Address, &b.Borough, &b.UnitsRes, &b.Floors,
			&b.YearBuilt, &b.AssessedValue, &b.OwnerName, &b.BuildingClass, &b.Zoning,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan building row: %w", err)
		}
		buildings = append(buildings, b)
	}
	return buildings, rows.Err()
}

func scanPortfolio(rows pgxv5.Rows) (common.Portfolio, error) {
	var p common.Portfolio
	err := rows.Scan(
		&p.ID, &p.Name, &p.Slug, &p.BuildingCount, &p.TotalUnits, &p.TotalValue,
		&p.Borough, &p.EntityNames, &p.OfficerNames, &p.Addresses,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return common.Portfolio{}, fmt.Errorf("failed to scan portfolio row: %w", err)
	}
	return p, nil
}

func sanitizeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = util.SanitizePostgresText(v)
	}
	return out
}
