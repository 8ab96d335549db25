// Package discovery orchestrates one portfolio discovery run: fetch
// buildings for an area, fetch their regulatory contacts, build the
// ownership graph, cluster it, and persist every candidate portfolio.
// Stages run strictly in sequence; a run always completes and always
// returns a result, recovering from failures at the smallest scope
// (page, building, candidate) instead of aborting.
package discovery

import (
	"context"

	"github.com/dwellsight/backend/pkg/common"
	"github.com/dwellsight/backend/pkg/graph"
	"github.com/dwellsight/backend/pkg/logger"
	"github.com/dwellsight/backend/pkg/portfolio"
	"github.com/dwellsight/backend/pkg/store"
)

// DefaultMinUnits is the minimum-residential-units threshold applied when
// a run does not specify one.
const DefaultMinUnits = 20

// BuildingSource is the assessor-roll adapter contract.
type BuildingSource interface {
	FetchBuildings(ctx context.Context, bounds common.Bounds, minUnits int) []common.BuildingRecord
}

// ContactSource is the regulatory-registry adapter contract.
type ContactSource interface {
	FetchContacts(ctx context.Context, buildings []common.BuildingRecord) []common.ContactRecord
}

// Params configures one discovery run.
type Params struct {
	Bounds   common.Bounds
	MinUnits int
}

// Engine wires the two source adapters to portfolio storage.
type Engine struct {
	buildings BuildingSource
	contacts  ContactSource
	storage   store.PortfolioStorage
}

// NewEngine creates a discovery engine.
func NewEngine(buildings BuildingSource, contacts ContactSource, storage store.PortfolioStorage) *Engine {
	return &Engine{
		buildings: buildings,
		contacts:  contacts,
		storage:   storage,
	}
}

// Run executes one discovery run over the given area and reports how many
// portfolios were saved, buildings scanned and contacts fetched. It never
// fails: when every upstream call errors the counts are simply zero, and
// per-candidate persistence failures are logged and skipped. Re-running
// the same area is idempotent at the storage layer via slug upserts.
func (e *Engine) Run(ctx context.Context, params Params) common.DiscoveryResult {
	minUnits := params.MinUnits
	if minUnits <= 0 {
		minUnits = DefaultMinUnits
	}

	logger.Info("[Discovery] Starting run",
		"min_lat", params.Bounds.MinLat, "max_lat", params.Bounds.MaxLat,
		"min_lng", params.Bounds.MinLng, "max_lng", params.Bounds.MaxLng,
		"min_units", minUnits,
	)

	buildings := e.buildings.FetchBuildings(ctx, params.Bounds, minUnits)
	result := common.DiscoveryResult{BuildingsScanned: len(buildings)}
	if len(buildings) == 0 {
		logger.Info("[Discovery] No buildings in area, nothing to cluster")
		return result
	}

	contacts := e.contacts.FetchContacts(ctx, buildings)
	result.ContactsFetched = len(contacts)

	g := graph.Build(buildings, contacts)
	candidates := g.PortfolioCandidates()
	logger.Info("[Discovery] Clustered graph",
		"nodes", g.Len(), "candidates", len(candidates),
	)

	buildingsByBBL := make(map[string]common.BuildingRecord, len(buildings))
	for _, b := range buildings {
		buildingsByBBL[b.BBL] = b
	}
	contactsByBBL := make(map[string][]common.ContactRecord, len(buildings))
	for _, c := range contacts {
		contactsByBBL[c.BBL] = append(contactsByBBL[c.BBL], c)
	}

	for _, comp := range candidates {
		p, err := portfolio.Materialize(comp, buildingsByBBL, contactsByBBL)
		if err != nil {
			logger.Warn("[Discovery] Skipping candidate", "err", err)
			continue
		}
		if err := e.storage.UpsertPortfolio(ctx, p); err != nil {
			logger.Error("[Discovery] Failed to save portfolio", "slug", p.Slug, "err", err)
			continue
		}
		logger.Info("[Discovery] Saved portfolio",
			"slug", p.Slug, "buildings", p.BuildingCount, "units", p.TotalUnits,
		)
		result.PortfoliosSaved++
	}

	logger.Info("[Discovery] Run finished",
		"portfolios_saved", result.PortfoliosSaved,
		"buildings_scanned", result.BuildingsScanned,
		"contacts_fetched", result.ContactsFetched,
	)
	return result
}
