// Package assessor fetches assessor-roll building records for a bounding
// box from the city's open-data tax-lot dataset.
package assessor

import (
	"context"
	"fmt"

	"github.com/dwellsight/backend/internal/util"
	"github.com/dwellsight/backend/pkg/common"
	"github.com/dwellsight/backend/pkg/logger"
	"github.com/dwellsight/backend/pkg/source/socrata"
)

const (
	defaultDataset = "64uk-42ks"
	pageSize       = 1000
	pageRetries    = 3
)

// Source pages through the assessor roll for one area.
type Source struct {
	client  *socrata.Client
	dataset string
}

// NewSourceParams contains configuration for creating a Source.
type NewSourceParams struct {
	Client  *socrata.Client
	Dataset string
}

// NewSource creates an assessor source backed by the given SODA client.
func NewSource(params NewSourceParams) *Source {
	dataset := params.Dataset
	if dataset == "" {
		dataset = defaultDataset
	}
	return &Source{
		client:  params.Client,
		dataset: dataset,
	}
}

type lotRow struct {
	BBL        string         `json:"bbl"`
	Address    string         `json:"address"`
	Borough    string         `json:"borough"`
	UnitsRes   socrata.Number `json:"unitsres"`
	NumFloors  socrata.Number `json:"numfloors"`
	YearBuilt  socrata.Number `json:"yearbuilt"`
	AssessTot  socrata.Number `json:"assesstot"`
	OwnerName  string         `json:"ownername"`
	BldgClass  string         `json:"bldgclass"`
	ZoneDist   string         `json:"zonedist1"`
}

// FetchBuildings returns every assessor record inside bounds with at least
// minUnits residential units, largest buildings first. A failed page fetch
// ends pagination early and returns whatever was accumulated, so callers
// must tolerate partial area coverage.
func (s *Source) FetchBuildings(ctx context.Context, bounds common.Bounds, minUnits int) []common.BuildingRecord {
	where := fmt.Sprintf(
		"latitude between %f and %f AND longitude between %f and %f AND unitsres >= %d",
		bounds.MinLat, bounds.MaxLat, bounds.MinLng, bounds.MaxLng, minUnits,
	)

	buildings := make([]common.BuildingRecord, 0, pageSize)
	offset := 0
	for {
		query := socrata.Query{
			Where:  where,
			Select: "bbl,address,borough,unitsres,numfloors,yearbuilt,assesstot,ownername,bldgclass,zonedist1",
			Order:  "unitsres DESC",
			Limit:  pageSize,
			Offset: offset,
		}

		rows, err := util.RetryWithContext(ctx, pageRetries, func(ctx context.Context) ([]lotRow, error) {
			var page []lotRow
			if err := s.client.Get(ctx, s.dataset, query, &page); err != nil {
				return nil, err
			}
			return page, nil
		})
		if err != nil {
			logger.Warn("[Assessor] Page fetch failed, returning partial area", "offset", offset, "err", err)
			break
		}

		for _, row := range rows {
			if row.BBL == "" {
				continue
			}
			buildings = append(buildings, common.BuildingRecord{
				BBL:           row.BBL,
				Address:       util.NormalizeName(row.Address),
				Borough:       row.Borough,
				UnitsRes:      row.UnitsRes.Int(),
				Floors:        row.NumFloors.Int(),
				YearBuilt:     row.YearBuilt.Int(),
				AssessedValue: row.AssessTot.Int64(),
				OwnerName:     util.NormalizeName(row.OwnerName),
				BuildingClass: row.BldgClass,
				Zoning:        row.ZoneDist,
			})
		}

		if len(rows) < pageSize {
			break
		}
		offset += pageSize
	}

	logger.Info("[Assessor] Fetched buildings", "count", len(buildings), "min_units", minUnits)
	return buildings
}
