// Package portfolio turns portfolio-candidate components into persistable
// Portfolio rows: it picks a display name, derives the slug, and computes
// the aggregate fields over the member buildings.
package portfolio

import (
	"fmt"
	"sort"

	"github.com/dwellsight/backend/pkg/common"
	"github.com/dwellsight/backend/pkg/graph"
)

// UnknownName is the fallback display name for components where no
// corporate, owner or person entity qualifies (for example a cluster
// linked only by a shared mailing address).
const UnknownName = "Unknown Portfolio"

const maxAddresses = 5

// Materialize assembles the Portfolio for one candidate component.
// buildingsByBBL and contactsByBBL index the run's records by parcel.
// It fails when fewer than two member parcels resolve to building
// records; the caller logs and skips such candidates.
func Materialize(
	comp graph.Component,
	buildingsByBBL map[string]common.BuildingRecord,
	contactsByBBL map[string][]common.ContactRecord,
) (common.Portfolio, error) {
	members := make([]common.BuildingRecord, 0, len(comp.BBLs))
	for _, bbl := range comp.BBLs {
		if b, ok := buildingsByBBL[bbl]; ok {
			members = append(members, b)
		}
	}
	if len(members) < 2 {
		return common.Portfolio{}, fmt.Errorf("component resolved to %d buildings, need at least 2", len(members))
	}

	name := displayName(comp.Entities)
	slug := Slug(name, len(members))

	p := common.Portfolio{
		Name:          name,
		Slug:          slug,
		BuildingCount: len(members),
		Borough:       members[0].Borough,
		EntityNames:   entityNames(comp.Entities),
		OfficerNames:  officerNames(members, contactsByBBL),
		Addresses:     businessAddresses(members, contactsByBBL),
		Buildings:     make([]common.PortfolioBuilding, 0, len(members)),
	}
	for _, b := range members {
		p.TotalUnits += b.UnitsRes
		p.TotalValue += b.AssessedValue
		p.Buildings = append(p.Buildings, common.SnapshotBuilding(b))
	}

	return p, nil
}

// displayName prefers a corporate entity, then an assessor owner name,
// then an individual name. Address entities never name a portfolio: a
// shared mailing address is a linking signal, not an owner. Within a
// kind the lexicographically smallest value wins so the chosen name does
// not depend on map iteration order.
func displayName(entities []graph.NodeKey) string {
	for _, kind := range []graph.NodeKind{graph.KindCorp, graph.KindOwner, graph.KindPerson} {
		best := ""
		for _, e := range entities {
			if e.Kind != kind {
				continue
			}
			if best == "" || e.Value < best {
				best = e.Value
			}
		}
		if best != "" {
			return best
		}
	}
	return UnknownName
}

func entityNames(entities []graph.NodeKey) []string {
	seen := make(map[string]struct{}, len(entities))
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		if _, ok := seen[e.Value]; ok {
			continue
		}
		seen[e.Value] = struct{}{}
		names = append(names, e.Value)
	}
	sort.Strings(names)
	return names
}

func officerNames(members []common.BuildingRecord, contactsByBBL map[string][]common.ContactRecord) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, b := range members {
		for _, c := range contactsByBBL[b.BBL] {
			if c.Role != common.RoleHeadOfficer && c.Role != common.RoleIndividualOwner {
				continue
			}
			if c.Name == "" {
				continue
			}
			if _, ok := seen[c.Name]; ok {
				continue
			}
			seen[c.Name] = struct{}{}
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names
}

func businessAddresses(members []common.BuildingRecord, contactsByBBL map[string][]common.ContactRecord) []string {
	seen := make(map[string]struct{})
	var addrs []string
	for _, b := range members {
		for _, c := range contactsByBBL[b.BBL] {
			if c.BusinessAddr == "" {
				continue
			}
			if _, ok := seen[c.BusinessAddr]; ok {
				continue
			}
			seen[c.BusinessAddr] = struct{}{}
			addrs = append(addrs, c.BusinessAddr)
			if len(addrs) == maxAddresses {
				return addrs
			}
		}
	}
	return addrs
}
