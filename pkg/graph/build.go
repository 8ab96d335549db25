package graph

import (
	"strings"

	"github.com/dwellsight/backend/internal/util"
	"github.com/dwellsight/backend/pkg/common"
)

// Minimum lengths an entity signal must have before it can become a key.
// Shorter values are noise: initials, bare borough codes, house numbers.
const (
	minPersonLen  = 5
	minCorpLen    = 4
	minAddressLen = 11
	minOwnerLen   = 4
)

// Build constructs the ownership graph from one run's building and
// contact records.
//
// Every building becomes a node. Every contact contributes up to three
// entity keys (person, corporation, business address) and every building
// contributes its assessor owner name. A key only materializes as an
// entity node when it links two or more distinct parcels; keys seen on a
// single building cannot contribute to clustering and are dropped to
// keep the graph sparse.
func Build(buildings []common.BuildingRecord, contacts []common.ContactRecord) *Graph {
	g := New()
	for _, b := range buildings {
		g.AddNode(NodeKey{Kind: KindBuilding, Value: b.BBL})
	}

	// parcels that produced each candidate entity key
	links := make(map[NodeKey]map[string]struct{})
	link := func(key NodeKey, bbl string) {
		if links[key] == nil {
			links[key] = make(map[string]struct{})
		}
		links[key][bbl] = struct{}{}
	}

	for _, c := range contacts {
		for _, key := range ContactKeys(c) {
			link(key, c.BBL)
		}
	}
	for _, b := range buildings {
		if key, ok := OwnerKey(b); ok {
			link(key, b.BBL)
		}
	}

	for key, parcels := range links {
		if len(parcels) < 2 {
			continue
		}
		for bbl := range parcels {
			g.Connect(key, NodeKey{Kind: KindBuilding, Value: bbl})
		}
	}

	return g
}

// ContactKeys derives the entity keys a contact record qualifies for.
// A person name must have at least two whitespace-separated tokens so a
// lone initial or surname never links buildings on its own.
func ContactKeys(c common.ContactRecord) []NodeKey {
	keys := make([]NodeKey, 0, 3)

	if len(c.Name) >= minPersonLen && len(strings.Fields(c.Name)) >= 2 {
		keys = append(keys, NodeKey{Kind: KindPerson, Value: c.Name})
	}
	if len(c.CorpName) >= minCorpLen {
		keys = append(keys, NodeKey{Kind: KindCorp, Value: c.CorpName})
	}
	if addr := util.CollapseWhitespace(c.BusinessAddr); len(addr) >= minAddressLen {
		keys = append(keys, NodeKey{Kind: KindAddress, Value: addr})
	}

	return keys
}

// OwnerKey derives the assessor-owner entity key for a building, when its
// owner name is long enough to be a usable signal.
func OwnerKey(b common.BuildingRecord) (NodeKey, bool) {
	if len(b.OwnerName) < minOwnerLen {
		return NodeKey{}, false
	}
	return NodeKey{Kind: KindOwner, Value: b.OwnerName}, true
}
