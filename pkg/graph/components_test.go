package graph

import (
	"sort"
	"testing"

	"github.com/dwellsight/backend/pkg/common"
)

func TestComponentsBridgedByBuilding(t *testing.T) {
	// A and B share a corporation, B and C share an individual: all three
	// must land in one component with B as the bridge.
	buildings := []common.BuildingRecord{
		{BBL: "A"},
		{BBL: "B"},
		{BBL: "C"},
	}
	contacts := []common.ContactRecord{
		{BBL: "A", CorpName: "84TH ST LLC"},
		{BBL: "B", CorpName: "84TH ST LLC"},
		{BBL: "B", Name: "JOHN SMITH"},
		{BBL: "C", Name: "JOHN SMITH"},
	}

	g := Build(buildings, contacts)
	candidates := g.PortfolioCandidates()

	if len(candidates) != 1 {
		t.Fatalf("unexpected candidate count: got %d, want 1", len(candidates))
	}

	bbls := append([]string(nil), candidates[0].BBLs...)
	sort.Strings(bbls)
	want := []string{"A", "B", "C"}
	for i := range want {
		if bbls[i] != want[i] {
			t.Fatalf("unexpected members: got %v, want %v", bbls, want)
		}
	}
}

func TestComponentMembershipOrderIndependent(t *testing.T) {
	buildings := []common.BuildingRecord{
		{BBL: "A"}, {BBL: "B"}, {BBL: "C"}, {BBL: "D"},
	}
	contacts := []common.ContactRecord{
		{BBL: "A", CorpName: "NORTH LLC"},
		{BBL: "B", CorpName: "NORTH LLC"},
		{BBL: "C", BusinessAddr: "100 BROADWAY NY 10001"},
		{BBL: "D", BusinessAddr: "100 BROADWAY NY 10001"},
	}

	membership := func(buildings []common.BuildingRecord, contacts []common.ContactRecord) []string {
		g := Build(buildings, contacts)
		var out []string
		for _, comp := range g.PortfolioCandidates() {
			bbls := append([]string(nil), comp.BBLs...)
			sort.Strings(bbls)
			out = append(out, joinStrings(bbls))
		}
		sort.Strings(out)
		return out
	}

	forward := membership(buildings, contacts)

	reversedBuildings := []common.BuildingRecord{
		{BBL: "D"}, {BBL: "C"}, {BBL: "B"}, {BBL: "A"},
	}
	reversedContacts := []common.ContactRecord{
		{BBL: "D", BusinessAddr: "100 BROADWAY NY 10001"},
		{BBL: "C", BusinessAddr: "100 BROADWAY NY 10001"},
		{BBL: "B", CorpName: "NORTH LLC"},
		{BBL: "A", CorpName: "NORTH LLC"},
	}
	backward := membership(reversedBuildings, reversedContacts)

	if len(forward) != 2 || len(backward) != 2 {
		t.Fatalf("unexpected component counts: forward %v, backward %v", forward, backward)
	}
	for i := range forward {
		if forward[i] != backward[i] {
			t.Fatalf("membership differs with input order: forward %v, backward %v", forward, backward)
		}
	}
}

func TestComponentsSingletonNodes(t *testing.T) {
	g := New()
	g.AddNode(NodeKey{Kind: KindBuilding, Value: "A"})
	g.AddNode(NodeKey{Kind: KindBuilding, Value: "B"})

	comps := g.Components()
	if len(comps) != 2 {
		t.Fatalf("unexpected component count: got %d, want 2", len(comps))
	}
	if len(g.PortfolioCandidates()) != 0 {
		t.Fatalf("singleton components must never be candidates")
	}
}

func joinStrings(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}
