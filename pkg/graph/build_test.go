package graph

import (
	"testing"

	"github.com/dwellsight/backend/pkg/common"
)

func TestContactKeys(t *testing.T) {
	tests := []struct {
		name    string
		contact common.ContactRecord
		want    []NodeKey
	}{
		{
			name:    "all signals qualify",
			contact: common.ContactRecord{Name: "JOHN SMITH", CorpName: "84TH ST LLC", BusinessAddr: "12 WEST 72ND ST NY"},
			want: []NodeKey{
				{Kind: KindPerson, Value: "JOHN SMITH"},
				{Kind: KindCorp, Value: "84TH ST LLC"},
				{Kind: KindAddress, Value: "12 WEST 72ND ST NY"},
			},
		},
		{
			name:    "single token person name dropped",
			contact: common.ContactRecord{Name: "SMITHSON"},
			want:    []NodeKey{},
		},
		{
			name:    "short person name dropped even with two tokens",
			contact: common.ContactRecord{Name: "J S"},
			want:    []NodeKey{},
		},
		{
			name:    "five char two token person name qualifies",
			contact: common.ContactRecord{Name: "JO SM"},
			want:    []NodeKey{{Kind: KindPerson, Value: "JO SM"}},
		},
		{
			name:    "short corp name dropped",
			contact: common.ContactRecord{CorpName: "LLC"},
			want:    []NodeKey{},
		},
		{
			name:    "short address dropped",
			contact: common.ContactRecord{BusinessAddr: "12 MAIN"},
			want:    []NodeKey{},
		},
		{
			name:    "address whitespace collapsed before length check",
			contact: common.ContactRecord{BusinessAddr: "12    MAIN      ST"},
			want:    []NodeKey{{Kind: KindAddress, Value: "12 MAIN ST"}},
		},
		{
			name:    "empty contact",
			contact: common.ContactRecord{},
			want:    []NodeKey{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContactKeys(tt.contact)
			if len(got) != len(tt.want) {
				t.Fatalf("unexpected key count: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("unexpected key at %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOwnerKey(t *testing.T) {
	if _, ok := OwnerKey(common.BuildingRecord{OwnerName: "LLC"}); ok {
		t.Fatalf("expected short owner name to be dropped")
	}
	key, ok := OwnerKey(common.BuildingRecord{OwnerName: "ACME REALTY"})
	if !ok {
		t.Fatalf("expected owner key for qualifying name")
	}
	if key.String() != "O:ACME REALTY" {
		t.Fatalf("unexpected canonical key: got %q, want %q", key.String(), "O:ACME REALTY")
	}
}

func TestBuildDropsSingleBuildingKeys(t *testing.T) {
	buildings := []common.BuildingRecord{
		{BBL: "1000010001", OwnerName: "ACME REALTY"},
		{BBL: "1000010002", OwnerName: "OTHER OWNER"},
	}
	contacts := []common.ContactRecord{
		{BBL: "1000010001", CorpName: "LONELY HOLDINGS LLC"},
	}

	g := Build(buildings, contacts)

	// Only the two building nodes: every entity key touches one parcel.
	if g.Len() != 2 {
		t.Fatalf("unexpected node count: got %d, want 2", g.Len())
	}
	if len(g.PortfolioCandidates()) != 0 {
		t.Fatalf("expected no portfolio candidates for unlinked buildings")
	}
}

func TestBuildLinksSharedKeys(t *testing.T) {
	buildings := []common.BuildingRecord{
		{BBL: "1000010001"},
		{BBL: "1000010002"},
		{BBL: "1000010003"},
	}
	contacts := []common.ContactRecord{
		{BBL: "1000010001", CorpName: "84TH ST LLC"},
		{BBL: "1000010002", CorpName: "84TH ST LLC"},
	}

	g := Build(buildings, contacts)

	// 3 buildings + 1 shared corp entity
	if g.Len() != 4 {
		t.Fatalf("unexpected node count: got %d, want 4", g.Len())
	}

	candidates := g.PortfolioCandidates()
	if len(candidates) != 1 {
		t.Fatalf("unexpected candidate count: got %d, want 1", len(candidates))
	}
	if len(candidates[0].BBLs) != 2 {
		t.Fatalf("unexpected member count: got %d, want 2", len(candidates[0].BBLs))
	}
	if len(candidates[0].Entities) != 1 || candidates[0].Entities[0].Kind != KindCorp {
		t.Fatalf("unexpected entities: got %v", candidates[0].Entities)
	}
}

func TestBuildSharedOwnerName(t *testing.T) {
	buildings := []common.BuildingRecord{
		{BBL: "1000010001", OwnerName: "ACME REALTY"},
		{BBL: "1000010002", OwnerName: "ACME REALTY"},
	}

	g := Build(buildings, nil)

	candidates := g.PortfolioCandidates()
	if len(candidates) != 1 {
		t.Fatalf("unexpected candidate count: got %d, want 1", len(candidates))
	}
	if candidates[0].Entities[0].String() != "O:ACME REALTY" {
		t.Fatalf("unexpected entity: got %q", candidates[0].Entities[0].String())
	}
}
