package assessor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dwellsight/backend/pkg/common"
	"github.com/dwellsight/backend/pkg/source/socrata"
)

func lotJSON(bbl string, units int) map[string]any {
	return map[string]any{
		"bbl":       bbl,
		"address":   "1 Main St",
		"borough":   "MN",
		"unitsres":  fmt.Sprintf("%d", units),
		"numfloors": "6.0",
		"yearbuilt": "1927",
		"assesstot": "1500000",
		"ownername": "Acme Realty",
		"bldgclass": "D1",
		"zonedist1": "R8",
	}
}

func TestFetchBuildingsPaginates(t *testing.T) {
	// Full first page, short second page.
	pages := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		offset := r.URL.Query().Get("$offset")
		rows := make([]map[string]any, 0, 1000)
		if offset == "" {
			for i := 0; i < 1000; i++ {
				rows = append(rows, lotJSON(fmt.Sprintf("10000100%02d", i), 50))
			}
		} else {
			rows = append(rows, lotJSON("2000010001", 30))
		}
		json.NewEncoder(w).Encode(rows)
	}))
	defer server.Close()

	source := NewSource(NewSourceParams{
		Client: socrata.NewClient(socrata.NewClientParams{BaseURL: server.URL}),
	})

	buildings := source.FetchBuildings(context.Background(), common.Bounds{
		MinLat: 40.70, MaxLat: 40.80, MinLng: -74.02, MaxLng: -73.93,
	}, 20)

	if pages != 2 {
		t.Fatalf("unexpected page count: got %d, want 2", pages)
	}
	if len(buildings) != 1001 {
		t.Fatalf("unexpected building count: got %d, want 1001", len(buildings))
	}

	b := buildings[len(buildings)-1]
	if b.BBL != "2000010001" {
		t.Fatalf("unexpected last building: %+v", b)
	}
	if b.Address != "1 MAIN ST" || b.OwnerName != "ACME REALTY" {
		t.Fatalf("names must be normalized: %+v", b)
	}
	if b.UnitsRes != 30 || b.Floors != 6 || b.YearBuilt != 1927 || b.AssessedValue != 1500000 {
		t.Fatalf("unexpected numeric fields: %+v", b)
	}
}

func TestFetchBuildingsPartialOnFailure(t *testing.T) {
	// First page succeeds, second page always errors; the adapter must
	// return the first page instead of failing the run.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("$offset") != "" {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		rows := make([]map[string]any, 0, 1000)
		for i := 0; i < 1000; i++ {
			rows = append(rows, lotJSON(fmt.Sprintf("10000100%02d", i), 50))
		}
		json.NewEncoder(w).Encode(rows)
	}))
	defer server.Close()

	source := NewSource(NewSourceParams{
		Client: socrata.NewClient(socrata.NewClientParams{BaseURL: server.URL}),
	})

	buildings := source.FetchBuildings(context.Background(), common.Bounds{}, 20)

	if len(buildings) != 1000 {
		t.Fatalf("expected partial result of 1000 buildings, got %d", len(buildings))
	}
}

func TestFetchBuildingsSkipsRowsWithoutBBL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			lotJSON("1000010001", 50),
			{"address": "no bbl"},
		})
	}))
	defer server.Close()

	source := NewSource(NewSourceParams{
		Client: socrata.NewClient(socrata.NewClientParams{BaseURL: server.URL}),
	})

	buildings := source.FetchBuildings(context.Background(), common.Bounds{}, 20)
	if len(buildings) != 1 {
		t.Fatalf("unexpected building count: got %d, want 1", len(buildings))
	}
}
