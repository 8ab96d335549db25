package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dwellsight/backend/pkg/common"
	"github.com/dwellsight/backend/pkg/source/socrata"
)

func newTestSource(serverURL string) *Source {
	return NewSource(NewSourceParams{
		Client:     socrata.NewClient(socrata.NewClientParams{BaseURL: serverURL}),
		BatchDelay: time.Millisecond,
	})
}

func TestFetchContacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, defaultRegistrationsDataset):
			json.NewEncoder(w).Encode([]map[string]any{
				{"registrationid": "330755"},
			})
		case strings.Contains(r.URL.Path, defaultContactsDataset):
			json.NewEncoder(w).Encode([]map[string]any{
				{
					"type":                "HeadOfficer",
					"firstname":           "John",
					"lastname":            "Smith",
					"corporationname":     "84th St LLC",
					"businesshousenumber": "100",
					"businessstreetname":  "Broadway",
					"businesscity":        "New York",
					"businessstate":       "NY",
					"businesszip":         "10001",
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	source := newTestSource(server.URL)

	contacts := source.FetchContacts(context.Background(), []common.BuildingRecord{
		{BBL: "1000120034"},
	})

	if len(contacts) != 1 {
		t.Fatalf("unexpected contact count: got %d, want 1", len(contacts))
	}
	c := contacts[0]
	if c.BBL != "1000120034" || c.Role != "HeadOfficer" {
		t.Fatalf("unexpected contact: %+v", c)
	}
	if c.Name != "JOHN SMITH" {
		t.Fatalf("name must be normalized: got %q", c.Name)
	}
	if c.CorpName != "84TH ST LLC" {
		t.Fatalf("corp name must be normalized: got %q", c.CorpName)
	}
	if c.BusinessAddr != "100 BROADWAY NEW YORK NY 10001" {
		t.Fatalf("unexpected business address: got %q", c.BusinessAddr)
	}
}

func TestFetchContactsDegradesPerBuilding(t *testing.T) {
	// Registration lookups fail for one parcel; the other buildings in
	// the batch must still contribute contacts.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, defaultRegistrationsDataset):
			if strings.Contains(r.URL.Query().Get("$where"), "block='666'") {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode([]map[string]any{
				{"registrationid": "111111"},
			})
		case strings.Contains(r.URL.Path, defaultContactsDataset):
			json.NewEncoder(w).Encode([]map[string]any{
				{"type": "Agent", "firstname": "Jane", "lastname": "Doe"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	source := newTestSource(server.URL)

	contacts := source.FetchContacts(context.Background(), []common.BuildingRecord{
		{BBL: "1006660001"}, // fails
		{BBL: "1000120034"},
		{BBL: "1000120056"},
	})

	if len(contacts) != 2 {
		t.Fatalf("unexpected contact count: got %d, want 2", len(contacts))
	}
	for _, c := range contacts {
		if c.BBL == "1006660001" {
			t.Fatalf("failed building must contribute no contacts: %+v", c)
		}
	}
}

func TestFetchContactsNoRegistrations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer server.Close()

	source := newTestSource(server.URL)

	contacts := source.FetchContacts(context.Background(), []common.BuildingRecord{
		{BBL: "1000120034"},
	})
	if len(contacts) != 0 {
		t.Fatalf("unexpected contacts: %+v", contacts)
	}
}

func TestSplitBBL(t *testing.T) {
	tests := []struct {
		name    string
		bbl     string
		borough string
		block   string
		lot     string
		wantErr bool
	}{
		{
			name:    "manhattan parcel",
			bbl:     "1000120034",
			borough: "1",
			block:   "12",
			lot:     "34",
		},
		{
			name:    "no leading zeros",
			bbl:     "3123451234",
			borough: "3",
			block:   "12345",
			lot:     "1234",
		},
		{
			name:    "too short",
			bbl:     "12345",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			borough, block, lot, err := splitBBL(tt.bbl)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.bbl)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if borough != tt.borough || block != tt.block || lot != tt.lot {
				t.Fatalf("unexpected parts: got %s/%s/%s, want %s/%s/%s",
					borough, block, lot, tt.borough, tt.block, tt.lot)
			}
		})
	}
}
