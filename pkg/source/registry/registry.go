// Package registry resolves regulatory ownership contacts for buildings.
// Every building needs two lookups against the housing registry: its
// registration identifiers, then the contact rows filed under those
// registrations. The registry API is rate limited, so buildings are
// fetched in concurrency-limited batches with a fixed pause in between.
package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dwellsight/backend/internal/util"
	"github.com/dwellsight/backend/pkg/common"
	"github.com/dwellsight/backend/pkg/logger"
	"github.com/dwellsight/backend/pkg/source/socrata"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultRegistrationsDataset = "tesw-yqqr"
	defaultContactsDataset      = "feu5-w2e2"

	batchSize        = 20
	batchDelay       = 1500 * time.Millisecond
	maxRegistrations = 3
	contactLimit     = 50
)

// Source fetches registration contacts for a list of buildings.
type Source struct {
	client               *socrata.Client
	registrationsDataset string
	contactsDataset      string
	limiter              *rate.Limiter
}

// NewSourceParams contains configuration for creating a Source.
type NewSourceParams struct {
	Client               *socrata.Client
	RegistrationsDataset string
	ContactsDataset      string
	BatchDelay           time.Duration
}

// NewSource creates a registry source backed by the given SODA client.
func NewSource(params NewSourceParams) *Source {
	registrations := params.RegistrationsDataset
	if registrations == "" {
		registrations = defaultRegistrationsDataset
	}
	contacts := params.ContactsDataset
	if contacts == "" {
		contacts = defaultContactsDataset
	}
	delay := params.BatchDelay
	if delay <= 0 {
		delay = batchDelay
	}
	return &Source{
		client:               params.Client,
		registrationsDataset: registrations,
		contactsDataset:      contacts,
		limiter:              rate.NewLimiter(rate.Every(delay), 1),
	}
}

type registrationRow struct {
	RegistrationID string `json:"registrationid"`
}

type contactRow struct {
	Type             string `json:"type"`
	FirstName        string `json:"firstname"`
	LastName         string `json:"lastname"`
	CorporationName  string `json:"corporationname"`
	BusinessHouseNum string `json:"businesshousenumber"`
	BusinessStreet   string `json:"businessstreetname"`
	BusinessCity     string `json:"businesscity"`
	BusinessState    string `json:"businessstate"`
	BusinessZip      string `json:"businesszip"`
}

// FetchContacts returns the contact rows for all buildings, flattened.
// Buildings are processed in fixed-size batches; every lookup inside a
// batch runs concurrently and a limiter paces batch starts against the
// registry's rate limit. A failed lookup degrades to no contacts for
// that building and never aborts the batch.
func (s *Source) FetchContacts(ctx context.Context, buildings []common.BuildingRecord) []common.ContactRecord {
	contacts := make([]common.ContactRecord, 0, len(buildings))
	var mu sync.Mutex

	for start := 0; start < len(buildings); start += batchSize {
		if err := s.limiter.Wait(ctx); err != nil {
			logger.Warn("[Registry] Rate limiter interrupted, returning partial contacts", "err", err)
			break
		}

		end := min(start+batchSize, len(buildings))
		eg, gCtx := errgroup.WithContext(ctx)
		for _, building := range buildings[start:end] {
			b := building
			eg.Go(func() error {
				rows, err := s.fetchBuildingContacts(gCtx, b)
				if err != nil {
					logger.Warn("[Registry] No contacts for building", "bbl", b.BBL, "err", err)
					return nil
				}
				mu.Lock()
				contacts = append(contacts, rows...)
				mu.Unlock()
				return nil
			})
		}
		_ = eg.Wait()
	}

	logger.Info("[Registry] Fetched contacts", "count", len(contacts), "buildings", len(buildings))
	return contacts
}

func (s *Source) fetchBuildingContacts(ctx context.Context, building common.BuildingRecord) ([]common.ContactRecord, error) {
	registrationIDs, err := s.fetchRegistrations(ctx, building.BBL)
	if err != nil {
		return nil, err
	}
	if len(registrationIDs) == 0 {
		return nil, nil
	}

	var rows []contactRow
	err = s.client.Get(ctx, s.contactsDataset, socrata.Query{
		Where: fmt.Sprintf("registrationid in(%s)", strings.Join(registrationIDs, ",")),
		Limit: contactLimit,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	contacts := make([]common.ContactRecord, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, common.ContactRecord{
			BBL:          building.BBL,
			Role:         row.Type,
			Name:         util.NormalizeName(row.FirstName + " " + row.LastName),
			CorpName:     util.NormalizeName(row.CorporationName),
			BusinessAddr: businessAddress(row),
		})
	}
	return contacts, nil
}

func (s *Source) fetchRegistrations(ctx context.Context, bbl string) ([]string, error) {
	borough, block, lot, err := splitBBL(bbl)
	if err != nil {
		return nil, err
	}

	var rows []registrationRow
	err = s.client.Get(ctx, s.registrationsDataset, socrata.Query{
		Where: fmt.Sprintf("boroid='%s' AND block='%s' AND lot='%s'", borough, block, lot),
		Limit: maxRegistrations,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve registrations: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.RegistrationID != "" {
			ids = append(ids, row.RegistrationID)
		}
	}
	return ids, nil
}

// splitBBL decomposes a 10-digit borough+block+lot composite into its parts,
// stripping leading zeros the registry does not use.
func splitBBL(bbl string) (borough, block, lot string, err error) {
	if len(bbl) < 10 {
		return "", "", "", fmt.Errorf("malformed bbl %q", bbl)
	}
	return bbl[0:1], strings.TrimLeft(bbl[1:6], "0"), strings.TrimLeft(bbl[6:10], "0"), nil
}

func businessAddress(row contactRow) string {
	parts := []string{
		row.BusinessHouseNum,
		row.BusinessStreet,
		row.BusinessCity,
		row.BusinessState,
		row.BusinessZip,
	}
	return util.NormalizeName(strings.Join(parts, " "))
}
