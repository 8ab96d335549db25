package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dwellsight/backend/internal/util"
	"github.com/dwellsight/backend/pkg/common"
	"github.com/dwellsight/backend/pkg/discovery"
	"github.com/dwellsight/backend/pkg/leaselock"
	"github.com/dwellsight/backend/pkg/logger"
	"github.com/dwellsight/backend/pkg/source/assessor"
	"github.com/dwellsight/backend/pkg/source/registry"
	"github.com/dwellsight/backend/pkg/source/socrata"
	pgstore "github.com/dwellsight/backend/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DiscoveryMsg is the job payload the API publishes to discovery_queue.
type DiscoveryMsg struct {
	CorrelationID string        `json:"correlation_id"`
	Bounds        common.Bounds `json:"bounds"`
	MinUnits      int           `json:"min_units"`
}

// AreaKey returns the lease key for the message's bounding box. Two runs
// for the same box serialize; boxes that merely overlap still race, which
// is acceptable for a re-runnable batch job.
func (m DiscoveryMsg) AreaKey() string {
	return fmt.Sprintf("discovery:%.4f:%.4f:%.4f:%.4f",
		m.Bounds.MinLat, m.Bounds.MaxLat, m.Bounds.MinLng, m.Bounds.MaxLng)
}

// ProcessDiscoveryMessage runs one discovery job. Only a malformed
// payload or a busy area lease surface as errors (the latter so the
// worker requeues the job); the run itself never fails.
func ProcessDiscoveryMessage(ctx context.Context, conn *pgxpool.Pool, msg string) error {
	data := new(DiscoveryMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("failed to decode discovery message: %w", err)
	}

	client := socrata.NewClient(socrata.NewClientParams{
		BaseURL:  util.GetEnvString("OPEN_DATA_URL", "https://data.cityofnewyork.us"),
		AppToken: util.GetEnv("OPEN_DATA_APP_TOKEN"),
	})
	engine := discovery.NewEngine(
		assessor.NewSource(assessor.NewSourceParams{Client: client}),
		registry.NewSource(registry.NewSourceParams{Client: client}),
		pgstore.NewPortfolioDBStorage(conn),
	)

	locks := leaselock.New(conn)
	err := locks.WithLease(ctx, data.AreaKey(), 30*time.Minute, func(ctx context.Context) error {
		started := time.Now()
		result := engine.Run(ctx, discovery.Params{
			Bounds:   data.Bounds,
			MinUnits: data.MinUnits,
		})
		logger.Info("[Queue] Discovery job done",
			"correlation_id", data.CorrelationID,
			"portfolios_saved", result.PortfoliosSaved,
			"buildings_scanned", result.BuildingsScanned,
			"contacts_fetched", result.ContactsFetched,
			"duration", time.Since(started).Round(time.Second).String(),
		)
		return nil
	})
	if errors.Is(err, leaselock.ErrBusy) {
		logger.Info("[Queue] Area busy, requeueing job", "correlation_id", data.CorrelationID, "area", data.AreaKey())
		return err
	}
	return err
}
