package common

import "time"

// Bounds is the geographic bounding box a discovery run covers.
// Coordinates are WGS84 decimal degrees.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// BuildingRecord is one assessor-roll row inside a discovery run.
// Records are produced by the assessor source adapter and are never
// mutated after creation; they live only for the duration of one run.
type BuildingRecord struct {
	BBL           string `json:"bbl"`
	Address       string `json:"address"`
	Borough       string `json:"borough"`
	UnitsRes      int    `json:"units_res"`
	Floors        int    `json:"floors"`
	YearBuilt     int    `json:"year_built"`
	AssessedValue int64  `json:"assessed_value"`
	OwnerName     string `json:"owner_name"`
	BuildingClass string `json:"building_class"`
	Zoning        string `json:"zoning"`
}

// ContactRecord is one regulatory-registry contact row tied to a parcel.
// Name, CorpName and BusinessAddr are normalized (uppercase, trimmed,
// inner whitespace collapsed) by the registry source adapter before they
// reach the graph builder. Many contacts map to one building.
type ContactRecord struct {
	BBL          string `json:"bbl"`
	Role         string `json:"role"`
	Name         string `json:"name"`
	CorpName     string `json:"corp_name"`
	BusinessAddr string `json:"business_addr"`
}

// Contact roles treated as "head" contacts when collecting officer names
// for a portfolio.
const (
	RoleHeadOfficer     = "HeadOfficer"
	RoleIndividualOwner = "IndividualOwner"
)

// Portfolio is a persisted cluster of two or more commonly-owned buildings.
type Portfolio struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	Slug          string              `json:"slug"`
	BuildingCount int                 `json:"building_count"`
	TotalUnits    int                 `json:"total_units"`
	TotalValue    int64               `json:"total_value"`
	Borough       string              `json:"borough"`
	EntityNames   []string            `json:"entity_names"`
	OfficerNames  []string            `json:"officer_names"`
	Addresses     []string            `json:"addresses"`
	Buildings     []PortfolioBuilding `json:"buildings,omitempty"`
	CreatedAt     time.Time           `json:"created_at,omitzero"`
	UpdatedAt     time.Time           `json:"updated_at,omitzero"`
}

// PortfolioBuilding is the persisted snapshot of a member building,
// taken from the BuildingRecord at the time the portfolio was created.
type PortfolioBuilding struct {
	BBL           string `json:"bbl"`
	Address       string `json:"address"`
	Borough       string `json:"borough"`
	UnitsRes      int    `json:"units_res"`
	Floors        int    `json:"floors"`
	YearBuilt     int    `json:"year_built"`
	AssessedValue int64  `json:"assessed_value"`
	OwnerName     string `json:"owner_name"`
	BuildingClass string `json:"building_class"`
	Zoning        string `json:"zoning"`
}

// DiscoveryResult is the only output a discovery run surfaces to callers.
// Per-item failure detail is log-only.
type DiscoveryResult struct {
	PortfoliosSaved  int `json:"portfolios_saved"`
	BuildingsScanned int `json:"buildings_scanned"`
	ContactsFetched  int `json:"contacts_fetched"`
}

// SnapshotBuilding converts an in-run building record into its persisted form.
func SnapshotBuilding(b BuildingRecord) PortfolioBuilding {
	return PortfolioBuilding{
		BBL:           b.BBL,
		Address:       b.Address,
		Borough:       b.Borough,
		UnitsRes:      b.UnitsRes,
		Floors:        b.Floors,
		YearBuilt:     b.YearBuilt,
		AssessedValue: b.AssessedValue,
		OwnerName:     b.OwnerName,
		BuildingClass: b.BuildingClass,
		Zoning:        b.Zoning,
	}
}
