package model

// Revenue type and cycle values accepted by the API.
var (
	RevenueTypes  = []string{"clt", "pj", "freelance", "donation", "other"}
	RevenueCycles = []string{"monthly", "yearly"}
)

// Revenue mirrors the `revenues` table plus its benefit children.  A revenue
// belongs to exactly one user; MaxRevenue is nil whenever the record is not a
// range.  Timestamps are stored as RFC 3339 strings, matching what SQLite
// keeps in the text columns.
type Revenue struct {
	ID             string    // revenues.id (uuid)
	UserID         string    // revenues.user_id
	Name           string    // revenues.name
	Type           string    // revenues.type (clt|pj|freelance|donation|other)
	RevenueAsRange bool      // revenues.revenue_as_range
	MinRevenue     float64   // revenues.min_revenue
	MaxRevenue     *float64  // revenues.max_revenue (nullable)
	Cycle          string    // revenues.cycle (monthly|yearly)
	Benefits       []Benefit // child rows, replaced wholesale on update
	CreatedAt      string    // revenues.created_at
	UpdatedAt      string    // revenues.updated_at
}

// Benefit is a child of exactly one Revenue.  Value is an integer amount in
// cents.
type Benefit struct {
	ID        string // benefits.id (uuid)
	RevenueID string // benefits.revenue_id
	Type      string // benefits.type
	Value     int64  // benefits.value (cents)
}
