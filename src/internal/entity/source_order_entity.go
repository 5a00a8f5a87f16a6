package entity

import "time"

// PointToPointOrder prices one-way, round-trip and multi-city trips. All
// amounts are integer minor currency units. Immutable after creation.
type PointToPointOrder struct {
	SourceOrderID        string    `db:"source_order_id"`
	CostPerKm            int64     `db:"cost_per_km"`
	ExtraCostPerKm       int64     `db:"extra_cost_per_km"`
	DriverAllowance      int64     `db:"driver_allowance"`
	ExtraDriverAllowance int64     `db:"extra_driver_allowance"`
	PermitCharges        int64     `db:"permit_charges"`
	ExtraPermitCharges   int64     `db:"extra_permit_charges"`
	HillCharges          int64     `db:"hill_charges"`
	TollCharges          int64     `db:"toll_charges"`
	PickupNotes          string    `db:"pickup_notes"`
	CreatedAt            time.Time `db:"created_at"`
}

// HourlyOrder prices rental packages ({hours, included km range}).
type HourlyOrder struct {
	SourceOrderID       string    `db:"source_order_id"`
	PackageHours        int64     `db:"package_hours"`
	PackageKmRange      int64     `db:"package_km_range"`
	CostPerHour         int64     `db:"cost_per_hour"`
	ExtraCostPerHour    int64     `db:"extra_cost_per_hour"`
	CostPerAddonKm      int64     `db:"cost_per_addon_km"`
	ExtraCostPerAddonKm int64     `db:"extra_cost_per_addon_km"`
	PickupNotes         string    `db:"pickup_notes"`
	CreatedAt           time.Time `db:"created_at"`
}

// SourceOrder is the tagged union the settlement and fare paths branch on.
// Exactly one variant pointer is non-nil, matching Kind.
type SourceOrder struct {
	Kind         string
	PointToPoint *PointToPointOrder
	Hourly       *HourlyOrder
}
