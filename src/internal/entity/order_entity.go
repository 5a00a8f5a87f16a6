package entity

import (
	"database/sql"
	"time"
)

// Source order kinds behind the master order.
const (
	SourceOnewayFamily = "ONEWAY_FAMILY"
	SourceHourly       = "HOURLY"
)

// Trip shapes carried on the master order.
const (
	TripTypeOneway    = "ONEWAY"
	TripTypeRoundTrip = "ROUNDTRIP"
	TripTypeMultiCity = "MULTICITY"
	TripTypeHourly    = "HOURLY"
)

const (
	TripStatusPending   = "PENDING"
	TripStatusCompleted = "COMPLETED"
	TripStatusCancelled = "CANCELLED"
)

const (
	CancelledAuto     = "AUTO_CANCELLED"
	CancelledByVendor = "CANCELLED_BY_VENDOR"
)

// Routing scope for owner broadcast.
const (
	SendToAll      = "ALL"
	SendToNearCity = "NEAR_CITY"
)

// Order is the dispatch-visible master record. Post-close fields stay NULL
// until settlement and are written exactly once.
type Order struct {
	OrderID           string         `db:"order_id"`
	Source            string         `db:"source"`
	SourceOrderID     string         `db:"source_order_id"`
	VendorID          string         `db:"vendor_id"`
	TripType          string         `db:"trip_type"`
	CarType           string         `db:"car_type"`
	Waypoints         []byte         `db:"waypoints"` // JSON, index -> place name
	CustomerName      string         `db:"customer_name"`
	CustomerNumber    string         `db:"customer_number"`
	TripStatus        string         `db:"trip_status"`
	SendTo            string         `db:"send_to"`
	NearCity          sql.NullString `db:"near_city"`
	EstimatedKm       float64        `db:"estimated_km"`
	EstimatedDuration string         `db:"estimated_duration"`
	EstimatedPrice    int64          `db:"estimated_price"`
	VendorPrice       int64          `db:"vendor_price"`
	CommissionPercent int64          `db:"commission_percent"`
	TollUpdateAllowed bool           `db:"toll_update_allowed"`
	CustomerVisible   bool           `db:"customer_visible"`
	StartAt           time.Time      `db:"start_at"`
	AcceptDeadline    time.Time      `db:"accept_deadline"`

	ClosedVendorPrice *int64 `db:"closed_vendor_price"`
	ClosedDriverPrice *int64 `db:"closed_driver_price"`
	CommissionAmount  *int64 `db:"commission_amount"`
	VendorProfit      *int64 `db:"vendor_profit"`
	AdminProfit       *int64 `db:"admin_profit"`
	DriverProfit      *int64 `db:"driver_profit"`

	CancelledBy sql.NullString `db:"cancelled_by"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (o *Order) IsClosed() bool {
	return o.ClosedVendorPrice != nil
}
