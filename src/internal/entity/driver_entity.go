package entity

import "time"

const (
	DriverOffline = "OFFLINE"
	DriverOnline  = "ONLINE"
	DriverDriving = "DRIVING"
)

// DriverAvailability is the secondary two-state machine gated by the
// assignment lifecycle: OFFLINE<->ONLINE, ONLINE->DRIVING->ONLINE.
type DriverAvailability struct {
	DriverID   string    `db:"driver_id"`
	OwnerID    string    `db:"owner_id"`
	Status     string    `db:"status"`
	LastSeenAt time.Time `db:"last_seen_at"`
}
