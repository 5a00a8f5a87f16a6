package entity

import (
	"database/sql"
	"time"
)

// TripRecord is created at trip start and closed once at trip end; end_km
// stays 0 until then. Source of truth for the distance actually driven.
type TripRecord struct {
	TripID        string         `db:"trip_id"`
	OrderID       string         `db:"order_id"`
	DriverID      string         `db:"driver_id"`
	StartKm       int64          `db:"start_km"`
	EndKm         int64          `db:"end_km"`
	StartPhotoRef string         `db:"start_photo_ref"`
	EndPhotoRef   sql.NullString `db:"end_photo_ref"`
	ContactNumber sql.NullString `db:"contact_number"`
	StartedAt     time.Time      `db:"started_at"`
	EndedAt       *time.Time     `db:"ended_at"`
}
