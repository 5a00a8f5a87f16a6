package entity

import "time"

const (
	AssignmentPending   = "PENDING"
	AssignmentAssigned  = "ASSIGNED"
	AssignmentDriving   = "DRIVING"
	AssignmentCompleted = "COMPLETED"
	AssignmentCancelled = "CANCELLED"
)

// OrderAssignment binds one order to one vehicle owner, later one driver and
// car. At most one non-CANCELLED row may exist per order; CANCELLED rows are
// kept for audit and free the order for re-acceptance.
type OrderAssignment struct {
	AssignmentID string     `db:"assignment_id"`
	OrderID      string     `db:"order_id"`
	OwnerID      string     `db:"owner_id"`
	DriverID     *string    `db:"driver_id"`
	CarID        *string    `db:"car_id"`
	Status       string     `db:"assignment_status"`
	AssignedAt   *time.Time `db:"assigned_at"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CancelledAt  *time.Time `db:"cancelled_at"`
	CompletedAt  *time.Time `db:"completed_at"`
	CreatedAt    time.Time  `db:"created_at"`
}
