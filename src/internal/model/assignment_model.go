package model

import "time"

type AcceptOrderRequest struct {
	OwnerID string `json:"-" validate:"required"`
	OrderID string `json:"orderId" validate:"required"`
}

type AssignDriverRequest struct {
	OwnerID  string `json:"-" validate:"required"`
	OrderID  string `json:"orderId" validate:"required"`
	DriverID string `json:"driverId" validate:"required"`
	CarID    string `json:"carId" validate:"required"`
}

type CancelAssignmentRequest struct {
	OwnerID string `json:"-" validate:"required"`
	OrderID string `json:"orderId" validate:"required"`
}

type StartTripRequest struct {
	DriverID      string `json:"-" validate:"required"`
	OrderID       string `json:"orderId" validate:"required"`
	StartKm       int64  `json:"startKm" validate:"gte=0"`
	StartPhotoRef string `json:"startPhotoRef" validate:"required"`
}

type EndTripRequest struct {
	DriverID      string `json:"-" validate:"required"`
	OrderID       string `json:"orderId" validate:"required"`
	EndKm         int64  `json:"endKm" validate:"gte=0"`
	EndPhotoRef   string `json:"endPhotoRef" validate:"required"`
	ContactNumber string `json:"contactNumber"`
	UpdatedToll   *int64 `json:"updatedToll,omitempty" validate:"omitempty,gte=0"`
}

type DriverAvailabilityRequest struct {
	DriverID string `json:"-" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=ONLINE OFFLINE"`
}

type AssignmentResponse struct {
	AssignmentID string     `json:"assignmentId"`
	OrderID      string     `json:"orderId"`
	OwnerID      string     `json:"ownerId"`
	DriverID     string     `json:"driverId,omitempty"`
	CarID        string     `json:"carId,omitempty"`
	Status       string     `json:"status"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	AssignedAt   *time.Time `json:"assignedAt,omitempty"`
}

type TripStartedResponse struct {
	TripID    string    `json:"tripId"`
	OrderID   string    `json:"orderId"`
	DriverID  string    `json:"driverId"`
	StartKm   int64     `json:"startKm"`
	StartedAt time.Time `json:"startedAt"`
}

type DriverStatusResponse struct {
	DriverID string `json:"driverId"`
	Status   string `json:"status"`
}

type TripClosedResponse struct {
	OrderID    string            `json:"orderId"`
	TotalKm    int64             `json:"totalKm"`
	Settlement SettlementSummary `json:"settlement"`
}
