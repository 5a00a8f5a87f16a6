package model

import "time"

// OrderCreatedEvent is broadcast to the vehicle-owner pool after a confirmed
// quote commits.
type OrderCreatedEvent struct {
	EventID        string    `json:"event_id"`
	OrderID        string    `json:"order_id"`
	VendorID       string    `json:"vendor_id"`
	TripType       string    `json:"trip_type"`
	CarType        string    `json:"car_type"`
	SendTo         string    `json:"send_to"`
	NearCity       string    `json:"near_city,omitempty"`
	VendorPrice    int64     `json:"vendor_price"`
	AcceptDeadline time.Time `json:"accept_deadline"`
}

func (e *OrderCreatedEvent) GetId() string { return e.OrderID }

// TripCompletedEvent notifies vendor and vehicle owner after settlement has
// committed. Delivery is best-effort; settlement never waits on it.
type TripCompletedEvent struct {
	EventID           string `json:"event_id"`
	OrderID           string `json:"order_id"`
	VendorID          string `json:"vendor_id"`
	OwnerID           string `json:"owner_id"`
	DriverID          string `json:"driver_id"`
	ClosedVendorPrice int64  `json:"closed_vendor_price"`
	VendorProfit      int64  `json:"vendor_profit"`
}

func (e *TripCompletedEvent) GetId() string { return e.OrderID }

// AssignmentCancelledEvent flows out on owner cancellation and on sweeper
// auto-cancellation, reopening the order for the pool.
type AssignmentCancelledEvent struct {
	EventID      string `json:"event_id"`
	OrderID      string `json:"order_id"`
	AssignmentID string `json:"assignment_id"`
	OwnerID      string `json:"owner_id"`
	Reason       string `json:"reason"`
}

func (e *AssignmentCancelledEvent) GetId() string { return e.OrderID }
