package model

import "time"

type ConfirmOrderRequest struct {
	VendorID          string             `json:"-" validate:"required"`
	TripType          string             `json:"tripType" validate:"required,oneof=ONEWAY ROUNDTRIP MULTICITY HOURLY"`
	CarType           string             `json:"carType" validate:"required"`
	Waypoints         map[string]string  `json:"waypoints" validate:"required,min=2"`
	PointToPoint      *PointToPointCosts `json:"pointToPoint,omitempty"`
	Hourly            *HourlyPackage     `json:"hourly,omitempty"`
	CustomerName      string             `json:"customerName" validate:"required"`
	CustomerNumber    string             `json:"customerNumber" validate:"required"`
	StartAt           time.Time          `json:"startAt" validate:"required"`
	SendTo            string             `json:"sendTo" validate:"required,oneof=ALL NEAR_CITY"`
	NearCity          string             `json:"nearCity" validate:"required_if=SendTo NEAR_CITY"`
	DeadlineMinutes   int                `json:"deadlineMinutes" validate:"gte=0,lte=1440"`
	TollUpdateAllowed bool               `json:"tollUpdateAllowed"`
	CustomerVisible   bool               `json:"customerVisible"`
}

type OrderDetailRequest struct {
	VendorID string `json:"-" validate:"required"`
	OrderID  string `json:"orderId" validate:"required"`
}

type CancelOrderRequest struct {
	VendorID string `json:"-" validate:"required"`
	OrderID  string `json:"orderId" validate:"required"`
}

type SetVisibilityRequest struct {
	VendorID string `json:"-" validate:"required"`
	OrderID  string `json:"orderId" validate:"required"`
	Visible  bool   `json:"visible"`
}

type ListOpenOrdersRequest struct {
	OwnerID string `json:"-" validate:"required"`
	City    string `json:"city"`
}

type SettlementSummary struct {
	ClosedVendorPrice int64 `json:"closedVendorPrice"`
	ClosedDriverPrice int64 `json:"closedDriverPrice"`
	CommissionAmount  int64 `json:"commissionAmount"`
	VendorProfit      int64 `json:"vendorProfit"`
	AdminProfit       int64 `json:"adminProfit"`
	DriverProfit      int64 `json:"driverProfit"`
}

type OrderResponse struct {
	OrderID           string             `json:"orderId"`
	Source            string             `json:"source"`
	TripType          string             `json:"tripType"`
	CarType           string             `json:"carType"`
	TripStatus        string             `json:"tripStatus"`
	Waypoints         map[string]string  `json:"waypoints"`
	CustomerName      string             `json:"customerName,omitempty"`
	CustomerNumber    string             `json:"customerNumber,omitempty"`
	SendTo            string             `json:"sendTo"`
	NearCity          string             `json:"nearCity,omitempty"`
	EstimatedKm       float64            `json:"estimatedKm"`
	EstimatedDuration string             `json:"estimatedDuration"`
	EstimatedPrice    int64              `json:"estimatedPrice"`
	VendorPrice       int64              `json:"vendorPrice"`
	CommissionPercent int64              `json:"commissionPercent"`
	StartAt           time.Time          `json:"startAt"`
	AcceptDeadline    time.Time          `json:"acceptDeadline"`
	CancelledBy       string             `json:"cancelledBy,omitempty"`
	Settlement        *SettlementSummary `json:"settlement,omitempty"`
}
