package model

// PointToPointCosts are the vendor-entered per-unit costs for one-way,
// round-trip and multi-city quotes, minor currency units.
type PointToPointCosts struct {
	CostPerKm            int64  `json:"costPerKm" validate:"gte=0"`
	ExtraCostPerKm       int64  `json:"extraCostPerKm" validate:"gte=0"`
	DriverAllowance      int64  `json:"driverAllowance" validate:"gte=0"`
	ExtraDriverAllowance int64  `json:"extraDriverAllowance" validate:"gte=0"`
	PermitCharges        int64  `json:"permitCharges" validate:"gte=0"`
	ExtraPermitCharges   int64  `json:"extraPermitCharges" validate:"gte=0"`
	HillCharges          int64  `json:"hillCharges" validate:"gte=0"`
	TollCharges          int64  `json:"tollCharges" validate:"gte=0"`
	PickupNotes          string `json:"pickupNotes"`
}

// HourlyPackage is the rental package definition plus its per-unit costs.
type HourlyPackage struct {
	Hours               int64  `json:"hours" validate:"gt=0"`
	KmRange             int64  `json:"kmRange" validate:"gte=0"`
	CostPerHour         int64  `json:"costPerHour" validate:"gt=0"`
	ExtraCostPerHour    int64  `json:"extraCostPerHour" validate:"gte=0"`
	CostPerAddonKm      int64  `json:"costPerAddonKm" validate:"gte=0"`
	ExtraCostPerAddonKm int64  `json:"extraCostPerAddonKm" validate:"gte=0"`
	PickupNotes         string `json:"pickupNotes"`
}

type QuoteRequest struct {
	VendorID     string             `json:"-" validate:"required"`
	TripType     string             `json:"tripType" validate:"required,oneof=ONEWAY ROUNDTRIP MULTICITY HOURLY"`
	CarType      string             `json:"carType" validate:"required"`
	Waypoints    map[string]string  `json:"waypoints" validate:"required,min=2"`
	PointToPoint *PointToPointCosts `json:"pointToPoint,omitempty"`
	Hourly       *HourlyPackage     `json:"hourly,omitempty"`
}

// QuoteResponse echoes distance and duration for the confirm step.
type QuoteResponse struct {
	BaseAmount        int64   `json:"baseAmount"`
	ExtraAmount       int64   `json:"extraAmount"`
	DriverAllowance   int64   `json:"driverAllowance"`
	PermitCharges     int64   `json:"permitCharges"`
	HillCharges       int64   `json:"hillCharges"`
	TollCharges       int64   `json:"tollCharges"`
	TotalAmount       int64   `json:"totalAmount"`
	EstimatedPrice    int64   `json:"estimatedPrice"`
	VendorAmount      int64   `json:"vendorAmount"`
	CommissionPercent int64   `json:"commissionPercent"`
	TotalKm           float64 `json:"totalKm"`
	Duration          string  `json:"duration"`
}
