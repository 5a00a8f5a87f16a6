package fare

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
)

// DefaultCommissionPercent is the platform cut of the vendor margin.
const DefaultCommissionPercent = 10

var (
	ErrTooFewWaypoints  = errors.New("at least two waypoints are required")
	ErrBadWaypointKey   = errors.New("waypoint keys must be numeric")
	ErrNegativeAmount   = errors.New("cost fields must be non-negative")
	ErrNegativeDistance = errors.New("distance must be non-negative")
	ErrUnknownPackage   = errors.New("hourly package must have positive hours")
)

// Waypoint is one stop of a trip, ordered by its numeric index.
type Waypoint struct {
	Index int
	Place string
}

// SortedWaypoints orders a string-keyed waypoint mapping by the integer value
// of its keys. The numeric sort is load-bearing: "10" comes after "9", not
// between "1" and "2".
func SortedWaypoints(points map[string]string) ([]Waypoint, error) {
	if len(points) < 2 {
		return nil, ErrTooFewWaypoints
	}
	out := make([]Waypoint, 0, len(points))
	for k, place := range points {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, ErrBadWaypointKey
		}
		out = append(out, Waypoint{Index: idx, Place: place})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

// Segment is one leg between consecutive waypoints as resolved by the
// geolocation service.
type Segment struct {
	Km       float64
	Duration string
}

// Combine sums segment distances and concatenates their durations, the
// multi-city composition rule.
func Combine(segments []Segment) (float64, string) {
	var km float64
	durations := make([]string, 0, len(segments))
	for _, s := range segments {
		km += s.Km
		if s.Duration != "" {
			durations = append(durations, s.Duration)
		}
	}
	return km, strings.Join(durations, ", ")
}

// PointToPointParams are the per-unit costs of a one-way, round-trip or
// multi-city order, in integer minor currency units.
type PointToPointParams struct {
	CostPerKm            int64
	ExtraCostPerKm       int64
	DriverAllowance      int64
	ExtraDriverAllowance int64
	PermitCharges        int64
	ExtraPermitCharges   int64
	HillCharges          int64
	TollCharges          int64
}

// HourlyParams define a rental package {hours, included km range} and its
// per-unit costs.
type HourlyParams struct {
	PackageHours         int64
	PackageKmRange       int64
	CostPerHourPack      int64
	ExtraCostPerHourPack int64
	CostPerAddonKm       int64
	ExtraCostPerAddonKm  int64
}

// Breakdown is the fare quote. EstimatedPrice is customer-facing (without the
// extra components); VendorAmount is what the vehicle-owner network is paid,
// extras included.
type Breakdown struct {
	BaseAmount        int64 `json:"base_amount"`
	ExtraAmount       int64 `json:"extra_amount"`
	DriverAllowance   int64 `json:"driver_allowance"`
	PermitCharges     int64 `json:"permit_charges"`
	HillCharges       int64 `json:"hill_charges"`
	TollCharges       int64 `json:"toll_charges"`
	TotalAmount       int64 `json:"total_amount"`
	EstimatedPrice    int64 `json:"estimated_price"`
	VendorAmount      int64 `json:"vendor_amount"`
	CommissionPercent int64 `json:"commission_percent"`
}

// PointToPoint computes the quote for a resolved total distance. Pure and
// deterministic; callers persist the result themselves.
func PointToPoint(p PointToPointParams, totalKm float64) (Breakdown, error) {
	if totalKm < 0 {
		return Breakdown{}, ErrNegativeDistance
	}
	if anyNegative(p.CostPerKm, p.ExtraCostPerKm, p.DriverAllowance, p.ExtraDriverAllowance,
		p.PermitCharges, p.ExtraPermitCharges, p.HillCharges, p.TollCharges) {
		return Breakdown{}, ErrNegativeAmount
	}

	base := roundKm(totalKm, p.CostPerKm)
	extra := roundKm(totalKm, p.ExtraCostPerKm)
	total := base + extra +
		p.DriverAllowance + p.ExtraDriverAllowance +
		p.PermitCharges + p.ExtraPermitCharges +
		p.HillCharges + p.TollCharges

	return Breakdown{
		BaseAmount:        base,
		ExtraAmount:       extra,
		DriverAllowance:   p.DriverAllowance + p.ExtraDriverAllowance,
		PermitCharges:     p.PermitCharges + p.ExtraPermitCharges,
		HillCharges:       p.HillCharges,
		TollCharges:       p.TollCharges,
		TotalAmount:       total,
		EstimatedPrice:    base + p.DriverAllowance + p.PermitCharges + p.HillCharges + p.TollCharges,
		VendorAmount:      total,
		CommissionPercent: DefaultCommissionPercent,
	}, nil
}

// Hourly computes the rental quote. The package itself travels opaque into
// the source order for settlement.
func Hourly(p HourlyParams) (Breakdown, error) {
	if p.PackageHours <= 0 {
		return Breakdown{}, ErrUnknownPackage
	}
	if anyNegative(p.PackageKmRange, p.CostPerHourPack, p.ExtraCostPerHourPack,
		p.CostPerAddonKm, p.ExtraCostPerAddonKm) {
		return Breakdown{}, ErrNegativeAmount
	}

	return Breakdown{
		BaseAmount:        p.CostPerHourPack,
		ExtraAmount:       p.ExtraCostPerHourPack,
		TotalAmount:       p.CostPerHourPack + p.ExtraCostPerHourPack,
		EstimatedPrice:    p.CostPerHourPack,
		VendorAmount:      p.CostPerHourPack + p.ExtraCostPerHourPack,
		CommissionPercent: DefaultCommissionPercent,
	}, nil
}

func roundKm(km float64, rate int64) int64 {
	return int64(math.Round(km * float64(rate)))
}

func anyNegative(values ...int64) bool {
	for _, v := range values {
		if v < 0 {
			return true
		}
	}
	return false
}
