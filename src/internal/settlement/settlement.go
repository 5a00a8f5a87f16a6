package settlement

import (
	"errors"
	"fmt"
	"math"

	"dispatch-service/src/internal/entity"
)

var (
	ErrNegativeDistance   = errors.New("end odometer is below start odometer")
	ErrUnderReported      = errors.New("reported distance does not exceed the estimated distance")
	ErrTollUpdateRequired = errors.New("this order requires an updated toll amount at trip close")
	ErrMissingSource      = errors.New("order has no source record for its kind")
)

// Input is everything the trip-close computation needs besides the source
// order: odometer readings, the provisional distance from the quote, the
// commission policy and the optional toll correction.
type Input struct {
	StartKm           int64
	EndKm             int64
	EstimatedKm       float64
	CommissionPercent int64
	TollUpdateAllowed bool
	UpdatedToll       *int64
}

// Result carries the post-close order fields. ClosedVendorPrice is debited
// from the vehicle owner; VendorProfit and AdminProfit are credited to the
// vendor and admin wallets.
type Result struct {
	TotalKm           int64
	ClosedVendorPrice int64
	ClosedDriverPrice int64
	VendorProfit      int64
	AdminProfit       int64
	DriverProfit      int64
	CommissionAmount  int64
}

// Compute derives the three-way profit split at trip close. Pure; posting the
// result is the caller's transaction.
func Compute(src entity.SourceOrder, in Input) (Result, error) {
	totalKm := in.EndKm - in.StartKm
	if totalKm < 0 {
		return Result{}, ErrNegativeDistance
	}
	// Guards against under-reporting: the driven distance must strictly
	// exceed the provisional quote distance when one was recorded.
	if in.EstimatedKm > 0 && float64(totalKm) <= in.EstimatedKm {
		return Result{}, ErrUnderReported
	}
	if in.TollUpdateAllowed && in.UpdatedToll == nil {
		return Result{}, ErrTollUpdateRequired
	}

	switch src.Kind {
	case entity.SourceHourly:
		if src.Hourly == nil {
			return Result{}, ErrMissingSource
		}
		return computeHourly(src.Hourly, totalKm, in.CommissionPercent), nil
	case entity.SourceOnewayFamily:
		if src.PointToPoint == nil {
			return Result{}, ErrMissingSource
		}
		return computePointToPoint(src.PointToPoint, totalKm, in), nil
	default:
		return Result{}, fmt.Errorf("unknown source kind %q", src.Kind)
	}
}

func computeHourly(h *entity.HourlyOrder, totalKm, commissionPercent int64) Result {
	balanceKm := totalKm - h.PackageKmRange
	if balanceKm < 0 {
		balanceKm = 0
	}

	driverPrice := h.CostPerHour*h.PackageHours + balanceKm*h.CostPerAddonKm
	vendorPrice := (h.CostPerHour+h.ExtraCostPerHour)*h.PackageHours +
		balanceKm*(h.CostPerAddonKm+h.ExtraCostPerAddonKm)

	vendorProfitRaw := vendorPrice - driverPrice
	adminProfit := roundPercent(vendorProfitRaw, commissionPercent)
	vendorProfit := vendorProfitRaw - adminProfit
	// Driver profit is vendor price minus the raw margin, not the net one.
	// Confirmed business policy, not an arithmetic slip.
	driverProfit := vendorPrice - vendorProfitRaw

	return Result{
		TotalKm:           totalKm,
		ClosedVendorPrice: vendorPrice,
		ClosedDriverPrice: driverPrice,
		VendorProfit:      vendorProfit,
		AdminProfit:       adminProfit,
		DriverProfit:      driverProfit,
		CommissionAmount:  adminProfit,
	}
}

func computePointToPoint(p *entity.PointToPointOrder, totalKm int64, in Input) Result {
	toll := p.TollCharges
	if in.UpdatedToll != nil {
		toll = *in.UpdatedToll
	}

	km := float64(totalKm)
	baseKmAmount := int64(math.Round(km * float64(p.CostPerKm)))
	extraKmAmount := int64(math.Round(km * float64(p.ExtraCostPerKm)))

	vendorPrice := baseKmAmount + extraKmAmount +
		p.DriverAllowance + p.ExtraDriverAllowance +
		p.PermitCharges + p.ExtraPermitCharges +
		p.HillCharges + toll
	driverPrice := baseKmAmount + p.DriverAllowance + p.PermitCharges + p.HillCharges + toll

	receivable := (vendorPrice - driverPrice) + roundPercent(baseKmAmount, in.CommissionPercent)
	adminProfit := roundPercent(receivable, in.CommissionPercent)
	vendorProfit := receivable - adminProfit
	driverProfit := vendorPrice - receivable

	return Result{
		TotalKm:           totalKm,
		ClosedVendorPrice: vendorPrice,
		ClosedDriverPrice: driverPrice,
		VendorProfit:      vendorProfit,
		AdminProfit:       adminProfit,
		DriverProfit:      driverProfit,
		CommissionAmount:  adminProfit,
	}
}

func roundPercent(amount, percent int64) int64 {
	return int64(math.Round(float64(amount) * float64(percent) / 100.0))
}
