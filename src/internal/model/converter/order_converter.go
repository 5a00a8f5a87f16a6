package converter

import (
	"encoding/json"

	"github.com/google/uuid"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/fare"
	"dispatch-service/src/internal/model"
)

func QuoteToResponse(b fare.Breakdown, totalKm float64, duration string) *model.QuoteResponse {
	return &model.QuoteResponse{
		BaseAmount:        b.BaseAmount,
		ExtraAmount:       b.ExtraAmount,
		DriverAllowance:   b.DriverAllowance,
		PermitCharges:     b.PermitCharges,
		HillCharges:       b.HillCharges,
		TollCharges:       b.TollCharges,
		TotalAmount:       b.TotalAmount,
		EstimatedPrice:    b.EstimatedPrice,
		VendorAmount:      b.VendorAmount,
		CommissionPercent: b.CommissionPercent,
		TotalKm:           totalKm,
		Duration:          duration,
	}
}

// OrderToResponse renders an order; customer PII is blanked unless the
// visibility flag allows it or the caller is the owning vendor.
func OrderToResponse(o *entity.Order, includeCustomer bool) *model.OrderResponse {
	var waypoints map[string]string
	_ = json.Unmarshal(o.Waypoints, &waypoints)

	resp := &model.OrderResponse{
		OrderID:           o.OrderID,
		Source:            o.Source,
		TripType:          o.TripType,
		CarType:           o.CarType,
		TripStatus:        o.TripStatus,
		Waypoints:         waypoints,
		SendTo:            o.SendTo,
		NearCity:          o.NearCity.String,
		EstimatedKm:       o.EstimatedKm,
		EstimatedDuration: o.EstimatedDuration,
		EstimatedPrice:    o.EstimatedPrice,
		VendorPrice:       o.VendorPrice,
		CommissionPercent: o.CommissionPercent,
		StartAt:           o.StartAt,
		AcceptDeadline:    o.AcceptDeadline,
		CancelledBy:       o.CancelledBy.String,
	}
	if includeCustomer {
		resp.CustomerName = o.CustomerName
		resp.CustomerNumber = o.CustomerNumber
	}
	if o.IsClosed() {
		resp.Settlement = &model.SettlementSummary{
			ClosedVendorPrice: *o.ClosedVendorPrice,
			ClosedDriverPrice: *o.ClosedDriverPrice,
			CommissionAmount:  *o.CommissionAmount,
			VendorProfit:      *o.VendorProfit,
			AdminProfit:       *o.AdminProfit,
			DriverProfit:      *o.DriverProfit,
		}
	}
	return resp
}

func OrderToCreatedEvent(o *entity.Order) *model.OrderCreatedEvent {
	return &model.OrderCreatedEvent{
		EventID:        uuid.NewString(),
		OrderID:        o.OrderID,
		VendorID:       o.VendorID,
		TripType:       o.TripType,
		CarType:        o.CarType,
		SendTo:         o.SendTo,
		NearCity:       o.NearCity.String,
		VendorPrice:    o.VendorPrice,
		AcceptDeadline: o.AcceptDeadline,
	}
}

func AssignmentToResponse(a *entity.OrderAssignment) *model.AssignmentResponse {
	resp := &model.AssignmentResponse{
		AssignmentID: a.AssignmentID,
		OrderID:      a.OrderID,
		OwnerID:      a.OwnerID,
		Status:       a.Status,
		ExpiresAt:    a.ExpiresAt,
		AssignedAt:   a.AssignedAt,
	}
	if a.DriverID != nil {
		resp.DriverID = *a.DriverID
	}
	if a.CarID != nil {
		resp.CarID = *a.CarID
	}
	return resp
}
