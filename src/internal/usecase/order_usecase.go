package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/fare"
	"dispatch-service/src/internal/gateway/geo"
	"dispatch-service/src/internal/gateway/messaging"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/model/converter"
	"dispatch-service/src/internal/policy"
	"dispatch-service/src/internal/repository"
	"dispatch-service/src/pkg/databases/mysql"
	httpError "dispatch-service/src/pkg/http-error"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

type OrderUseCase struct {
	Log                  log.Log
	Validate             *validator.Validate
	DB                   mysql.DBInterface
	OrderRepository      *repository.OrderRepository
	AssignmentRepository *repository.AssignmentRepository
	Geolocator           geo.Geolocator
	Redis                redis.UniversalClient
	Policy               *policy.Provider
	OrderProducer        *messaging.OrderProducer
}

func NewOrderUseCase(
	logger log.Log,
	validate *validator.Validate,
	db mysql.DBInterface,
	orderRepository *repository.OrderRepository,
	assignmentRepository *repository.AssignmentRepository,
	geolocator geo.Geolocator,
	redisClient redis.UniversalClient,
	policyProvider *policy.Provider,
	orderProducer *messaging.OrderProducer,
) *OrderUseCase {
	return &OrderUseCase{
		Log:                  logger,
		Validate:             validate,
		DB:                   db,
		OrderRepository:      orderRepository,
		AssignmentRepository: assignmentRepository,
		Geolocator:           geolocator,
		Redis:                redisClient,
		Policy:               policyProvider,
		OrderProducer:        orderProducer,
	}
}

// resolvedQuote is the shared outcome of the quote and confirm paths; both
// must compute the same numbers for the same inputs.
type resolvedQuote struct {
	Breakdown fare.Breakdown
	TotalKm   float64
	Duration  string
}

func (c *OrderUseCase) resolveQuote(ctx context.Context, tripType string, waypoints map[string]string, p2p *model.PointToPointCosts, hourly *model.HourlyPackage) (*resolvedQuote, error) {
	switch tripType {
	case entity.TripTypeHourly:
		if hourly == nil {
			errObj := httpError.NewBadRequest()
			errObj.Message = "hourly package is required for HOURLY trips"
			return nil, errObj
		}
		breakdown, err := fare.Hourly(fare.HourlyParams{
			PackageHours:         hourly.Hours,
			PackageKmRange:       hourly.KmRange,
			CostPerHourPack:      hourly.CostPerHour,
			ExtraCostPerHourPack: hourly.ExtraCostPerHour,
			CostPerAddonKm:       hourly.CostPerAddonKm,
			ExtraCostPerAddonKm:  hourly.ExtraCostPerAddonKm,
		})
		if err != nil {
			errObj := httpError.NewUnprocessableEntity()
			errObj.Message = err.Error()
			return nil, errObj
		}
		// Hourly packages are priced by time, not route; no geolocation call.
		return &resolvedQuote{Breakdown: breakdown}, nil
	default:
		if p2p == nil {
			errObj := httpError.NewBadRequest()
			errObj.Message = "pointToPoint costs are required for " + tripType + " trips"
			return nil, errObj
		}
		sorted, err := fare.SortedWaypoints(waypoints)
		if err != nil {
			errObj := httpError.NewBadRequest()
			errObj.Message = err.Error()
			return nil, errObj
		}
		places := make([]string, 0, len(sorted))
		for _, w := range sorted {
			places = append(places, w.Place)
		}
		segments, err := c.Geolocator.Segments(ctx, places)
		if err != nil {
			errObj := httpError.NewUnprocessableEntity()
			errObj.Message = fmt.Sprintf("could not resolve route: %v", err)
			return nil, errObj
		}
		totalKm, duration := fare.Combine(segments)
		breakdown, err := fare.PointToPoint(fare.PointToPointParams{
			CostPerKm:            p2p.CostPerKm,
			ExtraCostPerKm:       p2p.ExtraCostPerKm,
			DriverAllowance:      p2p.DriverAllowance,
			ExtraDriverAllowance: p2p.ExtraDriverAllowance,
			PermitCharges:        p2p.PermitCharges,
			ExtraPermitCharges:   p2p.ExtraPermitCharges,
			HillCharges:          p2p.HillCharges,
			TollCharges:          p2p.TollCharges,
		}, totalKm)
		if err != nil {
			errObj := httpError.NewUnprocessableEntity()
			errObj.Message = err.Error()
			return nil, errObj
		}
		return &resolvedQuote{Breakdown: breakdown, TotalKm: totalKm, Duration: duration}, nil
	}
}

// Quote prices a trip without persisting anything. The result is cached per
// vendor so the confirm step can be compared against what was shown.
func (c *OrderUseCase) Quote(ctx context.Context, request *model.QuoteRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("order-usecase", err.Error(), "Quote-validation", utils.ConvertString(request))
		return result
	}

	quote, err := c.resolveQuote(ctx, request.TripType, request.Waypoints, request.PointToPoint, request.Hourly)
	if err != nil {
		result.Error = err
		c.Log.Error("order-usecase", err.Error(), "Quote", utils.ConvertString(request))
		return result
	}

	response := converter.QuoteToResponse(quote.Breakdown, quote.TotalKm, quote.Duration)
	response.CommissionPercent = c.Policy.Current().CommissionPercent

	// Cache is advisory; a write failure must not fail the quote.
	key := fmt.Sprintf("VENDOR:QUOTE:%s:%s", request.VendorID, request.TripType)
	if payload, marshalErr := json.Marshal(response); marshalErr == nil {
		if redisErr := c.Redis.Set(ctx, key, payload, 30*time.Minute).Err(); redisErr != nil {
			c.Log.Error("order-usecase", redisErr.Error(), "Quote-cache", key)
		}
	}

	result.Data = response
	return result
}

// Confirm recomputes the quote, persists the source order and the master
// order in one transaction, and broadcasts the order to the owner pool after
// commit.
func (c *OrderUseCase) Confirm(ctx context.Context, request *model.ConfirmOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("order-usecase", err.Error(), "Confirm-validation", utils.ConvertString(request))
		return result
	}

	quote, err := c.resolveQuote(ctx, request.TripType, request.Waypoints, request.PointToPoint, request.Hourly)
	if err != nil {
		result.Error = err
		c.Log.Error("order-usecase", err.Error(), "Confirm", utils.ConvertString(request))
		return result
	}

	waypointsJSON, err := json.Marshal(request.Waypoints)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("marshal waypoints: %v", err)
		result.Error = errObj
		return result
	}

	pol := c.Policy.Current()
	deadlineMinutes := request.DeadlineMinutes
	if deadlineMinutes == 0 {
		deadlineMinutes = pol.DefaultDeadlineMinutes
	}

	sourceOrderID := uuid.NewString()
	order := &entity.Order{
		OrderID:           uuid.NewString(),
		SourceOrderID:     sourceOrderID,
		VendorID:          request.VendorID,
		TripType:          request.TripType,
		CarType:           request.CarType,
		Waypoints:         waypointsJSON,
		CustomerName:      request.CustomerName,
		CustomerNumber:    request.CustomerNumber,
		TripStatus:        entity.TripStatusPending,
		SendTo:            request.SendTo,
		EstimatedKm:       quote.TotalKm,
		EstimatedDuration: quote.Duration,
		EstimatedPrice:    quote.Breakdown.EstimatedPrice,
		VendorPrice:       quote.Breakdown.VendorAmount,
		CommissionPercent: pol.CommissionPercent,
		TollUpdateAllowed: request.TollUpdateAllowed,
		CustomerVisible:   request.CustomerVisible,
		StartAt:           request.StartAt,
		AcceptDeadline:    time.Now().Add(time.Duration(deadlineMinutes) * time.Minute),
	}
	if request.SendTo == entity.SendToNearCity {
		order.NearCity = utils.NullString(request.NearCity)
	}

	src := buildSourceOrder(sourceOrderID, request.TripType, request.PointToPoint, request.Hourly)
	order.Source = src.Kind

	tx, err := c.DB.BeginTxx(ctx)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		c.Log.Error("order-usecase", err.Error(), "Confirm-begin", order.OrderID)
		return result
	}
	defer func() { _ = tx.Rollback() }()

	if err := c.OrderRepository.Create(ctx, tx, order, src); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("create order: %v", err)
		result.Error = errObj
		c.Log.Error("order-usecase", err.Error(), "Confirm-create", order.OrderID)
		return result
	}
	if err := tx.Commit(); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		c.Log.Error("order-usecase", err.Error(), "Confirm-commit", order.OrderID)
		return result
	}

	// Post-commit broadcast; delivery failure is logged, never surfaced.
	if err := c.OrderProducer.SendOrderCreated(converter.OrderToCreatedEvent(order)); err != nil {
		c.Log.Error("order-usecase", err.Error(), "Confirm-publish", order.OrderID)
	}
	c.Log.Info("order-usecase", "order confirmed", "Confirm", order.OrderID)

	result.Data = converter.OrderToResponse(order, true)
	return result
}

func buildSourceOrder(sourceOrderID, tripType string, p2p *model.PointToPointCosts, hourly *model.HourlyPackage) entity.SourceOrder {
	if tripType == entity.TripTypeHourly {
		return entity.SourceOrder{
			Kind: entity.SourceHourly,
			Hourly: &entity.HourlyOrder{
				SourceOrderID:       sourceOrderID,
				PackageHours:        hourly.Hours,
				PackageKmRange:      hourly.KmRange,
				CostPerHour:         hourly.CostPerHour,
				ExtraCostPerHour:    hourly.ExtraCostPerHour,
				CostPerAddonKm:      hourly.CostPerAddonKm,
				ExtraCostPerAddonKm: hourly.ExtraCostPerAddonKm,
				PickupNotes:         hourly.PickupNotes,
			},
		}
	}
	return entity.SourceOrder{
		Kind: entity.SourceOnewayFamily,
		PointToPoint: &entity.PointToPointOrder{
			SourceOrderID:        sourceOrderID,
			CostPerKm:            p2p.CostPerKm,
			ExtraCostPerKm:       p2p.ExtraCostPerKm,
			DriverAllowance:      p2p.DriverAllowance,
			ExtraDriverAllowance: p2p.ExtraDriverAllowance,
			PermitCharges:        p2p.PermitCharges,
			ExtraPermitCharges:   p2p.ExtraPermitCharges,
			HillCharges:          p2p.HillCharges,
			TollCharges:          p2p.TollCharges,
			PickupNotes:          p2p.PickupNotes,
		},
	}
}

func (c *OrderUseCase) OrderDetail(ctx context.Context, request *model.OrderDetailRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	order, err := c.OrderRepository.FindByID(ctx, request.OrderID)
	if err != nil || order.VendorID != request.VendorID {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("order %s not found", request.OrderID)
		result.Error = errObj
		return result
	}

	result.Data = converter.OrderToResponse(order, true)
	return result
}

// CancelOrder cancels a PENDING order on the vendor's behalf and, when a
// claim is still open on it, cancels that claim in the same transaction.
func (c *OrderUseCase) CancelOrder(ctx context.Context, request *model.CancelOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	tx, err := c.DB.BeginTxx(ctx)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}
	defer func() { _ = tx.Rollback() }()

	order, err := c.OrderRepository.FindByIDForUpdate(ctx, tx, request.OrderID)
	if err != nil || order.VendorID != request.VendorID {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("order %s not found", request.OrderID)
		result.Error = errObj
		return result
	}
	if order.TripStatus != entity.TripStatusPending {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("order is %s and can no longer be cancelled", order.TripStatus)
		result.Error = errObj
		return result
	}

	var cancelledAssignment *entity.OrderAssignment
	assignment, err := c.AssignmentRepository.FindActiveByOrder(ctx, tx, request.OrderID)
	switch {
	case err == nil:
		if assignment.Status == entity.AssignmentDriving {
			errObj := httpError.NewConflict()
			errObj.Message = "trip is already in progress"
			result.Error = errObj
			return result
		}
		ok, trErr := c.AssignmentRepository.Transition(ctx, tx, assignment.AssignmentID, assignment.Status, entity.AssignmentCancelled)
		if trErr != nil || !ok {
			errObj := httpError.NewConflict()
			errObj.Message = "active claim changed state, retry the cancellation"
			result.Error = errObj
			return result
		}
		cancelledAssignment = assignment
	case errors.Is(err, repository.ErrNotFound):
		// nothing claimed, cancel the order alone
	default:
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}

	ok, err := c.OrderRepository.CancelByVendor(ctx, tx, request.OrderID, request.VendorID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "order changed state, retry the cancellation"
		result.Error = errObj
		return result
	}
	if err := tx.Commit(); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}

	if cancelledAssignment != nil {
		event := &model.AssignmentCancelledEvent{
			EventID:      uuid.NewString(),
			OrderID:      order.OrderID,
			AssignmentID: cancelledAssignment.AssignmentID,
			OwnerID:      cancelledAssignment.OwnerID,
			Reason:       entity.CancelledByVendor,
		}
		if err := c.OrderProducer.SendAssignmentCancelled(event); err != nil {
			c.Log.Error("order-usecase", err.Error(), "CancelOrder-publish", order.OrderID)
		}
	}
	c.Log.Info("order-usecase", "order cancelled by vendor", "CancelOrder", order.OrderID)

	order.TripStatus = entity.TripStatusCancelled
	order.CancelledBy = utils.NullString(entity.CancelledByVendor)
	result.Data = converter.OrderToResponse(order, true)
	return result
}

func (c *OrderUseCase) SetVisibility(ctx context.Context, request *model.SetVisibilityRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	ok, err := c.OrderRepository.SetVisibility(ctx, request.OrderID, request.VendorID, request.Visible)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}
	if !ok {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("order %s not found", request.OrderID)
		result.Error = errObj
		return result
	}

	result.Data = map[string]interface{}{
		"orderId": request.OrderID,
		"visible": request.Visible,
	}
	return result
}

// ListOpenOrders is the owner-facing board of claimable orders. Customer
// identity is blanked unless the vendor opted in.
func (c *OrderUseCase) ListOpenOrders(ctx context.Context, request *model.ListOpenOrdersRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	orders, err := c.OrderRepository.ListOpen(ctx, request.City)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		c.Log.Error("order-usecase", err.Error(), "ListOpenOrders", request.City)
		return result
	}

	responses := make([]*model.OrderResponse, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		responses = append(responses, converter.OrderToResponse(o, o.CustomerVisible))
	}
	result.Data = responses
	return result
}
