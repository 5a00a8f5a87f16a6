package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/gateway/messaging"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/repository"
	"dispatch-service/src/internal/settlement"
	"dispatch-service/src/pkg/databases/mysql"
	httpError "dispatch-service/src/pkg/http-error"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

type TripUseCase struct {
	Log                  log.Log
	Validate             *validator.Validate
	DB                   mysql.DBInterface
	OrderRepository      *repository.OrderRepository
	AssignmentRepository *repository.AssignmentRepository
	TripRepository       *repository.TripRepository
	WalletRepository     *repository.WalletRepository
	DriverRepository     *repository.DriverRepository
	TripProducer         *messaging.TripProducer
}

func NewTripUseCase(
	logger log.Log,
	validate *validator.Validate,
	db mysql.DBInterface,
	orderRepository *repository.OrderRepository,
	assignmentRepository *repository.AssignmentRepository,
	tripRepository *repository.TripRepository,
	walletRepository *repository.WalletRepository,
	driverRepository *repository.DriverRepository,
	tripProducer *messaging.TripProducer,
) *TripUseCase {
	return &TripUseCase{
		Log:                  logger,
		Validate:             validate,
		DB:                   db,
		OrderRepository:      orderRepository,
		AssignmentRepository: assignmentRepository,
		TripRepository:       tripRepository,
		WalletRepository:     walletRepository,
		DriverRepository:     driverRepository,
		TripProducer:         tripProducer,
	}
}

// StartTrip opens the trip record and moves assignment and driver to DRIVING
// in one transaction; either both flip or neither does.
func (c *TripUseCase) StartTrip(ctx context.Context, request *model.StartTripRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("trip-usecase", err.Error(), "StartTrip-validation", utils.ConvertString(request))
		return result
	}

	assignment, err := c.AssignmentRepository.FindActiveByOrderDB(ctx, request.OrderID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("no active claim on order %s", request.OrderID)
		result.Error = errObj
		return result
	}
	if assignment.Status != entity.AssignmentAssigned {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("claim is %s, a trip cannot start", assignment.Status)
		result.Error = errObj
		return result
	}
	if assignment.DriverID == nil || *assignment.DriverID != request.DriverID {
		errObj := httpError.NewConflict()
		errObj.Message = "driver is not bound to this order"
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

	ok, err := c.AssignmentRepository.Transition(ctx, tx, assignment.AssignmentID, entity.AssignmentAssigned, entity.AssignmentDriving)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "claim changed state, retry"
		result.Error = errObj
		return result
	}

	trip := &entity.TripRecord{
		TripID:        uuid.NewString(),
		OrderID:       request.OrderID,
		DriverID:      request.DriverID,
		StartKm:       request.StartKm,
		StartPhotoRef: request.StartPhotoRef,
	}
	if err := c.TripRepository.Create(ctx, tx, trip); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		c.Log.Error("trip-usecase", err.Error(), "StartTrip-create", request.OrderID)
		return result
	}

	ok, err = c.DriverRepository.Transition(ctx, tx, request.DriverID, entity.DriverOnline, entity.DriverDriving)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "driver is not online"
		result.Error = errObj
		return result
	}

	if err := tx.Commit(); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}
	c.Log.Info("trip-usecase", "trip started", "StartTrip", request.OrderID)

	result.Data = &model.TripStartedResponse{
		TripID:   trip.TripID,
		OrderID:  trip.OrderID,
		DriverID: trip.DriverID,
		StartKm:  trip.StartKm,
	}
	return result
}

// EndTrip closes the trip: settlement is computed up front, then the trip
// record, assignment, order, three wallet postings and the driver status all
// commit in a single transaction. Any failure, including an owner wallet
// that can no longer cover the debit, rolls everything back and surfaces to
// the caller; the driver stays DRIVING until the close actually lands.
func (c *TripUseCase) EndTrip(ctx context.Context, request *model.EndTripRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("trip-usecase", err.Error(), "EndTrip-validation", utils.ConvertString(request))
		return result
	}

	order, err := c.OrderRepository.FindByID(ctx, request.OrderID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("order %s not found", request.OrderID)
		result.Error = errObj
		return result
	}

	trip, err := c.TripRepository.FindOpenByOrderDB(ctx, request.OrderID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("no trip in progress on order %s", request.OrderID)
		result.Error = errObj
		return result
	}
	if trip.DriverID != request.DriverID {
		errObj := httpError.NewConflict()
		errObj.Message = "trip belongs to another driver"
		result.Error = errObj
		return result
	}

	assignment, err := c.AssignmentRepository.FindActiveByOrderDB(ctx, request.OrderID)
	if err != nil || assignment.Status != entity.AssignmentDriving {
		errObj := httpError.NewConflict()
		errObj.Message = "order has no claim in DRIVING state"
		result.Error = errObj
		return result
	}

	src, err := c.OrderRepository.FindSource(ctx, order)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		c.Log.Error("trip-usecase", err.Error(), "EndTrip-source", request.OrderID)
		return result
	}

	settled, err := settlement.Compute(src, settlement.Input{
		StartKm:           trip.StartKm,
		EndKm:             request.EndKm,
		EstimatedKm:       order.EstimatedKm,
		CommissionPercent: order.CommissionPercent,
		TollUpdateAllowed: order.TollUpdateAllowed,
		UpdatedToll:       request.UpdatedToll,
	})
	if err != nil {
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = err.Error()
		result.Error = errObj
		c.Log.Error("trip-usecase", err.Error(), "EndTrip-settlement", request.OrderID)
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

	locked, err := c.OrderRepository.FindByIDForUpdate(ctx, tx, request.OrderID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("order %s not found", request.OrderID)
		result.Error = errObj
		return result
	}
	if locked.IsClosed() || locked.TripStatus != entity.TripStatusPending {
		errObj := httpError.NewConflict()
		errObj.Message = "order is already settled or cancelled"
		result.Error = errObj
		return result
	}

	ok, err := c.TripRepository.Close(ctx, tx, trip.TripID, request.EndKm, request.EndPhotoRef, request.ContactNumber)
	if err != nil || !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "trip record is already closed"
		result.Error = errObj
		return result
	}

	ok, err = c.AssignmentRepository.Transition(ctx, tx, assignment.AssignmentID, entity.AssignmentDriving, entity.AssignmentCompleted)
	if err != nil || !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "claim changed state, retry"
		result.Error = errObj
		return result
	}

	ok, err = c.OrderRepository.Close(ctx, tx, order.OrderID,
		settled.ClosedVendorPrice, settled.ClosedDriverPrice, settled.CommissionAmount,
		settled.VendorProfit, settled.AdminProfit, settled.DriverProfit)
	if err != nil || !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "order is already settled"
		result.Error = errObj
		return result
	}

	if err := c.postSettlement(ctx, tx, order, assignment.OwnerID, trip.TripID, settled); err != nil {
		result.Error = err
		return result
	}

	ok, err = c.DriverRepository.Transition(ctx, tx, request.DriverID, entity.DriverDriving, entity.DriverOnline)
	if err != nil || !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "driver is no longer driving"
		result.Error = errObj
		return result
	}

	if err := tx.Commit(); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		c.Log.Error("trip-usecase", err.Error(), "EndTrip-commit", request.OrderID)
		return result
	}

	event := &model.TripCompletedEvent{
		EventID:           uuid.NewString(),
		OrderID:           order.OrderID,
		VendorID:          order.VendorID,
		OwnerID:           assignment.OwnerID,
		DriverID:          request.DriverID,
		ClosedVendorPrice: settled.ClosedVendorPrice,
		VendorProfit:      settled.VendorProfit,
	}
	if err := c.TripProducer.SendTripCompleted(event); err != nil {
		c.Log.Error("trip-usecase", err.Error(), "EndTrip-publish", order.OrderID)
	}
	c.Log.Info("trip-usecase", "trip settled", "EndTrip", order.OrderID)

	result.Data = &model.TripClosedResponse{
		OrderID: order.OrderID,
		TotalKm: settled.TotalKm,
		Settlement: model.SettlementSummary{
			ClosedVendorPrice: settled.ClosedVendorPrice,
			ClosedDriverPrice: settled.ClosedDriverPrice,
			CommissionAmount:  settled.CommissionAmount,
			VendorProfit:      settled.VendorProfit,
			AdminProfit:       settled.AdminProfit,
			DriverProfit:      settled.DriverProfit,
		},
	}
	return result
}

// postSettlement writes the three wallet movements of a closed trip. Zero
// amounts are skipped; the ledger rejects non-positive postings.
func (c *TripUseCase) postSettlement(ctx context.Context, tx *sqlx.Tx, order *entity.Order, ownerID, tripID string, settled settlement.Result) error {
	if settled.ClosedVendorPrice > 0 {
		_, err := c.WalletRepository.Debit(ctx, tx, entity.ActorOwner, ownerID, settled.ClosedVendorPrice, repository.LedgerRef{
			OrderID:       order.OrderID,
			ReferenceType: entity.RefTripCompletion,
			ReferenceID:   tripID,
			Notes:         "trip settlement",
		})
		if errors.Is(err, repository.ErrInsufficientBalance) {
			errObj := httpError.NewConflict()
			errObj.Message = "owner wallet cannot cover the settlement"
			c.Log.Error("trip-usecase", errObj.Message, "EndTrip-debit", order.OrderID)
			return errObj
		}
		if err != nil {
			errObj := httpError.NewInternalServerError()
			errObj.Message = err.Error()
			return errObj
		}
	}
	if settled.VendorProfit > 0 {
		_, err := c.WalletRepository.Credit(ctx, tx, entity.ActorVendor, order.VendorID, settled.VendorProfit, repository.LedgerRef{
			OrderID:       order.OrderID,
			ReferenceType: entity.RefOrder,
			ReferenceID:   order.OrderID,
			Notes:         "vendor profit",
		})
		if err != nil {
			errObj := httpError.NewInternalServerError()
			errObj.Message = err.Error()
			return errObj
		}
	}
	if settled.AdminProfit > 0 {
		_, err := c.WalletRepository.Credit(ctx, tx, entity.ActorAdmin, entity.AdminActorID, settled.AdminProfit, repository.LedgerRef{
			OrderID:       order.OrderID,
			ReferenceType: entity.RefOrder,
			ReferenceID:   order.OrderID,
			Notes:         "platform commission",
		})
		if err != nil {
			errObj := httpError.NewInternalServerError()
			errObj.Message = err.Error()
			return errObj
		}
	}
	return nil
}

// SetAvailability flips a driver between ONLINE and OFFLINE. DRIVING is
// reserved for the trip lifecycle and cannot be entered or left here.
func (c *TripUseCase) SetAvailability(ctx context.Context, request *model.DriverAvailabilityRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	driver, err := c.DriverRepository.Find(ctx, request.DriverID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("driver %s not found", request.DriverID)
		result.Error = errObj
		return result
	}
	if driver.Status == request.Status {
		result.Data = &model.DriverStatusResponse{DriverID: request.DriverID, Status: driver.Status}
		return result
	}
	if driver.Status == entity.DriverDriving {
		errObj := httpError.NewConflict()
		errObj.Message = "driver is mid-trip"
		result.Error = errObj
		return result
	}

	from := entity.DriverOffline
	if request.Status == entity.DriverOffline {
		from = entity.DriverOnline
	}
	ok, err := c.DriverRepository.TransitionDB(ctx, request.DriverID, from, request.Status)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "driver status changed, retry"
		result.Error = errObj
		return result
	}
	c.Log.Info("trip-usecase", "driver availability changed", "SetAvailability", request.DriverID)

	result.Data = &model.DriverStatusResponse{DriverID: request.DriverID, Status: request.Status}
	return result
}
