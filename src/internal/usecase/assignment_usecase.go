package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/gateway/messaging"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/model/converter"
	"dispatch-service/src/internal/repository"
	"dispatch-service/src/pkg/databases/mysql"
	httpError "dispatch-service/src/pkg/http-error"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

type AssignmentUseCase struct {
	Log                  log.Log
	Validate             *validator.Validate
	DB                   mysql.DBInterface
	OrderRepository      *repository.OrderRepository
	AssignmentRepository *repository.AssignmentRepository
	WalletRepository     *repository.WalletRepository
	DriverRepository     *repository.DriverRepository
	OrderProducer        *messaging.OrderProducer
}

func NewAssignmentUseCase(
	logger log.Log,
	validate *validator.Validate,
	db mysql.DBInterface,
	orderRepository *repository.OrderRepository,
	assignmentRepository *repository.AssignmentRepository,
	walletRepository *repository.WalletRepository,
	driverRepository *repository.DriverRepository,
	orderProducer *messaging.OrderProducer,
) *AssignmentUseCase {
	return &AssignmentUseCase{
		Log:                  logger,
		Validate:             validate,
		DB:                   db,
		OrderRepository:      orderRepository,
		AssignmentRepository: assignmentRepository,
		WalletRepository:     walletRepository,
		DriverRepository:     driverRepository,
		OrderProducer:        orderProducer,
	}
}

// AcceptOrder claims an open order for a vehicle owner. The order row lock
// serializes concurrent claims; the unique index on the assignment table is
// the backstop should two transactions slip past the existence check.
func (c *AssignmentUseCase) AcceptOrder(ctx context.Context, request *model.AcceptOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("assignment-usecase", err.Error(), "AcceptOrder-validation", utils.ConvertString(request))
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
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("order %s not found", request.OrderID)
		result.Error = errObj
		return result
	}
	if order.TripStatus != entity.TripStatusPending {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("order is %s and cannot be accepted", order.TripStatus)
		result.Error = errObj
		return result
	}

	_, err = c.AssignmentRepository.FindActiveByOrder(ctx, tx, request.OrderID)
	if err == nil {
		errObj := httpError.NewConflict()
		errObj.Message = "order is already claimed by another owner"
		result.Error = errObj
		return result
	}
	if !errors.Is(err, repository.ErrNotFound) {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}

	balance, err := c.WalletRepository.BalanceTx(ctx, tx, entity.ActorOwner, request.OwnerID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}
	if balance < order.VendorPrice {
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = fmt.Sprintf("wallet balance %d does not cover the vendor price %d", balance, order.VendorPrice)
		result.Error = errObj
		c.Log.Info("assignment-usecase", "claim rejected on balance", "AcceptOrder", request.OwnerID)
		return result
	}

	assignment := &entity.OrderAssignment{
		AssignmentID: uuid.NewString(),
		OrderID:      order.OrderID,
		OwnerID:      request.OwnerID,
		Status:       entity.AssignmentPending,
		ExpiresAt:    order.AcceptDeadline,
	}
	if err := c.AssignmentRepository.Create(ctx, tx, assignment); err != nil {
		if errors.Is(err, repository.ErrActiveAssignment) {
			errObj := httpError.NewConflict()
			errObj.Message = "order is already claimed by another owner"
			result.Error = errObj
			return result
		}
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		c.Log.Error("assignment-usecase", err.Error(), "AcceptOrder-create", order.OrderID)
		return result
	}
	if err := tx.Commit(); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}

	c.Log.Info("assignment-usecase", "order claimed", "AcceptOrder", order.OrderID)
	result.Data = converter.AssignmentToResponse(assignment)
	return result
}

// AssignDriverCar binds a driver and car to the owner's PENDING claim. The
// conditional update loses cleanly against a concurrent sweep of the claim.
func (c *AssignmentUseCase) AssignDriverCar(ctx context.Context, request *model.AssignDriverRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	driver, err := c.DriverRepository.Find(ctx, request.DriverID)
	if err != nil || driver.OwnerID != request.OwnerID {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("driver %s not found", request.DriverID)
		result.Error = errObj
		return result
	}
	if driver.Status != entity.DriverOnline {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("driver is %s and cannot take a trip", driver.Status)
		result.Error = errObj
		return result
	}

	assignment, err := c.AssignmentRepository.FindActiveByOrderDB(ctx, request.OrderID)
	if err != nil || assignment.OwnerID != request.OwnerID {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("no open claim on order %s", request.OrderID)
		result.Error = errObj
		return result
	}

	ok, err := c.AssignmentRepository.AssignDriverCar(ctx, request.OrderID, request.OwnerID, request.DriverID, request.CarID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "claim is no longer pending"
		result.Error = errObj
		return result
	}

	now := time.Now()
	assignment.Status = entity.AssignmentAssigned
	assignment.DriverID = &request.DriverID
	assignment.CarID = &request.CarID
	assignment.AssignedAt = &now
	c.Log.Info("assignment-usecase", "driver and car assigned", "AssignDriverCar", request.OrderID)

	result.Data = converter.AssignmentToResponse(assignment)
	return result
}

// CancelAssignment releases the owner's claim, reopening the order for the
// rest of the pool.
func (c *AssignmentUseCase) CancelAssignment(ctx context.Context, request *model.CancelAssignmentRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	assignment, err := c.AssignmentRepository.FindActiveByOrderDB(ctx, request.OrderID)
	if err != nil || assignment.OwnerID != request.OwnerID {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("no open claim on order %s", request.OrderID)
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

	ok, err := c.AssignmentRepository.Cancel(ctx, tx, assignment.AssignmentID, request.OwnerID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "claim can no longer be cancelled"
		result.Error = errObj
		return result
	}
	if err := tx.Commit(); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}

	event := &model.AssignmentCancelledEvent{
		EventID:      uuid.NewString(),
		OrderID:      request.OrderID,
		AssignmentID: assignment.AssignmentID,
		OwnerID:      request.OwnerID,
		Reason:       "CANCELLED_BY_OWNER",
	}
	if err := c.OrderProducer.SendAssignmentCancelled(event); err != nil {
		c.Log.Error("assignment-usecase", err.Error(), "CancelAssignment-publish", request.OrderID)
	}
	c.Log.Info("assignment-usecase", "claim cancelled by owner", "CancelAssignment", request.OrderID)

	now := time.Now()
	assignment.Status = entity.AssignmentCancelled
	assignment.CancelledAt = &now
	result.Data = converter.AssignmentToResponse(assignment)
	return result
}

// SweepExpired auto-cancels PENDING claims whose deadline passed without a
// driver and car being bound. Runs as a scheduled job; the deadline is soft,
// a claim completed between expiry and the sweep simply stays completed.
func (c *AssignmentUseCase) SweepExpired(ctx context.Context) utils.Result {
	var result utils.Result

	tx, err := c.DB.BeginTxx(ctx)
	if err != nil {
		result.Error = err
		c.Log.Error("assignment-usecase", err.Error(), "SweepExpired-begin", "")
		return result
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	expired, err := c.AssignmentRepository.ListExpiredPending(ctx, tx, now)
	if err != nil {
		result.Error = err
		c.Log.Error("assignment-usecase", err.Error(), "SweepExpired-list", "")
		return result
	}
	if len(expired) == 0 {
		if err := tx.Commit(); err != nil {
			result.Error = err
			return result
		}
		result.Data = int64(0)
		return result
	}

	swept, err := c.AssignmentRepository.CancelExpired(ctx, tx, now)
	if err != nil {
		result.Error = err
		c.Log.Error("assignment-usecase", err.Error(), "SweepExpired-cancel", "")
		return result
	}
	if err := tx.Commit(); err != nil {
		result.Error = err
		return result
	}

	for i := range expired {
		a := &expired[i]
		event := &model.AssignmentCancelledEvent{
			EventID:      uuid.NewString(),
			OrderID:      a.OrderID,
			AssignmentID: a.AssignmentID,
			OwnerID:      a.OwnerID,
			Reason:       entity.CancelledAuto,
		}
		if err := c.OrderProducer.SendAssignmentCancelled(event); err != nil {
			c.Log.Error("assignment-usecase", err.Error(), "SweepExpired-publish", a.OrderID)
		}
	}
	c.Log.Info("assignment-usecase", fmt.Sprintf("swept %d expired claims", swept), "SweepExpired", "")

	result.Data = swept
	return result
}
