package http

import (
	"github.com/gofiber/fiber/v2"

	"dispatch-service/src/internal/delivery/http/middleware"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/usecase"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

// OwnerController is the vehicle-owner surface: the open-order board and the
// claim lifecycle up to handing the trip to a driver.
type OwnerController struct {
	Log               log.Log
	OrderUseCase      *usecase.OrderUseCase
	AssignmentUseCase *usecase.AssignmentUseCase
}

func NewOwnerController(orderUseCase *usecase.OrderUseCase, assignmentUseCase *usecase.AssignmentUseCase, logger log.Log) *OwnerController {
	return &OwnerController{
		Log:               logger,
		OrderUseCase:      orderUseCase,
		AssignmentUseCase: assignmentUseCase,
	}
}

func (c *OwnerController) ListOpenOrders(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.ListOpenOrdersRequest{
		OwnerID: auth.UserID,
		City:    ctx.Query("city"),
	}
	result := c.OrderUseCase.ListOpenOrders(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Open Orders", fiber.StatusOK, ctx)
}

func (c *OwnerController) Accept(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.AcceptOrderRequest{
		OwnerID: auth.UserID,
		OrderID: ctx.Params("orderId"),
	}
	result := c.AssignmentUseCase.AcceptOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order Accepted", fiber.StatusCreated, ctx)
}

func (c *OwnerController) AssignDriver(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.AssignDriverRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("OwnerController.AssignDriver", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.OwnerID = auth.UserID
	request.OrderID = ctx.Params("orderId")

	result := c.AssignmentUseCase.AssignDriverCar(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Driver Assigned", fiber.StatusOK, ctx)
}

func (c *OwnerController) Release(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.CancelAssignmentRequest{
		OwnerID: auth.UserID,
		OrderID: ctx.Params("orderId"),
	}
	result := c.AssignmentUseCase.CancelAssignment(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Claim Released", fiber.StatusOK, ctx)
}
