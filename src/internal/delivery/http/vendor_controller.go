package http

import (
	"github.com/gofiber/fiber/v2"

	"dispatch-service/src/internal/delivery/http/middleware"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/usecase"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

// VendorController is the travel-vendor surface: quoting, confirming and
// managing orders.
type VendorController struct {
	Log     log.Log
	UseCase *usecase.OrderUseCase
}

func NewVendorController(useCase *usecase.OrderUseCase, logger log.Log) *VendorController {
	return &VendorController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *VendorController) Quote(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.QuoteRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("VendorController.Quote", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.VendorID = auth.UserID

	result := c.UseCase.Quote(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Quote", fiber.StatusOK, ctx)
}

func (c *VendorController) Confirm(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.ConfirmOrderRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("VendorController.Confirm", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.VendorID = auth.UserID

	result := c.UseCase.Confirm(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order Confirmed", fiber.StatusCreated, ctx)
}

func (c *VendorController) Detail(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.OrderDetailRequest{
		VendorID: auth.UserID,
		OrderID:  ctx.Params("orderId"),
	}
	result := c.UseCase.OrderDetail(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order Detail", fiber.StatusOK, ctx)
}

func (c *VendorController) Cancel(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.CancelOrderRequest{
		VendorID: auth.UserID,
		OrderID:  ctx.Params("orderId"),
	}
	result := c.UseCase.CancelOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order Cancelled", fiber.StatusOK, ctx)
}

func (c *VendorController) SetVisibility(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.SetVisibilityRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("VendorController.SetVisibility", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.VendorID = auth.UserID
	request.OrderID = ctx.Params("orderId")

	result := c.UseCase.SetVisibility(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Visibility Updated", fiber.StatusOK, ctx)
}
