package http

import (
	"github.com/gofiber/fiber/v2"

	"dispatch-service/src/internal/delivery/http/middleware"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/usecase"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

// DriverController is the driver surface: availability and the trip itself.
type DriverController struct {
	Log     log.Log
	UseCase *usecase.TripUseCase
}

func NewDriverController(useCase *usecase.TripUseCase, logger log.Log) *DriverController {
	return &DriverController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *DriverController) StartTrip(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.StartTripRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("DriverController.StartTrip", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.DriverID = auth.UserID

	result := c.UseCase.StartTrip(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Trip Started", fiber.StatusCreated, ctx)
}

func (c *DriverController) EndTrip(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.EndTripRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("DriverController.EndTrip", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.DriverID = auth.UserID

	result := c.UseCase.EndTrip(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Trip Settled", fiber.StatusOK, ctx)
}

func (c *DriverController) SetAvailability(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.DriverAvailabilityRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("DriverController.SetAvailability", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.DriverID = auth.UserID

	result := c.UseCase.SetAvailability(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Availability Updated", fiber.StatusOK, ctx)
}
