package http

import (
	"github.com/gofiber/fiber/v2"

	"dispatch-service/src/internal/delivery/http/middleware"
	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/usecase"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/token"
	"dispatch-service/src/pkg/utils"
)

// WalletController exposes top-ups and statements; the wallet an endpoint
// touches is derived from the caller's role, never from the request body.
type WalletController struct {
	Log     log.Log
	UseCase *usecase.WalletUseCase
}

func NewWalletController(useCase *usecase.WalletUseCase, logger log.Log) *WalletController {
	return &WalletController{
		Log:     logger,
		UseCase: useCase,
	}
}

// actorOf maps the token role to wallet coordinates. The platform wallet is
// shared by all admins.
func actorOf(auth *token.Metadata) (class, actorID string) {
	switch auth.Role {
	case middleware.RoleOwner:
		return entity.ActorOwner, auth.UserID
	case middleware.RoleVendor:
		return entity.ActorVendor, auth.UserID
	case middleware.RoleAdmin:
		return entity.ActorAdmin, entity.AdminActorID
	default:
		return "", ""
	}
}

func (c *WalletController) TopUp(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.TopUpRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("WalletController.TopUp", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.ActorClass, request.ActorID = actorOf(auth)

	result := c.UseCase.TopUp(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Wallet Credited", fiber.StatusOK, ctx)
}

func (c *WalletController) Statement(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.StatementRequest{
		Limit: ctx.QueryInt("limit"),
	}
	request.ActorClass, request.ActorID = actorOf(auth)

	result := c.UseCase.Statement(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Wallet Statement", fiber.StatusOK, ctx)
}
