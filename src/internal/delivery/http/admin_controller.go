package http

import (
	"github.com/gofiber/fiber/v2"

	"dispatch-service/src/internal/policy"
	"dispatch-service/src/internal/usecase"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

// AdminController holds the operational endpoints: policy reload and an
// on-demand sweep alongside the scheduled one.
type AdminController struct {
	Log               log.Log
	Policy            *policy.Provider
	AssignmentUseCase *usecase.AssignmentUseCase
}

func NewAdminController(policyProvider *policy.Provider, assignmentUseCase *usecase.AssignmentUseCase, logger log.Log) *AdminController {
	return &AdminController{
		Log:               logger,
		Policy:            policyProvider,
		AssignmentUseCase: assignmentUseCase,
	}
}

func (c *AdminController) ReloadPolicy(ctx *fiber.Ctx) error {
	reloaded := c.Policy.Reload()
	c.Log.Info("AdminController.ReloadPolicy", "policy reloaded", "policy", utils.ConvertString(reloaded))
	return utils.Response(reloaded, "Policy Reloaded", fiber.StatusOK, ctx)
}

func (c *AdminController) SweepNow(ctx *fiber.Ctx) error {
	result := c.AssignmentUseCase.SweepExpired(ctx.Context())
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(map[string]interface{}{"swept": result.Data}, "Sweep Completed", fiber.StatusOK, ctx)
}
