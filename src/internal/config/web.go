package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"

	"dispatch-service/src/pkg/utils"
)

func NewFiber(config *viper.Viper) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      config.GetString("app.name"),
		Prefork:      config.GetBool("web.prefork"),
		ErrorHandler: func(ctx *fiber.Ctx, err error) error { return utils.ResponseError(err, ctx) },
	})
}

func NewValidator(config *viper.Viper) *validator.Validate {
	return validator.New()
}
