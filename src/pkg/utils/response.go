package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	httpError "dispatch-service/src/pkg/http-error"
)

type responseBody struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
}

func Response(data interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(responseBody{
		Success: true,
		Message: message,
		Code:    code,
		Data:    data,
	})
}

func ResponseError(err error, ctx *fiber.Ctx) error {
	var commonErr *httpError.CommonError
	if !errors.As(err, &commonErr) {
		commonErr = httpError.NewInternalServerError()
		commonErr.Message = err.Error()
	}
	return ctx.Status(commonErr.Code).JSON(responseBody{
		Success: false,
		Message: commonErr.Message,
		Code:    commonErr.Code,
	})
}
