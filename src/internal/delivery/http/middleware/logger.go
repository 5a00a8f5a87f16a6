package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"dispatch-service/src/pkg/log"
)

// NewLogger emits one access-log line per request through the shared logger.
func NewLogger() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		logger := log.GetLogger()
		meta := fmt.Sprintf("%d %s", ctx.Response().StatusCode(), time.Since(start))
		logger.Info("http", fmt.Sprintf("%s %s", ctx.Method(), ctx.Path()), "access", meta)
		return err
	}
}
