package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"

	"dispatch-service/src/pkg/token"
	"dispatch-service/src/pkg/utils"

	httpError "dispatch-service/src/pkg/http-error"
)

const authLocalsKey = "auth"

// Roles carried in the bearer token; issuance lives in the auth service.
const (
	RoleVendor = "VENDOR"
	RoleOwner  = "OWNER"
	RoleDriver = "DRIVER"
	RoleAdmin  = "ADMIN"
)

// VerifyBearer validates the Authorization header and parks the verified
// claim metadata in the request locals.
func VerifyBearer(config *viper.Viper) fiber.Handler {
	secret := []byte(config.GetString("jwt.secret"))

	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "missing bearer token"
			return utils.ResponseError(errObj, ctx)
		}

		claim := new(token.Claim)
		parsed, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claim,
			func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return secret, nil
			})
		if err != nil || !parsed.Valid {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "invalid bearer token"
			return utils.ResponseError(errObj, ctx)
		}

		ctx.Locals(authLocalsKey, &claim.Metadata)
		return ctx.Next()
	}
}

// RequireRole gates a route group to the listed roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		auth := GetUser(ctx)
		for _, role := range roles {
			if auth != nil && auth.Role == role {
				return ctx.Next()
			}
		}
		errObj := httpError.NewForbidden()
		errObj.Message = "role not allowed on this resource"
		return utils.ResponseError(errObj, ctx)
	}
}

func GetUser(ctx *fiber.Ctx) *token.Metadata {
	meta, _ := ctx.Locals(authLocalsKey).(*token.Metadata)
	return meta
}
