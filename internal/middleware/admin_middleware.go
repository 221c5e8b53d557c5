package middleware

import (
	common_models "go-chms/internal/common/models"
	"go-chms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminMiddleware allows only platform administrators through
func AdminMiddleware() fiber.Handler {
	return RequireRole(common_models.RoleAdmin)
}

// RequireRole checks that the authenticated user holds one of the given roles
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok || claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied: insufficient role",
		})
	}
}
