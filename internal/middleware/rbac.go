package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lapor-warga/internal/domain"
)

// RequireOfficer gates endpoints to any non-public role.
func RequireOfficer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor.ID == uuid.Nil {
			return Unauthorized("User not found")
		}
		if !actor.IsOfficer() {
			return Forbidden("Insufficient permissions for this operation")
		}
		return c.Next()
	}
}

func RequireAnyRole(roleTypes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor.ID == uuid.Nil {
			return Unauthorized("User not found")
		}

		for _, rt := range roleTypes {
			if actor.RoleType == rt {
				return c.Next()
			}
		}
		return Forbidden("Insufficient permissions for this operation")
	}
}

// RequireAuthorizer gates verification decisions to the authorizing roles.
func RequireAuthorizer() fiber.Handler {
	return RequireAnyRole(domain.RoleAuthorizer, domain.RoleSuperAdmin)
}
