package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/homebuilt/warranty-service/internal/domain"
	apperrors "github.com/homebuilt/warranty-service/pkg/util/errorutil"
)

// RequireRole ensures the principal holds one of the allowed roles.
func RequireRole(allowed ...domain.AccountRole) fiber.Handler {
	allowedSet := make(map[domain.AccountRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Account.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireInternal admits warranty staff and administrators.
func RequireInternal() fiber.Handler {
	return RequireRole(domain.AccountRoleStaff, domain.AccountRoleAdmin)
}
