package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ordering-service/internal/domain"
	"github.com/spec-kit/ordering-service/pkg/util/errorutil"
)

// Authorize checks the caller's role against the one an operation requires.
func Authorize(identity *Identity, required domain.Role) error {
	if identity == nil {
		return errorutil.New(errorutil.KindUnauthenticated)
	}
	if identity.Role == required {
		return nil
	}
	switch required {
	case domain.RoleOwner:
		return errorutil.New(errorutil.KindNotOwner)
	case domain.RoleCustomer:
		return errorutil.New(errorutil.KindNotCustomer)
	default:
		return errorutil.New(errorutil.KindInternal)
	}
}

// RequireRole ensures the authenticated caller holds the role. It must run
// after AuthMiddleware.Handle and before any input validation.
func RequireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return errorutil.New(errorutil.KindUnauthenticated)
		}
		if err := Authorize(identity, required); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireOwner ensures an OWNER is authenticated.
func RequireOwner() fiber.Handler {
	return RequireRole(domain.RoleOwner)
}

// RequireCustomer ensures a CUSTOMER is authenticated.
func RequireCustomer() fiber.Handler {
	return RequireRole(domain.RoleCustomer)
}
