package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ordering-service/internal/auth"
	"github.com/spec-kit/ordering-service/internal/validation"
	"github.com/spec-kit/ordering-service/pkg/util/errorutil"
)

// parseBody decodes the JSON body into out and runs its validate tags.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errorutil.Wrap(errorutil.KindInvalidDataFormat, err)
	}
	return validation.Struct(out)
}

// idParam reads a UUID path parameter.
func idParam(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if err := validation.Var(name, id, "required,uuid"); err != nil {
		return "", err
	}
	return id, nil
}

func identity(c *fiber.Ctx) (*auth.Identity, error) {
	id, ok := auth.IdentityFromContext(c)
	if !ok {
		return nil, errorutil.New(errorutil.KindUnauthenticated)
	}
	return id, nil
}
