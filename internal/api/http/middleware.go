package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ordering-service/internal/observability"
	"github.com/spec-kit/ordering-service/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

// NewErrorHandler renders errors that escape the middleware chain, such as
// body limit violations raised by fiber before any handler runs.
func NewErrorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return renderError(c, logger, metrics, err)
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = errorutil.NewInternalError(nil)
			}
			if err != nil {
				err = renderError(c, logger, metrics, err)
			}
		}()
		return c.Next()
	}
}

// renderError is the only place a failure becomes a response.
func renderError(c *fiber.Ctx, logger *zap.Logger, metrics *observability.Metrics, err error) error {
	domainErr := translate(err)
	metrics.RecordError(c.Path(), c.Method(), string(domainErr.Kind))

	switch {
	case domainErr.HTTPStatus >= fiber.StatusInternalServerError:
		logger.Error("request failed",
			zap.String("kind", string(domainErr.Kind)),
			zap.String("path", c.Path()),
			zap.Error(domainErr.Unwrap()))
	case isAuthKind(domainErr.Kind):
		logger.Warn("request rejected",
			zap.String("kind", string(domainErr.Kind)),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()))
	}

	body := fiber.Map{
		"code":    domainErr.Kind,
		"status":  domainErr.HTTPStatus,
		"message": domainErr.Message,
	}
	if len(domainErr.Details) > 0 {
		body["details"] = domainErr.Details
	}
	return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": body})
}

// translate maps framework errors onto the taxonomy; everything else goes
// through errorutil.ToDomainError.
func translate(err error) *errorutil.DomainError {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			return errorutil.Wrap(errorutil.KindRouteNotFound, err)
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity,
			fiber.StatusRequestEntityTooLarge, fiber.StatusUnsupportedMediaType:
			return errorutil.Wrap(errorutil.KindInvalidDataFormat, err)
		default:
			return errorutil.Wrap(errorutil.KindInternal, err)
		}
	}
	return errorutil.ToDomainError(err)
}

func isAuthKind(kind errorutil.Kind) bool {
	switch kind {
	case errorutil.KindTokenInvalid, errorutil.KindTokenExpired, errorutil.KindUnauthenticated,
		errorutil.KindUserNotFound, errorutil.KindNotOwner, errorutil.KindNotCustomer:
		return true
	}
	return false
}
