package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ordering-service/internal/api/dto"
	"github.com/spec-kit/ordering-service/internal/auth"
	"github.com/spec-kit/ordering-service/internal/service"
	"github.com/spec-kit/ordering-service/pkg/util/errorutil"
)

// UsersHandler exposes sign-up and sign-in.
type UsersHandler struct {
	auth    *service.AuthService
	cookies auth.CookieOptions
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, cookies auth.CookieOptions) *UsersHandler {
	return &UsersHandler{auth: authService, cookies: cookies}
}

// SignUp handles POST /api/sign-up.
func (h *UsersHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.Wrap(errorutil.KindInvalidDataFormat, err)
	}

	user, err := h.auth.SignUp(c.UserContext(), service.SignUpInput{
		Nickname: req.Nickname,
		Password: req.Password,
		Role:     req.RequestedRole(),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "sign-up succeeded",
		"data": dto.UserResponse{
			ID:       user.ID,
			Nickname: user.Nickname,
			Role:     string(user.Role),
		},
	})
}

// SignIn handles POST /api/sign-in. Both credentials are written as cookies
// and echoed in headers for clients that do not keep cookies.
func (h *UsersHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.Wrap(errorutil.KindInvalidDataFormat, err)
	}

	result, err := h.auth.SignIn(c.UserContext(), req.Nickname, req.Password)
	if err != nil {
		return err
	}

	auth.SetCredentialCookie(c, auth.AccessCarrier, result.Access, h.cookies)
	auth.SetCredentialCookie(c, auth.RefreshCarrier, result.Refresh, h.cookies)
	c.Set(fiber.HeaderAuthorization, auth.FormatBearer(result.Access.Value))
	c.Set(auth.RefreshHeaderCarrier, auth.FormatBearer(result.Refresh.Value))

	return c.JSON(fiber.Map{
		"message": "sign-in succeeded",
		"data": fiber.Map{
			"user": dto.UserResponse{
				ID:       result.User.ID,
				Nickname: result.User.Nickname,
				Role:     string(result.User.Role),
			},
			"auth": dto.AuthResponse{
				AccessExpiresAt:  result.Access.ExpiresAt,
				RefreshExpiresAt: result.Refresh.ExpiresAt,
			},
		},
	})
}
