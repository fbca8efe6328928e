package auth

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ordering-service/pkg/util/errorutil"
)

// Carrier names shared by cookies and headers.
const (
	AccessCarrier        = "authorization"
	RefreshCarrier       = "refreshToken"
	RefreshHeaderCarrier = "Refresh-Token"
	bearerScheme         = "Bearer"
)

// Credentials are the raw carrier values presented with a request,
// each of the form "Bearer <token>".
type Credentials struct {
	Authorization string
	RefreshToken  string
	FromHeader    bool
}

// FormatBearer renders a token in carrier format.
func FormatBearer(token string) string {
	return bearerScheme + " " + token
}

// ParseBearer splits a carrier value on whitespace and returns the token.
// The scheme must be exactly "Bearer".
func ParseBearer(value string) (string, error) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", errorutil.Wrap(errorutil.KindTokenInvalid, errors.New("malformed credential carrier"))
	}
	if parts[0] != bearerScheme {
		return "", errorutil.Wrap(errorutil.KindTokenInvalid, errors.New("credential scheme is not Bearer"))
	}
	return parts[1], nil
}

// CredentialsFromRequest reads the carriers from cookies, falling back to
// the Authorization and Refresh-Token headers.
func CredentialsFromRequest(c *fiber.Ctx) Credentials {
	creds := Credentials{
		Authorization: cookieValue(c, AccessCarrier),
		RefreshToken:  cookieValue(c, RefreshCarrier),
	}
	if creds.Authorization == "" {
		if h := c.Get(fiber.HeaderAuthorization); h != "" {
			creds.Authorization = h
			creds.FromHeader = true
		}
	}
	if creds.RefreshToken == "" {
		creds.RefreshToken = c.Get(RefreshHeaderCarrier)
	}
	return creds
}

// CookieOptions control how credential cookies are written.
type CookieOptions struct {
	Secure bool
}

// SetCredentialCookie writes a "Bearer <token>" carrier cookie.
func SetCredentialCookie(c *fiber.Ctx, name string, token *IssuedToken, opts CookieOptions) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    url.PathEscape(FormatBearer(token.Value)),
		Path:     "/",
		Expires:  token.ExpiresAt,
		HTTPOnly: true,
		Secure:   opts.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func cookieValue(c *fiber.Ctx, name string) string {
	raw := c.Cookies(name)
	if raw == "" {
		return ""
	}
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
