package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/ordering-service/internal/domain"
	"github.com/spec-kit/ordering-service/internal/observability"
	"github.com/spec-kit/ordering-service/pkg/util/errorutil"
)

const sessionKey = "auth_session"

// SessionState is the terminal state of a successful authentication.
type SessionState string

const (
	StateAccessValid SessionState = "ACCESS_VALID"
	StateRenewed     SessionState = "RENEWED"
)

// Session is the request-scoped result of authentication. Renewed is set
// when an expired access token was replaced and must be sent back.
type Session struct {
	Identity Identity
	User     *domain.User
	State    SessionState
	Renewed  *IssuedToken
}

// UserFinder looks up the credential record behind a token subject.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// SessionAuthenticator runs verify → refresh → re-issue for one request.
type SessionAuthenticator struct {
	tokens          *TokenManager
	users           UserFinder
	logger          *zap.Logger
	metrics         *observability.Metrics
	verifyOnRenewal bool
}

// AuthenticatorOption customizes a SessionAuthenticator.
type AuthenticatorOption func(*SessionAuthenticator)

// WithRenewalUserCheck makes renewal re-load the user and take the role from
// storage instead of trusting the refresh token claims.
func WithRenewalUserCheck(enabled bool) AuthenticatorOption {
	return func(a *SessionAuthenticator) { a.verifyOnRenewal = enabled }
}

// WithMetrics records renewals and rejections.
func WithMetrics(m *observability.Metrics) AuthenticatorOption {
	return func(a *SessionAuthenticator) { a.metrics = m }
}

// NewSessionAuthenticator constructs the authenticator.
func NewSessionAuthenticator(tokens *TokenManager, users UserFinder, logger *zap.Logger, opts ...AuthenticatorOption) *SessionAuthenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &SessionAuthenticator{tokens: tokens, users: users, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authenticate resolves the caller from its credential carriers.
func (a *SessionAuthenticator) Authenticate(ctx context.Context, creds Credentials) (*Session, error) {
	if creds.Authorization == "" {
		return nil, errorutil.New(errorutil.KindUnauthenticated)
	}
	token, err := ParseBearer(creds.Authorization)
	if err != nil {
		a.reject("access", err)
		return nil, err
	}

	identity, err := a.tokens.Verify(token, domain.TokenKindAccess)
	switch {
	case err == nil:
		return a.loadSession(ctx, identity)
	case errorutil.IsKind(err, errorutil.KindTokenExpired):
		return a.renew(ctx, creds)
	default:
		a.reject("access", err)
		return nil, err
	}
}

func (a *SessionAuthenticator) loadSession(ctx context.Context, identity *Identity) (*Session, error) {
	user, err := a.lookup(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	return &Session{Identity: *identity, User: user, State: StateAccessValid}, nil
}

func (a *SessionAuthenticator) renew(ctx context.Context, creds Credentials) (*Session, error) {
	if creds.RefreshToken == "" {
		err := errorutil.Wrap(errorutil.KindTokenExpired, errors.New("access token expired and no refresh token presented"))
		a.reject("refresh", err)
		return nil, err
	}
	refresh, err := ParseBearer(creds.RefreshToken)
	if err != nil {
		a.reject("refresh", err)
		return nil, err
	}
	identity, err := a.tokens.Verify(refresh, domain.TokenKindRefresh)
	if err != nil {
		a.reject("refresh", err)
		return nil, err
	}

	var user *domain.User
	if a.verifyOnRenewal {
		if user, err = a.lookup(ctx, identity.UserID); err != nil {
			return nil, err
		}
		identity.Role = user.Role
	}

	issued, err := a.tokens.IssueAccess(identity.UserID, identity.Role)
	if err != nil {
		return nil, errorutil.Wrap(errorutil.KindInternal, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errorutil.Wrap(errorutil.KindInternal, err)
	}

	a.metrics.RecordRenewal()
	a.logger.Info("access token renewed",
		zap.String("user_id", identity.UserID),
		zap.String("role", string(identity.Role)),
		zap.Time("expires_at", issued.ExpiresAt))

	return &Session{Identity: *identity, User: user, State: StateRenewed, Renewed: issued}, nil
}

func (a *SessionAuthenticator) lookup(ctx context.Context, userID string) (*domain.User, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.Wrap(errorutil.KindUserNotFound, err)
		}
		return nil, errorutil.MapError(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errorutil.Wrap(errorutil.KindInternal, err)
	}
	return user, nil
}

// reject logs the failure with its kind so tampering and expiry stay
// distinguishable in audit logs.
func (a *SessionAuthenticator) reject(carrier string, err error) {
	kind := errorutil.KindOf(err)
	a.metrics.RecordRejection(string(kind))
	a.logger.Warn("credential rejected",
		zap.String("carrier", carrier),
		zap.String("kind", string(kind)),
		zap.Error(err))
}

// AuthMiddleware adapts SessionAuthenticator to fiber.
type AuthMiddleware struct {
	authenticator *SessionAuthenticator
	cookies       CookieOptions
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(authenticator *SessionAuthenticator, cookies CookieOptions) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator, cookies: cookies}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	creds := CredentialsFromRequest(c)
	session, err := m.authenticator.Authenticate(c.UserContext(), creds)
	if err != nil {
		return err
	}

	if session.Renewed != nil {
		SetCredentialCookie(c, AccessCarrier, session.Renewed, m.cookies)
		if creds.FromHeader {
			c.Set(fiber.HeaderAuthorization, FormatBearer(session.Renewed.Value))
		}
	}

	c.Locals(sessionKey, session)
	return c.Next()
}

// SessionFromContext retrieves the authenticated session.
func SessionFromContext(c *fiber.Ctx) (*Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*Session)
	return session, ok
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	session, ok := SessionFromContext(c)
	if !ok {
		return nil, false
	}
	return &session.Identity, true
}
