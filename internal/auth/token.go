package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/ordering-service/internal/domain"
	"github.com/spec-kit/ordering-service/pkg/util/errorutil"
)

const (
	defaultAccessTTL  = 50 * time.Minute
	defaultRefreshTTL = 24 * time.Hour
)

// TokenManager issues and verifies access and refresh tokens. Each kind has
// its own secret, so a token of one kind never verifies as the other.
type TokenManager struct {
	keys map[domain.TokenKind][]byte
	ttls map[domain.TokenKind]time.Duration
	now  func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces time.Now, used for issuing and for expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) { tm.now = now }
}

// NewTokenManager builds a new manager. Non-positive TTLs fall back to the defaults.
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, opts ...TokenOption) (*TokenManager, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	tm := &TokenManager{
		keys: map[domain.TokenKind][]byte{
			domain.TokenKindAccess:  []byte(accessSecret),
			domain.TokenKindRefresh: []byte(refreshSecret),
		},
		ttls: map[domain.TokenKind]time.Duration{
			domain.TokenKindAccess:  accessTTL,
			domain.TokenKindRefresh: refreshTTL,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm, nil
}

// Claims describes JWT payload.
type Claims struct {
	Role domain.Role      `json:"role"`
	Kind domain.TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// IssuedToken is a freshly signed token and its metadata.
type IssuedToken struct {
	Value     string
	Kind      domain.TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is the verified subject of a token.
type Identity struct {
	UserID string
	Role   domain.Role
}

// IssueAccess signs a short-lived access token.
func (tm *TokenManager) IssueAccess(userID string, role domain.Role) (*IssuedToken, error) {
	return tm.issue(domain.TokenKindAccess, userID, role)
}

// IssueRefresh signs a long-lived refresh token.
func (tm *TokenManager) IssueRefresh(userID string, role domain.Role) (*IssuedToken, error) {
	return tm.issue(domain.TokenKindRefresh, userID, role)
}

// TTL returns the lifetime configured for kind.
func (tm *TokenManager) TTL(kind domain.TokenKind) time.Duration {
	return tm.ttls[kind]
}

func (tm *TokenManager) issue(kind domain.TokenKind, userID string, role domain.Role) (*IssuedToken, error) {
	if userID == "" || !role.Valid() {
		return nil, fmt.Errorf("issue %s token: invalid subject %q/%q", kind, userID, role)
	}
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttls[kind])
	claims := &Claims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.keys[kind])
	if err != nil {
		return nil, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return &IssuedToken{
		Value:     signed,
		Kind:      kind,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify checks the signature against the key of kind and only then the
// expiry. A token with a bad signature is TokenInvalid even when it is also
// past its expiry; only a correctly signed token can be TokenExpired.
func (tm *TokenManager) Verify(tokenStr string, kind domain.TokenKind) (*Identity, error) {
	key, ok := tm.keys[kind]
	if !ok {
		return nil, errorutil.Wrap(errorutil.KindTokenInvalid, fmt.Errorf("unknown token kind %q", kind))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(_ *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, errorutil.Wrap(errorutil.KindTokenInvalid, err)
	}

	if claims.Kind != kind {
		return nil, errorutil.Wrap(errorutil.KindTokenInvalid, fmt.Errorf("token kind %q, want %q", claims.Kind, kind))
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, errorutil.Wrap(errorutil.KindTokenInvalid, errors.New("missing subject or role"))
	}
	if claims.ExpiresAt == nil {
		return nil, errorutil.Wrap(errorutil.KindTokenInvalid, errors.New("missing expiry"))
	}
	if !tm.now().Before(claims.ExpiresAt.Time) {
		return nil, errorutil.Wrap(errorutil.KindTokenExpired, jwt.ErrTokenExpired)
	}

	return &Identity{UserID: claims.Subject, Role: claims.Role}, nil
}
