package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/ordering-service/internal/domain"
	"github.com/spec-kit/ordering-service/internal/observability"
	"github.com/spec-kit/ordering-service/pkg/util/errorutil"
)

type authFixture struct {
	clock   *fakeClock
	tokens  *TokenManager
	users   *fakeUsers
	metrics *observability.Metrics
	logs    *observer.ObservedLogs
	auth    *SessionAuthenticator
}

func newAuthFixture(t *testing.T, opts ...AuthenticatorOption) *authFixture {
	t.Helper()
	clock := newFakeClock()
	tokens := newTestManager(t, clock)
	users := newFakeUsers(
		&domain.User{ID: "owner-1", Nickname: "boss1", Role: domain.RoleOwner},
		&domain.User{ID: "cust-1", Nickname: "alice123", Role: domain.RoleCustomer},
	)
	core, logs := observer.New(zap.DebugLevel)
	metrics := observability.NewMetrics()
	opts = append([]AuthenticatorOption{WithMetrics(metrics)}, opts...)
	return &authFixture{
		clock:   clock,
		tokens:  tokens,
		users:   users,
		metrics: metrics,
		logs:    logs,
		auth:    NewSessionAuthenticator(tokens, users, zap.New(core), opts...),
	}
}

func (f *authFixture) credentials(t *testing.T, userID string, role domain.Role) Credentials {
	t.Helper()
	access, err := f.tokens.IssueAccess(userID, role)
	require.NoError(t, err)
	refresh, err := f.tokens.IssueRefresh(userID, role)
	require.NoError(t, err)
	return Credentials{
		Authorization: FormatBearer(access.Value),
		RefreshToken:  FormatBearer(refresh.Value),
	}
}

func TestAuthenticateNoCredential(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.auth.Authenticate(context.Background(), Credentials{})
	assert.True(t, errorutil.IsKind(err, errorutil.KindUnauthenticated), "got %v", err)
	assert.Zero(t, f.users.Calls())
}

func TestAuthenticateMalformedScheme(t *testing.T) {
	f := newAuthFixture(t)
	creds := f.credentials(t, "cust-1", domain.RoleCustomer)

	for _, carrier := range []string{
		"Basic " + creds.Authorization[len("Bearer "):],
		"bearer " + creds.Authorization[len("Bearer "):],
		"Bearer",
		creds.Authorization[len("Bearer "):],
		"Bearer a b",
	} {
		_, err := f.auth.Authenticate(context.Background(), Credentials{Authorization: carrier})
		assert.True(t, errorutil.IsKind(err, errorutil.KindTokenInvalid), "carrier %q: %v", carrier, err)
	}
}

func TestAuthenticateAccessValid(t *testing.T) {
	f := newAuthFixture(t)
	creds := f.credentials(t, "cust-1", domain.RoleCustomer)

	session, err := f.auth.Authenticate(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, StateAccessValid, session.State)
	assert.Nil(t, session.Renewed)
	assert.Equal(t, "cust-1", session.Identity.UserID)
	assert.Equal(t, domain.RoleCustomer, session.Identity.Role)
	require.NotNil(t, session.User)
	assert.Equal(t, "alice123", session.User.Nickname)
	assert.Equal(t, 1, f.users.Calls())
}

func TestAuthenticateUserGone(t *testing.T) {
	f := newAuthFixture(t)
	creds := f.credentials(t, "ghost", domain.RoleCustomer)

	_, err := f.auth.Authenticate(context.Background(), creds)
	assert.True(t, errorutil.IsKind(err, errorutil.KindUserNotFound), "got %v", err)
}

func TestAuthenticateCancelledContextAttachesNothing(t *testing.T) {
	f := newAuthFixture(t)
	creds := f.credentials(t, "cust-1", domain.RoleCustomer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session, err := f.auth.Authenticate(ctx, creds)
	assert.Nil(t, session)
	assert.Error(t, err)
}

func TestAuthenticateRenewsExpiredAccess(t *testing.T) {
	f := newAuthFixture(t)
	creds := f.credentials(t, "owner-1", domain.RoleOwner)

	f.clock.Advance(50*time.Minute + time.Second)

	session, err := f.auth.Authenticate(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, StateRenewed, session.State)
	require.NotNil(t, session.Renewed)
	assert.Equal(t, domain.TokenKindAccess, session.Renewed.Kind)
	assert.Equal(t, f.clock.Now().Add(50*time.Minute), session.Renewed.ExpiresAt)
	assert.Equal(t, Identity{UserID: "owner-1", Role: domain.RoleOwner}, session.Identity)
	assert.Nil(t, session.User)
	assert.Zero(t, f.users.Calls(), "renewal path must not look the user up")

	identity, err := f.tokens.Verify(session.Renewed.Value, domain.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, session.Identity, *identity)
	assert.Equal(t, int64(1), f.metrics.Snapshot().Renewals)
	assert.Equal(t, 1, f.logs.FilterMessage("access token renewed").Len())
}

func TestAuthenticateRepeatedRenewalsMintFreshTokens(t *testing.T) {
	f := newAuthFixture(t)
	creds := f.credentials(t, "cust-1", domain.RoleCustomer)
	f.clock.Advance(time.Hour)

	var prev *IssuedToken
	for i := 0; i < 3; i++ {
		session, err := f.auth.Authenticate(context.Background(), creds)
		require.NoError(t, err)
		require.NotNil(t, session.Renewed)
		assert.Equal(t, Identity{UserID: "cust-1", Role: domain.RoleCustomer}, session.Identity)
		if prev != nil {
			assert.NotEqual(t, prev.Value, session.Renewed.Value)
			assert.True(t, session.Renewed.ExpiresAt.After(prev.ExpiresAt))
		}
		prev = session.Renewed
		f.clock.Advance(time.Second)
	}
}

func TestAuthenticateTamperedAccessNeverRenews(t *testing.T) {
	f := newAuthFixture(t)
	creds := f.credentials(t, "cust-1", domain.RoleCustomer)
	creds.Authorization = FormatBearer(flipSignatureBit(t, creds.Authorization[len("Bearer "):]))

	for _, advance := range []time.Duration{0, time.Hour} {
		f.clock.Advance(advance)
		session, err := f.auth.Authenticate(context.Background(), creds)
		assert.Nil(t, session)
		assert.True(t, errorutil.IsKind(err, errorutil.KindTokenInvalid), "got %v", err)
	}
	assert.Zero(t, f.metrics.Snapshot().Renewals)
	assert.Equal(t, int64(2), f.metrics.Snapshot().Rejected[string(errorutil.KindTokenInvalid)])

	entries := f.logs.FilterMessage("credential rejected").All()
	require.Len(t, entries, 2)
	assert.Equal(t, string(errorutil.KindTokenInvalid), entries[0].ContextMap()["kind"])
}

func TestAuthenticateExpiredWithoutRefresh(t *testing.T) {
	f := newAuthFixture(t)
	creds := f.credentials(t, "cust-1", domain.RoleCustomer)
	creds.RefreshToken = ""
	f.clock.Advance(time.Hour)

	_, err := f.auth.Authenticate(context.Background(), creds)
	assert.True(t, errorutil.IsKind(err, errorutil.KindTokenExpired), "got %v", err)
}

func TestAuthenticateRefreshAlsoExpired(t *testing.T) {
	f := newAuthFixture(t)
	creds := f.credentials(t, "cust-1", domain.RoleCustomer)
	f.clock.Advance(25 * time.Hour)

	_, err := f.auth.Authenticate(context.Background(), creds)
	assert.True(t, errorutil.IsKind(err, errorutil.KindTokenExpired), "got %v", err)

	entries := f.logs.FilterMessage("credential rejected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "refresh", entries[0].ContextMap()["carrier"])
	assert.Equal(t, string(errorutil.KindTokenExpired), entries[0].ContextMap()["kind"])
}

func TestAuthenticateRefreshTampered(t *testing.T) {
	f := newAuthFixture(t)
	creds := f.credentials(t, "cust-1", domain.RoleCustomer)
	creds.RefreshToken = FormatBearer(flipSignatureBit(t, creds.RefreshToken[len("Bearer "):]))
	f.clock.Advance(time.Hour)

	_, err := f.auth.Authenticate(context.Background(), creds)
	assert.True(t, errorutil.IsKind(err, errorutil.KindTokenInvalid), "got %v", err)
}

func TestAuthenticateRefreshMalformedScheme(t *testing.T) {
	f := newAuthFixture(t)
	creds := f.credentials(t, "cust-1", domain.RoleCustomer)
	creds.RefreshToken = "Token " + creds.RefreshToken[len("Bearer "):]
	f.clock.Advance(time.Hour)

	_, err := f.auth.Authenticate(context.Background(), creds)
	assert.True(t, errorutil.IsKind(err, errorutil.KindTokenInvalid), "got %v", err)
}

func TestAuthenticateAccessTokenInRefreshCarrier(t *testing.T) {
	f := newAuthFixture(t)
	creds := f.credentials(t, "cust-1", domain.RoleCustomer)
	f.clock.Advance(time.Hour)

	fresh, err := f.tokens.IssueAccess("cust-1", domain.RoleCustomer)
	require.NoError(t, err)
	creds.RefreshToken = FormatBearer(fresh.Value)

	_, err = f.auth.Authenticate(context.Background(), creds)
	assert.True(t, errorutil.IsKind(err, errorutil.KindTokenInvalid), "got %v", err)
}

func TestAuthenticateRenewalWithUserCheck(t *testing.T) {
	f := newAuthFixture(t, WithRenewalUserCheck(true))

	// Role claim says OWNER but storage says CUSTOMER: storage wins.
	creds := f.credentials(t, "cust-1", domain.RoleOwner)
	f.clock.Advance(time.Hour)

	session, err := f.auth.Authenticate(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, StateRenewed, session.State)
	assert.Equal(t, domain.RoleCustomer, session.Identity.Role)
	require.NotNil(t, session.User)
	assert.Equal(t, 1, f.users.Calls())

	identity, err := f.tokens.Verify(session.Renewed.Value, domain.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, identity.Role)
}

func TestAuthenticateRenewalWithUserCheckUserGone(t *testing.T) {
	f := newAuthFixture(t, WithRenewalUserCheck(true))
	creds := f.credentials(t, "ghost", domain.RoleCustomer)
	f.clock.Advance(time.Hour)

	_, err := f.auth.Authenticate(context.Background(), creds)
	assert.True(t, errorutil.IsKind(err, errorutil.KindUserNotFound), "got %v", err)
}
