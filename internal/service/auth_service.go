package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/spec-kit/ordering-service/internal/auth"
	"github.com/spec-kit/ordering-service/internal/domain"
	"github.com/spec-kit/ordering-service/internal/repository"
	"github.com/spec-kit/ordering-service/internal/validation"
	"github.com/spec-kit/ordering-service/pkg/util/errorutil"
)

const uniqueViolation = "23505"

// AuthService coordinates sign-up and sign-in flows.
type AuthService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, hasher: hasher, tokens: tokens, logger: logger}
}

// SignUpInput describes a new account.
type SignUpInput struct {
	Nickname string
	Password string
	Role     string
}

// SignInResult carries the issued credential pair.
type SignInResult struct {
	User    *domain.User
	Access  *auth.IssuedToken
	Refresh *auth.IssuedToken
}

// SignUp validates the input, rejects taken nicknames and stores the
// account with a hashed password.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	if err := validation.ValidateSignUp(validation.SignUp{
		Nickname: in.Nickname,
		Password: in.Password,
		Role:     in.Role,
	}); err != nil {
		return nil, err
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return nil, errorutil.New(errorutil.KindInvalidDataFormat)
	}

	if _, err := s.users.GetByNickname(ctx, in.Nickname); err == nil {
		return nil, errorutil.New(errorutil.KindDuplicatedNickname)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.MapError(err)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}

	user := &domain.User{
		Nickname:     in.Nickname,
		PasswordHash: digest,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, errorutil.Wrap(errorutil.KindDuplicatedNickname, err)
		}
		return nil, errorutil.MapError(err)
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// SignIn checks the credential and issues an access and refresh token.
func (s *AuthService) SignIn(ctx context.Context, nickname, password string) (*SignInResult, error) {
	if nickname == "" || password == "" {
		return nil, errorutil.New(errorutil.KindInvalidDataFormat)
	}

	user, err := s.users.GetByNickname(ctx, nickname)
	if err != nil {
		return nil, lookupErr(err, errorutil.KindNotFoundNickname)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	if !ok {
		return nil, errorutil.New(errorutil.KindInvalidPassword)
	}

	access, err := s.tokens.IssueAccess(user.ID, user.Role)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	refresh, err := s.tokens.IssueRefresh(user.ID, user.Role)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return &SignInResult{User: user, Access: access, Refresh: refresh}, nil
}
