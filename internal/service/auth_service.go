package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/iliyamo/qshe-portal/internal/apperr"
	"github.com/iliyamo/qshe-portal/internal/model"
	"github.com/iliyamo/qshe-portal/internal/repository"
	"github.com/iliyamo/qshe-portal/internal/utils"
)

// msgInvalidCredentials is shared by the unknown-email and wrong-password
// paths so a failed login never reveals whether an account exists.
const msgInvalidCredentials = "Invalid email or password"

// UserStore is the credential store.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID uint64, email string, role model.Role) (utils.AccessToken, error)
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Role       string
	Department *string
	EmployeeID *string
	Phone      *string
}

// LoginResult is a freshly issued token plus the account it belongs to.
type LoginResult struct {
	Token utils.AccessToken
	User  model.User
}

type AuthService struct {
	users      UserStore
	tokens     TokenIssuer
	bcryptCost int
	log        *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users UserStore, tokens TokenIssuer, bcryptCost int, log *zap.Logger) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = utils.DefaultBcryptCost
	}
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost, log: log}
}

// Register creates a new account. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	email := repository.NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return model.User{}, apperr.New(apperr.InvalidArgument, "a valid email is required")
	}
	if in.Password == "" {
		return model.User{}, apperr.New(apperr.InvalidArgument, "password is required")
	}
	if len(in.Password) > utils.MaxPasswordBytes {
		return model.User{}, apperr.New(apperr.InvalidArgument, "password must be at most 72 bytes")
	}
	if err := required("firstName", in.FirstName); err != nil {
		return model.User{}, err
	}
	if err := required("lastName", in.LastName); err != nil {
		return model.User{}, err
	}
	role := model.RoleVisitor
	if in.Role != "" {
		r, err := model.ParseRole(in.Role)
		if err != nil {
			return model.User{}, apperr.Wrap(apperr.InvalidArgument, "role must be admin or visitor", err)
		}
		role = r
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return model.User{}, apperr.New(apperr.AlreadyExists, "User with this email already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return model.User{}, apperr.Wrap(apperr.Internal, "failed to create user", err)
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return model.User{}, apperr.Wrap(apperr.Internal, "failed to create user", err)
	}
	u := model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
		Department:   optional(in.Department),
		EmployeeID:   optional(in.EmployeeID),
		Phone:        optional(in.Phone),
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, apperr.New(apperr.AlreadyExists, "User with this email already exists")
		}
		return model.User{}, createError("user", err)
	}
	s.log.Info("user registered", zap.Uint64("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// Login verifies credentials and issues a 24h access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return LoginResult{}, apperr.New(apperr.InvalidArgument, "email and password are required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// burn a comparison so response time does not reveal the miss
			utils.VerifyPassword(s.placeholderHash(), password)
			return LoginResult{}, apperr.New(apperr.Unauthenticated, msgInvalidCredentials)
		}
		return LoginResult{}, apperr.Wrap(apperr.Internal, "login failed", err)
	}
	if !u.IsActive {
		return LoginResult{}, apperr.New(apperr.PermissionDenied, "Account is deactivated")
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return LoginResult{}, apperr.New(apperr.Unauthenticated, msgInvalidCredentials)
	}
	tok, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return LoginResult{}, apperr.Wrap(apperr.Internal, "failed to issue token", err)
	}
	return LoginResult{Token: tok, User: u}, nil
}

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		h, err := utils.HashPassword("placeholder-password", s.bcryptCost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
