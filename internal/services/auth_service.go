package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"hardware_shop_backend/internal/metrics"
	"hardware_shop_backend/internal/models"
	"hardware_shop_backend/internal/repositories"
	"hardware_shop_backend/internal/validation"
	"hardware_shop_backend/pkg/utils"
)

// AuthResponse is returned by a successful sign-in.
type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// AuthService signs users in and manages back-office accounts.
type AuthService struct {
	users     *repositories.Repository[models.User]
	employees *repositories.Repository[models.Employee]
	tokens    *utils.TokenManager
	metrics   *metrics.Metrics
	cost      int
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithBcryptCost sets the cost of new password hashes. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.cost = cost }
}

// NewAuthService creates an AuthService over the users table of d.Store.
func NewAuthService(d Deps, tokens *utils.TokenManager, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:     repositories.NewRepository(d.Store, repositories.Users, d.RepoOptions...),
		employees: newRepo(d, repositories.Employees),
		tokens:    tokens,
		metrics:   d.Metrics,
		cost:      bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignIn checks credentials and issues an access token. Unknown emails, wrong passwords
// and deactivated accounts all yield ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, input map[string]any) (*AuthResponse, error) {
	creds, verr := validation.Validate(validation.Login, input)
	if verr != nil {
		s.metrics.RecordAuthAttempt("invalid")
		return nil, verr
	}

	user, err := s.findByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.metrics.RecordAuthAttempt("rejected")
			return nil, ErrInvalidCredentials
		}
		s.metrics.RecordAuthAttempt("error")
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		s.metrics.RecordAuthAttempt("rejected")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.metrics.RecordAuthAttempt("error")
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	s.metrics.RecordAuthAttempt("ok")
	return &AuthResponse{
		User:        user,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		ExpiresAt:   expiresAt,
	}, nil
}

// SignOut acknowledges a sign-out. Tokens are stateless and expire on their own.
func (s *AuthService) SignOut(ctx context.Context, userID string) error {
	return nil
}

// CurrentUser returns the active user with id.
func (s *AuthService) CurrentUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.FetchOne(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, &NotFoundError{Entity: "User"}
	}
	return u, err
}

// Register creates a back-office user. Emails are compared case-insensitively and stay
// reserved after the account is deactivated.
func (s *AuthService) Register(ctx context.Context, input map[string]any) (*models.User, error) {
	reg, verr := validation.Validate(validation.Registration, input)
	if verr != nil {
		return nil, verr
	}
	return s.createUser(ctx, reg)
}

// EnsureAdmin creates an Admin account with email unless a user with that email exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (created bool, err error) {
	if _, err := s.findByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return false, err
	}
	_, err = s.createUser(ctx, models.Registration{
		Email:    email,
		Password: password,
		FullName: utils.NewNullString("Administrator"),
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) createUser(ctx context.Context, reg models.Registration) (*models.User, error) {
	email := strings.ToLower(reg.Email)
	ok, err := s.users.CheckUnique(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conflict("email", "Email already exists", nil)
	}
	if reg.EmployeeID != nil {
		if _, err := s.employees.FetchOne(ctx, *reg.EmployeeID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, conflict("employee_id", "Employee not found", err)
			}
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u, err := s.users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     reg.FullName,
		Role:         reg.Role,
		EmployeeID:   reg.EmployeeID,
	})
	if err != nil {
		var ce *repositories.ConstraintError
		if errors.As(err, &ce) {
			if ce.Kind == repositories.ConstraintUnique {
				return nil, conflict("email", "Email already exists", err)
			}
			return nil, conflict(ce.Column, "Employee not found", err)
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := s.users.FetchMany(ctx, []repositories.Filter{repositories.Eq("email", strings.ToLower(email))}, nil)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, repositories.ErrNotFound
	}
	return &users[0], nil
}
