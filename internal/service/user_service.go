package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/qforge/qbank-backend/internal/model"
)

// UserStore abstracts user persistence.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error)
	ListPaginated(ctx context.Context, limit, offset int) ([]model.User, int, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserService manages user accounts.
type UserService struct {
	users UserStore
	auth  *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, auth *AuthService) *UserService {
	return &UserService{users: users, auth: auth}
}

// Signup registers a new account with the user role.
func (s *UserService) Signup(ctx context.Context, in *model.SignupRequest) (*model.User, error) {
	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(in.FirstName + " " + in.LastName)
	if displayName == "" {
		displayName = in.Username
	}

	u := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DisplayName:  displayName,
		Roles:        []string{model.RoleUser},
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().Str("component", "user_service").Str("username", u.Username).Msg("user registered")
	return u, nil
}

// Authenticate validates credentials and returns the matching user.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*model.User, error) {
	u, err := s.users.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.auth.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID returns a single user.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns a page of users.
func (s *UserService) List(ctx context.Context, page, limit int) (*model.UserPage, error) {
	page, limit = clampPage(page, limit)

	users, total, err := s.users.ListPaginated(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}

	return &model.UserPage{
		Docs:  users,
		Total: total,
		Limit: limit,
		Page:  page,
		Pages: totalPages(total, limit),
	}, nil
}

// Update applies the whitelisted profile fields to a user. Anything else
// in the request body is ignored.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, in *model.UserUpdate) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.DisplayName != nil {
		u.DisplayName = *in.DisplayName
	}
	if in.Roles != nil {
		u.Roles = *in.Roles
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes a user account.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}
