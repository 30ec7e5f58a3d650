package service

import (
	"context"
	"errors"

	"github.com/medicare/medicare-api/internal/metrics"
	"github.com/medicare/medicare-api/internal/model"
	"github.com/medicare/medicare-api/internal/repository"
)

const msgCredentialsRequired = "Email and password required"

// UserService handles registration and login.
//
// Passwords are stored and compared as plain text to stay compatible with
// existing user collections. Production deployments need a salted hash here.
type UserService struct {
	users   *repository.Users
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(users *repository.Users, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		users:   users,
		metrics: recorder,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Register creates a user unless the email is already taken.
// The returned copy has its password cleared.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, NewValidationError(msgCredentialsRequired)
	}

	user := model.User{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	}

	created, err := s.users.InsertUnique(ctx, user, func(existing *model.User) bool {
		return existing.Email == input.Email
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, recordStorageError(s.metrics, err)
	}

	s.metrics.IncUserRegistered()

	created.Password = ""
	return created, nil
}

// Login returns the user whose email and password both match exactly.
// The returned copy has its password cleared.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, NewValidationError(msgCredentialsRequired)
	}

	user, err := s.users.Find(ctx, func(u *model.User) bool {
		return u.Email == email && u.Password == password
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.IncLogin("failed")
			return nil, ErrInvalidCredentials
		}
		return nil, recordStorageError(s.metrics, err)
	}

	s.metrics.IncLogin("success")

	user.Password = ""
	return user, nil
}
