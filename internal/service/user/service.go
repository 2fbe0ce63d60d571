package user

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/ignite/gametrade/internal/domain"
	"github.com/ignite/gametrade/internal/notify"
)

// Service implements account business logic.
type Service struct {
	repo      Repository
	publisher notify.Publisher
}

// NewService creates a user service. publisher may be nil when the caller
// has no notification pipeline (tests, migration tooling).
func NewService(repo Repository, publisher notify.Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// Get returns a single user.
func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.Get(ctx, id)
}

// List returns users matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.User, error) {
	return s.repo.List(ctx, f)
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		Name:           input.Name,
		Email:          input.Email,
		StreetAddress:  input.StreetAddress,
		HashedPassword: string(hash),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies email and password, returning the account on
// success and ErrBadCredentials otherwise.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// Update applies profile changes.
func (s *Service) Update(ctx context.Context, id int64, u UpdateFields) (*domain.User, error) {
	return s.repo.Update(ctx, id, u)
}

// ChangePassword verifies the current password, stores a new hash, and
// emits a password_changed event. The event is best-effort: notification
// failure never fails the change.
func (s *Service) ChangePassword(ctx context.Context, id int64, current, next string) error {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(current)) != nil {
		return ErrBadCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, id, string(hash)); err != nil {
		return err
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, notify.EventPasswordChanged, notify.PasswordChangedData(u))
	}
	log.Printf("[user.Service] Password changed for user %d", id)
	return nil
}

// Delete removes the account, its games, and every offer that referenced
// either.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// RegisterInput holds the fields for creating a new account.
type RegisterInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	StreetAddress string `json:"street_address"`
	Password      string `json:"password"`
}
