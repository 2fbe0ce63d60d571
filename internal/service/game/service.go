package game

import (
	"context"
	"fmt"
	"log"

	"github.com/ignite/gametrade/internal/domain"
)

// Service implements game business logic. All public methods are safe for
// concurrent use if the underlying repository is concurrency-safe.
type Service struct {
	repo  Repository
	users UserReader
}

// NewService creates a game service backed by the given repository.
func NewService(repo Repository, users UserReader) *Service {
	return &Service{repo: repo, users: users}
}

// Get returns a single game.
func (s *Service) Get(ctx context.Context, id int64) (*domain.VideoGame, error) {
	return s.repo.Get(ctx, id)
}

// List returns games matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.VideoGame, error) {
	return s.repo.List(ctx, f)
}

// ListByOwner returns the games owned by the given user.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64, f ListFilter) ([]domain.VideoGame, error) {
	ok, err := s.users.UserExists(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("check owner: %w", err)
	}
	if !ok {
		return nil, ErrOwnerNotFound
	}
	return s.repo.ListByOwner(ctx, ownerID, f)
}

// Create validates and persists a new game for the given owner.
func (s *Service) Create(ctx context.Context, ownerID int64, input CreateInput) (*domain.VideoGame, error) {
	ok, err := s.users.UserExists(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("check owner: %w", err)
	}
	if !ok {
		return nil, ErrOwnerNotFound
	}

	g := &domain.VideoGame{
		Name:           input.Name,
		Publisher:      input.Publisher,
		YearPublished:  input.YearPublished,
		GamingSystem:   input.GamingSystem,
		Condition:      input.Condition,
		PreviousOwners: input.PreviousOwners,
		OwnerID:        ownerID,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Update applies owner-initiated changes. Callers other than the owner get
// ErrNotOwner.
func (s *Service) Update(ctx context.Context, actorID, id int64, u UpdateFields) (*domain.VideoGame, error) {
	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.OwnerID != actorID {
		return nil, ErrNotOwner
	}
	return s.repo.Update(ctx, id, u)
}

// Delete removes a game owned by the actor. Offers referencing the game
// are removed with it.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if g.OwnerID != actorID {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("[game.Service] Deleted game %d (owner %d)", id, actorID)
	return nil
}

// CreateInput holds the fields for creating a new game.
type CreateInput struct {
	Name           string               `json:"name"`
	Publisher      string               `json:"publisher"`
	YearPublished  int                  `json:"year_published"`
	GamingSystem   string               `json:"gaming_system"`
	Condition      domain.GameCondition `json:"condition"`
	PreviousOwners *int                 `json:"previous_owners"`
}
