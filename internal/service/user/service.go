// Package user registers Telegram users and looks them up by id or username.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/medkit/internal/domain"
)

// userRepo defines the user repository interface needed by user service.
type userRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Upsert(ctx context.Context, u domain.User) (created bool, err error)
	ListIDs(ctx context.Context) ([]int64, error)
}

// Service implements user registration and lookup.
type Service struct {
	log   *slog.Logger
	users userRepo
}

// NewService creates a new user service instance.
func NewService(logger *slog.Logger, users userRepo) *Service {
	return &Service{
		log:   logger.With("service", "user"),
		users: users,
	}
}

// RegisterInput is what Telegram tells us about a user.
type RegisterInput struct {
	ID        int64
	Username  string
	FirstName string
}

// Register creates the user or refreshes the stored username. It reports
// whether the user is new.
func (s *Service) Register(ctx context.Context, in RegisterInput) (bool, error) {
	if in.ID == 0 {
		return false, domain.NewValidationError("id", "required")
	}
	u := domain.User{
		ID:        in.ID,
		FirstName: strings.TrimSpace(in.FirstName),
		CreatedAt: time.Now().UTC(),
	}
	if name := domain.NormalizeUsername(in.Username); name != "" {
		u.Username = &name
	}

	created, err := s.users.Upsert(ctx, u)
	if err != nil {
		return false, fmt.Errorf("upsert user: %w", err)
	}
	if created {
		s.log.InfoContext(ctx, "user registered", slog.Int64("user_id", in.ID))
	}
	return created, nil
}

// Get returns a user by Telegram id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// FindByUsername looks a user up by "@name" or "name", case-insensitively.
func (s *Service) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	name := domain.NormalizeUsername(username)
	if name == "" {
		return nil, domain.NewValidationError("username", "required")
	}
	return s.users.GetByUsername(ctx, name)
}

// AllIDs returns every registered user id.
func (s *Service) AllIDs(ctx context.Context) ([]int64, error) {
	return s.users.ListIDs(ctx)
}
