package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/medkit/internal/domain"
	"github.com/heartmarshall/medkit/internal/validate"
	"github.com/heartmarshall/medkit/pkg/ctxutil"
)

// Kits returns the user's live kits.
func (s *Service) Kits(ctx context.Context) ([]domain.Kit, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.kits.ListByUser(ctx, userID, false)
}

// DeletedKits returns the user's soft-deleted kits.
func (s *Service) DeletedKits(ctx context.Context) ([]domain.Kit, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.kits.ListByUser(ctx, userID, true)
}

// Kit returns a live kit of the user. A soft-deleted kit yields ErrKitDeleted.
func (s *Service) Kit(ctx context.Context, kitID int64) (*domain.Kit, error) {
	kit, err := s.kitOfUser(ctx, kitID)
	if err != nil {
		return nil, err
	}
	if kit.IsDeleted {
		return nil, fmt.Errorf("kit %d: %w", kitID, domain.ErrKitDeleted)
	}
	return kit, nil
}

// CreateKit creates a kit owned by the user.
func (s *Service) CreateKit(ctx context.Context, name string) (*domain.Kit, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	name, err := validate.KitName(name)
	if err != nil {
		return nil, err
	}

	var kit *domain.Kit
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		kit, err = s.kits.Create(ctx, name, nil)
		if err != nil {
			return fmt.Errorf("create kit: %w", err)
		}
		if err := s.kits.AddMember(ctx, kit.ID, userID); err != nil {
			return fmt.Errorf("add kit owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "kit created",
		slog.Int64("user_id", userID),
		slog.Int64("kit_id", kit.ID),
	)
	return kit, nil
}

// DeleteKit moves a kit to the trash.
func (s *Service) DeleteKit(ctx context.Context, kitID int64) (*domain.Kit, error) {
	return s.setDeleted(ctx, kitID, true)
}

// RestoreKit brings a kit back from the trash.
func (s *Service) RestoreKit(ctx context.Context, kitID int64) (*domain.Kit, error) {
	return s.setDeleted(ctx, kitID, false)
}

func (s *Service) setDeleted(ctx context.Context, kitID int64, deleted bool) (*domain.Kit, error) {
	if _, err := s.kitOfUser(ctx, kitID); err != nil {
		return nil, err
	}
	kit, err := s.kits.Update(ctx, kitID, domain.KitUpdate{IsDeleted: &deleted})
	if err != nil {
		return nil, fmt.Errorf("update kit: %w", err)
	}
	s.log.InfoContext(ctx, "kit deleted flag changed",
		slog.Int64("kit_id", kitID),
		slog.Bool("deleted", deleted),
	)
	return kit, nil
}

// IsMember reports whether userID has access to the kit.
func (s *Service) IsMember(ctx context.Context, kitID, userID int64) (bool, error) {
	return s.kits.IsMember(ctx, kitID, userID)
}

// AddMember grants userID access to a kit. Adding an existing member is a no-op.
func (s *Service) AddMember(ctx context.Context, kitID, userID int64) error {
	ok, err := s.kits.IsMember(ctx, kitID, userID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if ok {
		return nil
	}
	if err := s.kits.AddMember(ctx, kitID, userID); err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
		return fmt.Errorf("add kit member: %w", err)
	}
	s.log.InfoContext(ctx, "kit member added",
		slog.Int64("kit_id", kitID),
		slog.Int64("user_id", userID),
	)
	return nil
}

func (s *Service) kitOfUser(ctx context.Context, kitID int64) (*domain.Kit, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	kit, err := s.kits.GetForUser(ctx, userID, kitID)
	if err != nil {
		return nil, fmt.Errorf("get kit: %w", err)
	}
	return kit, nil
}
