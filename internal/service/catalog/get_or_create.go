package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/medkit/internal/domain"
)

// GetOrCreateInput identifies a catalog entry by (Name, Type, Dosage).
// Category and Notes are only used when a new entry is created.
type GetOrCreateInput struct {
	Name     string
	Type     domain.MedicineType
	Category domain.MedicineCategory
	Dosage   *string
	Notes    *string
}

// Validate checks all fields and collects all errors.
func (i GetOrCreateInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "invalid value"})
	}
	if !i.Category.IsValid() {
		errs = append(errs, domain.FieldError{Field: "category", Message: "invalid value"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// GetOrCreate returns the entry with the same name, type and dosage, or
// creates one. An existing entry keeps its verification state and category,
// even if in.Category differs. A new entry is verified when its name is on
// the allow-list. Two concurrent calls may both create; that duplicate is
// tolerated.
func (s *Service) GetOrCreate(ctx context.Context, in GetOrCreateInput) (*domain.Medicine, bool, error) {
	if err := in.Validate(); err != nil {
		return nil, false, err
	}
	name := domain.NormalizeText(in.Name)
	dosage := trimOrNil(in.Dosage)

	existing, err := s.medicines.FindByKey(ctx, name, in.Type, dosage)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, fmt.Errorf("find medicine: %w", err)
	}

	verification := domain.VerificationPending
	if s.allow != nil && s.allow.IsVerified(name) {
		verification = domain.VerificationVerified
	}

	created, err := s.medicines.Create(ctx, &domain.Medicine{
		Name:         name,
		Type:         in.Type,
		Category:     in.Category,
		Dosage:       dosage,
		Notes:        trimOrNil(in.Notes),
		Verification: verification,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, false, fmt.Errorf("create medicine: %w", err)
	}

	s.log.InfoContext(ctx, "medicine created",
		slog.Int64("medicine_id", created.ID),
		slog.String("name", created.Name),
		slog.String("verification", created.Verification.String()),
	)
	return created, true, nil
}

// BackfillNotes stores notes on an entry that has none. Entries with notes
// are returned unchanged.
func (s *Service) BackfillNotes(ctx context.Context, m *domain.Medicine, notes *string) (*domain.Medicine, error) {
	notes = trimOrNil(notes)
	if notes == nil || (m.Notes != nil && *m.Notes != "") {
		return m, nil
	}
	updated, err := s.medicines.Update(ctx, m.ID, domain.MedicineUpdate{Notes: notes})
	if err != nil {
		return nil, fmt.Errorf("backfill medicine notes: %w", err)
	}
	return updated, nil
}

func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	return domain.OptionalText(*s)
}
