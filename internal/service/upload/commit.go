package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/medkit/internal/chat"
	"github.com/heartmarshall/medkit/internal/dialogue"
	"github.com/heartmarshall/medkit/internal/domain"
	"github.com/heartmarshall/medkit/internal/service/catalog"
	"github.com/heartmarshall/medkit/internal/validate"
)

var (
	// ErrIncomplete means the session lacks a field the commit needs.
	ErrIncomplete = errors.New("upload session incomplete")
	// ErrKitGone means the kit was deleted or unshared during the dialogue.
	ErrKitGone = errors.New("kit is no longer available")
	// ErrMedicineGone means the picked catalog entry no longer exists.
	ErrMedicineGone = errors.New("medicine is no longer available")
)

// CommitResult is what a successful commit wrote.
type CommitResult struct {
	Item     *domain.Item
	Medicine *domain.Medicine
	// MedicineCreated is true when the catalog entry was created by this commit.
	MedicineCreated bool
}

// Commit resolves the catalog entry and creates the item in one transaction.
// A previously picked entry is used as is; otherwise the entry is found or
// created by (name, type, dosage) and its notes are backfilled when missing.
func (f *Flow) Commit(ctx context.Context, s *dialogue.Session) (*CommitResult, error) {
	in, err := itemFromSession(s)
	if err != nil {
		return nil, err
	}
	selectedID, picked := s.GetInt64(fieldSelectedMedicine)
	if !picked {
		if missing := s.Require(newMedicineFields...); missing != "" {
			return nil, fmt.Errorf("%w: %s", ErrIncomplete, missing)
		}
	}

	res := &CommitResult{}
	err = f.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if picked {
			res.Medicine, err = f.catalog.Get(ctx, selectedID)
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("medicine %d: %w", selectedID, ErrMedicineGone)
			}
			if err != nil {
				return fmt.Errorf("get medicine: %w", err)
			}
		} else {
			res.Medicine, res.MedicineCreated, err = f.catalog.GetOrCreate(ctx, catalog.GetOrCreateInput{
				Name:     s.Get(fieldMedicineName),
				Type:     domain.MedicineType(s.Get(fieldMedicineType)),
				Category: domain.MedicineCategory(s.Get(fieldMedicineCategory)),
				Dosage:   domain.OptionalText(s.Get(fieldMedicineDosage)),
				Notes:    domain.OptionalText(s.Get(fieldMedicineNotes)),
			})
			if err != nil {
				return fmt.Errorf("get or create medicine: %w", err)
			}
			res.Medicine, err = f.catalog.BackfillNotes(ctx, res.Medicine, domain.OptionalText(s.Get(fieldMedicineNotes)))
			if err != nil {
				return err
			}
		}

		in.MedicineID = res.Medicine.ID
		res.Item, err = f.kits.CreateItem(ctx, in)
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrKitDeleted) {
			return fmt.Errorf("kit %d: %w", in.KitID, ErrKitGone)
		}
		if err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func itemFromSession(s *dialogue.Session) (domain.NewItem, error) {
	if missing := s.Require(itemFields...); missing != "" {
		return domain.NewItem{}, fmt.Errorf("%w: %s", ErrIncomplete, missing)
	}
	kitID, ok := s.GetInt64(fieldKitID)
	if !ok {
		return domain.NewItem{}, fmt.Errorf("%w: %s", ErrIncomplete, fieldKitID)
	}
	qty, err := decimal.NewFromString(s.Get(fieldQuantity))
	if err != nil {
		return domain.NewItem{}, fmt.Errorf("%w: %s", ErrIncomplete, fieldQuantity)
	}

	in := domain.NewItem{
		KitID:    kitID,
		Quantity: qty,
		Unit:     s.Get(fieldUnit),
		Location: domain.OptionalText(s.Get(fieldLocation)),
		Notes:    domain.OptionalText(s.Get(fieldItemNotes)),
	}
	if v := s.Get(fieldExpiryDate); v != "" {
		d, err := validate.ParseStoredDate(v)
		if err != nil {
			return domain.NewItem{}, fmt.Errorf("%w: %s", ErrIncomplete, fieldExpiryDate)
		}
		in.ExpiryDate = &d
	}
	return in, nil
}

// commit runs Commit for the confirm button. On failure the session stays at
// confirming so the user can press confirm again.
func (f *Flow) commit(ctx context.Context, s *dialogue.Session, u chat.Update) (chat.Reply, error) {
	start := time.Now()
	res, err := f.Commit(ctx, s)
	switch {
	case err == nil:
	case errors.Is(err, ErrIncomplete):
		f.log.WarnContext(ctx, "upload commit on incomplete session",
			slog.Int64("user_id", s.UserID),
			slog.String("error", err.Error()),
		)
		s.Finish()
		return chat.Reply{Messages: []chat.Message{{Text: msgIncomplete, EditMessageID: u.MessageID}}}, nil
	case errors.Is(err, ErrKitGone):
		s.Finish()
		return chat.Reply{Messages: []chat.Message{{Text: msgKitNotFound, EditMessageID: u.MessageID}}}, nil
	case errors.Is(err, ErrMedicineGone):
		s.Finish()
		return chat.Reply{Messages: []chat.Message{{Text: msgMedNotFound, EditMessageID: u.MessageID}}}, nil
	default:
		f.log.ErrorContext(ctx, "upload commit failed",
			slog.Int64("user_id", s.UserID),
			slog.String("error", err.Error()),
		)
		msg := summary(s)
		msg.Text = msgCommitFailed + "\n\n" + msg.Text
		msg.EditMessageID = u.MessageID
		return chat.Reply{Messages: []chat.Message{msg}, CallbackText: msgCommitFailed}, nil
	}

	s.Finish()
	f.log.InfoContext(ctx, "upload committed",
		slog.Int64("user_id", s.UserID),
		slog.Int64("item_id", res.Item.ID),
		slog.Int64("medicine_id", res.Medicine.ID),
		slog.Bool("medicine_created", res.MedicineCreated),
		slog.Duration("duration", time.Since(start)),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "✅ «%s» добавлено в аптечку «%s».\n\n", res.Medicine.DisplayName(), s.Get(fieldKitName))
	writeDetails(&b, s)
	return chat.Reply{Messages: []chat.Message{{
		Text:          b.String(),
		EditMessageID: u.MessageID,
		Keyboard: chat.Keyboard{chat.Row(
			chat.Button{Label: "➕ Добавить ещё", Data: chat.Data(AddItemData, s.Get(fieldKitID))},
		)},
	}}}, nil
}
