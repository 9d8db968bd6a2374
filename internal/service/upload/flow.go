// Package upload implements the add-medicine dialogue: kit selection, name
// entry with lookup of similar catalog entries, catalog and item details,
// confirmation, and the commit that writes the catalog entry and item.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/medkit/internal/chat"
	"github.com/heartmarshall/medkit/internal/dialogue"
	"github.com/heartmarshall/medkit/internal/domain"
	"github.com/heartmarshall/medkit/internal/service/catalog"
	"github.com/heartmarshall/medkit/internal/similarity"
	"github.com/heartmarshall/medkit/internal/validate"
)

type kitService interface {
	Kits(ctx context.Context) ([]domain.Kit, error)
	Kit(ctx context.Context, kitID int64) (*domain.Kit, error)
	CreateKit(ctx context.Context, name string) (*domain.Kit, error)
	CreateItem(ctx context.Context, in domain.NewItem) (*domain.Item, error)
}

type catalogService interface {
	Get(ctx context.Context, id int64) (*domain.Medicine, error)
	FindSimilar(ctx context.Context, query string) ([]similarity.Match[domain.Medicine], error)
	GetOrCreate(ctx context.Context, in catalog.GetOrCreateInput) (*domain.Medicine, bool, error)
	BackfillNotes(ctx context.Context, m *domain.Medicine, notes *string) (*domain.Medicine, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Flow is the upload dialogue.
type Flow struct {
	log     *slog.Logger
	kits    kitService
	catalog catalogService
	tx      txManager
}

var _ dialogue.Flow = (*Flow)(nil)

// NewFlow creates the upload dialogue.
func NewFlow(logger *slog.Logger, kits kitService, cat catalogService, tx txManager) *Flow {
	return &Flow{
		log:     logger.With("service", "upload"),
		kits:    kits,
		catalog: cat,
		tx:      tx,
	}
}

func (f *Flow) Name() string          { return FlowName }
func (f *Flow) Table() dialogue.Table { return table }

// Start asks for a kit. When started from a kit's "add" button the kit is
// taken from the button and the flow goes straight to the name.
func (f *Flow) Start(ctx context.Context, s *dialogue.Session, u chat.Update) (chat.Reply, error) {
	if u.Kind == chat.KindCallback {
		if action, args := chat.ParseData(u.CallbackData); action == AddItemData {
			if kitID, ok := chat.ArgID(args, 0); ok {
				return f.selectKit(ctx, s, u, kitID)
			}
		}
	}
	return f.promptKits(ctx, u)
}

// OnText handles a typed answer for the current step.
func (f *Flow) OnText(ctx context.Context, s *dialogue.Session, u chat.Update) (chat.Reply, error) {
	switch s.Step {
	case StepChoosingKit:
		return f.onKitName(ctx, s, u)
	case StepEnteringName:
		return f.onMedicineName(ctx, s, u)
	case StepPickingSimilar, StepChoosingType, StepChoosingCategory:
		return invalid(s, msgUseButtons), nil
	case StepEnteringDosage:
		return f.onOptionalText(s, u, fieldMedicineDosage, validate.MaxDosageLen, StepMedicineNotes)
	case StepMedicineNotes:
		return f.onOptionalText(s, u, fieldMedicineNotes, validate.MaxNotesLen, StepEnteringQuantity)
	case StepEnteringQuantity:
		return f.onQuantity(s, u)
	case StepEnteringUnit:
		return f.onUnit(s, u)
	case StepEnteringExpiry:
		return f.onExpiry(s, u)
	case StepEnteringLocation:
		return f.onOptionalText(s, u, fieldLocation, validate.MaxLocationLen, StepItemNotes)
	case StepItemNotes:
		return f.onOptionalText(s, u, fieldItemNotes, validate.MaxNotesLen, StepConfirming)
	case StepConfirming:
		return chat.Reply{Messages: []chat.Message{summary(s)}, DeleteUserMessage: true}, nil
	}
	return chat.Reply{}, fmt.Errorf("upload: unknown step %q", s.Step)
}

// OnCallback handles a button press. Presses that do not belong to the
// current step are stale and ignored.
func (f *Flow) OnCallback(ctx context.Context, s *dialogue.Session, u chat.Update, action string, args []string) (chat.Reply, error) {
	s.Remember(u.MessageID)

	switch {
	case action == actKit && s.Step == StepChoosingKit:
		kitID, ok := chat.ArgID(args, 0)
		if !ok {
			return stale(), nil
		}
		return f.selectKit(ctx, s, u, kitID)

	case action == actPick && s.Step == StepPickingSimilar:
		id, ok := chat.ArgID(args, 0)
		if !ok {
			return stale(), nil
		}
		return f.pickExisting(ctx, s, u, id)

	case action == actNew && s.Step == StepPickingSimilar:
		return f.advance(s, u, StepChoosingType)

	case action == actType && s.Step == StepChoosingType:
		t, ok := domain.ParseMedicineType(chat.Arg(args, 0))
		if !ok {
			return stale(), nil
		}
		s.Set(fieldMedicineType, t.String())
		return f.advance(s, u, StepChoosingCategory)

	case action == actCat && s.Step == StepChoosingCategory:
		c, ok := domain.ParseMedicineCategory(chat.Arg(args, 0))
		if !ok {
			return stale(), nil
		}
		s.Set(fieldMedicineCategory, c.String())
		return f.advance(s, u, StepEnteringDosage)

	case action == actSkip:
		return f.skip(s, u)

	case action == actConfirm && s.Step == StepConfirming:
		return f.commit(ctx, s, u)
	}
	return stale(), nil
}

// ---------------------------------------------------------------------------
// Steps
// ---------------------------------------------------------------------------

func (f *Flow) promptKits(ctx context.Context, u chat.Update) (chat.Reply, error) {
	kits, err := f.kits.Kits(ctx)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("list kits: %w", err)
	}
	if len(kits) == 0 {
		return chat.WithKeyboard(msgNoKits, cancelKeyboard()), nil
	}
	kb := make(chat.Keyboard, 0, len(kits)+1)
	for _, k := range kits {
		kb = append(kb, chat.Row(chat.Button{Label: "📦 " + k.Name, Data: data(actKit, chat.ID(k.ID))}))
	}
	kb = append(kb, chat.Row(cancelButton()))
	return chat.Reply{Messages: []chat.Message{{Text: msgChooseKit, Keyboard: kb, EditMessageID: editTarget(u)}}}, nil
}

func (f *Flow) onKitName(ctx context.Context, s *dialogue.Session, u chat.Update) (chat.Reply, error) {
	if _, err := validate.KitName(u.Text); err != nil {
		return invalid(s, errKitName), nil
	}
	kit, err := f.kits.CreateKit(ctx, u.Text)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("create kit: %w", err)
	}
	s.SetInt64(fieldKitID, kit.ID)
	s.Set(fieldKitName, kit.Name)
	if err := s.Go(StepEnteringName); err != nil {
		return chat.Reply{}, err
	}
	return chat.WithKeyboard("✅ Аптечка «"+kit.Name+"» создана.\n\n"+msgEnterName, cancelKeyboard()), nil
}

func (f *Flow) selectKit(ctx context.Context, s *dialogue.Session, u chat.Update, kitID int64) (chat.Reply, error) {
	kit, err := f.kits.Kit(ctx, kitID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrKitDeleted) {
			return chat.Reply{Messages: []chat.Message{{Text: msgKitNotFound}}, CallbackText: msgKitNotFound}, nil
		}
		return chat.Reply{}, fmt.Errorf("get kit: %w", err)
	}
	s.SetInt64(fieldKitID, kit.ID)
	s.Set(fieldKitName, kit.Name)
	return f.advance(s, u, StepEnteringName)
}

func (f *Flow) onMedicineName(ctx context.Context, s *dialogue.Session, u chat.Update) (chat.Reply, error) {
	name, err := validate.Name(u.Text)
	if err != nil {
		if isKind(err, validate.NameTooLong) {
			return invalid(s, errNameLong), nil
		}
		return invalid(s, errNameShort), nil
	}

	matches, err := f.catalog.FindSimilar(ctx, name)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("find similar: %w", err)
	}
	s.Set(fieldMedicineName, name)

	if len(matches) == 0 {
		if err := s.Go(StepChoosingType); err != nil {
			return chat.Reply{}, err
		}
		return chat.WithKeyboard(msgChooseType, typeKeyboard()), nil
	}

	if err := s.Go(StepPickingSimilar); err != nil {
		return chat.Reply{}, err
	}
	kb := make(chat.Keyboard, 0, len(matches)+2)
	for _, m := range matches {
		kb = append(kb, chat.Row(chat.Button{
			Label: fmt.Sprintf("💊 %s · %s", m.Value.DisplayName(), m.Value.Type.Label()),
			Data:  data(actPick, chat.ID(m.Value.ID)),
		}))
	}
	kb = append(kb, chat.Row(chat.Button{Label: btnNew, Data: data(actNew)}), chat.Row(cancelButton()))
	return chat.WithKeyboard(msgSimilarFound, kb), nil
}

func (f *Flow) pickExisting(ctx context.Context, s *dialogue.Session, u chat.Update, medicineID int64) (chat.Reply, error) {
	m, err := f.catalog.Get(ctx, medicineID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return chat.Reply{CallbackText: msgMedNotFound}, nil
		}
		return chat.Reply{}, fmt.Errorf("get medicine: %w", err)
	}
	s.SetInt64(fieldSelectedMedicine, m.ID)
	s.Set(fieldMedicineName, m.DisplayName())
	s.Set(fieldMedicineType, m.Type.String())
	s.Set(fieldMedicineCategory, m.Category.String())
	return f.advance(s, u, StepEnteringQuantity)
}

func (f *Flow) onOptionalText(s *dialogue.Session, u chat.Update, field string, max int, next dialogue.Step) (chat.Reply, error) {
	v, err := validate.Text(u.Text, max)
	if err != nil {
		return invalid(s, errTooLong), nil
	}
	s.Set(field, v)
	if err := s.Go(next); err != nil {
		return chat.Reply{}, err
	}
	return chat.Reply{Messages: []chat.Message{prompt(s)}}, nil
}

func (f *Flow) onQuantity(s *dialogue.Session, u chat.Update) (chat.Reply, error) {
	q, err := validate.Quantity(u.Text)
	if err != nil {
		return invalid(s, quantityError(err)), nil
	}
	s.Set(fieldQuantity, q.String())
	if err := s.Go(StepEnteringUnit); err != nil {
		return chat.Reply{}, err
	}
	return chat.Reply{Messages: []chat.Message{prompt(s)}}, nil
}

func (f *Flow) onUnit(s *dialogue.Session, u chat.Update) (chat.Reply, error) {
	unit, err := validate.Unit(u.Text)
	if err != nil {
		return invalid(s, errUnit), nil
	}
	s.Set(fieldUnit, unit)
	if err := s.Go(StepEnteringExpiry); err != nil {
		return chat.Reply{}, err
	}
	return chat.Reply{Messages: []chat.Message{prompt(s)}}, nil
}

func (f *Flow) onExpiry(s *dialogue.Session, u chat.Update) (chat.Reply, error) {
	d, err := validate.ExpiryDate(u.Text)
	if err != nil {
		return invalid(s, errDate), nil
	}
	s.Set(fieldExpiryDate, validate.FormatDate(d))
	if err := s.Go(StepEnteringLocation); err != nil {
		return chat.Reply{}, err
	}
	return chat.Reply{Messages: []chat.Message{prompt(s)}}, nil
}

// skippable maps each optional step to its field and the next step.
var skippable = map[dialogue.Step]struct {
	field string
	next  dialogue.Step
}{
	StepEnteringDosage:   {fieldMedicineDosage, StepMedicineNotes},
	StepMedicineNotes:    {fieldMedicineNotes, StepEnteringQuantity},
	StepEnteringExpiry:   {fieldExpiryDate, StepEnteringLocation},
	StepEnteringLocation: {fieldLocation, StepItemNotes},
	StepItemNotes:        {fieldItemNotes, StepConfirming},
}

func (f *Flow) skip(s *dialogue.Session, u chat.Update) (chat.Reply, error) {
	sk, ok := skippable[s.Step]
	if !ok {
		return stale(), nil
	}
	s.Set(sk.field, "")
	return f.advance(s, u, sk.next)
}

// advance moves to next and renders its prompt in place of the pressed message.
func (f *Flow) advance(s *dialogue.Session, u chat.Update, next dialogue.Step) (chat.Reply, error) {
	if err := s.Go(next); err != nil {
		return chat.Reply{}, err
	}
	msg := prompt(s)
	msg.EditMessageID = editTarget(u)
	return chat.Reply{Messages: []chat.Message{msg}}, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func data(action string, args ...string) string {
	return chat.Data(FlowName, append([]string{action}, args...)...)
}

func editTarget(u chat.Update) int {
	if u.Kind == chat.KindCallback {
		return u.MessageID
	}
	return 0
}

// invalid repeats the current step's prompt under an error notice.
func invalid(s *dialogue.Session, text string) chat.Reply {
	msg := prompt(s)
	msg.Text = text + "\n\n" + msg.Text
	return chat.Reply{Messages: []chat.Message{msg}, DeleteUserMessage: true}
}

func stale() chat.Reply {
	return chat.Reply{CallbackText: msgStaleButton}
}

func isKind(err error, kind validate.Kind) bool {
	var ve *validate.Error
	return errors.As(err, &ve) && ve.Kind == kind
}

func quantityError(err error) string {
	var ve *validate.Error
	if !errors.As(err, &ve) {
		return errQuantityMalformed
	}
	switch ve.Reason {
	case validate.ReasonNegative:
		return errQuantityNegative
	case validate.ReasonTooSmall:
		return errQuantityTooSmall
	case validate.ReasonTooLarge:
		return errQuantityTooLarge
	default:
		return errQuantityMalformed
	}
}
