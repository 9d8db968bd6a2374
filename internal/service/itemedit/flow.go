// Package itemedit implements the dialogue that changes one field of an
// existing item.
package itemedit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/medkit/internal/chat"
	"github.com/heartmarshall/medkit/internal/dialogue"
	"github.com/heartmarshall/medkit/internal/domain"
	"github.com/heartmarshall/medkit/internal/validate"
)

// FlowName prefixes the flow's callback data and session key.
const FlowName = "ed"

// EditItemData starts the flow with the item already chosen.
const EditItemData = "edit_item"

const (
	StepChoosingItem  dialogue.Step = "choosing_item"
	StepChoosingField dialogue.Step = "choosing_field"
	StepEnteringValue dialogue.Step = "entering_new_value"
)

var table = dialogue.Table{
	Start: StepChoosingItem,
	From: map[dialogue.Step][]dialogue.Step{
		StepChoosingField: {StepChoosingItem},
		StepEnteringValue: {StepChoosingField},
	},
}

const (
	fieldItemID   = "item_id"
	fieldItemName = "item_name"
	fieldField    = "field"
)

const (
	actItem  = "item"
	actField = "field"
)

// Editable item fields.
const (
	Quantity   = "quantity"
	Unit       = "unit"
	ExpiryDate = "expiry_date"
	Location   = "location"
	Notes      = "notes"
)

var fields = []struct {
	key, label, prompt string
}{
	{Quantity, "🔢 Количество", "Введите новое количество (0, если закончилось):"},
	{Unit, "📏 Единица", "Введите новую единицу измерения:"},
	{ExpiryDate, "📅 Срок годности", "Введите новый срок годности (ДД.ММ.ГГГГ или ММ.ГГГГ):"},
	{Location, "📍 Место", "Введите новое место хранения:"},
	{Notes, "📝 Заметки", "Введите новые заметки:"},
}

const (
	msgChooseItem   = "✏️ Выберите лекарство для изменения:"
	msgNoItems      = "В ваших аптечках пока нет лекарств. Добавьте их: /upload"
	msgChooseField  = "Что изменить?"
	msgItemNotFound = "❌ Лекарство не найдено."
	msgStaleButton  = "Эта кнопка устарела."
	msgUpdated      = "✅ Изменения сохранены."
	msgUseButtons   = "Пожалуйста, выберите вариант с помощью кнопок."

	errQuantity = "❌ Введите неотрицательное число, например 10 или 2,5."
	errUnit     = "❌ Единица измерения должна быть от 1 до 10 символов."
	errDate     = "❌ Неверная дата. Используйте ДД.ММ.ГГГГ или ММ.ГГГГ."
	errText     = "❌ Текст пустой или слишком длинный."

	btnCancel = "❌ Отмена"

	// maxChoices bounds the item list keyboard.
	maxChoices = 30
)

type itemService interface {
	AllItems(ctx context.Context) ([]domain.ItemDetails, error)
	Item(ctx context.Context, itemID int64) (*domain.ItemDetails, error)
	UpdateItem(ctx context.Context, itemID int64, upd domain.ItemUpdate) (*domain.Item, error)
}

// Flow is the update dialogue.
type Flow struct {
	log   *slog.Logger
	items itemService
}

var _ dialogue.Flow = (*Flow)(nil)

// NewFlow creates the update dialogue.
func NewFlow(logger *slog.Logger, items itemService) *Flow {
	return &Flow{log: logger.With("service", "itemedit"), items: items}
}

func (f *Flow) Name() string          { return FlowName }
func (f *Flow) Table() dialogue.Table { return table }

// Start lists the user's items, or goes straight to the field choice when
// started from an item card.
func (f *Flow) Start(ctx context.Context, s *dialogue.Session, u chat.Update) (chat.Reply, error) {
	if u.Kind == chat.KindCallback {
		if action, args := chat.ParseData(u.CallbackData); action == EditItemData {
			if id, ok := chat.ArgID(args, 0); ok {
				return f.selectItem(ctx, s, u, id)
			}
		}
	}

	items, err := f.items.AllItems(ctx)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("list items: %w", err)
	}
	if len(items) == 0 {
		s.Finish()
		return chat.Text(msgNoItems), nil
	}
	if len(items) > maxChoices {
		items = items[:maxChoices]
	}
	kb := make(chat.Keyboard, 0, len(items)+1)
	for _, it := range items {
		kb = append(kb, chat.Row(chat.Button{
			Label: fmt.Sprintf("💊 %s · %s", it.Medicine.DisplayName(), it.KitName),
			Data:  data(actItem, chat.ID(it.ID)),
		}))
	}
	kb = append(kb, chat.Row(cancelButton()))
	return chat.WithKeyboard(msgChooseItem, kb), nil
}

// OnText takes the new value.
func (f *Flow) OnText(ctx context.Context, s *dialogue.Session, u chat.Update) (chat.Reply, error) {
	if s.Step != StepEnteringValue {
		return chat.Reply{Messages: []chat.Message{{Text: msgUseButtons}}, DeleteUserMessage: true}, nil
	}

	id, ok := s.GetInt64(fieldItemID)
	if !ok {
		s.Finish()
		return chat.Text(msgItemNotFound), nil
	}
	field := s.Get(fieldField)
	upd, problem := parseUpdate(field, u.Text)
	if problem != "" {
		return chat.Reply{
			Messages:          []chat.Message{{Text: problem + "\n\n" + promptOf(field), Keyboard: cancelKeyboard()}},
			DeleteUserMessage: true,
		}, nil
	}

	if _, err := f.items.UpdateItem(ctx, id, upd); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrKitDeleted) {
			s.Finish()
			return chat.Text(msgItemNotFound), nil
		}
		return chat.Reply{}, fmt.Errorf("update item: %w", err)
	}
	s.Finish()
	f.log.InfoContext(ctx, "item field updated",
		slog.Int64("user_id", s.UserID),
		slog.Int64("item_id", id),
		slog.String("field", field),
	)
	return chat.Text(msgUpdated + "\n💊 " + s.Get(fieldItemName)), nil
}

// OnCallback handles the item and field choices.
func (f *Flow) OnCallback(ctx context.Context, s *dialogue.Session, u chat.Update, action string, args []string) (chat.Reply, error) {
	s.Remember(u.MessageID)
	switch {
	case action == actItem && s.Step == StepChoosingItem:
		id, ok := chat.ArgID(args, 0)
		if !ok {
			return stale(), nil
		}
		return f.selectItem(ctx, s, u, id)
	case action == actField && s.Step == StepChoosingField:
		field := chat.Arg(args, 0)
		if promptOf(field) == "" {
			return stale(), nil
		}
		s.Set(fieldField, field)
		if err := s.Go(StepEnteringValue); err != nil {
			return chat.Reply{}, err
		}
		return chat.Reply{Messages: []chat.Message{{
			Text: promptOf(field), Keyboard: cancelKeyboard(), EditMessageID: u.MessageID,
		}}}, nil
	}
	return stale(), nil
}

func (f *Flow) selectItem(ctx context.Context, s *dialogue.Session, u chat.Update, id int64) (chat.Reply, error) {
	item, err := f.items.Item(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrKitDeleted) {
			return chat.Reply{CallbackText: msgItemNotFound}, nil
		}
		return chat.Reply{}, fmt.Errorf("get item: %w", err)
	}
	s.SetInt64(fieldItemID, item.ID)
	s.Set(fieldItemName, item.Medicine.DisplayName())
	if err := s.Go(StepChoosingField); err != nil {
		return chat.Reply{}, err
	}

	kb := make(chat.Keyboard, 0, len(fields)+1)
	for _, fd := range fields {
		kb = append(kb, chat.Row(chat.Button{Label: fd.label, Data: data(actField, fd.key)}))
	}
	kb = append(kb, chat.Row(cancelButton()))
	msg := chat.Message{Text: "💊 " + item.Medicine.DisplayName() + "\n\n" + msgChooseField, Keyboard: kb}
	if u.Kind == chat.KindCallback {
		msg.EditMessageID = u.MessageID
	}
	return chat.Reply{Messages: []chat.Message{msg}}, nil
}

// parseUpdate validates raw as the new value of field. A non-empty problem is
// the message to show instead.
func parseUpdate(field, raw string) (upd domain.ItemUpdate, problem string) {
	switch field {
	case Quantity:
		q, err := validate.QuantityAllowZero(raw)
		if err != nil {
			return upd, errQuantity
		}
		upd.Quantity = &q
	case Unit:
		v, err := validate.Unit(raw)
		if err != nil {
			return upd, errUnit
		}
		upd.Unit = &v
	case ExpiryDate:
		d, err := validate.ExpiryDate(raw)
		if err != nil {
			return upd, errDate
		}
		upd.ExpiryDate = &d
	case Location:
		v, err := validate.Required(raw, validate.MaxLocationLen)
		if err != nil {
			return upd, errText
		}
		upd.Location = &v
	case Notes:
		v, err := validate.Required(raw, validate.MaxNotesLen)
		if err != nil {
			return upd, errText
		}
		upd.Notes = &v
	default:
		return upd, msgStaleButton
	}
	return upd, ""
}

func promptOf(field string) string {
	for _, fd := range fields {
		if fd.key == field {
			return fd.prompt
		}
	}
	return ""
}

func data(action string, args ...string) string {
	return chat.Data(FlowName, append([]string{action}, args...)...)
}

func stale() chat.Reply { return chat.Reply{CallbackText: msgStaleButton} }

func cancelButton() chat.Button {
	return chat.Button{Label: btnCancel, Data: dialogue.CancelData}
}

func cancelKeyboard() chat.Keyboard { return chat.Keyboard{chat.Row(cancelButton())} }
