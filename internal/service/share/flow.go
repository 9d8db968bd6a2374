// Package share implements kit sharing: a dialogue that picks a kit and a
// recipient, and the accept/decline handshake of the resulting request.
package share

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/medkit/internal/chat"
	"github.com/heartmarshall/medkit/internal/dialogue"
	"github.com/heartmarshall/medkit/internal/domain"
)

// FlowName prefixes the flow's callback data and session key.
const FlowName = "sh"

// Callback data of the recipient's answer buttons: "<data>:<request id>".
const (
	AcceptData  = "share_accept"
	DeclineData = "share_decline"
)

const (
	StepChoosingKit      dialogue.Step = "choosing_kit"
	StepEnteringUsername dialogue.Step = "entering_username"
)

var table = dialogue.Table{
	Start: StepChoosingKit,
	From: map[dialogue.Step][]dialogue.Step{
		StepEnteringUsername: {StepChoosingKit},
	},
}

const (
	fieldKitID   = "kit_id"
	fieldKitName = "kit_name"

	actKit = "kit"
)

const (
	msgChooseKit     = "🤝 Какой аптечкой поделиться?"
	msgNoKits        = "У вас пока нет аптечек. Создайте её через /upload"
	msgEnterUsername = "Введите @username пользователя, с которым хотите поделиться аптечкой:"
	msgUserNotFound  = "❌ Пользователь не найден. Он должен хотя бы раз написать боту /start."
	msgSelf          = "❌ Нельзя поделиться аптечкой с самим собой."
	msgAlreadyMember = "Этот пользователь уже имеет доступ к аптечке."
	msgKitNotFound   = "❌ Аптечка не найдена."
	msgStaleButton   = "Эта кнопка устарела."
	msgUseButtons    = "Пожалуйста, выберите аптечку с помощью кнопок."
	msgExpired       = "⌛ Запрос истёк."
	msgNotForYou     = "Этот запрос адресован не вам."

	btnCancel  = "❌ Отмена"
	btnAccept  = "✅ Принять"
	btnDecline = "🚫 Отклонить"
)

type kitService interface {
	Kits(ctx context.Context) ([]domain.Kit, error)
	Kit(ctx context.Context, kitID int64) (*domain.Kit, error)
	IsMember(ctx context.Context, kitID, userID int64) (bool, error)
	AddMember(ctx context.Context, kitID, userID int64) error
}

type userService interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

type requestStore interface {
	Save(ctx context.Context, r *Request) error
	Load(ctx context.Context, id uuid.UUID) (*Request, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Flow is the share dialogue and the handler of the recipient's answer.
type Flow struct {
	log      *slog.Logger
	kits     kitService
	users    userService
	requests requestStore
	now      func() time.Time
}

var _ dialogue.Flow = (*Flow)(nil)

// NewFlow creates the share dialogue.
func NewFlow(logger *slog.Logger, kits kitService, users userService, requests requestStore) *Flow {
	return &Flow{
		log:      logger.With("service", "share"),
		kits:     kits,
		users:    users,
		requests: requests,
		now:      time.Now,
	}
}

func (f *Flow) Name() string          { return FlowName }
func (f *Flow) Table() dialogue.Table { return table }

// Start lists the user's kits.
func (f *Flow) Start(ctx context.Context, s *dialogue.Session, _ chat.Update) (chat.Reply, error) {
	kits, err := f.kits.Kits(ctx)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("list kits: %w", err)
	}
	if len(kits) == 0 {
		s.Finish()
		return chat.Text(msgNoKits), nil
	}
	kb := make(chat.Keyboard, 0, len(kits)+1)
	for _, k := range kits {
		kb = append(kb, chat.Row(chat.Button{Label: "📦 " + k.Name, Data: chat.Data(FlowName, actKit, chat.ID(k.ID))}))
	}
	kb = append(kb, chat.Row(cancelButton()))
	return chat.WithKeyboard(msgChooseKit, kb), nil
}

// OnCallback handles the kit choice.
func (f *Flow) OnCallback(ctx context.Context, s *dialogue.Session, u chat.Update, action string, args []string) (chat.Reply, error) {
	s.Remember(u.MessageID)
	if action != actKit || s.Step != StepChoosingKit {
		return chat.Reply{CallbackText: msgStaleButton}, nil
	}
	kitID, ok := chat.ArgID(args, 0)
	if !ok {
		return chat.Reply{CallbackText: msgStaleButton}, nil
	}
	kit, err := f.kits.Kit(ctx, kitID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrKitDeleted) {
			return chat.Reply{CallbackText: msgKitNotFound}, nil
		}
		return chat.Reply{}, fmt.Errorf("get kit: %w", err)
	}
	s.SetInt64(fieldKitID, kit.ID)
	s.Set(fieldKitName, kit.Name)
	if err := s.Go(StepEnteringUsername); err != nil {
		return chat.Reply{}, err
	}
	return chat.Reply{Messages: []chat.Message{{
		Text:          "📦 " + kit.Name + "\n\n" + msgEnterUsername,
		Keyboard:      chat.Keyboard{chat.Row(cancelButton())},
		EditMessageID: u.MessageID,
	}}}, nil
}

// OnText takes the recipient's username and sends them the request.
func (f *Flow) OnText(ctx context.Context, s *dialogue.Session, u chat.Update) (chat.Reply, error) {
	if s.Step != StepEnteringUsername {
		return chat.Reply{Messages: []chat.Message{{Text: msgUseButtons}}, DeleteUserMessage: true}, nil
	}
	kitID, _ := s.GetInt64(fieldKitID)

	target, err := f.users.FindByUsername(ctx, u.Text)
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrValidation):
		return retry(msgUserNotFound), nil
	case err != nil:
		return chat.Reply{}, fmt.Errorf("find user: %w", err)
	case target.ID == s.UserID:
		return retry(msgSelf), nil
	}

	member, err := f.kits.IsMember(ctx, kitID, target.ID)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("check membership: %w", err)
	}
	if member {
		return retry(msgAlreadyMember), nil
	}

	from := u.FirstName
	if u.Username != "" {
		from = "@" + u.Username
	}
	req := &Request{
		KitID:      kitID,
		KitName:    s.Get(fieldKitName),
		FromUserID: s.UserID,
		FromName:   from,
		ToUserID:   target.ID,
		CreatedAt:  f.now(),
	}
	if err := f.requests.Save(ctx, req); err != nil {
		return chat.Reply{}, err
	}
	s.Finish()

	f.log.InfoContext(ctx, "share request sent",
		slog.String("request_id", req.ID.String()),
		slog.Int64("kit_id", kitID),
		slog.Int64("from_user_id", s.UserID),
		slog.Int64("to_user_id", target.ID),
	)

	id := req.ID.String()
	return chat.Reply{
		Messages: []chat.Message{{Text: fmt.Sprintf("📨 Запрос отправлен пользователю %s.", target.DisplayName())}},
		Notifications: []chat.Notification{{
			UserID: target.ID,
			Message: chat.Message{
				Text: fmt.Sprintf("🤝 %s хочет поделиться с вами аптечкой «%s».", from, req.KitName),
				Keyboard: chat.Keyboard{chat.Row(
					chat.Button{Label: btnAccept, Data: chat.Data(AcceptData, id)},
					chat.Button{Label: btnDecline, Data: chat.Data(DeclineData, id)},
				)},
			},
		}},
	}, nil
}

// Accept adds the pressing user to the requested kit and tells the sender.
func (f *Flow) Accept(ctx context.Context, u chat.Update, rawID string) (chat.Reply, error) {
	return f.answer(ctx, u, rawID, true)
}

// Decline drops the request and tells the sender.
func (f *Flow) Decline(ctx context.Context, u chat.Update, rawID string) (chat.Reply, error) {
	return f.answer(ctx, u, rawID, false)
}

func (f *Flow) answer(ctx context.Context, u chat.Update, rawID string, accept bool) (chat.Reply, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return expired(u), nil
	}
	req, err := f.requests.Load(ctx, id)
	if errors.Is(err, ErrRequestExpired) {
		return expired(u), nil
	}
	if err != nil {
		return chat.Reply{}, err
	}
	if req.ToUserID != u.UserID {
		return chat.Reply{CallbackText: msgNotForYou}, nil
	}

	if accept {
		if err := f.kits.AddMember(ctx, req.KitID, req.ToUserID); err != nil {
			return chat.Reply{}, fmt.Errorf("accept share: %w", err)
		}
	}
	if err := f.requests.Delete(ctx, id); err != nil {
		return chat.Reply{}, err
	}

	f.log.InfoContext(ctx, "share request answered",
		slog.String("request_id", id.String()),
		slog.Bool("accepted", accept),
	)

	who := u.FirstName
	if u.Username != "" {
		who = "@" + u.Username
	}
	mine, theirs := fmt.Sprintf("🚫 Вы отклонили приглашение в аптечку «%s».", req.KitName),
		fmt.Sprintf("🚫 %s отклонил(а) приглашение в аптечку «%s».", who, req.KitName)
	if accept {
		mine = fmt.Sprintf("✅ Теперь вам доступна аптечка «%s». Откройте её: /my_kits", req.KitName)
		theirs = fmt.Sprintf("✅ %s принял(а) приглашение в аптечку «%s».", who, req.KitName)
	}
	return chat.Reply{
		Messages:      []chat.Message{{Text: mine, EditMessageID: u.MessageID}},
		Notifications: []chat.Notification{{UserID: req.FromUserID, Message: chat.Message{Text: theirs}}},
	}, nil
}

func retry(text string) chat.Reply {
	return chat.Reply{
		Messages:          []chat.Message{{Text: text + "\n\n" + msgEnterUsername, Keyboard: chat.Keyboard{chat.Row(cancelButton())}}},
		DeleteUserMessage: true,
	}
}

func expired(u chat.Update) chat.Reply {
	return chat.Reply{
		Messages:     []chat.Message{{Text: msgExpired, EditMessageID: u.MessageID}},
		CallbackText: msgExpired,
	}
}

func cancelButton() chat.Button {
	return chat.Button{Label: btnCancel, Data: dialogue.CancelData}
}
