package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/medkit/internal/chat"
	"github.com/heartmarshall/medkit/internal/dialogue"
	"github.com/heartmarshall/medkit/internal/validate"
	"github.com/heartmarshall/medkit/pkg/ctxutil"
)

// BroadcastFlowName prefixes the broadcast flow's callback data and session key.
const BroadcastFlowName = "bc"

// StepWaitingMessage waits for the text to broadcast.
const StepWaitingMessage dialogue.Step = "waiting_message"

var broadcastTable = dialogue.Table{Start: StepWaitingMessage}

const (
	msgEnterBroadcast = "📢 Введите сообщение для рассылки всем пользователям:"
	msgEmptyBroadcast = "❌ Сообщение не может быть пустым."

	maxBroadcastLen = 4000
)

type userDirectory interface {
	AllIDs(ctx context.Context) ([]int64, error)
}

// Broadcast is the /broadcast dialogue.
type Broadcast struct {
	log   *slog.Logger
	users userDirectory
	sink  chat.Sink
}

var _ dialogue.Flow = (*Broadcast)(nil)

// NewBroadcast creates the broadcast dialogue delivering through sink.
func NewBroadcast(logger *slog.Logger, users userDirectory, sink chat.Sink) *Broadcast {
	return &Broadcast{log: logger.With("service", "broadcast"), users: users, sink: sink}
}

func (b *Broadcast) Name() string          { return BroadcastFlowName }
func (b *Broadcast) Table() dialogue.Table { return broadcastTable }

var _ dialogue.Guard = (*Broadcast)(nil)

// Admit lets only administrators start a broadcast.
func (b *Broadcast) Admit(ctx context.Context, _ chat.Update) (chat.Reply, bool) {
	if !ctxutil.IsAdmin(ctx) {
		return chat.Text(msgForbidden), false
	}
	return chat.Reply{}, true
}

func (b *Broadcast) Start(_ context.Context, _ *dialogue.Session, _ chat.Update) (chat.Reply, error) {
	return chat.WithKeyboard(msgEnterBroadcast, chat.Keyboard{chat.Row(
		chat.Button{Label: "❌ Отмена", Data: dialogue.CancelData},
	)}), nil
}

// OnText sends the text to every user. Delivery is best-effort: failures are
// counted and logged, never retried.
func (b *Broadcast) OnText(ctx context.Context, s *dialogue.Session, u chat.Update) (chat.Reply, error) {
	text, err := validate.Required(u.Text, maxBroadcastLen)
	if err != nil {
		return chat.Text(msgEmptyBroadcast + "\n\n" + msgEnterBroadcast), nil
	}
	ids, err := b.users.AllIDs(ctx)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("list users: %w", err)
	}
	s.Finish()

	var delivered, failed int
	for _, id := range ids {
		if err := b.sink.Send(ctx, id, chat.Message{Text: "📢 " + text}); err != nil {
			failed++
			b.log.WarnContext(ctx, "broadcast delivery failed",
				slog.Int64("user_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		delivered++
	}

	b.log.InfoContext(ctx, "broadcast finished",
		slog.Int64("admin_id", s.UserID),
		slog.Int("delivered", delivered),
		slog.Int("failed", failed),
	)
	return chat.Text(fmt.Sprintf("📢 Рассылка завершена.\nДоставлено: %d\nОшибок: %d", delivered, failed)), nil
}

func (b *Broadcast) OnCallback(_ context.Context, _ *dialogue.Session, _ chat.Update, _ string, _ []string) (chat.Reply, error) {
	return chat.Reply{CallbackText: "Эта кнопка устарела."}, nil
}
