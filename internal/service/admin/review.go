// Package admin holds the operator-only features: reviewing pending catalog
// entries and broadcasting a message to every user.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/medkit/internal/chat"
	"github.com/heartmarshall/medkit/internal/domain"
	"github.com/heartmarshall/medkit/pkg/ctxutil"
)

// Callback data of the review buttons: "<data>:<medicine id>".
const (
	VerifyData = "verify"
	RejectData = "reject"
)

const (
	msgNoPending     = "✅ Непроверенных лекарств нет."
	msgPendingHeader = "🔍 Непроверенные лекарства"
	msgForbidden     = "⛔ Команда доступна только администраторам."
	msgMedNotFound   = "❌ Лекарство не найдено."

	btnVerify = "✅ Подтвердить"
	btnReject = "❌ Отклонить"

	pendingPage = 10
)

type catalogService interface {
	Pending(ctx context.Context, limit int) ([]domain.Medicine, error)
	Verify(ctx context.Context, id int64) (*domain.Medicine, error)
	Reject(ctx context.Context, id int64) (*domain.Medicine, error)
}

// Reviewer serves /check_not_verify and its buttons.
type Reviewer struct {
	log     *slog.Logger
	catalog catalogService
}

// NewReviewer creates a Reviewer.
func NewReviewer(logger *slog.Logger, catalog catalogService) *Reviewer {
	return &Reviewer{log: logger.With("service", "admin"), catalog: catalog}
}

// Pending sends one message per pending entry, each with its own buttons.
func (r *Reviewer) Pending(ctx context.Context) (chat.Reply, error) {
	if !ctxutil.IsAdmin(ctx) {
		return chat.Text(msgForbidden), nil
	}
	list, err := r.catalog.Pending(ctx, pendingPage)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("list pending: %w", err)
	}
	if len(list) == 0 {
		return chat.Text(msgNoPending), nil
	}

	msgs := make([]chat.Message, 0, len(list)+1)
	msgs = append(msgs, chat.Message{Text: fmt.Sprintf("%s (%d):", msgPendingHeader, len(list))})
	for _, m := range list {
		id := chat.ID(m.ID)
		msgs = append(msgs, chat.Message{
			Text: card(m),
			Keyboard: chat.Keyboard{chat.Row(
				chat.Button{Label: btnVerify, Data: chat.Data(VerifyData, id)},
				chat.Button{Label: btnReject, Data: chat.Data(RejectData, id)},
			)},
		})
	}
	return chat.Reply{Messages: msgs}, nil
}

// Review verifies or rejects an entry and replaces the pressed card.
func (r *Reviewer) Review(ctx context.Context, u chat.Update, id int64, approve bool) (chat.Reply, error) {
	if !ctxutil.IsAdmin(ctx) {
		return chat.Reply{CallbackText: msgForbidden}, nil
	}

	review := r.catalog.Reject
	if approve {
		review = r.catalog.Verify
	}
	m, err := review(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return chat.Reply{CallbackText: msgMedNotFound, ClearKeyboardOf: u.MessageID}, nil
	}
	if err != nil {
		return chat.Reply{}, fmt.Errorf("review medicine: %w", err)
	}

	verdict := "❌ Отклонено"
	if approve {
		verdict = "✅ Подтверждено"
	}
	return chat.Reply{
		Messages:     []chat.Message{{Text: card(*m) + "\n\n" + verdict, EditMessageID: u.MessageID}},
		CallbackText: verdict,
	}, nil
}

func card(m domain.Medicine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💊 %s\n", m.DisplayName())
	fmt.Fprintf(&b, "Форма: %s\n", m.Type.Label())
	fmt.Fprintf(&b, "Категория: %s", m.Category.Label())
	if m.Notes != nil {
		fmt.Fprintf(&b, "\nОписание: %s", *m.Notes)
	}
	return b.String()
}
