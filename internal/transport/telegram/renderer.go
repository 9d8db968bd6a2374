package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/heartmarshall/medkit/internal/chat"
)

// Renderer performs a chat.Reply through the Bot API.
type Renderer struct {
	api botAPI
	log *slog.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer(api botAPI, logger *slog.Logger) *Renderer {
	return &Renderer{api: api, log: logger.With("component", "telegram_renderer")}
}

// Render answers the callback, edits or sends messages, cleans up and
// delivers notifications. Cleanup and notification failures are logged; the
// first failure to deliver a reply message is returned.
func (r *Renderer) Render(ctx context.Context, u chat.Update, reply chat.Reply) error {
	if u.Kind == chat.KindCallback && u.CallbackID != "" {
		if _, err := r.api.Request(tgbotapi.NewCallback(u.CallbackID, reply.CallbackText)); err != nil {
			r.warn(ctx, "answer callback", err)
		}
	}

	if reply.ClearKeyboardOf != 0 {
		empty := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
		if _, err := r.api.Request(tgbotapi.NewEditMessageReplyMarkup(u.ChatID, reply.ClearKeyboardOf, empty)); err != nil && !notModified(err) {
			r.warn(ctx, "clear keyboard", err)
		}
	}

	var sendErr error
	for _, msg := range reply.Messages {
		if err := r.deliver(u.ChatID, msg); err != nil && sendErr == nil {
			sendErr = err
		}
	}

	if reply.DeleteUserMessage && u.Kind == chat.KindMessage && u.MessageID != 0 {
		if _, err := r.api.Request(tgbotapi.NewDeleteMessage(u.ChatID, u.MessageID)); err != nil {
			r.warn(ctx, "delete user message", err)
		}
	}

	for _, n := range reply.Notifications {
		if err := r.deliver(n.UserID, chat.Message{Text: n.Message.Text, Keyboard: n.Message.Keyboard}); err != nil {
			r.log.WarnContext(ctx, "notification failed",
				slog.Int64("to_user_id", n.UserID),
				slog.String("error", err.Error()),
			)
		}
	}

	return sendErr
}

// Send delivers a message to a user's private chat. It implements chat.Sink.
func (r *Renderer) Send(_ context.Context, userID int64, msg chat.Message) error {
	msg.EditMessageID = 0
	return r.deliver(userID, msg)
}

// deliver edits msg.EditMessageID in place when set and falls back to a new
// message if the edit fails.
func (r *Renderer) deliver(chatID int64, msg chat.Message) error {
	text := truncate(msg.Text)
	markup := keyboard(msg.Keyboard)

	if msg.EditMessageID != 0 {
		edit := tgbotapi.NewEditMessageText(chatID, msg.EditMessageID, text)
		edit.ReplyMarkup = markup
		_, err := r.api.Send(edit)
		if err == nil || notModified(err) {
			return nil
		}
	}

	send := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		send.ReplyMarkup = *markup
	}
	if _, err := r.api.Send(send); err != nil {
		return fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return nil
}

func (r *Renderer) warn(ctx context.Context, op string, err error) {
	r.log.WarnContext(ctx, "telegram request failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
}

// notModified reports the Bot API refusal to edit a message into identical content.
func notModified(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return strings.Contains(apiErr.Message, "message is not modified")
	}
	return strings.Contains(err.Error(), "message is not modified")
}
