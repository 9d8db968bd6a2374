// Package telegram adapts the Bot API to the chat model: it polls updates,
// runs them through the handler one user at a time and renders replies.
package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/heartmarshall/medkit/internal/chat"
)

// maxMessageLen is the Bot API limit for message text, in characters.
const maxMessageLen = 4096

// botAPI is the part of *tgbotapi.BotAPI the transport uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// toUpdate converts a Bot API update. Updates other than messages with a
// sender and callback queries are reported as not ok.
func toUpdate(raw tgbotapi.Update) (chat.Update, bool) {
	switch {
	case raw.Message != nil && raw.Message.From != nil:
		m := raw.Message
		cmd, args := chat.ParseCommand(m.Text)
		return chat.Update{
			Kind:      chat.KindMessage,
			UserID:    m.From.ID,
			ChatID:    m.Chat.ID,
			Username:  m.From.UserName,
			FirstName: m.From.FirstName,
			MessageID: m.MessageID,
			Text:      m.Text,
			Command:   cmd,
			Args:      args,
		}, true

	case raw.CallbackQuery != nil && raw.CallbackQuery.From != nil:
		q := raw.CallbackQuery
		u := chat.Update{
			Kind:         chat.KindCallback,
			UserID:       q.From.ID,
			ChatID:       q.From.ID,
			Username:     q.From.UserName,
			FirstName:    q.From.FirstName,
			CallbackID:   q.ID,
			CallbackData: q.Data,
		}
		if q.Message != nil {
			u.MessageID = q.Message.MessageID
			if q.Message.Chat != nil {
				u.ChatID = q.Message.Chat.ID
			}
		}
		return u, true
	}
	return chat.Update{}, false
}

func keyboard(kb chat.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, r := range kb {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(r))
		for _, b := range r {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		rows = append(rows, row)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

// truncate cuts text to the Bot API limit, counting runes.
func truncate(text string) string {
	r := []rune(text)
	if len(r) <= maxMessageLen {
		return text
	}
	return string(r[:maxMessageLen-1]) + "…"
}
