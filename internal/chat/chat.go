// Package chat is the transport-neutral model of the conversation: incoming
// updates, outgoing messages with inline buttons, and the callback data
// format shared by every handler.
package chat

import (
	"context"
	"strings"
)

// UpdateKind tells a text message from a button press.
type UpdateKind string

const (
	KindMessage  UpdateKind = "message"
	KindCallback UpdateKind = "callback"
)

// Update is one incoming user action.
type Update struct {
	Kind      UpdateKind
	UserID    int64
	ChatID    int64
	Username  string
	FirstName string

	// MessageID is the user's message for KindMessage, or the bot message
	// carrying the pressed button for KindCallback.
	MessageID int

	Text    string
	Command string // without the leading slash, empty for plain text
	Args    string

	CallbackID   string
	CallbackData string
}

// IsCommand reports whether the update is the given slash command.
func (u Update) IsCommand(name string) bool {
	return u.Kind == KindMessage && u.Command == name
}

// ParseCommand splits "/cmd@bot args" into "cmd" and "args". Plain text
// yields an empty command.
func ParseCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	cmd, args, _ := strings.Cut(text[1:], " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd), strings.TrimSpace(args)
}

// Button is an inline keyboard button.
type Button struct {
	Label string
	Data  string
}

// Keyboard is a list of button rows.
type Keyboard [][]Button

// Row builds a keyboard row.
func Row(buttons ...Button) []Button { return buttons }

// Message is an outgoing text with an optional inline keyboard.
type Message struct {
	Text     string
	Keyboard Keyboard
	// EditMessageID replaces that bot message in place instead of sending a new one.
	EditMessageID int
}

// Notification is a message for another user.
type Notification struct {
	UserID  int64
	Message Message
}

// Reply is everything a handler wants done in response to an update.
type Reply struct {
	Messages      []Message
	Notifications []Notification
	// DeleteUserMessage removes the user's message that caused the reply.
	DeleteUserMessage bool
	// ClearKeyboardOf strips the inline keyboard from that bot message.
	ClearKeyboardOf int
	// CallbackText is shown as a short toast for button presses.
	CallbackText string
}

// Text builds a reply with a single plain message.
func Text(text string) Reply {
	return Reply{Messages: []Message{{Text: text}}}
}

// WithKeyboard builds a reply with a single message and keyboard.
func WithKeyboard(text string, kb Keyboard) Reply {
	return Reply{Messages: []Message{{Text: text, Keyboard: kb}}}
}

// Sink delivers messages to users outside the current reply, best-effort.
type Sink interface {
	Send(ctx context.Context, userID int64, msg Message) error
}
