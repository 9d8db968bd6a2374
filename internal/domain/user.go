package domain

import (
	"strings"
	"time"
)

// User is a Telegram user known to the bot. ID is the Telegram user id.
type User struct {
	ID        int64
	Username  *string
	FirstName string
	CreatedAt time.Time
}

// DisplayName returns "@username" when known, the first name otherwise.
func (u User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return "@" + *u.Username
	}
	return u.FirstName
}

// NormalizeUsername strips a leading "@" and surrounding spaces, and lowercases.
func NormalizeUsername(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "@")
	return strings.ToLower(s)
}
