package chat

import (
	"strconv"
	"strings"
)

const (
	sep = ":"
	// MaxCallbackData is the Telegram limit for callback payloads, in bytes.
	MaxCallbackData = 64
)

// Data encodes an action and its arguments as "action:arg1:arg2".
func Data(action string, args ...string) string {
	if len(args) == 0 {
		return action
	}
	return action + sep + strings.Join(args, sep)
}

// ParseData splits callback data produced by Data.
func ParseData(data string) (string, []string) {
	parts := strings.Split(data, sep)
	return parts[0], parts[1:]
}

// ID formats an int64 identifier for callback data.
func ID(id int64) string { return strconv.FormatInt(id, 10) }

// ArgID parses args[i] as an int64 identifier.
func ArgID(args []string, i int) (int64, bool) {
	if i >= len(args) {
		return 0, false
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Arg returns args[i] or "" when absent.
func Arg(args []string, i int) string {
	if i >= len(args) {
		return ""
	}
	return args[i]
}
