package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/heartmarshall/medkit/internal/chat"
	"github.com/heartmarshall/medkit/internal/service/user"
	"github.com/heartmarshall/medkit/pkg/ctxutil"
)

// Handler produces the reply to one update.
type Handler interface {
	Handle(ctx context.Context, u chat.Update) (chat.Reply, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, u chat.Update) (chat.Reply, error)

func (f HandlerFunc) Handle(ctx context.Context, u chat.Update) (chat.Reply, error) {
	return f(ctx, u)
}

// Middleware wraps a Handler.
type Middleware func(Handler) Handler

// Chain combines middleware so that Chain(mw1, mw2)(h) is mw1(mw2(h)):
// mw1 runs first.
func Chain(mws ...Middleware) Middleware {
	return func(final Handler) Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}

// Recovery turns a panic in the handler into an error.
func Recovery(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, u chat.Update) (reply chat.Reply, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.ErrorContext(ctx, "panic recovered",
						slog.Any("error", r),
						slog.String("stack", string(debug.Stack())),
						slog.String("update_kind", string(u.Kind)),
					)
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return next.Handle(ctx, u)
		})
	}
}

// Logger logs every update with its outcome and duration.
func Logger(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, u chat.Update) (chat.Reply, error) {
			start := time.Now()
			reply, err := next.Handle(ctx, u)

			attrs := []slog.Attr{
				slog.String("update_kind", string(u.Kind)),
				slog.Int64("user_id", u.UserID),
				slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
				slog.Duration("duration", time.Since(start)),
			}
			if u.Command != "" {
				attrs = append(attrs, slog.String("command", u.Command))
			}
			if u.Kind == chat.KindCallback {
				attrs = append(attrs, slog.String("callback", actionOf(u.CallbackData)))
			}

			level := slog.LevelInfo
			if err != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", err.Error()))
			}
			logger.LogAttrs(ctx, level, "bot.update", attrs...)
			return reply, err
		})
	}
}

// Errors replaces a handler error with a generic apology. It runs inside
// Logger so the error is still logged.
func Errors() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, u chat.Update) (chat.Reply, error) {
			reply, err := next.Handle(ctx, u)
			if err == nil {
				return reply, nil
			}
			failed := chat.Text(msgInternalError)
			failed.CallbackText = msgInternalError
			return failed, err
		})
	}
}

// RequestID tags the update's context with a fresh ULID.
func RequestID(next Handler) Handler {
	return HandlerFunc(func(ctx context.Context, u chat.Update) (chat.Reply, error) {
		return next.Handle(ctxutil.WithRequestID(ctx, ulid.Make().String()), u)
	})
}

// RateLimit drops updates of users exceeding maxPerMinute.
func RateLimit(rl *RateLimiter, maxPerMinute int) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, u chat.Update) (chat.Reply, error) {
			if !rl.Allow(u.UserID, maxPerMinute) {
				return chat.Reply{CallbackText: msgRateLimited}, nil
			}
			return next.Handle(ctx, u)
		})
	}
}

type registrar interface {
	Register(ctx context.Context, in user.RegisterInput) (bool, error)
}

// Identify puts the user id and admin flag into the context and registers
// users the process has not seen yet.
func Identify(users registrar, adminIDs []int64) Middleware {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	var known sync.Map

	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, u chat.Update) (chat.Reply, error) {
			ctx = ctxutil.WithUserID(ctx, u.UserID)
			ctx = ctxutil.WithAdmin(ctx, admins[u.UserID])

			if _, ok := known.Load(u.UserID); !ok {
				_, err := users.Register(ctx, user.RegisterInput{
					ID:        u.UserID,
					Username:  u.Username,
					FirstName: u.FirstName,
				})
				if err != nil {
					return chat.Reply{}, fmt.Errorf("register user: %w", err)
				}
				known.Store(u.UserID, struct{}{})
			}
			return next.Handle(ctx, u)
		})
	}
}

func actionOf(data string) string {
	action, _ := chat.ParseData(data)
	return action
}
