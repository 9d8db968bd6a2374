package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/heartmarshall/medkit/internal/chat"
)

// User-facing texts owned by the engine.
const (
	MsgCancelled       = "❌ Действие отменено."
	MsgNothingToCancel = "Нечего отменять."
	MsgExpired         = "⌛ Сессия истекла. Начните заново."
)

// CancelData is the callback data of the global cancel button.
const CancelData = "cancel"

// Flow is one kind of dialogue. Its name prefixes the flow's callback data
// ("<name>:<action>:<args>") and its session key.
type Flow interface {
	Name() string
	Table() Table
	// Start renders the first prompt of a fresh session.
	Start(ctx context.Context, s *Session, u chat.Update) (chat.Reply, error)
	OnText(ctx context.Context, s *Session, u chat.Update) (chat.Reply, error)
	OnCallback(ctx context.Context, s *Session, u chat.Update, action string, args []string) (chat.Reply, error)
}

// Guard is implemented by flows that refuse some users. Admit runs before
// any session of the user is touched; a refusal leaves them all in place.
type Guard interface {
	Admit(ctx context.Context, u chat.Update) (reply chat.Reply, ok bool)
}

// Engine loads the session for each turn, hands it to its flow and writes the
// result back to the store before the reply is delivered.
type Engine struct {
	store Store
	ttl   time.Duration
	flows map[string]Flow
	order []string
	log   *slog.Logger
}

// NewEngine creates an Engine serving the given flows.
func NewEngine(log *slog.Logger, store Store, ttl time.Duration, flows ...Flow) *Engine {
	e := &Engine{
		store: store,
		ttl:   ttl,
		flows: make(map[string]Flow, len(flows)),
		log:   log.With("service", "dialogue"),
	}
	for _, f := range flows {
		e.flows[f.Name()] = f
		e.order = append(e.order, f.Name())
	}
	return e
}

// Key is the store key of the session of flow for userID.
func Key(flow string, userID int64) string {
	return "dialogue:" + flow + ":" + strconv.FormatInt(userID, 10)
}

// Start begins flow for the user. Any other dialogue of the user is dropped.
func (e *Engine) Start(ctx context.Context, flow string, u chat.Update) (chat.Reply, error) {
	f, ok := e.flows[flow]
	if !ok {
		return chat.Reply{}, fmt.Errorf("start dialogue: unknown flow %q", flow)
	}
	if g, ok := f.(Guard); ok {
		if reply, ok := g.Admit(ctx, u); !ok {
			return reply, nil
		}
	}

	prev, err := e.active(ctx, u.UserID)
	if err != nil {
		return chat.Reply{}, err
	}
	if err := e.clearAll(ctx, u.UserID); err != nil {
		return chat.Reply{}, err
	}

	s := NewSession(flow, u.UserID, f.Table())
	reply, err := f.Start(ctx, s, u)
	if err != nil {
		return chat.Reply{}, err
	}
	if prev != nil && prev.MessageID != 0 && reply.ClearKeyboardOf == 0 {
		reply.ClearKeyboardOf = prev.MessageID
	}
	if err := e.persist(ctx, s); err != nil {
		return chat.Reply{}, err
	}

	e.log.DebugContext(ctx, "dialogue started",
		slog.String("flow", flow),
		slog.Int64("user_id", u.UserID),
		slog.String("step", string(s.Step)),
	)
	return reply, nil
}

// HandleText routes free text to the user's active dialogue. handled is false
// when there is none, so the caller can treat the text as flow-less.
func (e *Engine) HandleText(ctx context.Context, u chat.Update) (reply chat.Reply, handled bool, err error) {
	s, err := e.active(ctx, u.UserID)
	if err != nil || s == nil {
		return chat.Reply{}, false, err
	}

	f := e.flows[s.Flow]
	reply, err = f.OnText(ctx, s, u)
	if err != nil {
		return chat.Reply{}, true, err
	}
	if err := e.persist(ctx, s); err != nil {
		return chat.Reply{}, true, err
	}
	return reply, true, nil
}

// HandleCallback routes a button press whose data is prefixed with a flow
// name. A press for a session that no longer exists asks the user to start
// over. handled is false for data that belongs to no flow.
func (e *Engine) HandleCallback(ctx context.Context, u chat.Update) (reply chat.Reply, handled bool, err error) {
	prefix, args := chat.ParseData(u.CallbackData)
	f, ok := e.flows[prefix]
	if !ok {
		return chat.Reply{}, false, nil
	}

	s, err := e.load(ctx, f, u.UserID)
	if err != nil {
		return chat.Reply{}, true, err
	}
	if s == nil {
		return chat.Reply{
			Messages:        []chat.Message{{Text: MsgExpired}},
			ClearKeyboardOf: u.MessageID,
			CallbackText:    MsgExpired,
		}, true, nil
	}

	action, rest := chat.Arg(args, 0), []string(nil)
	if len(args) > 1 {
		rest = args[1:]
	}
	reply, err = f.OnCallback(ctx, s, u, action, rest)
	if err != nil {
		return chat.Reply{}, true, err
	}
	if err := e.persist(ctx, s); err != nil {
		return chat.Reply{}, true, err
	}
	return reply, true, nil
}

// Cancel drops every dialogue of the user, whatever step it is in.
func (e *Engine) Cancel(ctx context.Context, userID int64) (chat.Reply, error) {
	s, err := e.active(ctx, userID)
	if err != nil {
		return chat.Reply{}, err
	}
	if err := e.clearAll(ctx, userID); err != nil {
		return chat.Reply{}, err
	}
	if s == nil {
		return chat.Text(MsgNothingToCancel), nil
	}

	e.log.DebugContext(ctx, "dialogue cancelled",
		slog.String("flow", s.Flow),
		slog.Int64("user_id", userID),
		slog.String("step", string(s.Step)),
	)
	reply := chat.Text(MsgCancelled)
	reply.ClearKeyboardOf = s.MessageID
	return reply, nil
}

// Active returns the user's live session, or nil.
func (e *Engine) Active(ctx context.Context, userID int64) (*Session, error) {
	return e.active(ctx, userID)
}

func (e *Engine) active(ctx context.Context, userID int64) (*Session, error) {
	for _, name := range e.order {
		s, err := e.load(ctx, e.flows[name], userID)
		if err != nil {
			return nil, err
		}
		if s != nil {
			return s, nil
		}
	}
	return nil, nil
}

func (e *Engine) load(ctx context.Context, f Flow, userID int64) (*Session, error) {
	data, found, err := e.store.Get(ctx, Key(f.Name(), userID))
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return nil, nil
	}
	s, err := decode(data, f.Table())
	if err != nil {
		// An unreadable session counts as missing so /cancel and new flows keep working.
		e.log.WarnContext(ctx, "dropping unreadable session",
			slog.String("flow", f.Name()),
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		if err := e.store.Delete(ctx, Key(f.Name(), userID)); err != nil {
			return nil, fmt.Errorf("delete unreadable session: %w", err)
		}
		return nil, nil
	}
	return s, nil
}

func (e *Engine) persist(ctx context.Context, s *Session) error {
	key := Key(s.Flow, s.UserID)
	if s.cleared {
		if err := e.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	}
	if !s.dirty {
		return nil
	}

	data, err := encode(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := e.store.Put(ctx, key, data, e.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.dirty = false
	return nil
}

func (e *Engine) clearAll(ctx context.Context, userID int64) error {
	keys := make([]string, 0, len(e.order))
	for _, name := range e.order {
		keys = append(keys, Key(name, userID))
	}
	if err := e.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	return nil
}
