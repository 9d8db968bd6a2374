package share

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/medkit/internal/dialogue"
)

// ErrRequestExpired means the share request is gone: answered, or past its TTL.
var ErrRequestExpired = errors.New("share request expired")

// Request is a pending invitation of ToUserID into a kit.
type Request struct {
	ID         uuid.UUID `json:"id"`
	KitID      int64     `json:"kit_id"`
	KitName    string    `json:"kit_name"`
	FromUserID int64     `json:"from_user_id"`
	FromName   string    `json:"from_name"`
	ToUserID   int64     `json:"to_user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Requests keeps share requests in the session store so they outlive a
// restart and expire on their own.
type Requests struct {
	store dialogue.Store
	ttl   time.Duration
}

// NewRequests creates a request store with the given lifetime.
func NewRequests(store dialogue.Store, ttl time.Duration) *Requests {
	return &Requests{store: store, ttl: ttl}
}

func requestKey(id uuid.UUID) string { return "share_request:" + id.String() }

// Save stores r under a fresh id when r.ID is zero.
func (q *Requests) Save(ctx context.Context, r *Request) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode share request: %w", err)
	}
	if err := q.store.Put(ctx, requestKey(r.ID), data, q.ttl); err != nil {
		return fmt.Errorf("save share request: %w", err)
	}
	return nil
}

// Load returns the request or ErrRequestExpired.
func (q *Requests) Load(ctx context.Context, id uuid.UUID) (*Request, error) {
	data, found, err := q.store.Get(ctx, requestKey(id))
	if err != nil {
		return nil, fmt.Errorf("load share request: %w", err)
	}
	if !found {
		return nil, ErrRequestExpired
	}
	var r Request
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode share request: %w", err)
	}
	return &r, nil
}

// Delete removes the request.
func (q *Requests) Delete(ctx context.Context, id uuid.UUID) error {
	if err := q.store.Delete(ctx, requestKey(id)); err != nil {
		return fmt.Errorf("delete share request: %w", err)
	}
	return nil
}
