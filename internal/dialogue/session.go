// Package dialogue runs multi-step conversations whose state lives in an
// external expiring store, so a restart between turns loses nothing the
// user already answered.
package dialogue

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrIllegalTransition is returned when a step is entered from a step that
// is not among its predecessors. It indicates a bug in a flow.
var ErrIllegalTransition = errors.New("illegal dialogue transition")

// Step names one state of a flow.
type Step string

// Table lists, for every step, the steps it may be entered from.
type Table struct {
	Start Step
	From  map[Step][]Step
}

// CanEnter reports whether to may follow from.
func (t Table) CanEnter(from, to Step) bool {
	for _, p := range t.From[to] {
		if p == from {
			return true
		}
	}
	return false
}

// Session is the state of one in-progress dialogue. Fields hold strings only;
// enumerations are stored by their stable key.
type Session struct {
	Flow      string            `json:"flow"`
	UserID    int64             `json:"user_id"`
	Step      Step              `json:"step"`
	Fields    map[string]string `json:"fields"`
	MessageID int               `json:"message_id,omitempty"`

	table   Table
	dirty   bool
	cleared bool
}

// NewSession creates a session at the start step of table.
func NewSession(flow string, userID int64, table Table) *Session {
	return &Session{
		Flow:   flow,
		UserID: userID,
		Step:   table.Start,
		Fields: make(map[string]string),
		table:  table,
		dirty:  true,
	}
}

// Go moves the session to step to.
func (s *Session) Go(to Step) error {
	if !s.table.CanEnter(s.Step, to) {
		return fmt.Errorf("%s: %s -> %s: %w", s.Flow, s.Step, to, ErrIllegalTransition)
	}
	s.Step = to
	s.dirty = true
	return nil
}

// Get returns a collected field, "" when absent.
func (s *Session) Get(field string) string { return s.Fields[field] }

// Has reports whether the field was collected, even if empty (skipped).
func (s *Session) Has(field string) bool {
	_, ok := s.Fields[field]
	return ok
}

// Set stores a field value.
func (s *Session) Set(field, value string) {
	if s.Fields == nil {
		s.Fields = make(map[string]string)
	}
	s.Fields[field] = value
	s.dirty = true
}

// Unset removes a field.
func (s *Session) Unset(field string) {
	if _, ok := s.Fields[field]; ok {
		delete(s.Fields, field)
		s.dirty = true
	}
}

// GetInt64 parses a stored identifier.
func (s *Session) GetInt64(field string) (int64, bool) {
	v, ok := s.Fields[field]
	if !ok || v == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// SetInt64 stores an identifier.
func (s *Session) SetInt64(field string, v int64) {
	s.Set(field, strconv.FormatInt(v, 10))
}

// Remember records the bot message the dialogue is rendered in.
func (s *Session) Remember(messageID int) {
	if messageID != 0 && s.MessageID != messageID {
		s.MessageID = messageID
		s.dirty = true
	}
}

// Finish marks the session for deletion after the current turn.
func (s *Session) Finish() { s.cleared = true }

// Finished reports whether Finish was called.
func (s *Session) Finished() bool { return s.cleared }

// Require returns the first missing field, or "" when all are present.
func (s *Session) Require(fields ...string) string {
	for _, f := range fields {
		if !s.Has(f) {
			return f
		}
	}
	return ""
}

func encode(s *Session) ([]byte, error) {
	return json.Marshal(s)
}

func decode(data []byte, table Table) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Fields == nil {
		s.Fields = make(map[string]string)
	}
	s.table = table
	return &s, nil
}
