package state

import "time"

// Flow identifies a conversation flow kind.
type Flow string

const (
	// FlowNone indicates there is no active conversation with the user.
	FlowNone Flow = ""
)

// Session stores a user's progress within an active flow.
type Session struct {
	Flow   Flow
	Step   int
	Fields map[string]any
	// Touched is the instant of the last mutation, used for inactivity expiry.
	Touched time.Time
}

// Clone returns a deep copy so callers cannot mutate stored state through
// a previously returned session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Fields = make(map[string]any, len(s.Fields))
	for k, v := range s.Fields {
		cp.Fields[k] = v
	}
	return &cp
}

// Manager is the conversation state store.
// Get returns nil when a user has no active (non-expired) conversation.
type Manager interface {
	Get(userID int64) *Session
	Set(userID int64, s *Session)
	Clear(userID int64)
	InProgress(userID int64) bool
}
