package models

import (
	"time"
)

type State struct {
	Bookmarks map[string]Bookmark `json:"bookmarks"`
}

type Bookmark struct {
	ReplicationKey      string `json:"replication_key,omitempty"`
	ReplicationKeyValue string `json:"replication_key_value,omitempty"`
	UpdatedAt           string `json:"updated_at,omitempty"`
}

// NewState returns a state without bookmarks
func NewState() *State {
	return &State{Bookmarks: map[string]Bookmark{}}
}

// Get returns the bookmark for stream
func (s *State) Get(stream string) (Bookmark, bool) {
	if s == nil || s.Bookmarks == nil {
		return Bookmark{}, false
	}
	b, ok := s.Bookmarks[stream]
	return b, ok
}

// Value returns the replication key value of a stream bookmark as a time
func (s *State) Value(stream string) (time.Time, bool) {
	b, ok := s.Get(stream)
	if !ok || b.ReplicationKeyValue == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, b.ReplicationKeyValue)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Advance moves the stream bookmark forward to value; it never moves backwards
func (s *State) Advance(stream, replicationKey string, value time.Time) bool {
	if current, ok := s.Value(stream); ok && !value.After(current) {
		return false
	}

	if s.Bookmarks == nil {
		s.Bookmarks = map[string]Bookmark{}
	}
	s.Bookmarks[stream] = Bookmark{
		ReplicationKey:      replicationKey,
		ReplicationKeyValue: value.UTC().Format(time.RFC3339Nano),
		UpdatedAt:           time.Now().UTC().Format(time.RFC3339),
	}
	return true
}

// Message generates a message with the current state
func (s *State) Message() Message {
	return Message{
		Type:  "STATE",
		Value: s,
	}
}
