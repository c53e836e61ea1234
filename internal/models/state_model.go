package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Status is the outcome recorded for one user on one date.
// An unset status is represented by the absence of a key, never by "".
type Status string

const (
	StatusDone   Status = "done"
	StatusMissed Status = "missed"
)

// Valid reports whether s is one of the recorded statuses.
func (s Status) Valid() bool {
	return s == StatusDone || s == StatusMissed
}

// StatusNone is what views print for a user without an entry.
const StatusNone = "none"

var (
	// ErrUnknownUser is returned when a mark targets a user not in the user list.
	ErrUnknownUser = errors.New("unknown user")
	// ErrInvalidStatus is returned for any status other than done or missed.
	ErrInvalidStatus = errors.New("invalid status")
)

// DayRecord maps a user to their status for one calendar date.
type DayRecord map[string]Status

// TrackerState is the root aggregate: the ordered user list and the
// date -> user -> status entries.
type TrackerState struct {
	Users   []string             `json:"users" firestore:"users"`
	Entries map[string]DayRecord `json:"entries" firestore:"entries"`
}

// NewState returns the empty shell {users: [], entries: {}}.
func NewState() *TrackerState {
	return &TrackerState{Users: []string{}, Entries: map[string]DayRecord{}}
}

// SampleState is the built-in fallback used when no data file can be read.
func SampleState() *TrackerState {
	return &TrackerState{Users: []string{"travis", "david"}, Entries: map[string]DayRecord{}}
}

// ParseState decodes a JSON document into a TrackerState.
// Only a syntactically invalid document is an error; missing or malformed
// users/entries fields decode as empty collections.
func ParseState(data []byte) (*TrackerState, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode tracker state: %w", err)
	}
	return FromDocument(raw), nil
}

// FromDocument converts a loosely typed document (decoded JSON or a Firestore
// snapshot) into a TrackerState. Non-string user names and statuses are dropped.
func FromDocument(doc map[string]interface{}) *TrackerState {
	state := NewState()
	if doc == nil {
		return state
	}

	switch users := doc["users"].(type) {
	case []interface{}:
		for _, u := range users {
			if name, ok := u.(string); ok {
				state.Users = append(state.Users, name)
			}
		}
	case []string:
		state.Users = append(state.Users, users...)
	}
	state.Users = dedupe(state.Users)

	entries, ok := doc["entries"].(map[string]interface{})
	if !ok {
		return state
	}
	for date, rawDay := range entries {
		day := DayRecord{}
		switch d := rawDay.(type) {
		case map[string]interface{}:
			for user, rawStatus := range d {
				if s, ok := rawStatus.(string); ok {
					day[user] = Status(s)
				}
			}
		case map[string]string:
			for user, s := range d {
				day[user] = Status(s)
			}
		}
		state.Entries[date] = day
	}
	return state
}

// ToDocument returns the map form written to document stores.
func (s *TrackerState) ToDocument() map[string]interface{} {
	users := make([]interface{}, 0, len(s.Users))
	for _, u := range s.Users {
		users = append(users, u)
	}
	entries := make(map[string]interface{}, len(s.Entries))
	for date, day := range s.Entries {
		d := make(map[string]interface{}, len(day))
		for user, status := range day {
			d[user] = string(status)
		}
		entries[date] = d
	}
	return map[string]interface{}{"users": users, "entries": entries}
}

// Clone returns a deep copy. A nil receiver clones to the empty shell.
func (s *TrackerState) Clone() *TrackerState {
	out := NewState()
	if s == nil {
		return out
	}
	out.Users = append(out.Users, s.Users...)
	for date, day := range s.Entries {
		d := make(DayRecord, len(day))
		for user, status := range day {
			d[user] = status
		}
		out.Entries[date] = d
	}
	return out
}

// HasUser reports whether user is in the active user list.
func (s *TrackerState) HasUser(user string) bool {
	for _, u := range s.Users {
		if u == user {
			return true
		}
	}
	return false
}

// SetEntry records status for user on date. Exactly one key is written.
func (s *TrackerState) SetEntry(date, user string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if !s.HasUser(user) {
		return fmt.Errorf("%w: %s", ErrUnknownUser, user)
	}
	if s.Entries == nil {
		s.Entries = map[string]DayRecord{}
	}
	day, ok := s.Entries[date]
	if !ok {
		day = DayRecord{}
		s.Entries[date] = day
	}
	day[user] = status
	return nil
}

// MissingOn lists, in user order, the active users without a status on date.
func (s *TrackerState) MissingOn(date string) []string {
	day := s.Entries[date]
	var missing []string
	for _, u := range s.Users {
		if _, ok := day[u]; !ok {
			missing = append(missing, u)
		}
	}
	return missing
}

// CloseDay marks every active user without a status on date as missed and
// returns how many were changed. Orphaned keys for that date are left alone.
func (s *TrackerState) CloseDay(date string) int {
	if s.Entries == nil {
		s.Entries = map[string]DayRecord{}
	}
	day, ok := s.Entries[date]
	if !ok {
		day = DayRecord{}
		s.Entries[date] = day
	}
	changed := 0
	for _, u := range s.Users {
		if _, ok := day[u]; !ok {
			day[u] = StatusMissed
			changed++
		}
	}
	return changed
}

// InitUsers replaces the user list. Existing entries are kept.
func (s *TrackerState) InitUsers(users []string) {
	s.Users = dedupe(append([]string{}, users...))
	if s.Entries == nil {
		s.Entries = map[string]DayRecord{}
	}
}

func dedupe(users []string) []string {
	seen := make(map[string]struct{}, len(users))
	out := users[:0]
	for _, u := range users {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	if out == nil {
		return []string{}
	}
	return out
}
