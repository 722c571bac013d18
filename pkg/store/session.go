package store

import (
	"time"

	"community-resources-be/pkg/correction"
	"community-resources-be/pkg/resource"
	"community-resources-be/pkg/search"
)

const (
	// StateIdle accepts new queries.
	StateIdle = "IDLE"
	// StateAwaitingConfirmation reads the next message as a yes/no answer
	// to a spelling suggestion.
	StateAwaitingConfirmation = "AWAITING_CONFIRMATION"

	SpeakerUser      = "user"
	SpeakerAssistant = "assistant"

	// MaxHistory bounds the chat history kept per session.
	MaxHistory = 200
	// MaxRecentSearches bounds the recent searches kept per category.
	MaxRecentSearches = 10
)

// Message is one chat history entry.
type Message struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// Pin is a record the user saved. Pins keep enough to be shown without the
// dataset.
type Pin struct {
	Category resource.Category `json:"category"`
	RecordID string            `json:"record_id"`
	Name     string            `json:"name"`
	Website  string            `json:"website,omitempty"`
	Phone    string            `json:"phone,omitempty"`
}

// PendingCorrection is the question asked while awaiting confirmation.
type PendingCorrection struct {
	correction.Suggestion
	Query string `json:"query"`
}

// LastQuery is what "more" continues.
type LastQuery struct {
	Text    string                 `json:"text"`
	Filters search.Filters         `json:"filters"`
	Applied []search.AppliedFilter `json:"applied_filters"`
}

// Session represents one conversation's state in memory
type Session struct {
	ID       string            `json:"id"`
	State    string            `json:"state"` // "IDLE" | "AWAITING_CONFIRMATION"
	Category resource.Category `json:"category"`

	// Filters set explicitly by the host UI. They override detection.
	ExplicitFilters search.Filters `json:"explicit_filters"`

	// Scoped per category; cleared on category switch and reset.
	ShownIDs    map[resource.Category]search.IDSet `json:"shown_ids"`
	LastQueries map[resource.Category]LastQuery    `json:"last_queries"`
	Recent      map[resource.Category][]string     `json:"recent_searches"`

	// Survive category switches.
	Pins    []Pin     `json:"pins"`
	History []Message `json:"history"`

	Pending *PendingCorrection `json:"pending_correction,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates an idle session on category c.
func NewSession(id string, c resource.Category, now time.Time) *Session {
	s := &Session{ID: id, Category: c, CreatedAt: now}
	s.Reset(now)
	return s
}

// Reset clears everything but the id, the active category and the
// creation time.
func (s *Session) Reset(now time.Time) {
	s.State = StateIdle
	s.ExplicitFilters = search.Filters{}
	s.ShownIDs = make(map[resource.Category]search.IDSet)
	s.LastQueries = make(map[resource.Category]LastQuery)
	s.Recent = make(map[resource.Category][]string)
	s.Pins = nil
	s.History = nil
	s.Pending = nil
	s.UpdatedAt = now
}

// Shown returns the shown-id set of category c, creating it if needed.
func (s *Session) Shown(c resource.Category) search.IDSet {
	set, ok := s.ShownIDs[c]
	if !ok {
		set = search.NewIDSet()
		s.ShownIDs[c] = set
	}
	return set
}

// ClearBrowsing forgets shown ids and last queries of every category.
func (s *Session) ClearBrowsing() {
	s.ShownIDs = make(map[resource.Category]search.IDSet)
	s.LastQueries = make(map[resource.Category]LastQuery)
}

// AddMessage appends to the history, dropping the oldest entries past
// MaxHistory.
func (s *Session) AddMessage(speaker, text string, at time.Time) {
	s.History = append(s.History, Message{Speaker: speaker, Text: text, At: at})
	if over := len(s.History) - MaxHistory; over > 0 {
		s.History = append([]Message(nil), s.History[over:]...)
	}
}

// RememberSearch records a query text as the most recent search of c.
func (s *Session) RememberSearch(c resource.Category, text string) {
	list := []string{text}
	for _, q := range s.Recent[c] {
		if q != text {
			list = append(list, q)
		}
	}
	if len(list) > MaxRecentSearches {
		list = list[:MaxRecentSearches]
	}
	s.Recent[c] = list
}

// PinIndex returns the position of a pinned record, or -1.
func (s *Session) PinIndex(recordID string) int {
	for i, p := range s.Pins {
		if p.RecordID == recordID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy. Turns work on a clone so a failed turn never
// leaves a half-updated session behind.
func (s *Session) Clone() *Session {
	c := *s
	c.ShownIDs = make(map[resource.Category]search.IDSet, len(s.ShownIDs))
	for cat, ids := range s.ShownIDs {
		set := make(search.IDSet, len(ids))
		for id := range ids {
			set[id] = struct{}{}
		}
		c.ShownIDs[cat] = set
	}
	c.LastQueries = make(map[resource.Category]LastQuery, len(s.LastQueries))
	for cat, q := range s.LastQueries {
		q.Filters.Keywords = append([]string(nil), q.Filters.Keywords...)
		q.Applied = append([]search.AppliedFilter(nil), q.Applied...)
		c.LastQueries[cat] = q
	}
	c.Recent = make(map[resource.Category][]string, len(s.Recent))
	for cat, list := range s.Recent {
		c.Recent[cat] = append([]string(nil), list...)
	}
	c.ExplicitFilters.Keywords = append([]string(nil), s.ExplicitFilters.Keywords...)
	c.Pins = append([]Pin(nil), s.Pins...)
	c.History = append([]Message(nil), s.History...)
	if s.Pending != nil {
		p := *s.Pending
		c.Pending = &p
	}
	return &c
}
