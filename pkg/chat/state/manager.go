package state

import (
	"community-resources-be/internal/pkg/logger"
	"community-resources-be/pkg/correction"
	"community-resources-be/pkg/store"
)

const module = "ChatState"

// Manager handles the spelling gate transitions of a session:
// IDLE -> AWAITING_CONFIRMATION on a suggestion, and back on the next turn.
type Manager struct {
	logger logger.ILogger
}

// NewManager creates a new state manager
func NewManager(log logger.ILogger) *Manager {
	return &Manager{logger: log}
}

// IsAwaiting reports whether the next turn must be read as a yes/no answer.
func (m *Manager) IsAwaiting(session *store.Session) bool {
	return session.State == store.StateAwaitingConfirmation && session.Pending != nil
}

// TransitionToAwaiting stores the suggestion and the query it came from.
func (m *Manager) TransitionToAwaiting(session *store.Session, query string, s correction.Suggestion) {
	session.Pending = &store.PendingCorrection{Suggestion: s, Query: query}
	session.State = store.StateAwaitingConfirmation
	m.logger.Info(module, "Transitioned to AWAITING_CONFIRMATION", map[string]interface{}{
		"session_id": session.ID,
		"original":   s.Original,
		"suggested":  s.Suggested,
	})
}

// TakePending returns the pending correction, if any, and puts the session
// back to IDLE. Every turn taken while awaiting goes through here first.
func (m *Manager) TakePending(session *store.Session) *store.PendingCorrection {
	if session.State != store.StateAwaitingConfirmation {
		return nil
	}
	pending := session.Pending
	m.TransitionToIdle(session, "answered")
	return pending
}

// TransitionToIdle drops any pending correction.
func (m *Manager) TransitionToIdle(session *store.Session, reason string) {
	was := session.State
	session.Pending = nil
	session.State = store.StateIdle
	if was != store.StateIdle {
		m.logger.Info(module, "Transitioned to IDLE", map[string]interface{}{
			"session_id": session.ID,
			"reason":     reason,
		})
	}
}
