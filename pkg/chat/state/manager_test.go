package state

import (
	"testing"
	"time"

	"community-resources-be/internal/pkg/logger"
	"community-resources-be/pkg/correction"
	"community-resources-be/pkg/resource"
	"community-resources-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GateRoundTrip(t *testing.T) {
	m := NewManager(logger.NewNopLogger())
	s := store.NewSession("s1", resource.Healthcare, time.Now())

	assert.False(t, m.IsAwaiting(s))
	assert.Nil(t, m.TakePending(s))

	m.TransitionToAwaiting(s, "dentel 60629", correction.Suggestion{Original: "dentel", Suggested: "dental", Score: 0.9})
	assert.True(t, m.IsAwaiting(s))
	assert.Equal(t, store.StateAwaitingConfirmation, s.State)

	p := m.TakePending(s)
	require.NotNil(t, p)
	assert.Equal(t, "dentel 60629", p.Query)
	assert.Equal(t, "dental", p.Suggested)
	assert.Equal(t, store.StateIdle, s.State)
	assert.Nil(t, s.Pending)

	assert.Nil(t, m.TakePending(s), "a second turn is a normal query again")
}

func TestManager_TransitionToIdleClearsPending(t *testing.T) {
	m := NewManager(logger.NewNopLogger())
	s := store.NewSession("s1", resource.Healthcare, time.Now())
	m.TransitionToAwaiting(s, "vison", correction.Suggestion{Original: "vison", Suggested: "vision"})

	m.TransitionToIdle(s, "category switch")

	assert.False(t, m.IsAwaiting(s))
	assert.Nil(t, s.Pending)
}
