package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"community-resources-be/internal/repository/memory"
	"community-resources-be/pkg/resource"
	"community-resources-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *Manager {
	return NewManager(memory.NewSessionRepository(time.Hour))
}

func TestManager_CreateAndGet(t *testing.T) {
	m := newManager()
	s := m.Create(resource.Education)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, resource.Education, got.Category)
	assert.Equal(t, store.StateIdle, got.State)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_LoadOrCreateKeepsExisting(t *testing.T) {
	m := newManager()
	first := m.LoadOrCreate("fixed-id", resource.Healthcare)
	second := m.LoadOrCreate("fixed-id", resource.Education)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, resource.Healthcare, second.Category)
}

func TestManager_FailedUpdateLeavesSessionUntouched(t *testing.T) {
	m := newManager()
	s := m.Create(resource.Healthcare)

	_, err := m.Update(s.ID, func(next *store.Session) error {
		next.Pins = append(next.Pins, store.Pin{RecordID: "hc-1"})
		return errors.New("boom")
	})
	require.Error(t, err)

	got, _ := m.Get(s.ID)
	assert.Empty(t, got.Pins)
}

func TestManager_FailedTurnKeepsOnlyTheUserMessage(t *testing.T) {
	m := newManager()
	s := m.Create(resource.Healthcare)

	_, err := m.Turn(s.ID, "dental 60629", func(next *store.Session) error {
		next.Shown(resource.Healthcare).Add("hc-1")
		return errors.New("unavailable")
	})
	require.Error(t, err)

	got, _ := m.Get(s.ID)
	require.Len(t, got.History, 1)
	assert.Equal(t, "dental 60629", got.History[0].Text)
	assert.Empty(t, got.Shown(resource.Healthcare))
}

func TestManager_SnapshotsAreIsolated(t *testing.T) {
	m := newManager()
	s := m.Create(resource.Healthcare)

	snap, err := m.Get(s.ID)
	require.NoError(t, err)
	snap.Pins = append(snap.Pins, store.Pin{RecordID: "hc-x"})

	again, _ := m.Get(s.ID)
	assert.Empty(t, again.Pins)
}

func TestManager_TurnsAreSerialized(t *testing.T) {
	m := newManager()
	s := m.Create(resource.Healthcare)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Turn(s.ID, "more", func(next *store.Session) error { return nil })
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, _ := m.Get(s.ID)
	assert.Len(t, got.History, 50)
}
