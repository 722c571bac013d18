package memory

import (
	"testing"
	"time"

	"community-resources-be/pkg/resource"
	"community-resources-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_SaveGetDelete(t *testing.T) {
	repo := NewSessionRepository(time.Hour)

	var evicted []string
	repo.OnEvicted(func(id string) { evicted = append(evicted, id) })

	s := store.NewSession("abc", resource.Healthcare, time.Now())
	repo.Save(s)

	got, ok := repo.Get("abc")
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, repo.Count())

	repo.Delete("abc")
	_, ok = repo.Get("abc")
	assert.False(t, ok)
	assert.Equal(t, []string{"abc"}, evicted)
}

func TestSessionRepository_Expires(t *testing.T) {
	repo := NewSessionRepository(20 * time.Millisecond)
	repo.Save(store.NewSession("short", resource.Education, time.Now()))

	time.Sleep(40 * time.Millisecond)

	_, ok := repo.Get("short")
	assert.False(t, ok)
}
