package store

import (
	"testing"
	"time"

	"community-resources-be/pkg/correction"
	"community-resources-be/pkg/resource"

	"github.com/stretchr/testify/assert"
)

func TestSession_CloneIsDeep(t *testing.T) {
	now := time.Now()
	s := NewSession("s1", resource.Healthcare, now)
	s.Shown(resource.Healthcare).Add("hc-1")
	s.Pins = append(s.Pins, Pin{Category: resource.Healthcare, RecordID: "hc-1", Name: "A"})
	s.AddMessage(SpeakerUser, "dental", now)
	s.RememberSearch(resource.Healthcare, "dental")
	s.Pending = &PendingCorrection{Suggestion: correction.Suggestion{Original: "dentel", Suggested: "dental"}, Query: "dentel"}

	c := s.Clone()
	c.Shown(resource.Healthcare).Add("hc-2")
	c.Pins[0].Name = "changed"
	c.AddMessage(SpeakerAssistant, "hi", now)
	c.RememberSearch(resource.Healthcare, "vision")
	c.Pending.Query = "changed"

	assert.False(t, s.Shown(resource.Healthcare).Has("hc-2"))
	assert.Equal(t, "A", s.Pins[0].Name)
	assert.Len(t, s.History, 1)
	assert.Equal(t, []string{"dental"}, s.Recent[resource.Healthcare])
	assert.Equal(t, "dentel", s.Pending.Query)
}

func TestSession_RecentSearchesAreDistinctAndBounded(t *testing.T) {
	s := NewSession("s1", resource.Education, time.Now())
	for i := 0; i < 15; i++ {
		s.RememberSearch(resource.Education, string(rune('a'+i)))
	}
	s.RememberSearch(resource.Education, "k")

	recent := s.Recent[resource.Education]
	assert.Len(t, recent, MaxRecentSearches)
	assert.Equal(t, "k", recent[0])
	assert.Equal(t, "o", recent[1])
}

func TestSession_ResetKeepsIdentity(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	s := NewSession("s1", resource.Education, created)
	s.Shown(resource.Education).Add("ed-1")
	s.Pins = []Pin{{RecordID: "ed-1"}}
	s.State = StateAwaitingConfirmation

	s.Reset(time.Now())

	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, resource.Education, s.Category)
	assert.Equal(t, created, s.CreatedAt)
	assert.Equal(t, StateIdle, s.State)
	assert.Empty(t, s.ShownIDs)
	assert.Empty(t, s.Pins)
}
