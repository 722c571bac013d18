package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"community-resources-be/internal/pkg/logger"
	"community-resources-be/pkg/chat/state"
	"community-resources-be/pkg/parser"
	"community-resources-be/pkg/resource"
	"community-resources-be/pkg/search"
	"community-resources-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDatasets struct {
	t     *testing.T
	err   error
	calls int
}

func (f *fakeDatasets) Get(_ context.Context, c resource.Category) (*resource.Dataset, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "resources", c.FileName()))
	require.NoError(f.t, err)
	res := parser.Parse(string(raw), c)
	return resource.NewDataset(c, res.Records, time.Now(), resource.SourceLocalFallback, "test", res.Skipped), nil
}

func setup(t *testing.T) (*Executor, *fakeDatasets, *store.Session) {
	ds := &fakeDatasets{t: t}
	ex := NewExecutor(ds, state.NewManager(logger.NewNopLogger()), 3, logger.NewNopLogger())
	return ex, ds, store.NewSession("s1", resource.Healthcare, time.Now())
}

func run(t *testing.T, ex *Executor, s *store.Session, text string) Reply {
	t.Helper()
	reply, err := ex.Run(context.Background(), s, text, time.Now())
	require.NoError(t, err)
	return reply
}

func TestRun_DentalPaginationUntilExhausted(t *testing.T) {
	ex, _, s := setup(t)

	first := run(t, ex, s, "dental 60629")
	assert.Equal(t, KindResults, first.Kind)
	require.Len(t, first.Results, 3)
	assert.True(t, first.HasMore)
	assert.Contains(t, first.Applied, search.AppliedFilter{Field: "zip", Value: "60629", Origin: search.OriginDetected})
	assert.Contains(t, first.Applied, search.AppliedFilter{Field: "service", Value: "dental", Origin: search.OriginDetected})

	second := run(t, ex, s, "more")
	assert.Equal(t, KindResults, second.Kind)
	assert.Len(t, second.Results, 2)
	assert.False(t, second.HasMore)
	for _, id := range second.IDs() {
		assert.NotContains(t, first.IDs(), id)
	}

	third := run(t, ex, s, "show more")
	assert.Equal(t, KindExhausted, third.Kind)
	assert.Empty(t, third.Results)
	assert.NotEmpty(t, third.TrustedLinks)

	assert.Len(t, s.Shown(resource.Healthcare), 5)
	assert.Equal(t, []string{"dental 60629"}, s.Recent[resource.Healthcare])
	assert.Len(t, s.History, 3, "assistant messages only; the user side is recorded by the caller")
}

func TestRun_CorrectionAccepted(t *testing.T) {
	ex, _, s := setup(t)

	prompt := run(t, ex, s, "dentel 60629")
	assert.Equal(t, KindCorrectionPrompt, prompt.Kind)
	require.NotNil(t, prompt.Suggestion)
	assert.Equal(t, "dentel", prompt.Suggestion.Original)
	assert.Equal(t, "dental", prompt.Suggestion.Suggested)
	assert.Empty(t, prompt.Results)
	assert.Equal(t, store.StateAwaitingConfirmation, s.State)
	assert.Empty(t, s.Shown(resource.Healthcare))

	accepted := run(t, ex, s, "yes")
	assert.Equal(t, KindResults, accepted.Kind)
	assert.Equal(t, "dental 60629", accepted.Query)
	assert.Len(t, accepted.Results, 3)
	assert.Equal(t, store.StateIdle, s.State)
	assert.Nil(t, s.Pending)
}

func TestRun_CorrectionGateReadsAnyInputAsAnswer(t *testing.T) {
	ex, ds, s := setup(t)

	run(t, ex, s, "dentel 60629")
	before := ds.calls

	reply := run(t, ex, s, "vision 60608")
	assert.Equal(t, KindClarification, reply.Kind)
	assert.Empty(t, reply.Results)
	assert.Equal(t, before, ds.calls, "a declined suggestion runs no search")
	assert.Equal(t, store.StateIdle, s.State)

	next := run(t, ex, s, "vision 60608")
	assert.Equal(t, KindResults, next.Kind)
}

func TestRun_CorrectionDeclined(t *testing.T) {
	ex, _, s := setup(t)
	run(t, ex, s, "dentel")

	reply := run(t, ex, s, "no")
	assert.Equal(t, KindClarification, reply.Kind)
	assert.Contains(t, reply.Message, "dental")
	assert.Equal(t, store.StateIdle, s.State)
}

func TestRun_PluralServiceWordSearchesDirectly(t *testing.T) {
	ex, _, _ := setup(t)
	s := store.NewSession("s2", resource.ResettlementLegalShelter, time.Now())

	reply := run(t, ex, s, "shelters")
	require.Equal(t, KindResults, reply.Kind)
	assert.Nil(t, reply.Suggestion)
	assert.Contains(t, reply.Applied, search.AppliedFilter{Field: "service", Value: "shelter", Origin: search.OriginDetected})
	require.NotEmpty(t, reply.Results)
	assert.Equal(t, "Southwest Family Shelter", reply.Results[0].Name)
	assert.Equal(t, store.StateIdle, s.State)
}

func TestRun_GateSkippedWhenServiceIsSet(t *testing.T) {
	ex, _, s := setup(t)
	s.ExplicitFilters.Service = "dental"

	reply := run(t, ex, s, "dentel 60629")
	assert.NotEqual(t, KindCorrectionPrompt, reply.Kind)
	assert.Equal(t, store.StateIdle, s.State)
}

func TestRun_ExplicitFiltersWin(t *testing.T) {
	ex, _, s := setup(t)
	s.ExplicitFilters.ZIP = "60629"

	reply := run(t, ex, s, "dental 60608")
	require.Equal(t, KindResults, reply.Kind)
	for _, r := range reply.Results {
		assert.Equal(t, "60629", r.ZipCode)
	}
	assert.Contains(t, reply.Applied, search.AppliedFilter{Field: "zip", Value: "60629", Origin: search.OriginExplicit})
	assert.Contains(t, reply.Discarded, search.AppliedFilter{Field: "zip", Value: "60608", Origin: search.OriginDetected})
}

func TestRun_NewQueryStartsFreshVisibleSet(t *testing.T) {
	ex, _, s := setup(t)

	first := run(t, ex, s, "dental 60629")
	again := run(t, ex, s, "dental 60629")
	assert.Equal(t, first.IDs(), again.IDs())
}

func TestRun_MoreWithoutQuery(t *testing.T) {
	ex, ds, s := setup(t)

	reply := run(t, ex, s, "more")
	assert.Equal(t, KindNoPreviousQuery, reply.Kind)
	assert.Zero(t, ds.calls)
}

func TestRun_EmptyTurn(t *testing.T) {
	ex, _, s := setup(t)
	reply := run(t, ex, s, "   ")
	assert.Equal(t, KindEmpty, reply.Kind)
}

func TestRun_OtherCategoryService(t *testing.T) {
	ex, _, s := setup(t)

	reply := run(t, ex, s, "esl")
	assert.Equal(t, KindClarification, reply.Kind)
	assert.Equal(t, resource.Education, reply.SuggestedCategory)
}

func TestRun_UnknownZIPIsReported(t *testing.T) {
	ex, _, s := setup(t)

	reply := run(t, ex, s, "dental 99999")
	assert.Equal(t, "99999", reply.UnknownZIP)
	assert.Equal(t, []search.AppliedFilter{{Field: "service", Value: "dental", Origin: search.OriginDetected}}, reply.Applied)
}

func TestRun_DatasetErrorLeavesSessionUntouched(t *testing.T) {
	ex, ds, s := setup(t)
	ds.err = &resource.DataUnavailableError{Category: resource.Healthcare}

	_, err := ex.Run(context.Background(), s, "dental", time.Now())
	require.ErrorIs(t, err, resource.ErrDataUnavailable)
	assert.Empty(t, s.History)
	assert.Empty(t, s.LastQueries)
}
