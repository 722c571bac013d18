package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetInvalidated_RoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := NewDatasetInvalidated("healthcare", "node-a", ReasonReset, at)

	raw, err := json.Marshal(e)
	require.NoError(t, err)

	var got BaseEvent
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, TypeDatasetInvalidated, got.EventType())
	assert.Equal(t, "healthcare", got.String("category"))
	assert.Equal(t, "node-a", got.String("instance_id"))
	assert.Equal(t, ReasonReset, got.String("reason"))
	assert.True(t, at.Equal(got.Timestamp()))
	assert.Empty(t, got.String("missing"))
}

type countingPublisher struct {
	n   int
	err error
}

func (p *countingPublisher) Publish(_ context.Context, _ Event) error {
	p.n++
	return p.err
}

func TestFanout(t *testing.T) {
	assert.Nil(t, NewFanout())
	assert.Nil(t, NewFanout(nil, nil))

	ok := &countingPublisher{}
	failing := &countingPublisher{err: errors.New("bus down")}
	pub := NewFanout(ok, nil, failing)
	require.NotNil(t, pub)

	err := pub.Publish(context.Background(), NewDatasetInvalidated("", "node-a", ReasonClear, time.Now()))
	assert.ErrorContains(t, err, "bus down")
	assert.Equal(t, 1, ok.n)
	assert.Equal(t, 1, failing.n, "a failing publisher does not stop the others")
}
