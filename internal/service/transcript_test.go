package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"community-resources-be/internal/dto"
	"community-resources-be/internal/pkg/logger"
	"community-resources-be/pkg/resource"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_PublishedTurnsReachTheLog(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger.NewWatermillAdapter(logger.NewNopLogger(), false))
	defer pubSub.Close()

	transcript := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "transcript.log"))
	consumer := NewConsumerService(pubSub, TranscriptTopic, transcript, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService(TranscriptTopic, pubSub)
	require.NoError(t, publisher.PublishTranscript(ctx, dto.TranscriptEntry{
		SessionId: "s1",
		Category:  resource.Healthcare,
		UserText:  "dental 60629",
		ReplyKind: "results",
		RecordIds: []string{"hc-1", "hc-2"},
		State:     "IDLE",
		At:        time.Now(),
	}))

	require.Eventually(t, func() bool {
		entries, err := transcript.GetLogs(TranscriptModule, 10, 0)
		return err == nil && len(entries) == 1
	}, 2*time.Second, 20*time.Millisecond)

	entries, _ := transcript.GetLogs(TranscriptModule, 10, 0)
	assert.Equal(t, "s1", entries[0].Details["session_id"])
	assert.Equal(t, "dental 60629", entries[0].Details["user_text"])
}
