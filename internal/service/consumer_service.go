package service

import (
	"context"
	"encoding/json"

	"community-resources-be/internal/dto"
	"community-resources-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

// TranscriptModule is the module name every transcript line is written under.
const TranscriptModule = "Transcript"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService writes published chat turns to the transcript log.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	transcript logger.ILogger
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	transcript logger.ILogger,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		transcript: transcript,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var entry dto.TranscriptEntry
	if err := json.Unmarshal(msg.Payload, &entry); err != nil {
		cs.logger.Error(TranscriptModule, "Failed to unmarshal transcript entry", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.transcript.Info(TranscriptModule, "turn", map[string]interface{}{
		"session_id": entry.SessionId,
		"category":   entry.Category,
		"user_text":  entry.UserText,
		"reply_kind": entry.ReplyKind,
		"record_ids": entry.RecordIds,
		"state":      entry.State,
		"at":         entry.At,
	})
	msg.Ack()
}
