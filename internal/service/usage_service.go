package service

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"course-material-bot/internal/dto"
	"course-material-bot/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IUsageService interface {
	Consume(ctx context.Context) error
	Deliveries() int64
	CacheHits() int64
}

// usageService aggregates delivery events from the in-process bus. The
// counters feed the status endpoint; losing them on restart is fine.
type usageService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	log       logger.ILogger

	deliveries atomic.Int64
	cacheHits  atomic.Int64
}

func NewUsageService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) IUsageService {
	return &usageService{
		pubSub:    pubSub,
		topicName: topicName,
		log:       log,
	}
}

func (s *usageService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

func (s *usageService) processMessage(msg *message.Message) {
	var payload dto.DocumentDeliveredMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.log.Error("usage", "failed to unmarshal delivery event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	s.deliveries.Add(1)
	if payload.CacheHit {
		s.cacheHits.Add(1)
	}

	s.log.Info("usage", "document delivered", map[string]interface{}{
		"year":      payload.Year,
		"group":     payload.Group,
		"subject":   payload.Subject,
		"kind":      payload.Kind,
		"number":    payload.Number,
		"cache_hit": payload.CacheHit,
	})
	msg.Ack()
}

func (s *usageService) Deliveries() int64 {
	return s.deliveries.Load()
}

func (s *usageService) CacheHits() int64 {
	return s.cacheHits.Load()
}
