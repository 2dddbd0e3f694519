package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/TrvKhanh/rag-mobile/internal/dto"
	"github.com/TrvKhanh/rag-mobile/internal/pkg/logger"
)

type IPublisherService interface {
	// RequestReindex enqueues a catalog reindex request.
	RequestReindex(ctx context.Context) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    log,
	}
}

func (ps *publisherService) RequestReindex(_ context.Context) error {
	payload, err := json.Marshal(dto.ReindexRequestMessage{RequestedAt: time.Now()})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := ps.pubSub.Publish(ps.topicName, msg); err != nil {
		return err
	}

	ps.logger.Info("publisher", "Reindex request enqueued", map[string]interface{}{
		"message_id": msg.UUID,
	})
	return nil
}
