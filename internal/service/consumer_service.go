package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/TrvKhanh/rag-mobile/internal/dto"
	"github.com/TrvKhanh/rag-mobile/internal/repository/contract"
	"github.com/TrvKhanh/rag-mobile/pkg/events"
	"github.com/TrvKhanh/rag-mobile/pkg/search/lexical"
)

// CacheInvalidator drops every cached result set after the corpus
// changed.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	repository   contract.PassageRepository
	lexicalIndex *lexical.Index
	cache        CacheInvalidator
	publisher    EventPublisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	repository contract.PassageRepository,
	lexicalIndex *lexical.Index,
	cache CacheInvalidator,
	publisher EventPublisher,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		repository:   repository,
		lexicalIndex: lexicalIndex,
		cache:        cache,
		publisher:    publisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ReindexRequestMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal reindex message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing catalog reindex requested at %s", payload.RequestedAt)

	passages, err := cs.repository.LoadAll(ctx)
	if err != nil {
		log.Printf("[ERROR] Failed to load corpus: %v", err)
		msg.Nack() // Nack for retriable errors
		return
	}

	cs.lexicalIndex.Rebuild(passages)
	cs.cache.Invalidate(ctx)

	if cs.publisher != nil {
		if err := cs.publisher.Publish(ctx, events.NewCatalogReindexEvent(len(passages))); err != nil {
			log.Printf("[WARN] Failed to publish reindex event: %v", err)
		}
	}

	log.Printf("[SUCCESS] Catalog reindexed: %d passages", len(passages))
	msg.Ack()
}
