package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/TrvKhanh/rag-mobile/internal/constant"
	"github.com/TrvKhanh/rag-mobile/internal/pkg/logger"
	"github.com/TrvKhanh/rag-mobile/pkg/ai/router"
	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
	"github.com/TrvKhanh/rag-mobile/pkg/events"
	"github.com/TrvKhanh/rag-mobile/pkg/llm"
	"github.com/TrvKhanh/rag-mobile/pkg/memory"
	"github.com/TrvKhanh/rag-mobile/pkg/tools"
)

// EventPublisher sends analytics events. Nil-safe at the call site so a
// missing NATS deployment never affects chat.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IChatService interface {
	// Chat runs one conversational turn, pushing control lines and
	// generated chunks through emit in stream order.
	Chat(ctx context.Context, threadID, message string, emit llm.StreamFunc) (string, error)

	// History returns the stored messages of a thread.
	History(threadID string) []memory.Message
}

type chatService struct {
	classifier *router.Classifier
	retrieval  IRetrievalService
	comparison *tools.ComparisonTool
	memory     *memory.Manager
	provider   llm.LLMProvider
	publisher  EventPublisher
	topK       int
	logger     logger.ILogger
}

func NewChatService(
	classifier *router.Classifier,
	retrieval IRetrievalService,
	comparison *tools.ComparisonTool,
	memoryManager *memory.Manager,
	provider llm.LLMProvider,
	publisher EventPublisher,
	topK int,
	log logger.ILogger,
) IChatService {
	return &chatService{
		classifier: classifier,
		retrieval:  retrieval,
		comparison: comparison,
		memory:     memoryManager,
		provider:   provider,
		publisher:  publisher,
		topK:       topK,
		logger:     log,
	}
}

func (s *chatService) Chat(ctx context.Context, threadID, message string, emit llm.StreamFunc) (string, error) {
	if threadID == "" {
		threadID = uuid.New().String()
	}
	if err := emit(constant.StreamThreadIDPrefix + threadID + "\n"); err != nil {
		return threadID, err
	}

	decision := s.classifier.Classify(ctx, message)
	s.logger.Info("chat", "Routed message", map[string]interface{}{
		"thread_id": threadID,
		"intent":    string(decision.Kind),
	})

	contextBlock, resultCount, err := s.buildContext(ctx, decision, emit)
	if err != nil {
		return threadID, err
	}

	history, err := s.memory.Assemble(ctx, threadID, message)
	if err != nil {
		return threadID, fmt.Errorf("failed to assemble history: %w", err)
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: constant.SalesAssistantSystemPrompt + "\n\n" + contextBlock,
	})
	messages = append(messages, history...)

	var reply strings.Builder
	streamErr := s.provider.Stream(ctx, messages, func(chunk string) error {
		reply.WriteString(chunk)
		return emit(chunk)
	})
	if streamErr != nil {
		return threadID, fmt.Errorf("generation failed: %w", streamErr)
	}

	s.memory.Record(threadID, reply.String())
	s.publishTurn(ctx, threadID, decision, resultCount)
	return threadID, nil
}

func (s *chatService) History(threadID string) []memory.Message {
	return s.memory.History(threadID)
}

// buildContext resolves the routed decision into the context block for
// generation, emitting the matching info control line.
func (s *chatService) buildContext(ctx context.Context, decision router.Decision, emit llm.StreamFunc) (string, int, error) {
	switch decision.Kind {
	case router.KindRetrieval:
		results, err := s.retrieval.Retrieve(ctx, decision.Info, s.topK)
		if err != nil {
			// Retrieval failure degrades to the no-info reply path
			s.logger.Error("chat", "Retrieval failed", map[string]interface{}{
				"error": err.Error(),
				"query": decision.Info,
			})
			results = nil
		}
		if err := emit(fmt.Sprintf("%s%d\n", constant.StreamRetrievalInfoPrefix, len(results))); err != nil {
			return "", 0, err
		}
		if len(results) == 0 {
			return constant.NoInfoContextNote, 0, nil
		}
		return constant.RetrievalContextHeader + renderResults(results), len(results), nil

	case router.KindComparison:
		cmp, err := s.comparison.Compare(ctx, decision.Products)
		if err != nil {
			s.logger.Error("chat", "Comparison failed", map[string]interface{}{
				"error":    err.Error(),
				"products": decision.Products,
			})
			return constant.NoInfoContextNote, 0, nil
		}
		if err := emit(fmt.Sprintf("%s%d\n", constant.StreamComparisonInfoPrefix, len(decision.Products))); err != nil {
			return "", 0, err
		}
		return constant.ComparisonContextHeader + cmp.Table, len(decision.Products), nil

	default:
		return "", 0, nil
	}
}

func renderResults(results []catalog.RankedResult) string {
	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "--- SẢN PHẨM %d: %s ---\n", i+1, r.Passage.Metadata.Title)
		sb.WriteString(r.Passage.Content)
		if r.Passage.Metadata.Price > 0 {
			fmt.Fprintf(&sb, "\nGiá: %d VND", r.Passage.Metadata.Price)
		}
		if r.Passage.Metadata.URL != "" {
			fmt.Fprintf(&sb, "\nLink: %s", r.Passage.Metadata.URL)
		}
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func (s *chatService) publishTurn(ctx context.Context, threadID string, decision router.Decision, resultCount int) {
	if s.publisher == nil {
		return
	}
	event := events.NewChatTurnEvent(threadID, string(decision.Kind), resultCount)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("chat", "Failed to publish chat turn event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
