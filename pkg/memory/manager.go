package memory

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/TrvKhanh/rag-mobile/pkg/llm"
)

// DefaultSummaryThreshold is how many stored messages a thread holds
// before its history is compacted into a summary.
const DefaultSummaryThreshold = 10

const summaryPrompt = `Tóm tắt ngắn gọn cuộc hội thoại sau giữa khách hàng và trợ lý bán điện thoại, giữ lại các sản phẩm và yêu cầu khách đã nhắc đến:

%s

Tóm tắt:`

// Summarizer condenses a history into one message. Satisfied by the
// generation provider.
type Summarizer interface {
	Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error)
}

// Manager maintains per-thread conversation history. A turn runs in two
// phases: Assemble persists the user message (compacting first when the
// thread is long enough) and returns the messages for generation;
// Record appends the generated response afterwards.
//
// Concurrent turns on the same thread are the caller's problem, the
// manager does not serialize them.
type Manager struct {
	store      ThreadStore
	summarizer Summarizer
	threshold  int
	logger     *log.Logger
}

func NewManager(store ThreadStore, summarizer Summarizer, threshold int, logger *log.Logger) *Manager {
	if threshold <= 0 {
		threshold = DefaultSummaryThreshold
	}
	return &Manager{
		store:      store,
		summarizer: summarizer,
		threshold:  threshold,
		logger:     logger,
	}
}

// Assemble stores the incoming user turn and returns the full message
// sequence to hand to the generation model. When the stored history has
// reached the threshold it is summarized into a single message and
// discarded; only [summary, user message] survive.
func (m *Manager) Assemble(ctx context.Context, threadID, userContent string) ([]llm.Message, error) {
	history := m.store.Get(threadID)
	user := NewMessage(llm.RoleUser, userContent)

	if len(history) >= m.threshold {
		summaryText, err := m.summarize(ctx, history)
		if err != nil {
			return nil, fmt.Errorf("history compaction failed: %w", err)
		}
		summary := NewMessage(llm.RoleSystem, "Tóm tắt hội thoại trước: "+summaryText)
		history = []Message{summary, user}
		m.logger.Printf("[MEMORY] Thread %s compacted to summary + latest turn", threadID)
	} else {
		history = append(history, user)
	}

	m.store.Put(threadID, history)
	return toLLMMessages(history), nil
}

// Record appends the generated response to the thread.
func (m *Manager) Record(threadID, responseContent string) {
	history := m.store.Get(threadID)
	history = append(history, NewMessage(llm.RoleAssistant, responseContent))
	m.store.Put(threadID, history)
}

// History exposes the stored messages of a thread.
func (m *Manager) History(threadID string) []Message {
	return m.store.Get(threadID)
}

func (m *Manager) summarize(ctx context.Context, history []Message) (string, error) {
	var sb strings.Builder
	for _, msg := range history {
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}

	summary, err := m.summarizer.Generate(ctx, fmt.Sprintf(summaryPrompt, sb.String()))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}

func toLLMMessages(history []Message) []llm.Message {
	out := make([]llm.Message, len(history))
	for i, msg := range history {
		out[i] = llm.Message{Role: msg.Role, Content: msg.Content}
	}
	return out
}
