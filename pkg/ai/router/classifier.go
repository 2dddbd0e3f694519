package router

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"github.com/TrvKhanh/rag-mobile/pkg/llm"
)

const defaultMaxRetries = 2

const classifyPrompt = `Bạn là bộ định tuyến ý định cho trợ lý bán điện thoại. Phân loại câu sau của khách và trả về DUY NHẤT một object JSON theo một trong ba dạng:
{"router": "chat", "infor": "<câu gốc>"} - chào hỏi, cảm ơn, trò chuyện xã giao
{"router": "retrieval", "infor": "<truy vấn tìm kiếm>"} - hỏi về sản phẩm, giá, thông số, khuyến mãi
{"router": "comparison", "products": ["<tên sản phẩm 1>", "<tên sản phẩm 2>"]} - so sánh từ 2 sản phẩm trở lên

Câu của khách: `

const strictAddition = `

QUAN TRỌNG: chỉ trả về đúng một object JSON hợp lệ, không kèm giải thích, không dùng markdown.`

// Patterns that resolve an utterance without a model call. Matching is
// substring/prefix based, case-insensitive.
var fastPathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(xin )?chào`),
	regexp.MustCompile(`(?i)^(hello|hi|hey)\b`),
	regexp.MustCompile(`(?i)cảm ơn|cám ơn|thank`),
	regexp.MustCompile(`(?i)tạm biệt|bye`),
	regexp.MustCompile(`(?i)bạn là ai|who are you|bạn tên gì`),
}

// Classifier turns a raw utterance into a routing decision. It never
// returns an error: unclassifiable input falls back to retrieval over
// the utterance itself.
type Classifier struct {
	provider   llm.LLMProvider
	maxRetries int
	logger     *log.Logger
}

func NewClassifier(provider llm.LLMProvider, logger *log.Logger) *Classifier {
	return &Classifier{
		provider:   provider,
		maxRetries: defaultMaxRetries,
		logger:     logger,
	}
}

// Classify runs the fast path, then up to 1+maxRetries model attempts,
// then the retrieval fallback.
func (c *Classifier) Classify(ctx context.Context, utterance string) Decision {
	trimmed := strings.TrimSpace(utterance)

	for _, pat := range fastPathPatterns {
		if pat.MatchString(trimmed) {
			c.logger.Printf("[ROUTER] Fast path matched, routing to chat")
			return Decision{Kind: KindChat, Info: trimmed}
		}
	}

	prompt := classifyPrompt + trimmed
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err := c.provider.Generate(ctx, prompt)
		if err != nil {
			c.logger.Printf("[ROUTER] Classification attempt %d failed: %v", attempt+1, err)
			prompt = classifyPrompt + trimmed + strictAddition
			continue
		}

		decision, ok := c.parse(raw)
		if ok {
			c.logger.Printf("[ROUTER] Classified as %s (attempt %d)", decision.Kind, attempt+1)
			return decision
		}

		c.logger.Printf("[ROUTER] Attempt %d produced unusable output: %s", attempt+1, truncateLog(raw, 120))
		prompt = classifyPrompt + trimmed + strictAddition
	}

	c.logger.Printf("[ROUTER] All attempts failed, falling back to retrieval")
	return Decision{Kind: KindRetrieval, Info: trimmed}
}

// parse extracts, repairs and validates one model response.
func (c *Classifier) parse(raw string) (Decision, bool) {
	block, err := extractJSONBlock(raw)
	if err != nil {
		return Decision{}, false
	}

	var parsed rawDecision
	if err := json.Unmarshal([]byte(block), &parsed); err != nil {
		// Strict parse failed, repair common artifacts and retry
		if err := json.Unmarshal([]byte(repairJSON(block)), &parsed); err != nil {
			return Decision{}, false
		}
	}
	return parsed.validate()
}

func truncateLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
