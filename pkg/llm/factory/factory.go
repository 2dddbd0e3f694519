package factory

import (
	"fmt"

	"github.com/TrvKhanh/rag-mobile/pkg/llm"
	"github.com/TrvKhanh/rag-mobile/pkg/llm/gemini"
	"github.com/TrvKhanh/rag-mobile/pkg/llm/ollama"
)

// NewLLMProvider selects the generation backend at construction time.
// No call site branches on provider names after this point.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "gemini":
		if apiKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewGeminiProvider(apiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
