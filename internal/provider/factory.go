package provider

import (
	"fmt"

	"github.com/tablemind-ai/tablemind/internal/config"
	"github.com/tablemind-ai/tablemind/internal/modelselect"
)

func resolveMaxTokens(requestMaxTokens, configuredMaxTokens int) int {
	if requestMaxTokens > 0 {
		return requestMaxTokens
	}
	return configuredMaxTokens
}

// New builds the adapter for a selected model descriptor. Credentials and
// token limits come from the llm config section; the descriptor supplies the
// provider kind, model, and endpoint.
func New(desc modelselect.Descriptor, cfg config.LLMConfig) (Provider, error) {
	switch desc.Provider {
	case modelselect.KindOllama:
		return newOllamaProvider(desc.Model, desc.BaseURL)
	case modelselect.KindOpenAI:
		return newOpenAIProvider(cfg.OpenAIAPIKey, desc.Model, desc.BaseURL, cfg.MaxTokens)
	case modelselect.KindAnthropic:
		return newAnthropicProvider(cfg.AnthropicAPIKey, desc.Model, cfg.MaxTokens)
	default:
		return nil, fmt.Errorf("unsupported provider %q", desc.Provider)
	}
}
