package embedding

import "fmt"

func NewProvider(providerType, model, ollamaBaseURL, openaiKey string) (EmbeddingProvider, error) {
	switch providerType {
	case "ollama":
		return NewOllamaProvider(ollamaBaseURL, model), nil
	case "openai":
		if openaiKey == "" {
			return nil, fmt.Errorf("openai embedding provider selected but no API key configured")
		}
		return NewOpenAIProvider(openaiKey, model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}
