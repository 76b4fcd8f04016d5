package ai

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// NewGroqProvider creates a provider for the Groq API, which is
// OpenAI-compatible, so it reuses the OpenAI wire types with a different
// base URL and name.
func NewGroqProvider(apiKey, model, baseURL string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	p := NewOpenAIProvider(apiKey, model, baseURL)
	p.name = "groq"
	return p
}
