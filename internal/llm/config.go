// Package llm provides centralized LLM configuration and client abstractions
// for the prompt-generation side of the workflow.
package llm

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider (future)
	ProviderOpenAI Provider = "openai"
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	// Model is the model used for scene-prompt generation
	Model string
	// Temperature for generation; prompt generation wants some creativity
	// but consistent structure, so the default is moderate.
	Temperature float32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       "gemini-2.0-flash",
		Temperature: 0.7,
	}
}

// WithModel returns a copy of the config with a different model
func (c *Config) WithModel(model string) *Config {
	out := *c
	out.Model = model
	return &out
}
