package config

import "os"

// AIConfig holds the report-collaborator settings. The reference
// deployment targets Cerebras's OpenAI-compatible chat completions API.
type AIConfig struct {
	APIKey    string `json:"-"` // Never serialize
	BaseURL   string `json:"baseUrl"`
	Model     string `json:"model"`
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultAIConfig returns the AI configuration from the environment.
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:    os.Getenv("CEREBRAS_API_KEY"),
		BaseURL:   getEnvOrDefault("LLM_BASE_URL", "https://api.cerebras.ai/v1"),
		Model:     getEnvOrDefault("LLM_MODEL_REPORT", "llama3.1-8b"),
		TimeoutMS: 15000,
	}
}

// IsEnabled returns true if the AI API is configured.
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
