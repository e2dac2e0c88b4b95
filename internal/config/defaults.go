package config

// DefaultModel is the model used when none is configured.
const DefaultModel = "anthropic.claude-3-sonnet-20240229-v1:0"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:  ProviderBedrock,
		Model:     DefaultModel,
		Region:    "us-east-1",
		Bot:       BotConfig{Version: "DRAFT", LocaleID: "en_US"},
		PromptDir: "prompts",
		DataDir:   ".lexassist",
		Port:      8080,
	}
}
