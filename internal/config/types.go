package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderBedrock   ProviderType = "bedrock"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderOllama    ProviderType = "ollama"
)

// BotConfig identifies the bot definition the catalog reads.
type BotConfig struct {
	ID       string `yaml:"id" koanf:"id"`
	Version  string `yaml:"version" koanf:"version"`
	LocaleID string `yaml:"locale_id" koanf:"locale_id"`
}

// Config is the top-level lexassist configuration, corresponding to
// .lexassist.yml.
type Config struct {
	Provider  ProviderType `yaml:"provider" koanf:"provider"`
	Model     string       `yaml:"model" koanf:"model"`
	Region    string       `yaml:"region" koanf:"region"`
	Bot       BotConfig    `yaml:"bot" koanf:"bot"`
	PromptDir string       `yaml:"prompt_dir" koanf:"prompt_dir"`
	DataDir   string       `yaml:"data_dir" koanf:"data_dir"`
	Port      int          `yaml:"port" koanf:"port"`
}
