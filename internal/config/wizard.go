package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .lexassist.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to lexassist! Let's configure your bot.")
	fmt.Println()

	defaults := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"bedrock", "anthropic", "openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Model identifier",
		Default: defaults.Model,
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. AWS region (bedrock and the bot catalog both use it).
	regionPrompt := promptui.Prompt{
		Label:   "AWS region",
		Default: defaults.Region,
	}
	region, err := regionPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("region: %w", err)
	}

	// 4. Bot identity.
	botIDPrompt := promptui.Prompt{
		Label: "Bot ID",
		Validate: func(s string) error {
			if s == "" {
				return fmt.Errorf("bot ID is required")
			}
			return nil
		},
	}
	botID, err := botIDPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("bot ID: %w", err)
	}

	botVersionPrompt := promptui.Prompt{
		Label:   "Bot version",
		Default: defaults.Bot.Version,
	}
	botVersion, err := botVersionPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("bot version: %w", err)
	}

	localePrompt := promptui.Prompt{
		Label:   "Bot locale",
		Default: defaults.Bot.LocaleID,
	}
	localeID, err := localePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("bot locale: %w", err)
	}

	// 5. Prompt template directory.
	promptDirPrompt := promptui.Prompt{
		Label:   "Prompt template directory",
		Default: defaults.PromptDir,
	}
	promptDir, err := promptDirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("prompt dir: %w", err)
	}

	// 6. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(defaults.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("port must be a number between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	cfg := &Config{
		Provider:  provider,
		Model:     model,
		Region:    region,
		Bot:       BotConfig{ID: botID, Version: botVersion, LocaleID: localeID},
		PromptDir: promptDir,
		DataDir:   defaults.DataDir,
		Port:      port,
	}

	// Check for API key.
	envVar := APIKeyEnvVar(provider)
	if envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running lexassist serve.\n", envVar)
		}
	}

	configPath := ".lexassist.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
