package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmehra/lexassist/internal/config"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <utterance>",
	Short: "Classify one utterance against the bot's intents",
	Long:  `Runs a single intent identification against the configured bot and prints the result. Useful for tuning the intent identification prompt without a running server.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		ctx := cmd.Context()
		pol, err := buildPolicy(ctx, cfg)
		if err != nil {
			return err
		}

		res, err := pol.IdentifyIntentLabel(ctx, args[0])
		if err != nil {
			return err
		}

		if !res.Determined() {
			fmt.Printf("undetermined (confidence %.2f)\n", res.Confidence)
			return nil
		}
		fmt.Printf("%s (confidence %.2f)\n", res.Label, res.Confidence)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
