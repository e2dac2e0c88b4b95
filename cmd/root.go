package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmehra/lexassist/internal/logging"
)

var (
	cfgFile string
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lexassist",
	Short: "LLM-assisted fallback handling for dialog bots",
	Long: `Lexassist sits behind a dialog engine's code hook and decides what to
do with turns the engine could not handle: it classifies fallback
utterances against the bot's intents, maps free-form answers onto
enumerated slot values, and fulfills the claim-status intent.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".lexassist.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
