package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dmehra/lexassist/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize lexassist configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure lexassist for your bot and generates a .lexassist.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
