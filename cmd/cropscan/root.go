package cmd

import (
	"fmt"
	"os"

	// Subcommands
	preprocess "github.com/cozy-creator/cropscan/cmd/cropscan/preprocess"
	run "github.com/cozy-creator/cropscan/cmd/cropscan/run"
	"github.com/cozy-creator/cropscan/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Cmd = &cobra.Command{
	Use:   "cropscan",
	Short: "Crop disease detection server",
	Long:  "Serves an upload page and an /analyze endpoint that runs crop disease detection on uploaded images",

	// Runs before this command and any subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Configure(viper.GetViper())

		// Load config and env files
		if err := config.LoadEnvAndConfigFiles(); err != nil {
			return err
		}

		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pflags := Cmd.PersistentFlags()

	pflags.String("config-file", "", "Path to the config file")
	pflags.String("env-file", "", "Path to the env file")

	viper.BindPFlag("config_file", pflags.Lookup("config-file"))
	viper.BindPFlag("env_file", pflags.Lookup("env-file"))

	Cmd.AddCommand(run.Cmd, preprocess.Cmd)
	Cmd.CompletionOptions.HiddenDefaultCmd = true
}
