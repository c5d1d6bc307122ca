package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "relaybot",
		Short:         "Telegram relay to ChatGPT, Claude and DeepSeek",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().String("config", "", "Config file path (optional).")
	cmd.PersistentFlags().String("log-level", "", "Logging level: debug|info|warn|error.")
	cmd.PersistentFlags().Int("port", 0, "HTTP port for the webhook and health routes.")
	cmd.PersistentFlags().String("database-dsn", "", "Recorder DSN; empty disables recording.")

	_ = viper.BindPFlag("logger.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("http_server.port", cmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("database.dsn", cmd.PersistentFlags().Lookup("database-dsn"))

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newPollCmd())
	cmd.AddCommand(newMigrateCmd())

	return cmd
}

func configFlag(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
