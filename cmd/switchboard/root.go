package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath    string
	cataloguePath string
)

var rootCmd = &cobra.Command{
	Use:   "switchboard",
	Short: "Natural-language router for team integrations",
	Long: `Switchboard routes natural-language questions to the backend
integrations that can answer them (issue tracker, knowledge base,
source control), runs each over its capability provider, and
synthesizes the answers into a single reply.

With no arguments, launches an interactive chat where you can ask
questions and watch which integrations respond.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a switchboard config file")
	rootCmd.PersistentFlags().StringVar(&cataloguePath, "catalogue", "", "Path to a YAML catalogue file overriding the built-in integrations")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(integrationsCmd)
	rootCmd.AddCommand(versionCmd)
}
