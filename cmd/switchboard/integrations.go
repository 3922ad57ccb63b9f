package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var integrationsCmd = &cobra.Command{
	Use:   "integrations",
	Short: "List the available integrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalogue, err := cfg.Catalogue()
		if err != nil {
			return err
		}

		name := color.New(color.FgCyan, color.Bold)
		for _, p := range catalogue.Profiles() {
			name.Printf("%s", p.ID)
			fmt.Printf("  %s\n", p.Name)
			fmt.Printf("    %s\n", p.Description)
			fmt.Printf("    command: %s (timeout %s)\n", p.Command, p.Timeout)
		}
		return nil
	},
}
