package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/switchboard/internal/api"
	"github.com/ShayCichocki/switchboard/pkg/models"
)

var (
	queryIntegrations []string
	queryJSON         bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Route a single query and print the answer",
	Long: `Routes one query through the selected integrations and prints each
integration's answer plus the synthesized reply. With no --integrations
flag, the query is classified automatically.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(strings.Join(args, " "))
	},
}

func init() {
	queryCmd.Flags().StringSliceVarP(&queryIntegrations, "integrations", "i", nil,
		"Integrations to query (issue-tracker, knowledge-base, source-control)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Print the raw result as JSON")
}

func runQuery(text string) error {
	selected, err := models.ParseIntegrations(queryIntegrations)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rt, err := buildRuntime(cfg, newLogger(false))
	if err != nil {
		return err
	}

	result, err := rt.orch.Execute(context.Background(), text, selected, nil)
	if err != nil {
		return err
	}

	if queryJSON {
		responses := make(map[string]string, len(result.Responses))
		for id, text := range result.Responses {
			responses[string(id)] = text
		}
		out := struct {
			Query     string            `json:"query"`
			Used      []string          `json:"integrations_used"`
			Responses map[string]string `json:"responses"`
			Synthesis string            `json:"synthesis"`
			Suggested []string          `json:"suggested_integrations"`
		}{
			Query:     result.Query,
			Used:      models.Strings(result.Used),
			Responses: responses,
			Synthesis: result.Synthesis,
			Suggested: models.Strings(result.Suggested),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printResult(result)
	printUsage(rt.client.Tracker())
	return nil
}

func printUsage(tracker *api.TokenTracker) {
	in, out := tracker.Total()
	dim := color.New(color.FgHiBlack)
	dim.Printf("tokens: %d in, %d out across %d calls\n", in, out, tracker.Calls())
}

func printResult(result *models.QueryResult) {
	header := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgYellow)

	for _, id := range result.Used {
		header.Printf("── %s ──\n", id)
		fmt.Println(result.Responses[id])
		fmt.Println()
	}

	if len(result.Used) > 1 {
		header.Println("── synthesis ──")
		fmt.Println(result.Synthesis)
		fmt.Println()
	}

	if len(result.Suggested) > 0 {
		label.Printf("suggested: %s\n", strings.Join(models.Strings(result.Suggested), ", "))
	}
}
