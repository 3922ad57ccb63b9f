package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ShayCichocki/switchboard/internal/api"
	"github.com/ShayCichocki/switchboard/internal/backend"
	"github.com/ShayCichocki/switchboard/internal/catalog"
	"github.com/ShayCichocki/switchboard/internal/config"
	"github.com/ShayCichocki/switchboard/internal/orchestrator"
)

// loadConfig loads configuration, honoring the --config and --catalogue
// flags when set.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if cataloguePath != "" {
		cfg.CatalogueFile = cataloguePath
	}
	return cfg, nil
}

// runtime bundles the wired query path.
type runtime struct {
	orch      *orchestrator.Orchestrator
	catalogue *catalog.Catalogue
	client    *api.Client
}

// buildRuntime wires the full query path from configuration: the integration
// catalogue, the Anthropic client, the capability-provider runner, and the
// synthesizer.
func buildRuntime(cfg *config.Config, logger *slog.Logger) (*runtime, error) {
	catalogue, err := cfg.Catalogue()
	if err != nil {
		return nil, fmt.Errorf("build catalogue: %w", err)
	}

	client, err := api.NewClient(api.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}
	logger.Debug("text generation ready", "model", client.Model(), "bedrock", client.IsBedrock())

	loop := api.NewAgentLoop(client, 0)
	runner := backend.NewRunner(loop, logger)
	synth := orchestrator.NewSynthesizer(loop)

	return &runtime{
		orch:      orchestrator.New(catalogue, runner, synth, logger),
		catalogue: catalogue,
		client:    client,
	}, nil
}

// newLogger builds the process logger. The TUI path discards logs so
// they do not corrupt the rendered screen.
func newLogger(discard bool) *slog.Logger {
	if discard {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
