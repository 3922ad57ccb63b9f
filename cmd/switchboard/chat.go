package main

import (
	"fmt"

	"github.com/ShayCichocki/switchboard/internal/tui"
)

// runChat launches the interactive chat TUI. Logs are discarded while
// the TUI owns the terminal.
func runChat() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rt, err := buildRuntime(cfg, newLogger(true))
	if err != nil {
		return err
	}

	program := tui.NewChatProgram(rt.orch)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run chat: %w", err)
	}
	return nil
}
