// Package tui provides the interactive chat interface for Switchboard.
//
// The chat model keeps a transcript of the conversation, submits each
// query to the orchestrator in the background, and renders which
// integrations answered alongside the synthesized reply.
//
// Usage:
//
//	program := tui.NewChatProgram(orch)
//	if _, err := program.Run(); err != nil {
//	    return err
//	}
package tui
