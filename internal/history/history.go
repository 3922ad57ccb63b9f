// Package history reduces a caller-supplied conversation window into a short
// instruction-context block.
package history

import (
	"strings"

	"github.com/ShayCichocki/switchboard/pkg/models"
)

// maxTurns caps how much of the conversation window is carried into prompts.
const maxTurns = 5

// BuildContext renders the last turns of the conversation, oldest first.
// User turns render as "User: <text>"; assistant turns as
// "Assistant: <text>" with a "(Used: ...)" suffix when integrations were
// involved. An empty history produces an empty string.
func BuildContext(turns []models.ConversationTurn) string {
	if len(turns) == 0 {
		return ""
	}

	recent := turns
	if len(recent) > maxTurns {
		recent = recent[len(recent)-maxTurns:]
	}

	parts := make([]string, 0, len(recent))
	for _, turn := range recent {
		role := "Assistant"
		if turn.IsUser {
			role = "User"
		}
		line := role + ": " + turn.Text
		if !turn.IsUser && len(turn.IntegrationsUsed) > 0 {
			line += " (Used: " + strings.Join(models.Strings(turn.IntegrationsUsed), ", ") + ")"
		}
		parts = append(parts, line)
	}

	return strings.Join(parts, "\n")
}
