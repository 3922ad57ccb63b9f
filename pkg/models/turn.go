package models

import "time"

// ConversationTurn is one message in the caller-supplied conversation window.
// Turns are provided by the caller and never created or persisted here.
type ConversationTurn struct {
	// Text is the message body.
	Text string
	// IsUser is true for user turns, false for assistant turns.
	IsUser bool
	// Timestamp is when the turn happened, as reported by the caller.
	Timestamp time.Time
	// IntegrationsUsed lists the integrations that produced an assistant turn.
	IntegrationsUsed []Integration
}
