package backend

import (
	"fmt"

	"github.com/ShayCichocki/switchboard/pkg/models"
)

// FailureKind classifies where a backend execution failed.
type FailureKind string

const (
	// FailConnect means the capability provider could not be launched or
	// its control channel could not be established.
	FailConnect FailureKind = "connection"
	// FailDiscovery means the provider's tool catalogue could not be
	// enumerated. Discovery is best-effort, so this kind shows up in logs
	// rather than returned errors.
	FailDiscovery FailureKind = "tool discovery"
	// FailTimeout means the agent run exceeded the profile's deadline.
	FailTimeout FailureKind = "timeout"
	// FailExecution means the agent run itself failed.
	FailExecution FailureKind = "execution"
)

// Error is a classified backend failure. It is always handled at the
// coordinator boundary and rendered into the integration's outcome text,
// never propagated across integrations.
type Error struct {
	Integration models.Integration
	Kind        FailureKind
	Err         error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s failure: %v", e.Integration, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
