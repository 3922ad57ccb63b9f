// Package models contains the core domain types shared across switchboard.
package models

import "fmt"

// Integration identifies one backend system reachable through a capability
// provider. The set is closed: only the identifiers declared here are valid.
type Integration string

const (
	// IntegrationIssueTracker covers issue and sprint management systems.
	IntegrationIssueTracker Integration = "issue-tracker"
	// IntegrationKnowledgeBase covers documentation and wiki systems.
	IntegrationKnowledgeBase Integration = "knowledge-base"
	// IntegrationSourceControl covers repository hosting and code review systems.
	IntegrationSourceControl Integration = "source-control"
)

// AllIntegrations returns every valid integration in stable order.
func AllIntegrations() []Integration {
	return []Integration{
		IntegrationIssueTracker,
		IntegrationKnowledgeBase,
		IntegrationSourceControl,
	}
}

// Valid returns true if the integration is a known value.
func (i Integration) Valid() bool {
	switch i {
	case IntegrationIssueTracker, IntegrationKnowledgeBase, IntegrationSourceControl:
		return true
	default:
		return false
	}
}

// ParseIntegration converts an external-facing string into an Integration.
// Unknown strings are a validation error, never a silent default.
func ParseIntegration(s string) (Integration, error) {
	id := Integration(s)
	if !id.Valid() {
		return "", fmt.Errorf("unknown integration %q", s)
	}
	return id, nil
}

// ParseIntegrations converts a list of external-facing strings, rejecting the
// whole list on the first unknown identifier.
func ParseIntegrations(ss []string) ([]Integration, error) {
	ids := make([]Integration, 0, len(ss))
	for _, s := range ss {
		id, err := ParseIntegration(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Strings renders a slice of integrations back to plain strings.
func Strings(ids []Integration) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
