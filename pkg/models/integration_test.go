package models

import (
	"errors"
	"testing"
)

func TestIntegrationValid(t *testing.T) {
	tests := []struct {
		name string
		id   Integration
		want bool
	}{
		{"issue tracker", IntegrationIssueTracker, true},
		{"knowledge base", IntegrationKnowledgeBase, true},
		{"source control", IntegrationSourceControl, true},
		{"empty", Integration(""), false},
		{"unknown", Integration("crm"), false},
		{"case differs", Integration("Issue-Tracker"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.Valid(); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestParseIntegrations(t *testing.T) {
	ids, err := ParseIntegrations([]string{"issue-tracker", "source-control"})
	if err != nil {
		t.Fatalf("ParseIntegrations returned error: %v", err)
	}
	if len(ids) != 2 || ids[0] != IntegrationIssueTracker || ids[1] != IntegrationSourceControl {
		t.Errorf("ParseIntegrations = %v", ids)
	}
}

func TestParseIntegrationsRejectsUnknown(t *testing.T) {
	_, err := ParseIntegrations([]string{"issue-tracker", "sharepoint"})
	if err == nil {
		t.Fatal("expected error for unknown integration")
	}
}

func TestAllIntegrationsValid(t *testing.T) {
	for _, id := range AllIntegrations() {
		if !id.Valid() {
			t.Errorf("AllIntegrations contains invalid id %q", id)
		}
	}
}

func TestOutcomeText(t *testing.T) {
	ok := Outcome{Integration: IntegrationKnowledgeBase, Answer: "see the SSO guide"}
	if ok.Failed() {
		t.Error("success outcome reported Failed")
	}
	if got := ok.Text(); got != "see the SSO guide" {
		t.Errorf("Text() = %q", got)
	}

	bad := Outcome{Integration: IntegrationIssueTracker, Err: errors.New("connect refused")}
	if !bad.Failed() {
		t.Error("failure outcome did not report Failed")
	}
	if got := bad.Text(); got != "Error: connect refused" {
		t.Errorf("Text() = %q", got)
	}
}
