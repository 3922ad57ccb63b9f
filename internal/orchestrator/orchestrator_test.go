package orchestrator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/ShayCichocki/switchboard/internal/backend"
	"github.com/ShayCichocki/switchboard/internal/catalog"
	"github.com/ShayCichocki/switchboard/pkg/models"
)

// fakeRunner maps integrations to canned answers or failures.
type fakeRunner struct {
	mu      sync.Mutex
	answers map[models.Integration]string
	errs    map[models.Integration]error
	calls   []models.Integration
}

func (f *fakeRunner) Run(ctx context.Context, profile catalog.Profile, query, convContext string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, profile.ID)
	f.mu.Unlock()

	if err, ok := f.errs[profile.ID]; ok {
		return "", err
	}
	return f.answers[profile.ID], nil
}

// fakeSynth records its input and returns a canned merge.
type fakeSynth struct {
	mu     sync.Mutex
	called bool
	got    map[models.Integration]string
	answer string
	err    error
}

func (f *fakeSynth) Synthesize(ctx context.Context, query string, responses map[models.Integration]string, convContext string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called = true
	f.got = responses
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func newTestOrchestrator(runner BackendRunner, synth Synthesizer) *Orchestrator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(catalog.Default(), runner, synth, logger)
}

func TestExecuteSingleIntegrationSkipsSynthesis(t *testing.T) {
	runner := &fakeRunner{answers: map[models.Integration]string{
		models.IntegrationKnowledgeBase: "see the SSO guide",
	}}
	synth := &fakeSynth{answer: "should not be used"}
	o := newTestOrchestrator(runner, synth)

	result, err := o.Execute(context.Background(), "how do I configure SSO",
		[]models.Integration{models.IntegrationKnowledgeBase}, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if synth.called {
		t.Error("synthesizer invoked for single-integration query")
	}
	if result.Synthesis != "see the SSO guide" {
		t.Errorf("Synthesis = %q", result.Synthesis)
	}
	if got := result.Responses[models.IntegrationKnowledgeBase]; got != "see the SSO guide" {
		t.Errorf("Responses = %v", result.Responses)
	}
	if len(result.Used) != 1 || result.Used[0] != models.IntegrationKnowledgeBase {
		t.Errorf("Used = %v", result.Used)
	}
}

func TestExecuteSingleIntegrationFailureIsTheAnswer(t *testing.T) {
	runner := &fakeRunner{errs: map[models.Integration]error{
		models.IntegrationIssueTracker: &backend.Error{
			Integration: models.IntegrationIssueTracker,
			Kind:        backend.FailConnect,
			Err:         errors.New("spawn failed"),
		},
	}}
	synth := &fakeSynth{}
	o := newTestOrchestrator(runner, synth)

	result, err := o.Execute(context.Background(), "create a ticket",
		[]models.Integration{models.IntegrationIssueTracker}, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if synth.called {
		t.Error("synthesizer invoked for single-integration query")
	}
	if !strings.Contains(result.Synthesis, "issue-tracker") {
		t.Errorf("error answer not labeled with integration: %q", result.Synthesis)
	}
	if result.Synthesis != result.Responses[models.IntegrationIssueTracker] {
		t.Errorf("final answer %q differs from sole outcome %q",
			result.Synthesis, result.Responses[models.IntegrationIssueTracker])
	}
}

func TestExecuteMultiIntegrationSynthesizes(t *testing.T) {
	runner := &fakeRunner{answers: map[models.Integration]string{
		models.IntegrationIssueTracker:  "3 open bugs",
		models.IntegrationSourceControl: "2 open pull requests",
	}}
	synth := &fakeSynth{answer: "3 bugs and 2 PRs are open"}
	o := newTestOrchestrator(runner, synth)

	result, err := o.Execute(context.Background(), "what is open right now",
		[]models.Integration{models.IntegrationIssueTracker, models.IntegrationSourceControl}, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !synth.called {
		t.Fatal("synthesizer not invoked")
	}
	if result.Synthesis != "3 bugs and 2 PRs are open" {
		t.Errorf("Synthesis = %q", result.Synthesis)
	}
	if len(result.Responses) != 2 {
		t.Errorf("Responses = %v", result.Responses)
	}
}

func TestExecutePartialFailureFeedsBothIntoSynthesis(t *testing.T) {
	runner := &fakeRunner{
		answers: map[models.Integration]string{
			models.IntegrationSourceControl: "2 open pull requests",
		},
		errs: map[models.Integration]error{
			models.IntegrationIssueTracker: errors.New("timeout"),
		},
	}
	synth := &fakeSynth{answer: "partial picture"}
	o := newTestOrchestrator(runner, synth)

	result, err := o.Execute(context.Background(), "status",
		[]models.Integration{models.IntegrationIssueTracker, models.IntegrationSourceControl}, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !synth.called {
		t.Fatal("synthesizer not invoked on partial failure")
	}
	if got := synth.got[models.IntegrationSourceControl]; got != "2 open pull requests" {
		t.Errorf("success text not fed to synthesis: %q", got)
	}
	if got := synth.got[models.IntegrationIssueTracker]; !strings.HasPrefix(got, "Error:") {
		t.Errorf("error text not fed to synthesis: %q", got)
	}
	if !strings.HasPrefix(result.Responses[models.IntegrationIssueTracker], "Error:") {
		t.Errorf("failed integration outcome = %q", result.Responses[models.IntegrationIssueTracker])
	}
}

func TestExecuteAllFailuresStillReturnsResult(t *testing.T) {
	runner := &fakeRunner{errs: map[models.Integration]error{
		models.IntegrationIssueTracker:  errors.New("down"),
		models.IntegrationSourceControl: errors.New("also down"),
	}}
	synth := &fakeSynth{answer: "both systems are unavailable"}
	o := newTestOrchestrator(runner, synth)

	result, err := o.Execute(context.Background(), "status",
		[]models.Integration{models.IntegrationIssueTracker, models.IntegrationSourceControl}, nil)
	if err != nil {
		t.Fatalf("Execute returned hard error: %v", err)
	}
	if !synth.called {
		t.Fatal("synthesizer not invoked over two error strings")
	}
	if result.Synthesis != "both systems are unavailable" {
		t.Errorf("Synthesis = %q", result.Synthesis)
	}
	if len(result.Responses) != 2 {
		t.Errorf("Responses = %v", result.Responses)
	}
}

func TestExecuteSynthesisFailurePreservesOutcomes(t *testing.T) {
	runner := &fakeRunner{answers: map[models.Integration]string{
		models.IntegrationIssueTracker:  "3 open bugs",
		models.IntegrationSourceControl: "2 open pull requests",
	}}
	synth := &fakeSynth{err: errors.New("model unavailable")}
	o := newTestOrchestrator(runner, synth)

	result, err := o.Execute(context.Background(), "status",
		[]models.Integration{models.IntegrationIssueTracker, models.IntegrationSourceControl}, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !strings.HasPrefix(result.Synthesis, "Synthesis error:") {
		t.Errorf("Synthesis = %q", result.Synthesis)
	}
	if result.Responses[models.IntegrationIssueTracker] != "3 open bugs" {
		t.Errorf("outcomes not preserved: %v", result.Responses)
	}
	if result.Responses[models.IntegrationSourceControl] != "2 open pull requests" {
		t.Errorf("outcomes not preserved: %v", result.Responses)
	}
}

func TestExecuteClassifiesWhenUnselected(t *testing.T) {
	runner := &fakeRunner{answers: map[models.Integration]string{
		models.IntegrationKnowledgeBase: "from the wiki",
	}}
	synth := &fakeSynth{}
	o := newTestOrchestrator(runner, synth)

	result, err := o.Execute(context.Background(), "how do I configure SSO", nil, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(runner.calls) != 1 || runner.calls[0] != models.IntegrationKnowledgeBase {
		t.Errorf("runner calls = %v", runner.calls)
	}
	if len(result.Suggested) == 0 {
		t.Error("Suggested not populated")
	}
}

func TestExecuteRejectsUnknownIntegration(t *testing.T) {
	o := newTestOrchestrator(&fakeRunner{}, &fakeSynth{})

	_, err := o.Execute(context.Background(), "q",
		[]models.Integration{"sharepoint"}, nil)
	if err == nil {
		t.Fatal("expected validation error before dispatch")
	}
}

func TestExecuteSuggestedIndependentOfSelection(t *testing.T) {
	runner := &fakeRunner{answers: map[models.Integration]string{
		models.IntegrationSourceControl: "2 open pull requests",
	}}
	o := newTestOrchestrator(runner, &fakeSynth{})

	// Caller forces source-control even though the query reads like a
	// knowledge-base question.
	result, err := o.Execute(context.Background(), "how do I configure SSO",
		[]models.Integration{models.IntegrationSourceControl}, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	foundKB := false
	for _, id := range result.Suggested {
		if id == models.IntegrationKnowledgeBase {
			foundKB = true
		}
	}
	if !foundKB {
		t.Errorf("Suggested = %v, want knowledge-base included", result.Suggested)
	}
	if len(result.Used) != 1 || result.Used[0] != models.IntegrationSourceControl {
		t.Errorf("Used = %v", result.Used)
	}
}

func TestExecuteOutcomesKeyedByIntegration(t *testing.T) {
	runner := &fakeRunner{answers: map[models.Integration]string{
		models.IntegrationIssueTracker:  "issues",
		models.IntegrationKnowledgeBase: "docs",
		models.IntegrationSourceControl: "code",
	}}
	synth := &fakeSynth{answer: "merged"}
	o := newTestOrchestrator(runner, synth)

	selected := []models.Integration{
		models.IntegrationSourceControl,
		models.IntegrationIssueTracker,
		models.IntegrationKnowledgeBase,
	}
	result, err := o.Execute(context.Background(), "everything", selected, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for id, want := range map[models.Integration]string{
		models.IntegrationIssueTracker:  "issues",
		models.IntegrationKnowledgeBase: "docs",
		models.IntegrationSourceControl: "code",
	} {
		if got := result.Responses[id]; got != want {
			t.Errorf("Responses[%s] = %q, want %q", id, got, want)
		}
	}

	for i := 1; i < len(result.Used); i++ {
		if result.Used[i-1] >= result.Used[i] {
			t.Errorf("Used not in stable order: %v", result.Used)
		}
	}
}
