package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShayCichocki/switchboard/pkg/models"
)

type fakeRunner struct {
	result *models.QueryResult
	err    error

	gotQuery string
	gotTurns []models.ConversationTurn
}

func (f *fakeRunner) Execute(_ context.Context, query string, _ []models.Integration, turns []models.ConversationTurn) (*models.QueryResult, error) {
	f.gotQuery = query
	f.gotTurns = turns
	return f.result, f.err
}

func TestChatModel_Enter_SubmitsQuery(t *testing.T) {
	runner := &fakeRunner{result: &models.QueryResult{Synthesis: "ok"}}
	m := NewChatModel(runner)
	m.input.SetValue("  where is the deploy doc  ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if !m.waiting {
		t.Error("model should be waiting after submit")
	}
	if len(m.entries) != 1 || !m.entries[0].isUser {
		t.Fatalf("entries = %+v, want one user entry", m.entries)
	}
	if m.entries[0].text != "where is the deploy doc" {
		t.Errorf("entry text = %q, want trimmed query", m.entries[0].text)
	}
	if cmd == nil {
		t.Fatal("expected a command to run the query")
	}
}

func TestChatModel_Enter_EmptyInput_NoSubmit(t *testing.T) {
	m := NewChatModel(&fakeRunner{})
	m.input.SetValue("   ")

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.waiting {
		t.Error("empty input should not start a query")
	}
	if len(m.entries) != 0 {
		t.Errorf("entries = %d, want 0", len(m.entries))
	}
}

func TestChatModel_Result_RecordsTranscriptAndTurns(t *testing.T) {
	m := NewChatModel(&fakeRunner{})
	m.waiting = true

	result := &models.QueryResult{
		Synthesis: "the answer",
		Used:      []models.Integration{models.IntegrationKnowledgeBase},
	}
	_, _ = m.Update(queryResultMsg{query: "a question", result: result})

	if m.waiting {
		t.Error("waiting should clear after a result")
	}
	if len(m.entries) != 1 || m.entries[0].text != "the answer" {
		t.Fatalf("entries = %+v, want one assistant entry", m.entries)
	}
	if len(m.turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(m.turns))
	}
	if !m.turns[0].IsUser || m.turns[0].Text != "a question" {
		t.Errorf("first turn = %+v, want user turn", m.turns[0])
	}
	if m.turns[1].IsUser || len(m.turns[1].IntegrationsUsed) != 1 {
		t.Errorf("second turn = %+v, want assistant turn with integrations", m.turns[1])
	}
}

func TestChatModel_Result_Error(t *testing.T) {
	m := NewChatModel(&fakeRunner{})
	m.waiting = true

	_, _ = m.Update(queryResultMsg{query: "q", err: errors.New("backend down")})

	if len(m.entries) != 1 || !m.entries[0].isErr {
		t.Fatalf("entries = %+v, want one error entry", m.entries)
	}
	if len(m.turns) != 0 {
		t.Error("failed queries should not enter the conversation window")
	}
}

func TestChatModel_TurnWindow_Bounded(t *testing.T) {
	m := NewChatModel(&fakeRunner{})

	for i := 0; i < 10; i++ {
		m.recordResult(queryResultMsg{
			query:  "q",
			result: &models.QueryResult{Synthesis: "a"},
		})
	}

	if len(m.turns) != maxRememberedTurns {
		t.Errorf("turns = %d, want %d", len(m.turns), maxRememberedTurns)
	}
}

func TestChatModel_Submit_ForwardsConversationWindow(t *testing.T) {
	runner := &fakeRunner{result: &models.QueryResult{Synthesis: "a"}}
	m := NewChatModel(runner)
	m.turns = []models.ConversationTurn{
		{Text: "earlier question", IsUser: true},
		{Text: "earlier answer", IsUser: false},
	}

	cmd := m.submit("followup")
	_ = cmd()

	if runner.gotQuery != "followup" {
		t.Errorf("query = %q, want followup", runner.gotQuery)
	}
	if len(runner.gotTurns) != 2 {
		t.Fatalf("forwarded turns = %d, want 2", len(runner.gotTurns))
	}
	if runner.gotTurns[0].Text != "earlier question" {
		t.Errorf("turns forwarded out of order: %+v", runner.gotTurns)
	}
}

func TestChatModel_View_ShowsIntegrationsUsed(t *testing.T) {
	m := NewChatModel(&fakeRunner{})
	m.entries = []entry{
		{text: "hello", isUser: true},
		{text: "an answer", used: []models.Integration{models.IntegrationIssueTracker, models.IntegrationSourceControl}},
	}

	view := m.View()

	if !strings.Contains(view, "an answer") {
		t.Error("view should contain the assistant answer")
	}
	if !strings.Contains(view, "issue-tracker") || !strings.Contains(view, "source-control") {
		t.Error("view should list the integrations that answered")
	}
}
