package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/switchboard/pkg/models"
)

// maxRememberedTurns bounds the conversation window the chat keeps and
// forwards with each query.
const maxRememberedTurns = 10

// QueryRunner executes a query against the routing layer.
type QueryRunner interface {
	Execute(ctx context.Context, query string, selected []models.Integration, turns []models.ConversationTurn) (*models.QueryResult, error)
}

// queryResultMsg is sent when a background query finishes.
type queryResultMsg struct {
	query  string
	result *models.QueryResult
	err    error
}

// entry is one rendered line of the transcript.
type entry struct {
	text   string
	isUser bool
	used   []models.Integration
	isErr  bool
}

// ChatModel is the bubbletea model for the interactive chat.
type ChatModel struct {
	runner QueryRunner

	input   textinput.Model
	spin    spinner.Model
	entries []entry
	turns   []models.ConversationTurn

	width    int
	waiting  bool
	quitting bool
}

// NewChatModel creates a chat model bound to the given runner.
func NewChatModel(runner QueryRunner) *ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask a question and press Enter..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	return &ChatModel{
		runner: runner,
		input:  ti,
		spin:   sp,
		width:  80,
	}
}

// NewChatProgram creates a tea.Program running the chat model.
func NewChatProgram(runner QueryRunner) *tea.Program {
	return tea.NewProgram(NewChatModel(runner))
}

// Init implements tea.Model.
func (m *ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			query := strings.TrimSpace(m.input.Value())
			if query == "" || m.waiting {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.entries = append(m.entries, entry{text: query, isUser: true})
			return m, tea.Batch(m.spin.Tick, m.submit(query))
		}

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case queryResultMsg:
		m.waiting = false
		m.recordResult(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs the query in the background against the orchestrator.
func (m *ChatModel) submit(query string) tea.Cmd {
	turns := make([]models.ConversationTurn, len(m.turns))
	copy(turns, m.turns)
	return func() tea.Msg {
		result, err := m.runner.Execute(context.Background(), query, nil, turns)
		return queryResultMsg{query: query, result: result, err: err}
	}
}

// recordResult appends the outcome to the transcript and the
// conversation window.
func (m *ChatModel) recordResult(msg queryResultMsg) {
	if msg.err != nil {
		m.entries = append(m.entries, entry{text: msg.err.Error(), isErr: true})
		return
	}
	m.entries = append(m.entries, entry{
		text: msg.result.Synthesis,
		used: msg.result.Used,
	})

	m.turns = append(m.turns,
		models.ConversationTurn{Text: msg.query, IsUser: true},
		models.ConversationTurn{
			Text:             msg.result.Synthesis,
			IsUser:           false,
			IntegrationsUsed: msg.result.Used,
		},
	)
	if len(m.turns) > maxRememberedTurns {
		m.turns = m.turns[len(m.turns)-maxRememberedTurns:]
	}
}

// View implements tea.Model.
func (m *ChatModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ECDC4")).
		Bold(true)

	userStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true)

	usedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	errStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Switchboard"))
	b.WriteString("\n\n")

	for _, e := range m.entries {
		switch {
		case e.isUser:
			b.WriteString(userStyle.Render("> "))
			b.WriteString(e.text)
		case e.isErr:
			b.WriteString(errStyle.Render("error: " + e.text))
		default:
			if len(e.used) > 0 {
				b.WriteString(usedStyle.Render(fmt.Sprintf("[%s]", strings.Join(models.Strings(e.used), ", "))))
				b.WriteString("\n")
			}
			b.WriteString(e.text)
		}
		b.WriteString("\n\n")
	}

	if m.waiting {
		b.WriteString(m.spin.View())
		b.WriteString(" querying integrations...\n\n")
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(m.width - 2)

	b.WriteString(boxStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(usedStyle.Render("enter to send, ctrl+c to quit"))

	return b.String()
}
