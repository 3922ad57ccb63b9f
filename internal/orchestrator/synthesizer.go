package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ShayCichocki/switchboard/pkg/models"
)

// synthesisInstructions is the role prompt for the merge step. The synthesis
// agent gets no tools: it only reconciles what the integrations returned.
const synthesisInstructions = `You are a concise synthesis agent. Combine information from multiple systems to provide a direct, clean response that answers the user's question without unnecessary elaboration.`

// TextGenerator makes a single text-generation call without tool use.
// Satisfied by *api.AgentLoop.
type TextGenerator interface {
	SimpleCall(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLMSynthesizer merges per-integration outcomes with one generation call.
type LLMSynthesizer struct {
	gen TextGenerator
}

// NewSynthesizer creates a synthesizer backed by the given text generator.
func NewSynthesizer(gen TextGenerator) *LLMSynthesizer {
	return &LLMSynthesizer{gen: gen}
}

// Synthesize asks the model for one coherent answer over the labeled
// per-integration outcome texts. The generated text is returned verbatim.
func (s *LLMSynthesizer) Synthesize(ctx context.Context, query string, responses map[models.Integration]string, convContext string) (string, error) {
	system := synthesisInstructions
	if convContext != "" {
		system += "\n\nConversation Context:\n" + convContext
	}

	ids := make([]models.Integration, 0, len(responses))
	for id := range responses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var results strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&results, "%s: %s\n", strings.ToUpper(string(id)), responses[id])
	}

	prompt := fmt.Sprintf(`User Query: %s

System Results:
%s
Provide a direct, concise answer to the user's query. Focus only on what was asked. Do not add insights, connections, or suggestions unless specifically requested.`, query, results.String())

	answer, err := s.gen.SimpleCall(ctx, system, prompt)
	if err != nil {
		return "", fmt.Errorf("synthesis: %w", err)
	}
	return answer, nil
}

var _ Synthesizer = (*LLMSynthesizer)(nil)
