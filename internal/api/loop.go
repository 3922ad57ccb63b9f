package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// ToolInvoker supplies tool schemas for an agent run and executes the calls
// the model makes against them. Implementations decide where the tools live;
// the loop only shuttles blocks back and forth.
type ToolInvoker interface {
	// Tools returns the tool definitions advertised to the model.
	Tools() []anthropic.ToolUnionParam
	// Invoke executes one tool call and returns the result content and
	// whether it is an error result.
	Invoke(ctx context.Context, name string, input json.RawMessage) (string, bool)
}

// AgentLoop manages the API call and tool execution cycle.
type AgentLoop struct {
	client        *Client
	maxIterations int
}

// NewAgentLoop creates an agent loop. maxIterations bounds the number of API
// calls in one run; zero means the default.
func NewAgentLoop(client *Client, maxIterations int) *AgentLoop {
	if maxIterations <= 0 {
		maxIterations = 20
	}
	return &AgentLoop{client: client, maxIterations: maxIterations}
}

// RunWithTools executes the tool-use loop: call the model, execute any tool
// calls through the invoker, feed the results back, and stop when the model
// ends its turn. The accumulated text of the final turn is returned.
func (l *AgentLoop) RunWithTools(ctx context.Context, systemPrompt, userPrompt string, inv ToolInvoker) (string, error) {
	var tools []anthropic.ToolUnionParam
	if inv != nil {
		tools = inv.Tools()
	}

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
	}

	for iteration := 0; iteration < l.maxIterations; iteration++ {
		resp, err := l.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
			Model:     l.client.Model(),
			MaxTokens: 8192,
			System: []anthropic.TextBlockParam{
				{Text: systemPrompt},
			},
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			return "", fmt.Errorf("API call failed: %w", err)
		}

		l.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

		var assistantBlocks []anthropic.ContentBlockParamUnion
		var toolResultBlocks []anthropic.ContentBlockParamUnion
		var textOutput string

		for _, block := range resp.Content {
			switch variant := block.AsAny().(type) {
			case anthropic.TextBlock:
				textOutput += variant.Text
				assistantBlocks = append(assistantBlocks, anthropic.NewTextBlock(variant.Text))

			case anthropic.ToolUseBlock:
				assistantBlocks = append(assistantBlocks,
					anthropic.NewToolUseBlock(variant.ID, variant.Input, variant.Name))

				content, isError := l.invoke(ctx, inv, variant.Name, variant.Input)
				toolResultBlocks = append(toolResultBlocks,
					anthropic.NewToolResultBlock(variant.ID, content, isError))
			}
		}

		if resp.StopReason == anthropic.StopReasonEndTurn {
			return textOutput, nil
		}

		messages = append(messages, anthropic.NewAssistantMessage(assistantBlocks...))
		if len(toolResultBlocks) > 0 {
			messages = append(messages, anthropic.NewUserMessage(toolResultBlocks...))
		}
	}

	return "", fmt.Errorf("max iterations (%d) reached", l.maxIterations)
}

func (l *AgentLoop) invoke(ctx context.Context, inv ToolInvoker, name string, input json.RawMessage) (string, bool) {
	if inv == nil {
		return fmt.Sprintf("no tools available for call %q", name), true
	}
	return inv.Invoke(ctx, name, input)
}

// SimpleCall makes a single API call without tool execution.
func (l *AgentLoop) SimpleCall(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := l.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
		Model:     l.client.Model(),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", err
	}

	l.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var result string
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			result += variant.Text
		}
	}

	return result, nil
}
