package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ShayCichocki/switchboard/internal/api"
)

// sessionTools exposes the tools of one MCP session to the agent loop.
type sessionTools struct {
	session *mcp.ClientSession
	tools   []anthropic.ToolUnionParam
	logger  *slog.Logger
}

// newSessionTools enumerates the session's tool catalogue and converts it to
// Anthropic tool definitions. Enumeration is best-effort: on failure the run
// proceeds with no advertised tools, letting the model answer without them.
func newSessionTools(ctx context.Context, session *mcp.ClientSession, logger *slog.Logger) *sessionTools {
	st := &sessionTools{session: session, logger: logger}

	listed, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		logger.Warn("could not enumerate provider tools",
			"kind", string(FailDiscovery), "error", err)
		return st
	}

	for _, tool := range listed.Tools {
		st.tools = append(st.tools, toolParam(tool))
	}
	logger.Debug("provider tools discovered", "count", len(st.tools))
	return st
}

// toolParam converts one MCP tool declaration into the Anthropic schema form.
func toolParam(tool *mcp.Tool) anthropic.ToolUnionParam {
	schema := anthropic.ToolInputSchemaParam{}
	if tool.InputSchema != nil {
		// The MCP SDK carries JSON Schema; round-trip through JSON to pull
		// out the fields the Anthropic API accepts.
		if raw, err := json.Marshal(tool.InputSchema); err == nil {
			var parsed struct {
				Properties map[string]interface{} `json:"properties"`
				Required   []string               `json:"required"`
			}
			if json.Unmarshal(raw, &parsed) == nil {
				schema.Properties = parsed.Properties
				schema.Required = parsed.Required
			}
		}
	}

	return anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        tool.Name,
			Description: anthropic.String(tool.Description),
			InputSchema: schema,
		},
	}
}

// Tools implements api.ToolInvoker.
func (s *sessionTools) Tools() []anthropic.ToolUnionParam {
	return s.tools
}

// Invoke implements api.ToolInvoker by forwarding the call to the provider.
func (s *sessionTools) Invoke(ctx context.Context, name string, input json.RawMessage) (string, bool) {
	args := map[string]interface{}{}
	if len(input) > 0 {
		if err := json.Unmarshal(input, &args); err != nil {
			return fmt.Sprintf("invalid arguments for %s: %v", name, err), true
		}
	}

	result, err := s.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return fmt.Sprintf("tool %s failed: %v", name, err), true
	}

	var sb strings.Builder
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String(), result.IsError
}

var _ api.ToolInvoker = (*sessionTools)(nil)
