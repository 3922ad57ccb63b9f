// Package backend owns the lifecycle of one capability-provider subprocess
// for one query: launch and connect, discover tools, run the agent under the
// profile's deadline, and always tear the provider down again.
package backend

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ShayCichocki/switchboard/internal/api"
	"github.com/ShayCichocki/switchboard/internal/catalog"
)

// Engine runs the capability-using agent. Satisfied by *api.AgentLoop.
type Engine interface {
	RunWithTools(ctx context.Context, systemPrompt, userPrompt string, inv api.ToolInvoker) (string, error)
}

// Runner executes queries against capability providers.
type Runner struct {
	engine Engine
	logger *slog.Logger

	// dial establishes the provider session. Overridable in tests.
	dial func(ctx context.Context, profile catalog.Profile) (*mcp.ClientSession, error)
}

// NewRunner creates a backend runner.
func NewRunner(engine Engine, logger *slog.Logger) *Runner {
	r := &Runner{engine: engine, logger: logger}
	r.dial = r.dialCommand
	return r
}

// dialCommand launches the profile's provider command and connects over its
// stdio control channel.
func (r *Runner) dialCommand(ctx context.Context, profile catalog.Profile) (*mcp.ClientSession, error) {
	argv := strings.Fields(profile.Command)
	if len(argv) == 0 {
		return nil, errors.New("empty launch command")
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "switchboard",
		Version: "1.0.0",
	}, nil)

	transport := &mcp.CommandTransport{
		Command: exec.CommandContext(ctx, argv[0], argv[1:]...),
	}
	return client.Connect(ctx, transport, nil)
}

// Run answers one query against one integration's capability provider.
// The provider is released on every exit path; a failed close is logged and
// never masks the primary outcome.
func (r *Runner) Run(ctx context.Context, profile catalog.Profile, query, convContext string) (string, error) {
	logger := r.logger.With("integration", string(profile.ID))

	return r.withSession(ctx, profile, logger, func(session *mcp.ClientSession) (string, error) {
		tools := newSessionTools(ctx, session, logger)

		instructions := profile.Instructions
		if convContext != "" {
			instructions += "\n\nConversation Context:\n" + convContext
		}

		runCtx, cancel := context.WithTimeout(ctx, profile.Timeout)
		defer cancel()

		start := time.Now()
		answer, err := r.engine.RunWithTools(runCtx, instructions, query, tools)
		if err != nil {
			if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
				return "", &Error{
					Integration: profile.ID,
					Kind:        FailTimeout,
					Err:         err,
				}
			}
			return "", &Error{
				Integration: profile.ID,
				Kind:        FailExecution,
				Err:         err,
			}
		}

		logger.Info("agent run completed", "duration", time.Since(start))
		return strings.TrimSpace(answer), nil
	})
}

// withSession scopes the provider session around fn: the session is
// established before fn runs and closed on every way out of it.
func (r *Runner) withSession(ctx context.Context, profile catalog.Profile, logger *slog.Logger, fn func(*mcp.ClientSession) (string, error)) (string, error) {
	session, err := r.dial(ctx, profile)
	if err != nil {
		return "", &Error{
			Integration: profile.ID,
			Kind:        FailConnect,
			Err:         err,
		}
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Warn("closing provider session failed", "error", cerr)
		}
	}()

	return fn(session)
}
