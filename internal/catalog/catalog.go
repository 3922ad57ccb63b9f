// Package catalog holds the static capability catalogue: one profile per
// integration describing how to launch its capability provider and how the
// agent should behave against it. The catalogue is assembled once at startup
// and never mutated afterwards, so it is safe to share across concurrent
// query executions.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/switchboard/pkg/models"
)

// Profile describes one integration's capability provider.
type Profile struct {
	// ID is the integration this profile belongs to.
	ID models.Integration
	// Name is the human-facing display name.
	Name string
	// Description is a one-line description for the catalogue listing.
	Description string
	// Command launches the capability provider process, split on whitespace
	// into argv by the backend execution unit.
	Command string
	// Timeout bounds one agent run against this provider.
	Timeout time.Duration
	// Instructions is the role prompt for the capability-using agent.
	Instructions string
}

// Catalogue is the closed set of integration profiles.
type Catalogue struct {
	profiles map[models.Integration]Profile
}

// New builds a catalogue from the given profiles. Every profile must carry a
// valid integration id and each id may appear at most once.
func New(profiles ...Profile) (*Catalogue, error) {
	m := make(map[models.Integration]Profile, len(profiles))
	for _, p := range profiles {
		if !p.ID.Valid() {
			return nil, fmt.Errorf("profile has unknown integration %q", p.ID)
		}
		if _, dup := m[p.ID]; dup {
			return nil, fmt.Errorf("duplicate profile for integration %q", p.ID)
		}
		if p.Command == "" {
			return nil, fmt.Errorf("profile %s has no launch command", p.ID)
		}
		if p.Timeout <= 0 {
			p.Timeout = defaultTimeout
		}
		m[p.ID] = p
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("catalogue has no profiles")
	}
	return &Catalogue{profiles: m}, nil
}

// Get returns the profile for an integration.
func (c *Catalogue) Get(id models.Integration) (Profile, bool) {
	p, ok := c.profiles[id]
	return p, ok
}

// IDs returns the integrations present in the catalogue, in stable order.
func (c *Catalogue) IDs() []models.Integration {
	ids := make([]models.Integration, 0, len(c.profiles))
	for id := range c.profiles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Profiles returns all profiles ordered by integration id.
func (c *Catalogue) Profiles() []Profile {
	ids := c.IDs()
	out := make([]Profile, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.profiles[id])
	}
	return out
}

const defaultTimeout = 60 * time.Second

// Default returns the built-in catalogue. Launch commands point at the
// provider scripts shipped alongside the service and can be overridden via
// configuration.
func Default() *Catalogue {
	c, err := New(
		Profile{
			ID:          models.IntegrationIssueTracker,
			Name:        "Issue Tracker",
			Description: "Issue tracking and project management",
			Command:     "switchboard-mcp-issues",
			Timeout:     30 * time.Second,
			Instructions: `You are an issue tracker operations agent. Use the issue tracker tools for:
- Issue tracking and management
- Sprint and project management
- User and permission management
- Workflow and status tracking
Always use the issue tracker tools for issue-related queries.`,
		},
		Profile{
			ID:          models.IntegrationKnowledgeBase,
			Name:        "Knowledge Base",
			Description: "Documentation and knowledge base",
			Command:     "switchboard-mcp-docs",
			Timeout:     defaultTimeout,
			Instructions: `You are a knowledge base operations agent. Use the knowledge base tools for:
- Documentation search and retrieval
- Space and page management
- Knowledge base queries
- Content analysis
Always search the knowledge base rather than answering from internal knowledge.`,
		},
		Profile{
			ID:          models.IntegrationSourceControl,
			Name:        "Source Control",
			Description: "Code repositories and reviews",
			Command:     "switchboard-mcp-code",
			Timeout:     defaultTimeout,
			Instructions: `You are a source control operations agent. Use the source control tools for:
- Repository management
- Pull request operations
- Code review analysis
- Commit and branch tracking
Always use the source control tools for repository-related queries.`,
		},
	)
	if err != nil {
		// The built-in profiles are statically valid.
		panic(err)
	}
	return c
}

// fileProfile is the YAML shape of one profile override. Timeouts are
// duration strings like "45s".
type fileProfile struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Command      string `yaml:"command"`
	Timeout      string `yaml:"timeout"`
	Instructions string `yaml:"instructions"`
}

// LoadFile reads a catalogue file and applies it on top of the defaults.
// Only the fields present in the file replace the built-in values; unknown
// integration keys are rejected.
func LoadFile(path string) (*Catalogue, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}

	var file map[string]fileProfile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalogue %s: %w", path, err)
	}

	base := Default()
	for key, fp := range file {
		id, err := models.ParseIntegration(key)
		if err != nil {
			return nil, fmt.Errorf("catalogue %s: %w", path, err)
		}
		p := base.profiles[id]
		if fp.Name != "" {
			p.Name = fp.Name
		}
		if fp.Description != "" {
			p.Description = fp.Description
		}
		if fp.Command != "" {
			p.Command = fp.Command
		}
		if fp.Timeout != "" {
			d, err := time.ParseDuration(fp.Timeout)
			if err != nil {
				return nil, fmt.Errorf("catalogue %s: %s timeout: %w", path, key, err)
			}
			p.Timeout = d
		}
		if fp.Instructions != "" {
			p.Instructions = fp.Instructions
		}
		base.profiles[id] = p
	}
	return base, nil
}
