// Package orchestrator coordinates one query across the selected
// integrations: classify, fan out one backend execution per integration,
// collect keyed outcomes, and synthesize when more than one answered.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/ShayCichocki/switchboard/internal/catalog"
	"github.com/ShayCichocki/switchboard/internal/classify"
	"github.com/ShayCichocki/switchboard/internal/history"
	"github.com/ShayCichocki/switchboard/pkg/models"
)

// BackendRunner executes one query against one integration's provider.
// Satisfied by *backend.Runner.
type BackendRunner interface {
	Run(ctx context.Context, profile catalog.Profile, query, convContext string) (string, error)
}

// Synthesizer merges multiple per-integration outcome texts into one answer.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, responses map[models.Integration]string, convContext string) (string, error)
}

// Orchestrator holds the capability catalogue and the collaborators for one
// deployment. It carries no per-query state; Execute may be called
// concurrently.
type Orchestrator struct {
	catalogue *catalog.Catalogue
	runner    BackendRunner
	synth     Synthesizer
	logger    *slog.Logger
}

// New creates an orchestrator.
func New(catalogue *catalog.Catalogue, runner BackendRunner, synth Synthesizer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		catalogue: catalogue,
		runner:    runner,
		synth:     synth,
		logger:    logger,
	}
}

// Suggest returns the classifier's integration suggestion for a query.
func (o *Orchestrator) Suggest(query string) []models.Integration {
	return classify.Classify(query)
}

// Execute runs one query. When selected is empty the classifier picks the
// integration set. Per-integration failures are recorded as that
// integration's outcome and never abort the query; the only hard errors are
// invalid input.
func (o *Orchestrator) Execute(ctx context.Context, query string, selected []models.Integration, turns []models.ConversationTurn) (*models.QueryResult, error) {
	profiles, err := o.resolve(selected)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		for _, id := range classify.Classify(query) {
			p, ok := o.catalogue.Get(id)
			if !ok {
				// Classifier output is always catalogued.
				return nil, fmt.Errorf("classifier suggested uncatalogued integration %q", id)
			}
			profiles = append(profiles, p)
		}
	}

	convContext := history.BuildContext(turns)
	outcomes := o.fanOut(ctx, query, convContext, profiles)

	used := make([]models.Integration, 0, len(profiles))
	for _, p := range profiles {
		used = append(used, p.ID)
	}
	sort.Slice(used, func(i, j int) bool { return used[i] < used[j] })

	responses := make(map[models.Integration]string, len(outcomes))
	for id, outcome := range outcomes {
		responses[id] = outcome.Text()
	}

	return &models.QueryResult{
		Query:     query,
		Used:      used,
		Responses: responses,
		Synthesis: o.finalAnswer(ctx, query, convContext, responses),
		Suggested: classify.Classify(query),
	}, nil
}

// resolve validates the caller-selected integrations against the catalogue.
func (o *Orchestrator) resolve(selected []models.Integration) ([]catalog.Profile, error) {
	profiles := make([]catalog.Profile, 0, len(selected))
	for _, id := range selected {
		if !id.Valid() {
			return nil, fmt.Errorf("unknown integration %q", id)
		}
		p, ok := o.catalogue.Get(id)
		if !ok {
			return nil, fmt.Errorf("integration %q is not configured", id)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// fanOut runs one backend execution per profile and collects outcomes keyed
// by integration id. Executions run concurrently; each integration's failure
// is recorded in its own outcome and is invisible to its siblings.
func (o *Orchestrator) fanOut(ctx context.Context, query, convContext string, profiles []catalog.Profile) map[models.Integration]models.Outcome {
	outcomes := make(map[models.Integration]models.Outcome, len(profiles))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, profile := range profiles {
		wg.Add(1)
		go func(profile catalog.Profile) {
			defer wg.Done()

			answer, err := o.runner.Run(ctx, profile, query, convContext)
			outcome := models.Outcome{Integration: profile.ID, Answer: answer, Err: err}
			if err != nil {
				outcome.Answer = ""
				o.logger.Warn("integration execution failed",
					"integration", string(profile.ID), "error", err)
			}

			mu.Lock()
			outcomes[profile.ID] = outcome
			mu.Unlock()
		}(profile)
	}
	wg.Wait()

	return outcomes
}

// finalAnswer reduces the outcome texts to the answer returned to the caller.
// A single outcome passes through untouched; multiple outcomes, successes
// and error strings alike, are synthesized. A synthesis failure becomes a
// labeled error string while the per-integration outcomes stay intact.
func (o *Orchestrator) finalAnswer(ctx context.Context, query, convContext string, responses map[models.Integration]string) string {
	if len(responses) == 1 {
		for _, text := range responses {
			return text
		}
	}

	merged, err := o.synth.Synthesize(ctx, query, responses, convContext)
	if err != nil {
		o.logger.Warn("synthesis failed", "error", err)
		return "Synthesis error: " + err.Error()
	}
	return merged
}
