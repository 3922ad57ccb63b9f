// Package classify routes free-text queries to the integrations that can
// answer them. Classification is pure keyword/pattern scoring: it never
// fails, never returns an empty set, and has no hidden state, so the same
// query always classifies the same way.
package classify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ShayCichocki/switchboard/pkg/models"
)

// keywordTable holds the scoring vocabulary for one integration.
// Primary keywords score 3, secondary keywords score 1; both are matched
// as substrings of the lower-cased query.
type keywordTable struct {
	primary   []string
	secondary []string
}

// keywords is the single source of truth for integration routing vocabulary.
var keywords = map[models.Integration]keywordTable{
	models.IntegrationIssueTracker: {
		primary:   []string{"issue", "ticket", "sprint", "epic", "story", "bug", "task"},
		secondary: []string{"assignee", "priority", "workflow", "project", "board", "backlog"},
	},
	models.IntegrationKnowledgeBase: {
		primary:   []string{"documentation", "wiki", "page", "space", "knowledge"},
		secondary: []string{"guide", "manual", "procedure", "policy", "how-to", "tutorial"},
	},
	models.IntegrationSourceControl: {
		primary:   []string{"repository", "repo", "pull request", "pr", "commit", "branch"},
		secondary: []string{"code review", "merge", "git", "source code", "version control"},
	},
}

// patterns score 2 per match on the lower-cased query. They catch shapes that
// plain keywords miss, like ticket keys and question phrasing.
var patterns = map[models.Integration][]*regexp.Regexp{
	models.IntegrationIssueTracker: {
		regexp.MustCompile(`\b[a-z]{2,}-\d+\b`), // ticket keys like abc-123
		regexp.MustCompile(`create.*(?:issue|ticket|story)`),
		regexp.MustCompile(`assign.*to`),
		regexp.MustCompile(`sprint.*\d+`),
	},
	models.IntegrationKnowledgeBase: {
		regexp.MustCompile(`search.*(?:documentation|wiki)`),
		regexp.MustCompile(`how\s+(?:to|do|can)`),
		regexp.MustCompile(`documentation.*about`),
		regexp.MustCompile(`find.*(?:page|guide)`),
	},
	models.IntegrationSourceControl: {
		regexp.MustCompile(`pull\s+request`),
		regexp.MustCompile(`code\s+review`),
		regexp.MustCompile(`commit.*analysis`),
		regexp.MustCompile(`repository.*[a-z0-9_]+/[a-z0-9_-]+`),
	},
}

// fallback vocabulary used when no integration scores confidently. Each
// check is independent, so zero, one, or several integrations may match.
var fallback = map[models.Integration][]string{
	models.IntegrationKnowledgeBase: {"find", "search", "documentation", "how"},
	models.IntegrationIssueTracker:  {"issue", "bug", "task"},
	models.IntegrationSourceControl: {"code", "repository", "commit"},
}

// Classify scores the query against every integration and returns the
// relevant set. The selection threshold is relative to the strongest signal:
// a clear single-integration query stays single, while a genuinely ambiguous
// query is intentionally sent to every integration that scores close to the
// leader.
func Classify(query string) []models.Integration {
	lower := strings.ToLower(query)

	scores := make(map[models.Integration]int, len(keywords))
	for id, table := range keywords {
		score := 0
		for _, kw := range table.primary {
			if strings.Contains(lower, kw) {
				score += 3
			}
		}
		for _, kw := range table.secondary {
			if strings.Contains(lower, kw) {
				score += 1
			}
		}
		for _, re := range patterns[id] {
			if re.MatchString(lower) {
				score += 2
			}
		}
		scores[id] = score
	}

	maxScore := 0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}

	selected := make(map[models.Integration]bool)
	if maxScore >= 2 {
		// Keep every integration within half of the strongest signal,
		// ties included.
		threshold := maxScore / 2
		if maxScore%2 != 0 {
			threshold++ // ceil(max * 0.5)
		}
		if threshold < 1 {
			threshold = 1
		}
		for id, s := range scores {
			if s >= threshold {
				selected[id] = true
			}
		}
	} else {
		for id, words := range fallback {
			for _, w := range words {
				if strings.Contains(lower, w) {
					selected[id] = true
					break
				}
			}
		}
	}

	if len(selected) == 0 {
		selected[models.IntegrationKnowledgeBase] = true
	}

	out := make([]models.Integration, 0, len(selected))
	for id := range selected {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
