package todo

import (
	"context"
	"fmt"

	"todo-tracker-backend/internal/github"
)

// Verdict is the duplicate resolver's answer for one raw match.
type Verdict int

const (
	// NoMatch means no existing issue carries this marker's fingerprint.
	NoMatch Verdict = iota
	// FoundOpen means an open issue already tracks this marker.
	FoundOpen
	// FoundClosed means a closed issue tracks this marker.
	FoundClosed
)

func (v Verdict) String() string {
	switch v {
	case FoundOpen:
		return "found_open"
	case FoundClosed:
		return "found_closed"
	default:
		return "no_match"
	}
}

// Resolution is a verdict plus the issue it refers to, when there is one.
type Resolution struct {
	Verdict Verdict
	Issue   github.Issue
}

// Resolver decides whether a raw match already has a tracking issue.
type Resolver struct {
	gh github.Client
}

func NewResolver(gh github.Client) Resolver {
	return Resolver{gh: gh}
}

// Resolve searches for the match's title and structurally verifies each
// candidate through its embedded fingerprints. Text similarity alone is not
// proof of identity: the decoded (title, file) pair must equal the match's
// exactly. Search failures propagate; a match cannot be resolved without the
// search step.
func (r Resolver) Resolve(ctx context.Context, repo string, m RawMatch) (Resolution, error) {
	result, err := r.gh.SearchIssues(ctx, searchQuery(repo, m.Title))
	if err != nil {
		return Resolution{}, fmt.Errorf("search issues: %w", err)
	}
	if result.TotalCount == 0 {
		// Empty repo short-circuit: nothing to decode.
		return Resolution{Verdict: NoMatch}, nil
	}
	for _, issue := range result.Items {
		for _, fp := range DecodeFingerprints(issue.Body) {
			if fp.Title == m.Title && fp.File == m.File.Path {
				verdict := FoundOpen
				if issue.State == "closed" {
					verdict = FoundClosed
				}
				return Resolution{Verdict: verdict, Issue: issue}, nil
			}
		}
	}
	return Resolution{Verdict: NoMatch}, nil
}

func searchQuery(repo, title string) string {
	return fmt.Sprintf("%q in:title repo:%s type:issue", title, repo)
}
