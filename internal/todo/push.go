package todo

import (
	"context"
	"errors"
	"fmt"
	"log"

	"todo-tracker-backend/internal/github"
)

// Push outcomes recorded in summaries. Everything except OutcomeProcessed is
// a defined no-op condition, not an error.
const (
	OutcomeProcessed     = "processed"
	OutcomeNoHeadCommit  = "no_head_commit"
	OutcomeMergeCommit   = "merge_commit"
	OutcomeTreeTruncated = "tree_truncated"
)

// Summary aggregates what one push produced.
type Summary struct {
	Created  int    `json:"created"`
	Reopened int    `json:"reopened"`
	Skipped  int    `json:"skipped"`
	Outcome  string `json:"outcome"`
}

// Processor drives the per-commit, per-match loop over a push event.
type Processor struct {
	gh         github.Client
	resolver   Resolver
	configPath string
}

func NewProcessor(gh github.Client, configPath string) *Processor {
	return &Processor{gh: gh, resolver: NewResolver(gh), configPath: configPath}
}

type commitFiles struct {
	commit github.PushCommit
	files  []File
}

// HandlePush processes one push event end to end. Matches are handled
// sequentially so an issue created for an earlier match is visible to the
// duplicate check of a later one. A failed match aborts the push with the
// partial summary; actions already taken are not rolled back.
func (p *Processor) HandlePush(ctx context.Context, payload github.PushPayload) (Summary, error) {
	repo := payload.Repository.FullName
	if payload.HeadCommit == nil {
		log.Printf("[push] %s: no head commit, nothing to do", repo)
		return Summary{Outcome: OutcomeNoHeadCommit}, nil
	}
	head, err := p.gh.GetCommit(ctx, repo, payload.HeadCommit.ID)
	if err != nil {
		return Summary{}, fmt.Errorf("get head commit: %w", err)
	}
	if len(head.Parents) > 1 {
		log.Printf("[push] %s: head %s is a merge commit, skipping", repo, shortSHA(head.SHA))
		return Summary{Outcome: OutcomeMergeCommit}, nil
	}

	cfg := p.loadConfig(ctx, repo, payload.HeadCommit.ID)

	// Fetch all file contents before taking any action, so a truncated tree
	// anywhere in the push yields zero actions rather than a partial run.
	batches := make([]commitFiles, 0, len(payload.Commits))
	for _, commit := range payload.Commits {
		files, err := p.changedFiles(ctx, repo, commit)
		if errors.Is(err, github.ErrTreeTruncated) {
			log.Printf("[push] %s: tree for %s is too large, dropping push", repo, shortSHA(commit.ID))
			return Summary{Outcome: OutcomeTreeTruncated}, nil
		}
		if err != nil {
			return Summary{}, fmt.Errorf("fetch files for %s: %w", shortSHA(commit.ID), err)
		}
		batches = append(batches, commitFiles{commit: commit, files: files})
	}

	summary := Summary{Outcome: OutcomeProcessed}
	for _, batch := range batches {
		for _, m := range ExtractMatches(batch.commit, batch.files, cfg) {
			if err := p.handleMatch(ctx, repo, m, cfg, &summary); err != nil {
				return summary, err
			}
		}
	}
	log.Printf("[push] %s: created=%d reopened=%d skipped=%d", repo, summary.Created, summary.Reopened, summary.Skipped)
	return summary, nil
}

func (p *Processor) handleMatch(ctx context.Context, repo string, m RawMatch, cfg Config, summary *Summary) error {
	res, err := p.resolver.Resolve(ctx, repo, m)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", m.Title, err)
	}
	switch Decide(res.Verdict, cfg.Reopen()) {
	case ActionCreate:
		issue := github.NewIssue{
			Title:     m.Title,
			Body:      issueBody(m),
			Labels:    m.Rule.Labels,
			Assignees: Assignees(m.Rule, cfg.AutoAssign, m.Author),
		}
		created, err := p.gh.CreateIssue(ctx, repo, issue)
		if err != nil {
			return fmt.Errorf("create issue %q: %w", m.Title, err)
		}
		log.Printf("[push] %s: created issue #%d %q", repo, created.Number, m.Title)
		summary.Created++
	case ActionReopen:
		if err := p.gh.EditIssueState(ctx, repo, res.Issue.Number, "open"); err != nil {
			return fmt.Errorf("reopen issue #%d: %w", res.Issue.Number, err)
		}
		if err := p.gh.CreateComment(ctx, repo, res.Issue.Number, reopenComment(m)); err != nil {
			return fmt.Errorf("comment on issue #%d: %w", res.Issue.Number, err)
		}
		log.Printf("[push] %s: reopened issue #%d %q", repo, res.Issue.Number, m.Title)
		summary.Reopened++
	default:
		summary.Skipped++
	}
	return nil
}

// changedFiles retrieves the contents of every added or modified file in one
// commit, via the commit's recursive tree and blob fetches.
func (p *Processor) changedFiles(ctx context.Context, repo string, commit github.PushCommit) ([]File, error) {
	candidates := append(append([]string{}, commit.Added...), commit.Modified...)
	paths := make([]string, 0, len(candidates))
	for _, path := range candidates {
		// The settings document configures the bot; markers inside it are
		// not tracked.
		if path == p.configPath {
			continue
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil, nil
	}
	tree, err := p.gh.GetTree(ctx, repo, commit.ID)
	if err != nil {
		return nil, err
	}
	blobs := make(map[string]string, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.Type == "blob" {
			blobs[entry.Path] = entry.SHA
		}
	}
	files := make([]File, 0, len(paths))
	for _, path := range paths {
		sha, ok := blobs[path]
		if !ok {
			continue
		}
		content, err := p.gh.GetBlob(ctx, repo, sha)
		if err != nil {
			return nil, fmt.Errorf("get blob %s: %w", path, err)
		}
		files = append(files, File{Path: path, Content: content})
	}
	return files, nil
}

// loadConfig fetches the repository's settings document at the head commit.
// Absent or broken documents fall back to the defaults.
func (p *Processor) loadConfig(ctx context.Context, repo, ref string) Config {
	b, err := p.gh.GetFileContent(ctx, repo, p.configPath, ref)
	if err != nil {
		log.Printf("[push] %s: reading %s failed, using defaults: %v", repo, p.configPath, err)
		return DefaultConfig()
	}
	cfg, err := ParseConfig(b)
	if err != nil {
		log.Printf("[push] %s: %s is malformed, using defaults: %v", repo, p.configPath, err)
		return DefaultConfig()
	}
	return cfg
}

func issueBody(m RawMatch) string {
	text := fmt.Sprintf("`%s` marker found in `%s` at commit %s.", m.Rule.Keyword, m.File.Path, shortSHA(m.CommitSHA))
	return MergeFingerprint(text, m.ID(), Fingerprint{Title: m.Title, File: m.File.Path})
}

func reopenComment(m RawMatch) string {
	return fmt.Sprintf("Reopening: the `%s` marker for this issue appeared again in `%s` at commit %s.",
		m.Rule.Keyword, m.File.Path, shortSHA(m.CommitSHA))
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
