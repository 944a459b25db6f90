package todo

import (
	"context"
	"fmt"
	"strings"

	"todo-tracker-backend/internal/github"
)

// fakeGitHub implements github.Client in memory. Search is deliberately
// imprecise: it returns every issue in the repo, like the real endpoint's
// fuzzy matching can.
type fakeGitHub struct {
	parents   map[string]int    // commit sha -> parent count
	files     map[string][]File // commit sha -> changed file contents
	truncated map[string]bool   // commit sha -> tree too large
	configDoc []byte
	searchErr error

	issues      []github.Issue
	nextNumber  int
	searchCalls int

	createCalls  []github.NewIssue
	editCalls    []string // "number:state"
	commentCalls []string
}

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{
		parents:   map[string]int{},
		files:     map[string][]File{},
		truncated: map[string]bool{},
	}
}

func (f *fakeGitHub) GetCommit(ctx context.Context, repo, sha string) (github.Commit, error) {
	n := f.parents[sha]
	if n == 0 {
		n = 1
	}
	refs := make([]github.CommitRef, n)
	for i := range refs {
		refs[i] = github.CommitRef{SHA: fmt.Sprintf("parent-%d", i)}
	}
	return github.Commit{SHA: sha, Parents: refs}, nil
}

func (f *fakeGitHub) GetTree(ctx context.Context, repo, sha string) (github.Tree, error) {
	if f.truncated[sha] {
		return github.Tree{}, github.ErrTreeTruncated
	}
	tree := github.Tree{SHA: sha}
	for _, file := range f.files[sha] {
		tree.Entries = append(tree.Entries, github.TreeEntry{
			Path: file.Path,
			Type: "blob",
			SHA:  sha + ":" + file.Path,
		})
	}
	return tree, nil
}

func (f *fakeGitHub) GetBlob(ctx context.Context, repo, blobSHA string) (string, error) {
	commitSHA, path, ok := strings.Cut(blobSHA, ":")
	if !ok {
		return "", fmt.Errorf("unknown blob %s", blobSHA)
	}
	for _, file := range f.files[commitSHA] {
		if file.Path == path {
			return file.Content, nil
		}
	}
	return "", fmt.Errorf("unknown blob %s", blobSHA)
}

func (f *fakeGitHub) GetFileContent(ctx context.Context, repo, path, ref string) ([]byte, error) {
	return f.configDoc, nil
}

func (f *fakeGitHub) SearchIssues(ctx context.Context, query string) (github.SearchResult, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return github.SearchResult{}, f.searchErr
	}
	items := make([]github.Issue, len(f.issues))
	copy(items, f.issues)
	return github.SearchResult{TotalCount: len(f.issues), Items: items}, nil
}

func (f *fakeGitHub) CreateIssue(ctx context.Context, repo string, issue github.NewIssue) (github.Issue, error) {
	f.createCalls = append(f.createCalls, issue)
	f.nextNumber++
	created := github.Issue{
		Number: f.nextNumber,
		Title:  issue.Title,
		Body:   issue.Body,
		State:  "open",
	}
	f.issues = append(f.issues, created)
	return created, nil
}

func (f *fakeGitHub) EditIssueState(ctx context.Context, repo string, number int, state string) error {
	f.editCalls = append(f.editCalls, fmt.Sprintf("%d:%s", number, state))
	for i := range f.issues {
		if f.issues[i].Number == number {
			f.issues[i].State = state
		}
	}
	return nil
}

func (f *fakeGitHub) CreateComment(ctx context.Context, repo string, number int, body string) error {
	f.commentCalls = append(f.commentCalls, fmt.Sprintf("%d:%s", number, body))
	return nil
}

// seededPlainIssue is an issue a human filed by hand, with no fingerprint.
func seededPlainIssue(number int, title string) github.Issue {
	return github.Issue{Number: number, Title: title, State: "open", Body: "a human filed this by hand"}
}

// seedIssue adds a pre-existing issue carrying one fingerprint entry.
func (f *fakeGitHub) seedIssue(state, title string, fp Fingerprint) github.Issue {
	f.nextNumber++
	issue := github.Issue{
		Number: f.nextNumber,
		Title:  title,
		State:  state,
		Body:   MergeFingerprint("seeded", MatchID("seed", "TODO", f.nextNumber), fp),
	}
	f.issues = append(f.issues, issue)
	return issue
}
