package todo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMatch(title, file string) RawMatch {
	return RawMatch{
		Rule:      KeywordRule{Keyword: "TODO"},
		File:      File{Path: file},
		Title:     title,
		CommitSHA: "f00dface",
	}
}

func TestResolveEmptyRepoShortCircuit(t *testing.T) {
	f := newFakeGitHub()
	r := NewResolver(f)

	res, err := r.Resolve(context.Background(), "octo/repo", testMatch("fix it", "a.go"))
	require.NoError(t, err)
	assert.Equal(t, NoMatch, res.Verdict)
	assert.Equal(t, 1, f.searchCalls)
}

func TestResolveTextSimilarityIsNotIdentity(t *testing.T) {
	f := newFakeGitHub()
	// Same title in search results, but no fingerprint block at all.
	f.issues = append(f.issues, seededPlainIssue(1, "fix it"))
	r := NewResolver(f)

	res, err := r.Resolve(context.Background(), "octo/repo", testMatch("fix it", "a.go"))
	require.NoError(t, err)
	assert.Equal(t, NoMatch, res.Verdict)
}

func TestResolveFingerprintMustMatchTitleAndFile(t *testing.T) {
	f := newFakeGitHub()
	f.seedIssue("open", "fix it", Fingerprint{Title: "fix it", File: "other.go"})
	r := NewResolver(f)

	// Same title, different file: not the same marker.
	res, err := r.Resolve(context.Background(), "octo/repo", testMatch("fix it", "a.go"))
	require.NoError(t, err)
	assert.Equal(t, NoMatch, res.Verdict)
}

func TestResolveFoundOpen(t *testing.T) {
	f := newFakeGitHub()
	seeded := f.seedIssue("open", "fix it", Fingerprint{Title: "fix it", File: "a.go"})
	r := NewResolver(f)

	res, err := r.Resolve(context.Background(), "octo/repo", testMatch("fix it", "a.go"))
	require.NoError(t, err)
	assert.Equal(t, FoundOpen, res.Verdict)
	assert.Equal(t, seeded.Number, res.Issue.Number)
}

func TestResolveFoundClosed(t *testing.T) {
	f := newFakeGitHub()
	f.seedIssue("closed", "fix it", Fingerprint{Title: "fix it", File: "a.go"})
	r := NewResolver(f)

	res, err := r.Resolve(context.Background(), "octo/repo", testMatch("fix it", "a.go"))
	require.NoError(t, err)
	assert.Equal(t, FoundClosed, res.Verdict)
}

func TestResolveSearchErrorPropagates(t *testing.T) {
	f := newFakeGitHub()
	f.searchErr = errors.New("boom")
	r := NewResolver(f)

	_, err := r.Resolve(context.Background(), "octo/repo", testMatch("fix it", "a.go"))
	assert.Error(t, err)
}
