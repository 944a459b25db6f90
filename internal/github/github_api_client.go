package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// ErrTreeTruncated is returned by GetTree when the repository tree exceeds
// what the API returns in a single request. Callers treat this as fatal for
// the push being processed.
var ErrTreeTruncated = errors.New("github: tree listing truncated")

// Client is the narrow GitHub surface the rest of the code uses.
type Client interface {
	GetCommit(ctx context.Context, repo, sha string) (Commit, error)
	GetTree(ctx context.Context, repo, sha string) (Tree, error)
	GetBlob(ctx context.Context, repo, sha string) (string, error)
	// GetFileContent returns the decoded file content at ref, or nil when the
	// path does not exist in the repository.
	GetFileContent(ctx context.Context, repo, path, ref string) ([]byte, error)
	SearchIssues(ctx context.Context, query string) (SearchResult, error)
	CreateIssue(ctx context.Context, repo string, issue NewIssue) (Issue, error)
	EditIssueState(ctx context.Context, repo string, number int, state string) error
	CreateComment(ctx context.Context, repo string, number int, body string) error
}

// GitHubAPIClient implements Client using direct GitHub REST API calls.
// It keeps a very small surface area tailored to our needs.
type GitHubAPIClient struct {
	httpClient *http.Client
	baseAPI    string
}

// NewClient builds a REST client. When token is non-empty every request is
// authenticated with it.
func NewClient(baseAPI, token string) GitHubAPIClient {
	if baseAPI == "" {
		baseAPI = "https://api.github.com"
	}
	httpClient := &http.Client{Timeout: 20 * time.Second}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), src)
		httpClient.Timeout = 20 * time.Second
	}
	return GitHubAPIClient{
		httpClient: httpClient,
		baseAPI:    strings.TrimRight(baseAPI, "/"),
	}
}

// ---- Helpers ----

func (c GitHubAPIClient) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseAPI+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

func (c GitHubAPIClient) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("github api %s failed: %s", path, strings.TrimSpace(string(b)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c GitHubAPIClient) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, method, path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bb, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("github api %s failed: %s", path, strings.TrimSpace(string(bb)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func splitRepo(repo string) (owner, name string, err error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo: %s", repo)
	}
	return parts[0], parts[1], nil
}

func decodeBase64Content(content string) (string, error) {
	// The API wraps base64 content at 60 columns.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content, "\n", ""))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ---- Implementations ----

func (c GitHubAPIClient) GetCommit(ctx context.Context, repo, sha string) (Commit, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return Commit{}, err
	}
	var out Commit
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/commits/%s", owner, name, sha), &out); err != nil {
		return Commit{}, err
	}
	return out, nil
}

func (c GitHubAPIClient) GetTree(ctx context.Context, repo, sha string) (Tree, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return Tree{}, err
	}
	var out Tree
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/git/trees/%s?recursive=1", owner, name, sha), &out); err != nil {
		return Tree{}, err
	}
	if out.Truncated {
		return Tree{}, ErrTreeTruncated
	}
	return out, nil
}

type blobResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

func (c GitHubAPIClient) GetBlob(ctx context.Context, repo, sha string) (string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return "", err
	}
	var blob blobResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/git/blobs/%s", owner, name, sha), &blob); err != nil {
		return "", err
	}
	if blob.Encoding != "base64" {
		return blob.Content, nil
	}
	return decodeBase64Content(blob.Content)
}

func (c GitHubAPIClient) GetFileContent(ctx context.Context, repo, path, ref string) ([]byte, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, name, strings.TrimLeft(path, "/"))
	if ref != "" {
		u += "?ref=" + url.QueryEscape(ref)
	}
	resp, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("github api %s failed: %s", u, strings.TrimSpace(string(b)))
	}
	var contents blobResponse
	if err := json.NewDecoder(resp.Body).Decode(&contents); err != nil {
		return nil, err
	}
	decoded, err := decodeBase64Content(contents.Content)
	if err != nil {
		return nil, err
	}
	return []byte(decoded), nil
}

func (c GitHubAPIClient) SearchIssues(ctx context.Context, query string) (SearchResult, error) {
	u := url.URL{Path: "/search/issues"}
	qv := url.Values{}
	qv.Set("q", query)
	qv.Set("per_page", "20")
	u.RawQuery = qv.Encode()
	var out SearchResult
	if err := c.getJSON(ctx, u.String(), &out); err != nil {
		return SearchResult{}, err
	}
	return out, nil
}

func (c GitHubAPIClient) CreateIssue(ctx context.Context, repo string, issue NewIssue) (Issue, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return Issue{}, err
	}
	var out Issue
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/%s/issues", owner, name), issue, &out); err != nil {
		return Issue{}, err
	}
	return out, nil
}

func (c GitHubAPIClient) EditIssueState(ctx context.Context, repo string, number int, state string) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}
	payload := map[string]string{"state": state}
	return c.sendJSON(ctx, http.MethodPatch, fmt.Sprintf("/repos/%s/%s/issues/%d", owner, name, number), payload, nil)
}

func (c GitHubAPIClient) CreateComment(ctx context.Context, repo string, number int, body string) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}
	payload := map[string]string{"body": body}
	return c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/%s/issues/%d/comments", owner, name, number), payload, nil)
}
