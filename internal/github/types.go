package github

// PushPayload is the subset of the GitHub push webhook payload we act on.
type PushPayload struct {
	Ref        string       `json:"ref"`
	Repository Repository   `json:"repository"`
	Commits    []PushCommit `json:"commits"`
	HeadCommit *PushCommit  `json:"head_commit"`
}

type Repository struct {
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
}

// PushCommit describes one commit as delivered in a push payload, including
// the changed-path lists GitHub computes for us.
type PushCommit struct {
	ID       string       `json:"id"`
	Message  string       `json:"message"`
	Author   CommitAuthor `json:"author"`
	Added    []string     `json:"added"`
	Modified []string     `json:"modified"`
	Removed  []string     `json:"removed"`
}

type CommitAuthor struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Commit is the git data view of a commit. Parents are not part of the push
// payload, so merge detection needs this separate lookup.
type Commit struct {
	SHA     string      `json:"sha"`
	Parents []CommitRef `json:"parents"`
}

type CommitRef struct {
	SHA string `json:"sha"`
}

// Tree is a recursive git tree listing. Truncated is set by the API when the
// tree was too large to return in one response.
type Tree struct {
	SHA       string      `json:"sha"`
	Entries   []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

// Issue holds the minimal issue metadata the duplicate check needs.
type Issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`
}

// SearchResult is the issue-search response envelope.
type SearchResult struct {
	TotalCount int     `json:"total_count"`
	Items      []Issue `json:"items"`
}

// NewIssue is the issue-creation request body.
type NewIssue struct {
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Labels    []string `json:"labels,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
}
