package todo

import (
	"regexp"
	"strings"

	"todo-tracker-backend/internal/github"
)

// File is one changed file's path and full content at the commit.
type File struct {
	Path    string
	Content string
}

// RawMatch is one keyword occurrence extracted from a commit's changed files.
type RawMatch struct {
	Rule      KeywordRule
	File      File
	Title     string
	Ordinal   int
	CommitSHA string
	Author    string
}

// ID returns the stable fingerprint id for this match.
func (m RawMatch) ID() string {
	return MatchID(m.CommitSHA, m.Rule.Keyword, m.Ordinal)
}

// ExtractMatches scans the changed files of one commit for every configured
// keyword rule. The ordinal counts occurrences per rule across the whole
// commit in extraction order, so two occurrences never share an id.
func ExtractMatches(commit github.PushCommit, files []File, cfg Config) []RawMatch {
	var matches []RawMatch
	for _, rule := range cfg.Keywords {
		re := keywordPattern(rule)
		ordinal := 0
		for _, f := range files {
			for _, sub := range re.FindAllStringSubmatch(f.Content, -1) {
				title := cleanTitle(sub[1], cfg.MaxTitleLength)
				if title == "" {
					continue
				}
				matches = append(matches, RawMatch{
					Rule:      rule,
					File:      f,
					Title:     title,
					Ordinal:   ordinal,
					CommitSHA: commit.ID,
					Author:    commit.Author.Username,
				})
				ordinal++
			}
		}
	}
	return matches
}

// keywordPattern matches the keyword token followed by a delimiter and the
// rest of the line. No word-boundary assertion: keywords like "@todo" are
// legal.
func keywordPattern(rule KeywordRule) *regexp.Regexp {
	flags := "(?m)"
	if !rule.CaseSensitive {
		flags = "(?mi)"
	}
	return regexp.MustCompile(flags + regexp.QuoteMeta(rule.Keyword) + `\s*:?\s+(.+)$`)
}

// cleanTitle trims whitespace and trailing comment terminators, then
// truncates to max characters with an ellipsis marker. Everything else in
// the source text survives byte-for-byte.
func cleanTitle(raw string, max int) string {
	title := strings.TrimSpace(raw)
	for _, closer := range []string{"*/", "-->", "#}"} {
		title = strings.TrimSpace(strings.TrimSuffix(title, closer))
	}
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
