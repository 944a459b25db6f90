package todo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name         string
		verdict      Verdict
		reopenClosed bool
		want         Action
	}{
		{"no match creates", NoMatch, true, ActionCreate},
		{"no match creates regardless of policy", NoMatch, false, ActionCreate},
		{"open skips", FoundOpen, true, ActionSkip},
		{"closed reopens under default policy", FoundClosed, true, ActionReopen},
		{"closed stays closed when reopen disabled", FoundClosed, false, ActionSkip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.verdict, tt.reopenClosed))
		})
	}
}

func TestAssignees(t *testing.T) {
	tests := []struct {
		name   string
		rule   KeywordRule
		auto   AutoAssign
		author string
		want   []string
	}{
		{"nothing configured", KeywordRule{}, AutoAssign{}, "octocat", nil},
		{"rule list wins", KeywordRule{Assignees: StringList{"carol"}}, AutoAssign{Enabled: true, Users: []string{"alice"}}, "octocat", []string{"carol"}},
		{"auto users", KeywordRule{}, AutoAssign{Enabled: true, Users: []string{"alice", "bob"}}, "octocat", []string{"alice", "bob"}},
		{"auto true takes commit author", KeywordRule{}, AutoAssign{Enabled: true}, "octocat", []string{"octocat"}},
		{"auto true with unknown author", KeywordRule{}, AutoAssign{Enabled: true}, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Assignees(tt.rule, tt.auto, tt.author))
		})
	}
}
