package todo

// Action is the lifecycle decision for one raw match.
type Action int

const (
	// ActionSkip leaves everything as it is.
	ActionSkip Action = iota
	// ActionCreate files a new tracking issue.
	ActionCreate
	// ActionReopen sets the existing issue back to open and comments.
	ActionReopen
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionReopen:
		return "reopen"
	default:
		return "skip"
	}
}

// Decide maps a resolver verdict to an action under the reopen policy.
// Pure: all push-level short-circuits are handled before this point.
func Decide(v Verdict, reopenClosed bool) Action {
	switch v {
	case NoMatch:
		return ActionCreate
	case FoundClosed:
		if reopenClosed {
			return ActionReopen
		}
		return ActionSkip
	default:
		return ActionSkip
	}
}

// Assignees selects the assignee set for a created issue: the rule's own
// list wins, then the autoAssign users, then the commit author when
// autoAssign is simply enabled.
func Assignees(rule KeywordRule, auto AutoAssign, commitAuthor string) []string {
	if len(rule.Assignees) > 0 {
		return rule.Assignees
	}
	if len(auto.Users) > 0 {
		return auto.Users
	}
	if auto.Enabled && commitAuthor != "" {
		return []string{commitAuthor}
	}
	return nil
}
