package todo

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	defaultKeyword        = "TODO"
	defaultLabel          = "todo"
	defaultMaxTitleLength = 70
)

// KeywordRule is one configured marker keyword with its issue settings.
type KeywordRule struct {
	Keyword       string     `yaml:"keyword"`
	Labels        StringList `yaml:"label"`
	Assignees     StringList `yaml:"assignees"`
	CaseSensitive bool       `yaml:"caseSensitive"`
}

// Config is the per-repository settings document, fetched from the repo
// itself and merged over built-in defaults.
type Config struct {
	Keywords       []KeywordRule `yaml:"keywords"`
	AutoAssign     AutoAssign    `yaml:"autoAssign"`
	ReopenClosed   *bool         `yaml:"reopenClosed"`
	MaxTitleLength int           `yaml:"maxTitleLength"`
}

// StringList accepts either a YAML scalar or a sequence of scalars.
type StringList []string

func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var one string
		if err := value.Decode(&one); err != nil {
			return err
		}
		if one != "" {
			*s = StringList{one}
		}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*s = StringList(many)
		return nil
	default:
		return fmt.Errorf("expected string or list, got yaml kind %d", value.Kind)
	}
}

// AutoAssign accepts false, true, a username, or a list of usernames.
// true means "assign the commit author".
type AutoAssign struct {
	Enabled bool
	Users   []string
}

func (a *AutoAssign) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var b bool
		if err := value.Decode(&b); err == nil {
			a.Enabled = b
			a.Users = nil
			return nil
		}
		var user string
		if err := value.Decode(&user); err != nil {
			return err
		}
		if user != "" {
			a.Enabled = true
			a.Users = []string{user}
		}
		return nil
	}
	if value.Kind == yaml.SequenceNode {
		var users []string
		if err := value.Decode(&users); err != nil {
			return err
		}
		a.Enabled = len(users) > 0
		a.Users = users
		return nil
	}
	return fmt.Errorf("autoAssign must be a bool, string, or list of strings")
}

// DefaultConfig is the configuration used when a repository has no settings
// document: one case-insensitive TODO rule, auto-assign off, reopen on.
func DefaultConfig() Config {
	return Config{
		Keywords: []KeywordRule{
			{Keyword: defaultKeyword, Labels: StringList{defaultLabel}},
		},
		MaxTitleLength: defaultMaxTitleLength,
	}
}

// ParseConfig decodes a settings document and fills in defaults. A nil or
// empty document yields DefaultConfig.
func ParseConfig(b []byte) (Config, error) {
	cfg := Config{}
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse settings document: %w", err)
		}
	}
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = DefaultConfig().Keywords
	}
	if cfg.MaxTitleLength <= 0 {
		cfg.MaxTitleLength = defaultMaxTitleLength
	}
	return cfg, nil
}

// Reopen reports whether closed issues should be reopened when their marker
// reappears. Defaults to true when the document does not set it.
func (c Config) Reopen() bool {
	if c.ReopenClosed == nil {
		return true
	}
	return *c.ReopenClosed
}
