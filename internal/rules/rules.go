// README: Rule data (policy, intents, extraction, fallback, sanctions) loaded from YAML.
package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var ErrInvalidRules = errors.New("invalid rules")

// Predicate matches when every All pattern matches and, if Any is non-empty,
// at least one Any pattern matches. An empty predicate matches everything.
type Predicate struct {
	All []string `yaml:"all"`
	Any []string `yaml:"any"`

	all []*regexp.Regexp
	any []*regexp.Regexp
}

func (p *Predicate) compile() error {
	var err error
	if p.all, err = compileAll(p.All); err != nil {
		return err
	}
	p.any, err = compileAll(p.Any)
	return err
}

func (p *Predicate) Match(s string) bool {
	for _, re := range p.all {
		if !re.MatchString(s) {
			return false
		}
	}
	if len(p.any) == 0 {
		return true
	}
	for _, re := range p.any {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

type PolicyRule struct {
	Violation string `yaml:"violation"`
	Predicate `yaml:",inline"`
}

// Context conditions for intent rules.
const (
	ContextAny        = ""
	ContextComplete   = "complete"
	ContextIncomplete = "incomplete"
)

type IntentRule struct {
	Intent    string `yaml:"intent"`
	Context   string `yaml:"context"`
	Predicate `yaml:",inline"`
}

// Applies reports whether the rule's context condition holds.
func (r IntentRule) Applies(complete bool) bool {
	switch r.Context {
	case ContextComplete:
		return complete
	case ContextIncomplete:
		return !complete
	}
	return true
}

type FallbackRule struct {
	Intent    string `yaml:"intent"`
	Text      string `yaml:"text"`
	Predicate `yaml:",inline"`
}

// PatternRule captures a value and renders it through Format (regexp
// template syntax). Case is applied to the captured groups: upper (default),
// lower or title.
type PatternRule struct {
	Pattern string `yaml:"pattern"`
	Format  string `yaml:"format"`
	Case    string `yaml:"case"`

	re *regexp.Regexp
}

func (r *PatternRule) compile() error {
	re, err := compile(r.Pattern)
	if err != nil {
		return err
	}
	r.re = re
	return nil
}

// Find returns the rendered value and the byte span of the first match.
func (r *PatternRule) Find(s string) (value string, span [2]int, ok bool) {
	loc := r.re.FindStringSubmatchIndex(s)
	if loc == nil {
		return "", span, false
	}
	src := s
	switch r.Case {
	case "lower":
		src = mapASCII(s, toLower)
	case "title":
		src = titleASCII(s)
	default:
		src = mapASCII(s, toUpper)
	}
	out := r.re.ExpandString(nil, r.Format, src, loc)
	return strings.TrimSpace(string(out)), [2]int{loc[0], loc[1]}, true
}

type Extraction struct {
	Aircraft    []PatternRule `yaml:"aircraft"`
	Pax         string        `yaml:"pax"`
	Bags        string        `yaml:"bags"`
	Budget      string        `yaml:"budget"`
	BudgetCue   string        `yaml:"budget_cue"`
	// NotBudget matches a unit right after a number that makes it a time,
	// duration or distance rather than money.
	NotBudget   string        `yaml:"not_budget"`
	Cabin       []PatternRule `yaml:"cabin"`
	Flexibility []PatternRule `yaml:"flexibility"`

	PaxRe       *regexp.Regexp `yaml:"-"`
	BagsRe      *regexp.Regexp `yaml:"-"`
	BudgetRe    *regexp.Regexp `yaml:"-"`
	BudgetCueRe *regexp.Regexp `yaml:"-"`
	NotBudgetRe *regexp.Regexp `yaml:"-"`
}

type Sanctions struct {
	Names     []string `yaml:"names"`
	Companies []string `yaml:"companies"`
	Countries []string `yaml:"countries"`
}

// Set is the complete rule bundle.
type Set struct {
	Brand      string         `yaml:"brand"`
	Policy     []PolicyRule   `yaml:"policy"`
	Intents    []IntentRule   `yaml:"intents"`
	Fallback   []FallbackRule `yaml:"fallback"`
	Extraction Extraction     `yaml:"extraction"`
	Sanctions  Sanctions      `yaml:"sanctions"`
}

// Default returns the embedded rule set.
func Default() (*Set, error) {
	return Parse(defaultYAML)
}

// MustDefault is Default for wiring code and tests.
func MustDefault() *Set {
	s, err := Default()
	if err != nil {
		panic(err)
	}
	return s
}

// Load reads rules from path, or the embedded defaults when path is empty.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	if err := s.compile(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	return &s, nil
}

func (s *Set) compile() error {
	for i := range s.Policy {
		if s.Policy[i].Violation == "" {
			return fmt.Errorf("policy rule %d has no violation", i)
		}
		if err := s.Policy[i].compile(); err != nil {
			return fmt.Errorf("policy %s: %w", s.Policy[i].Violation, err)
		}
	}
	for i := range s.Intents {
		if s.Intents[i].Intent == "" {
			return fmt.Errorf("intent rule %d has no intent", i)
		}
		if err := s.Intents[i].compile(); err != nil {
			return fmt.Errorf("intent %s: %w", s.Intents[i].Intent, err)
		}
	}
	for i := range s.Fallback {
		if s.Fallback[i].Text == "" {
			return fmt.Errorf("fallback rule %d has no text", i)
		}
		if err := s.Fallback[i].compile(); err != nil {
			return fmt.Errorf("fallback %s: %w", s.Fallback[i].Intent, err)
		}
	}
	ex := &s.Extraction
	for _, group := range [][]PatternRule{ex.Aircraft, ex.Cabin, ex.Flexibility} {
		for i := range group {
			if err := group[i].compile(); err != nil {
				return fmt.Errorf("extraction: %w", err)
			}
		}
	}
	var err error
	for _, f := range []struct {
		src string
		dst **regexp.Regexp
	}{
		{ex.Pax, &ex.PaxRe},
		{ex.Bags, &ex.BagsRe},
		{ex.Budget, &ex.BudgetRe},
		{ex.BudgetCue, &ex.BudgetCueRe},
		{ex.NotBudget, &ex.NotBudgetRe},
	} {
		if f.src == "" {
			continue
		}
		if *f.dst, err = compile(f.src); err != nil {
			return fmt.Errorf("extraction: %w", err)
		}
	}
	return nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", pattern, err)
	}
	return re, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

// Case helpers only touch ASCII so byte offsets from the match stay valid.
func mapASCII(s string, f func(byte) byte) string {
	b := []byte(s)
	for i, c := range b {
		b[i] = f(c)
	}
	return string(b)
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

func titleASCII(s string) string {
	b := []byte(mapASCII(s, toLower))
	start := true
	for i, c := range b {
		isLetter := c >= 'a' && c <= 'z'
		if start && isLetter {
			b[i] = c - 'a' + 'A'
		}
		start = !(isLetter || (c >= '0' && c <= '9'))
	}
	return string(b)
}
