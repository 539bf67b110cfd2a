// Package rules implements the deterministic Sigma-style rule matcher
// (the "known knowns" detector complementing the anomaly scorer).
package rules

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aryorithm/blackbox/internal/model"
)

// Engine evaluates a ParsedLog against a load-ordered set of rules.
type Engine struct {
	rules []compiledRule
}

type compiledRule struct {
	model.Rule
	re *regexp.Regexp
}

// LoadFile reads a YAML rules file and compiles it into an Engine. Rules
// are evaluated in the order they appear in the file.
func LoadFile(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: read %s: %w", path, err)
	}

	var raw struct {
		Rules []model.Rule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("rules: parse %s: %w", path, err)
	}

	return New(raw.Rules)
}

// New compiles a slice of rules into an Engine, resolving each rule's
// textual action into the RuleAction tagged variant and pre-compiling any
// regex patterns.
func New(defs []model.Rule) (*Engine, error) {
	e := &Engine{}
	for _, r := range defs {
		r.Action = parseAction(r.ActionName)

		cr := compiledRule{Rule: r}
		if r.IsRegex {
			re, err := regexp.Compile(r.Pattern)
			if err != nil {
				return nil, fmt.Errorf("rules: rule %q: invalid regex %q: %w", r.Name, r.Pattern, err)
			}
			cr.re = re
		}
		e.rules = append(e.rules, cr)
	}
	return e, nil
}

func parseAction(name string) model.RuleAction {
	switch strings.ToUpper(name) {
	case "DROP":
		return model.ActionDrop
	case "TAG":
		return model.ActionTag
	default:
		return model.ActionAlert
	}
}

// Len returns the number of compiled rules, for introspection tooling.
func (e *Engine) Len() int {
	return len(e.rules)
}

// Evaluate checks log against all rules in load order and returns the
// first match, or nil if none matched.
func (e *Engine) Evaluate(log *model.ParsedLog) *model.Rule {
	for i := range e.rules {
		if e.matches(&e.rules[i], log) {
			return &e.rules[i].Rule
		}
	}
	return nil
}

func (e *Engine) matches(r *compiledRule, log *model.ParsedLog) bool {
	value := fieldValue(r.FieldTarget, log)
	if r.IsRegex {
		return r.re.MatchString(value)
	}
	return strings.Contains(value, r.Pattern)
}

func fieldValue(field string, log *model.ParsedLog) string {
	switch field {
	case "host":
		return log.Host
	case "service":
		return log.Service
	case "message":
		return log.Message
	default:
		return ""
	}
}
