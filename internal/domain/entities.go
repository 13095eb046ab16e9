package domain

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Rule is a literal, case-sensitive substring substitution.
type Rule struct {
	From string `json:"from"`
	To   string `json:"to"`
}

var (
	ErrEmptyFrom = errors.New("rule has empty source text")
	ErrNoRules   = errors.New("no rules configured")
)

// Validate reports whether the rule can be applied.
func (r Rule) Validate() error {
	if r.From == "" {
		return ErrEmptyFrom
	}
	if r.From == r.To {
		return fmt.Errorf("rule %q: source and target are identical", r.From)
	}
	return nil
}

// ValidateRules checks every rule in order.
func ValidateRules(rules []Rule) error {
	if len(rules) == 0 {
		return ErrNoRules
	}
	for i, r := range rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
	}
	return nil
}

// ApplyRules runs each rule over the output of the previous one and returns
// the new text with the total number of replacements made.
func ApplyRules(text string, rules []Rule) (string, int) {
	total := 0
	for _, r := range rules {
		n := strings.Count(text, r.From)
		if n == 0 {
			continue
		}
		text = strings.ReplaceAll(text, r.From, r.To)
		total += n
	}
	return text, total
}

type Outcome string

const (
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeFailed    Outcome = "failed"
	OutcomeReverted  Outcome = "reverted"
)

// Target is one file to patch. Name is the path as the user gave it and is
// what gets reported; Path is absolute and is what gets opened and recorded.
type Target struct {
	Name string
	Path string
}

// FileResult is the outcome of processing one path.
type FileResult struct {
	Path         string
	Outcome      Outcome
	Replacements int
	Err          error
}

// Report collects per-file results in input order.
type Report struct {
	RunID   string
	DryRun  bool
	Results []FileResult
}

func (r *Report) Add(res FileResult) {
	r.Results = append(r.Results, res)
}

// Count returns how many results have the given outcome.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Run is a persisted apply invocation that changed at least one file.
type Run struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Rules     []Rule    `json:"rules"`
	Files     []string  `json:"files"`
	Reverted  bool      `json:"reverted"`
}

// Backup holds a file's bytes as they were before a run wrote it.
type Backup struct {
	Path       string      `json:"path"`
	Original   []byte      `json:"original"`
	Mode       os.FileMode `json:"mode"`
	PatchedSum string      `json:"patched_sum"`
}
