// Package commits implements the commit analysis lane: conventional-commit
// classification and velocity aggregation over time cycles.
package commits

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hal/pulse/internal/model"
)

// Type is the conventional-commit type vocabulary.
type Type string

const (
	TypeNone     Type = ""
	TypeFeat     Type = "feat"
	TypeFix      Type = "fix"
	TypeDocs     Type = "docs"
	TypeStyle    Type = "style"
	TypeRefactor Type = "refactor"
	TypePerf     Type = "perf"
	TypeTest     Type = "test"
	TypeChore    Type = "chore"
	TypeCI       Type = "ci"
	TypeBuild    Type = "build"
	TypeRevert   Type = "revert"
)

// Conventional Commits pattern, matched against the first message line only.
// Format: type(scope)!: description
var conventionalPattern = regexp.MustCompile(
	`^(feat|fix|docs|style|refactor|perf|test|chore|ci|build|revert)` +
		`(?:\(([^)]+)\))?` +
		`(!)?` +
		`:\s*(.+)$`,
)

// Issue reference pattern (e.g., #123, fixes #456, closes #789).
var issueRefPattern = regexp.MustCompile(`(?i)(?:fixes?|closes?|resolves?)?\s*#(\d+)`)

// breakingToken anywhere in the message body also marks a breaking change.
const breakingToken = "BREAKING CHANGE:"

// Classified is a commit plus its parsed conventional-commit fields and the
// issues it references.
type Classified struct {
	model.Commit

	Type        Type   `json:"type,omitempty"`
	Scope       string `json:"scope,omitempty"`
	Description string `json:"description,omitempty"`
	Breaking    bool   `json:"breaking,omitempty"`
	Issues      []int  `json:"issues,omitempty"` // sorted, deduplicated
}

// Conventional reports whether the commit followed the convention.
func (c *Classified) Conventional() bool {
	return c.Type != TypeNone
}

// Classify parses one commit message. Non-conforming messages yield type
// none but are still scanned for issue references and breaking markers, so
// a malformed commit never drops out of the totals.
func Classify(commit model.Commit) Classified {
	out := Classified{Commit: commit}

	if m := conventionalPattern.FindStringSubmatch(commit.Subject()); m != nil {
		out.Type = Type(m[1])
		out.Scope = m[2]
		out.Breaking = m[3] == "!"
		out.Description = strings.TrimSpace(m[4])
	}

	if strings.Contains(commit.Message, breakingToken) {
		out.Breaking = true
	}

	out.Issues = extractIssueRefs(commit.Message)
	return out
}

// ClassifyAll classifies a batch of commits, preserving input order.
func ClassifyAll(batch []model.Commit) []Classified {
	out := make([]Classified, 0, len(batch))
	for _, c := range batch {
		out = append(out, Classify(c))
	}
	return out
}

// extractIssueRefs collects all distinct issue numbers referenced in the
// message, sorted ascending.
func extractIssueRefs(message string) []int {
	matches := issueRefPattern.FindAllStringSubmatch(message, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := map[int]bool{}
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		seen[n] = true
	}

	refs := make([]int, 0, len(seen))
	for n := range seen {
		refs = append(refs, n)
	}
	sort.Ints(refs)
	return refs
}
