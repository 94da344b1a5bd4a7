// Package commit parses raw version-control commits into Conventional
// Commits records and classifies their breaking-change status.
//
// A commit is accepted only if its subject line matches
// "type(scope)!: description"; the scope and the breaking "!" are both
// optional. Anything else is rejected with a diagnostic error that
// retains the original sha and subject for display.
package commit

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/corvidlabs/arm/internal/logger"
)

// Raw is a commit record as produced by the version-control adapter,
// before any Conventional Commits interpretation.
type Raw struct {
	SHA     string
	Subject string
	Body    string
}

// Conventional is a parsed Conventional Commit.
type Conventional struct {
	Type        string
	Scope       string // empty when the subject had no (scope)
	Description string
	Breaking    bool
}

// Error describes a commit that failed Conventional Commits validation.
// It retains the sha and subject for diagnostic output.
type Error struct {
	SHA     string
	Subject string
	Reason  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Subject)
}

// headerRE matches "type(scope)!: description". The type is one or more
// lowercase letters, the scope is any run of characters except ")", the
// "!" marks a breaking change, and at least one whitespace character
// must separate the colon from the description.
var headerRE = regexp.MustCompile(`^([a-z]+)(?:\(([^)]+)\))?(!)?:\s+(.+?)\s*$`)

// breakingFooterTokens are the footer markers Conventional Commits uses
// to flag a breaking change in the commit body.
var breakingFooterTokens = []string{"BREAKING CHANGE:", "BREAKING-CHANGE:"}

// ParseSubject parses a single subject line. It returns a zero
// Conventional and false if the subject does not match the Conventional
// Commits header grammar.
func ParseSubject(subject string) (Conventional, bool) {
	m := headerRE.FindStringSubmatch(strings.TrimSpace(subject))
	if m == nil {
		return Conventional{}, false
	}
	return Conventional{
		Type:        m[1],
		Scope:       m[2],
		Description: m[4],
		Breaking:    m[3] == "!",
	}, true
}

// HasBreakingFooter reports whether body contains a BREAKING CHANGE or
// BREAKING-CHANGE footer token.
func HasBreakingFooter(body string) bool {
	for _, token := range breakingFooterTokens {
		if strings.Contains(body, token) {
			return true
		}
	}
	return false
}

// Validate parses every raw commit, splitting the results into the
// commits that parsed successfully and the ones that did not. A commit
// is breaking if either its subject carries "!" before the colon or its
// body carries a breaking footer.
func Validate(commits []Raw) ([]Conventional, []*Error) {
	parsed := make([]Conventional, 0, len(commits))
	var errs []*Error

	for _, c := range commits {
		header, ok := ParseSubject(c.Subject)
		if !ok {
			logger.Commit.Debug().Str("sha", c.SHA).Str("subject", c.Subject).Msg("rejecting non-conventional subject")
			errs = append(errs, &Error{SHA: c.SHA, Subject: c.Subject, Reason: "Non-conventional subject"})
			continue
		}
		header.Breaking = header.Breaking || HasBreakingFooter(c.Body)
		parsed = append(parsed, header)
	}

	return parsed, errs
}
