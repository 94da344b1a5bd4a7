// Package changelog renders release sections from Conventional Commits
// and prepends them to a project's CHANGELOG.md.
//
// Unlike a hand-edited Keep a Changelog file, every section here is
// generated directly from the commits folded into a release: there is
// no Unreleased staging section and no per-entry editing commands.
// Rendering is a pure function of its inputs (commits, version, date)
// so a release can be reproduced byte-for-byte in tests without
// depending on the wall clock.
package changelog

import (
	"fmt"
	"os"
	"strings"
	"time"

	blangsemver "github.com/blang/semver/v4"

	"github.com/corvidlabs/arm/internal/commit"
	"github.com/corvidlabs/arm/internal/logger"
	"github.com/corvidlabs/arm/internal/semver"
)

// Header is written at the top of a brand-new CHANGELOG.md.
const Header = "# Changelog\n"

// group is one of the four fixed, always-in-order sections a release
// entry may contain. Empty groups are omitted entirely.
type group struct {
	title string
	match func(commit.Conventional) bool
}

var fixTypes = map[string]bool{"fix": true, "perf": true, "refactor": true}

var groups = []group{
	{"Breaking Changes", func(c commit.Conventional) bool { return c.Breaking }},
	{"Features", func(c commit.Conventional) bool { return !c.Breaking && c.Type == "feat" }},
	{"Fixes", func(c commit.Conventional) bool { return !c.Breaking && fixTypes[c.Type] }},
	{"Other", func(c commit.Conventional) bool { return !c.Breaking && c.Type != "feat" && !fixTypes[c.Type] }},
}

// RenderSection renders the Markdown section for a single release:
//
//	## {version} - {YYYY-MM-DD}
//
//	### Breaking Changes
//	- {**scope**: }{description} (BREAKING)
//
//	### Features
//	- {**scope**: }{description}
//	...
//
// date is injected by the caller rather than read from the wall clock,
// so the renderer stays deterministic and testable. An empty commits
// slice renders a header with no body.
func RenderSection(version semver.SemVer, commits []commit.Conventional, date time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s - %s\n", version.Format(), date.Format("2006-01-02"))

	for _, g := range groups {
		var lines []string
		for _, c := range commits {
			if !g.match(c) {
				continue
			}
			lines = append(lines, renderEntry(c))
		}
		if len(lines) == 0 {
			continue
		}
		b.WriteString("\n### ")
		b.WriteString(g.title)
		b.WriteString("\n")
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderEntry(c commit.Conventional) string {
	var b strings.Builder
	b.WriteString("- ")
	if c.Scope != "" {
		fmt.Fprintf(&b, "**%s**: ", c.Scope)
	}
	b.WriteString(c.Description)
	if c.Breaking {
		b.WriteString(" (BREAKING)")
	}
	return b.String()
}

// Prepend inserts section above the existing content of the file at
// path, creating the file if it does not exist. It is not idempotent:
// calling it twice with the same section inserts it twice.
//
// Leading blank lines in existing content are stripped before the new
// section is prepended. If the first line of the existing content is
// exactly "# Changelog" that header is preserved at the very top and
// the new section is inserted immediately below it -- this assumption
// is carried over unchanged rather than deliberately extended; it does
// not search for the header anywhere but the first line. Otherwise a
// fresh Header is synthesized above the new section.
func Prepend(path string, section string) (existedBefore bool, priorContent string, err error) {
	data, readErr := os.ReadFile(path)
	switch {
	case readErr == nil:
		existedBefore = true
		priorContent = string(data)
	case os.IsNotExist(readErr):
		existedBefore = false
		priorContent = ""
	default:
		return false, "", fmt.Errorf("failed to read changelog file: %w (verify you have read permissions for '%s')", readErr, path)
	}

	body := strings.TrimLeft(priorContent, "\n")
	lines := strings.SplitN(body, "\n", 2)

	var out strings.Builder
	if len(lines) > 0 && strings.TrimRight(lines[0], "\r") == "# Changelog" {
		out.WriteString(lines[0])
		out.WriteString("\n\n")
		out.WriteString(section)
		if len(lines) > 1 && strings.TrimSpace(lines[1]) != "" {
			out.WriteString("\n")
			out.WriteString(strings.TrimLeft(lines[1], "\n"))
		}
	} else {
		out.WriteString(Header)
		out.WriteString("\n")
		out.WriteString(section)
		if strings.TrimSpace(body) != "" {
			out.WriteString("\n")
			out.WriteString(body)
		}
	}

	if err := os.WriteFile(path, []byte(out.String()), 0o644); err != nil {
		return existedBefore, priorContent, fmt.Errorf("failed to write changelog file: %w (verify you have write permissions for '%s')", err, path)
	}

	logger.Changelog.Debug().Str("path", path).Bool("existed_before", existedBefore).Msg("prepended release section to changelog")
	return existedBefore, priorContent, nil
}

// ValidateHeaderVersion confirms that version, the string a
// "## {version} - {date}" header is rendered with, parses as valid
// semver; the release orchestrator calls it before rendering the
// section it writes to CHANGELOG.md. This is the
// one place the stricter internal semver package defers to blang/semver
// for a second, independent validation pass.
func ValidateHeaderVersion(version string) error {
	if _, err := blangsemver.Parse(version); err != nil {
		return fmt.Errorf("rendered changelog version %q does not round-trip as valid semver: %w", version, err)
	}
	return nil
}
