// Package semver implements the MAJOR.MINOR.PATCH value type used to
// compute release versions.
//
// Unlike a full SemVer 2.0.0 parser, this package enforces exactly the
// grammar the release manager needs: three non-negative integer fields,
// an optional leading "v", and nothing else. Pre-release identifiers and
// build metadata are rejected rather than silently accepted, so parsing
// and formatting stay a true round trip.
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// BumpType enumerates the kind of version increment to apply. The zero
// value is None, and the type has a total order None < Patch < Minor <
// Major that the version decision engine relies on to pick the maximum
// bump across a set of commits.
type BumpType int

const (
	None BumpType = iota
	Patch
	Minor
	Major
)

// String renders the bump type the way it appears in reasons and JSON
// output: lowercase, matching the wire vocabulary of the bump decision.
func (b BumpType) String() string {
	switch b {
	case None:
		return "none"
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case Major:
		return "major"
	default:
		return "unknown"
	}
}

// ParseBumpType converts a bump name (case-insensitive, surrounding
// whitespace ignored) back into a BumpType. Used to decode the --level
// flag and the MCP tools' level input.
func ParseBumpType(s string) (BumpType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return None, nil
	case "patch":
		return Patch, nil
	case "minor":
		return Minor, nil
	case "major":
		return Major, nil
	default:
		return None, fmt.Errorf("unknown bump type: %q (must be one of: none, patch, minor, major)", s)
	}
}

// SemVer is an immutable MAJOR.MINOR.PATCH triple.
type SemVer struct {
	Major int
	Minor int
	Patch int
}

// Parse parses a version string of the form "[v]N.N.N". The leading "v"
// is optional and stripped; all three fields are required, must be
// non-negative integers, and nothing else is permitted.
//
// Parse and Format round-trip: Parse(v.Format()) == v for every SemVer
// v, and Format(Parse(s)) == s for every s written in canonical form
// once any leading "v" has been stripped. Parse also accepts fields with
// a "+" sign or leading zeros ("01.2.3"); Format does not reproduce
// those.
func Parse(s string) (SemVer, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "v")
	parts := strings.Split(trimmed, ".")
	if len(parts) != 3 {
		return SemVer{}, fmt.Errorf("invalid semver %q: expected MAJOR.MINOR.PATCH", s)
	}

	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return SemVer{}, fmt.Errorf("invalid semver %q: %q is not an integer", s, part)
		}
		if n < 0 {
			return SemVer{}, fmt.Errorf("invalid semver %q: %q must be non-negative", s, part)
		}
		nums[i] = n
	}

	return SemVer{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Format renders the version without a "v" prefix, e.g. "1.2.3".
func (v SemVer) Format() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// String satisfies fmt.Stringer and is identical to Format.
func (v SemVer) String() string {
	return v.Format()
}

// Bump applies the given bump type and returns the resulting version.
// None returns the receiver unchanged; Patch increments the patch
// field; Minor increments minor and resets patch; Major increments
// major and resets minor and patch. The result is always strictly
// greater than the receiver for any non-None bump.
func (v SemVer) Bump(b BumpType) SemVer {
	switch b {
	case None:
		return v
	case Patch:
		return SemVer{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	case Minor:
		return SemVer{Major: v.Major, Minor: v.Minor + 1, Patch: 0}
	case Major:
		return SemVer{Major: v.Major + 1, Minor: 0, Patch: 0}
	default:
		return v
	}
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater
// than other, ordering lexicographically on (Major, Minor, Patch).
func (v SemVer) Compare(other SemVer) int {
	switch {
	case v.Major != other.Major:
		return sign(v.Major - other.Major)
	case v.Minor != other.Minor:
		return sign(v.Minor - other.Minor)
	default:
		return sign(v.Patch - other.Patch)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
