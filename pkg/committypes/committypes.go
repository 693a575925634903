package committypes

import (
	"regexp"
	"strings"
)

var validTypes = []string{
	"feat", "fix", "docs", "style", "refactor", "test", "chore", "perf", "build", "ci", "revert",
}

func IsValidCommitType(t string) bool {
	for _, vt := range validTypes {
		if t == vt {
			return true
		}
	}
	return false
}

func AllTypes() []string {
	return validTypes
}

func TypesRegexPattern() string {
	return strings.Join(validTypes, "|")
}

// BuildRegexPattern matches a conventional commit prefix with optional scope,
// e.g. "feat(console): ..." or "fix: ...".
func BuildRegexPattern() *regexp.Regexp {
	return regexp.MustCompile(`^(` + TypesRegexPattern() + `)(\([^)]+\))?:`)
}

// GuessCommitType inspects the message content for keywords that indicate a
// commit type. Returns the empty string when nothing matches.
func GuessCommitType(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "fix"):
		return "fix"
	case strings.Contains(lower, "feat"), strings.Contains(lower, "add"), strings.Contains(lower, "create"), strings.Contains(lower, "introduce"):
		return "feat"
	case strings.Contains(lower, "doc"):
		return "docs"
	case strings.Contains(lower, "refactor"):
		return "refactor"
	case strings.Contains(lower, "test"):
		return "test"
	case strings.Contains(lower, "perf"):
		return "perf"
	case strings.Contains(lower, "build"):
		return "build"
	case strings.Contains(lower, "ci"):
		return "ci"
	case strings.Contains(lower, "chore"):
		return "chore"
	default:
		return ""
	}
}

// ScopeFromPath derives a conventional commit scope from a file path: the
// first directory component, or "" for root-level files.
func ScopeFromPath(path string) string {
	idx := strings.IndexByte(path, '/')
	if idx <= 0 {
		return ""
	}
	return path[:idx]
}
