package app

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/renatogalera/smart-commit/pkg/committypes"
	"github.com/renatogalera/smart-commit/pkg/console"
	"github.com/renatogalera/smart-commit/pkg/git"
)

var (
	typePrefixRe = regexp.MustCompile(`^([a-z]+)(\(([^)]+)\))?:\s*`)
)

// adjustMessage applies the --commit-type override and, when the message
// has a type but no scope, the cached scope learned for the file's
// directory.
func (a *App) adjustMessage(message, dir string) string {
	if a.opts.CommitType != "" {
		message = rewriteType(message, a.opts.CommitType)
	}
	if dir != "" {
		if m := typePrefixRe.FindStringSubmatch(message); m != nil && m[3] == "" {
			if scope := a.scopes.Best(dir); scope != "" {
				message = applyScope(message, scope)
			}
		}
	}
	return message
}

// recordScopes feeds committed scopes back into the cache.
func (a *App) recordScopes(proposals []console.Proposal) {
	for _, p := range proposals {
		m := typePrefixRe.FindStringSubmatch(p.Message)
		if m == nil || m[3] == "" {
			continue
		}
		a.scopes.Record(scopeDir(p.FilePath), m[3])
	}
}

// rewriteType forces the conventional commit type, keeping any scope and
// description. Invalid types are ignored.
func rewriteType(message, newType string) string {
	if !committypes.IsValidCommitType(newType) {
		return message
	}
	if m := typePrefixRe.FindStringSubmatch(message); m != nil {
		rest := message[len(m[0]):]
		scope := ""
		if m[3] != "" {
			scope = "(" + m[3] + ")"
		}
		return newType + scope + ": " + rest
	}
	return newType + ": " + message
}

// applyScope inserts scope into a scopeless "type: description" message.
func applyScope(message, scope string) string {
	m := typePrefixRe.FindStringSubmatch(message)
	if m == nil || m[3] != "" {
		return message
	}
	return m[1] + "(" + scope + "): " + message[len(m[0]):]
}

// fallbackMessage builds a deterministic message when generation fails.
func fallbackMessage(fc git.FileChange) string {
	base := path.Base(strings.TrimSuffix(fc.Path, "/"))
	scope := fc.Scope()
	prefix := ""
	typ := "chore"
	verb := "update"
	switch fc.ChangeType {
	case "A":
		typ, verb = "feat", "add"
	case "D":
		verb = "remove"
	case "R":
		verb = "rename"
	}
	if scope != "" {
		prefix = typ + "(" + scope + "): "
	} else {
		prefix = typ + ": "
	}
	return fmt.Sprintf("%s%s %s", prefix, verb, base)
}

// scopeDir returns the directory key used by the scope cache.
func scopeDir(filePath string) string {
	if dir, _, found := strings.Cut(filePath, "/"); found {
		return dir
	}
	return "."
}
