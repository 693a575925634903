// Package prompt builds the instruction text sent to the AI backend.
package prompt

import (
	"fmt"
	"strings"

	"github.com/renatogalera/smart-commit/pkg/committypes"
	"github.com/renatogalera/smart-commit/pkg/git"
)

const optimizedFileTemplate = `Write a conventional commit message for this change.

Format: type(scope): description
Types: {TYPES}
Scope: use "{SCOPE}" unless the diff clearly belongs elsewhere.
Rules:
- Subject line at most {LIMIT} characters.
- Imperative mood, lowercase after the colon, no trailing period.
- Describe what changed, not how.
- Respond with the commit message only, no explanation.
{RECENT}
File: {FILE} ({CHANGE})
Diff:
{DIFF}`

const detailedFileTemplate = `You are an expert developer writing a git commit message for a single file change.

Produce exactly one conventional commit subject line:
  type(scope): description

Allowed types: {TYPES}
Preferred scope: {SCOPE}

Guidelines:
- Keep the subject under {LIMIT} characters.
- Use the imperative mood ("add", not "added" or "adds").
- Summarize the intent of the change, not the mechanics.
- Do not wrap the message in quotes or code fences.
- Output only the commit message, nothing else.
{RECENT}
File: {FILE}
Change type: {CHANGE}
Diff:
{DIFF}`

const changesetTemplate = `You are an expert developer writing a git commit message for the staged changes below.

Produce exactly one conventional commit subject line:
  type(scope): description

Allowed types: {TYPES}

Guidelines:
- Keep the subject under {LIMIT} characters.
- Use the imperative mood.
- Pick the scope from the most significant changed area.
- If the changes span unrelated areas, omit the scope.
- Output only the commit message, nothing else.
{RECENT}
Changed files:
{FILES}

Diffs:
{DIFF}`

// Builder renders commit-message prompts. Optimized selects the shorter
// template tuned for small local models.
type Builder struct {
	SubjectLimit int
	Optimized    bool
}

func NewBuilder(subjectLimit int, optimized bool) *Builder {
	return &Builder{SubjectLimit: subjectLimit, Optimized: optimized}
}

// FilePrompt builds the prompt for a single-file atomic commit.
func (b *Builder) FilePrompt(fc git.FileChange, recent []git.Commit) string {
	tmpl := detailedFileTemplate
	if b.Optimized {
		tmpl = optimizedFileTemplate
	}
	scope := fc.Scope()
	if scope == "" {
		scope = "core"
	}
	r := strings.NewReplacer(
		"{TYPES}", strings.Join(committypes.AllTypes(), ", "),
		"{SCOPE}", scope,
		"{LIMIT}", fmt.Sprintf("%d", b.SubjectLimit),
		"{RECENT}", recentSection(recent),
		"{FILE}", fc.Path,
		"{CHANGE}", changeWord(fc.ChangeType),
		"{DIFF}", fc.Diff,
	)
	return r.Replace(tmpl)
}

// ChangesetPrompt builds the prompt for one commit covering all changes.
func (b *Builder) ChangesetPrompt(changes []git.FileChange, recent []git.Commit) string {
	var files, diffs strings.Builder
	for _, fc := range changes {
		fmt.Fprintf(&files, "- %s (%s, +%d -%d)\n", fc.Path, changeWord(fc.ChangeType), fc.Added, fc.Removed)
		fmt.Fprintf(&diffs, "--- %s ---\n%s\n", fc.Path, fc.Diff)
	}
	r := strings.NewReplacer(
		"{TYPES}", strings.Join(committypes.AllTypes(), ", "),
		"{LIMIT}", fmt.Sprintf("%d", b.SubjectLimit),
		"{RECENT}", recentSection(recent),
		"{FILES}", strings.TrimRight(files.String(), "\n"),
		"{DIFF}", strings.TrimRight(diffs.String(), "\n"),
	)
	return r.Replace(changesetTemplate)
}

// recentSection formats recent commit subjects so the model can match the
// repository's established style. Empty when there is no history.
func recentSection(recent []git.Commit) string {
	if len(recent) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\nRecent commits in this repository, match their style:\n")
	for _, c := range recent {
		subject, _, _ := strings.Cut(c.Message, "\n")
		fmt.Fprintf(&sb, "- %s\n", subject)
	}
	return sb.String()
}

func changeWord(code string) string {
	switch code {
	case "A":
		return "added"
	case "D":
		return "deleted"
	case "R":
		return "renamed"
	case "C":
		return "copied"
	default:
		return "modified"
	}
}
