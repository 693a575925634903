// Package msgextract extracts a usable commit message from raw language-model
// output, which may be wrapped in ChatML tokens, markdown fences, or
// conversational noise.
package msgextract

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/renatogalera/smart-commit/pkg/committypes"
)

const DefaultSubjectLimit = 150

var (
	chatmlAssistant = regexp.MustCompile(`(?s)<\|im_start\|>assistant\s*(.*?)(?:<\|im_end\|>|$)`)
	chatmlBlock     = regexp.MustCompile(`(?s)<\|im_start\|>.*?<\|im_end\|>`)
	chatmlToken     = regexp.MustCompile(`<\|im_(?:start|end)\|>`)
	codeFence       = regexp.MustCompile("```\\w*\n?")
	htmlTag         = regexp.MustCompile(`<[^>]+>`)
	edgeQuotes      = regexp.MustCompile("^[\"'`]+|[\"'`]+$")
)

// Extractor pulls conventional commit messages out of raw responses using a
// sequence of increasingly lenient strategies.
type Extractor struct {
	subjectLimit int

	withScope *regexp.Regexp
	noScope   *regexp.Regexp
	anyType   *regexp.Regexp
}

func New(subjectLimit int) *Extractor {
	if subjectLimit <= 0 {
		subjectLimit = DefaultSubjectLimit
	}
	types := committypes.TypesRegexPattern()
	return &Extractor{
		subjectLimit: subjectLimit,
		withScope:    regexp.MustCompile(`(?im)^(` + types + `)\(([^)]+)\):\s*(.+)$`),
		noScope:      regexp.MustCompile(`(?im)^(` + types + `):\s*(.+)$`),
		anyType:      regexp.MustCompile(`(?i)(` + types + `)\b`),
	}
}

// Extract returns the best commit message found in raw, or "" when nothing
// usable could be recovered.
func (e *Extractor) Extract(raw string) string {
	cleaned := e.clean(raw)
	if cleaned == "" {
		log.Debug().Msg("empty response after cleaning")
		return ""
	}

	strategies := []func(string) string{
		e.extractWithScope,
		e.extractWithoutScope,
		e.extractAnyCommitLine,
		e.scoredFallback,
		e.lenientFallback,
	}
	for _, strategy := range strategies {
		if msg := strategy(cleaned); msg != "" {
			return e.finalize(msg)
		}
	}

	log.Debug().Str("response", cleaned).Msg("could not extract commit message")
	return ""
}

// clean strips ChatML wrappers, code fences, HTML tags, and blank lines.
func (e *Extractor) clean(raw string) string {
	var cleaned string
	if m := chatmlAssistant.FindStringSubmatch(raw); m != nil {
		cleaned = m[1]
	} else {
		cleaned = chatmlBlock.ReplaceAllString(raw, "")
		cleaned = chatmlToken.ReplaceAllString(cleaned, "")
	}
	cleaned = codeFence.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = htmlTag.ReplaceAllString(cleaned, "")

	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func (e *Extractor) extractWithScope(text string) string {
	m := e.withScope.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1]) + "(" + strings.ToLower(m[2]) + "): " + strings.TrimSpace(m[3])
}

func (e *Extractor) extractWithoutScope(text string) string {
	m := e.noScope.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1]) + ": " + strings.TrimSpace(m[2])
}

func (e *Extractor) extractAnyCommitLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, ":") || !e.anyType.MatchString(line) {
			continue
		}
		return e.cleanCommitLine(line)
	}
	return ""
}

func (e *Extractor) cleanCommitLine(line string) string {
	line = edgeQuotes.ReplaceAllString(line, "")
	line = strings.TrimSpace(line)

	prefix, description, ok := strings.Cut(line, ":")
	if !ok {
		return line
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	for _, t := range committypes.AllTypes() {
		if strings.Contains(prefix, t) {
			return prefix + ": " + strings.TrimSpace(description)
		}
	}
	return line
}

// scoredFallback scores each line on commit-message characteristics and
// returns the best candidate, reformatted when needed.
func (e *Extractor) scoredFallback(text string) string {
	specials := regexp.MustCompile(`[^\w\s:(),-]`)
	best, bestScore := "", 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		score := 0
		if e.anyType.MatchString(line) {
			score += 3
		}
		if strings.Contains(line, ":") {
			score += 2
		}
		if n := len(line); n >= 20 && n <= 100 {
			score++
		}
		if len(specials.FindAllString(line, -1)) < 3 {
			score++
		}
		if score >= 3 && score > bestScore {
			best, bestScore = line, score
		}
	}
	if best == "" {
		return ""
	}
	if committypes.BuildRegexPattern().MatchString(strings.ToLower(best)) {
		return best
	}
	typ := committypes.GuessCommitType(best)
	if typ == "" {
		typ = "feat"
	}
	return typ + ": " + strings.TrimSuffix(best, ".")
}

// lenientFallback accepts any reasonable line with a colon as a last resort.
func (e *Extractor) lenientFallback(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, ":") {
			continue
		}
		if n := len(line); n < 10 || n >= 200 {
			continue
		}
		lower := strings.ToLower(line)
		for _, t := range committypes.AllTypes() {
			if strings.HasPrefix(lower, t) {
				return line
			}
		}
		if len(line) < 150 {
			return line
		}
	}
	return ""
}

func (e *Extractor) finalize(msg string) string {
	msg = edgeQuotes.ReplaceAllString(strings.TrimSpace(msg), "")
	if len(msg) > e.subjectLimit {
		msg = e.truncate(msg)
	}
	return msg
}

// truncate shortens long messages, preserving the type(scope) prefix and
// preferring a word boundary.
func (e *Extractor) truncate(msg string) string {
	if len(msg) <= e.subjectLimit {
		return msg
	}
	prefix, description, ok := strings.Cut(msg, ":")
	if !ok {
		return msg[:e.subjectLimit-3] + "..."
	}
	description = strings.TrimSpace(description)

	available := e.subjectLimit - len(prefix) - 2
	if available <= 10 {
		return msg[:e.subjectLimit-3] + "..."
	}
	if len(description) > available {
		cut := description[:available-3]
		if sp := strings.LastIndexByte(cut, ' '); sp > available/2 {
			cut = cut[:sp]
		}
		description = cut + "..."
	}
	return prefix + ": " + description
}
