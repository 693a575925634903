package git

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// fileChange builds a FileChange for one path: old content from the HEAD
// tree, new content from the filesystem, unified line diff between them.
func (r *Repository) fileChange(headTree *object.Tree, path, changeType string, maxDiffLines int) (FileChange, error) {
	fc := FileChange{Path: path, ChangeType: changeType}

	var oldText string
	if headTree != nil {
		if f, err := headTree.File(path); err == nil {
			if bin, err := f.IsBinary(); err == nil && bin {
				fc.Diff = "[binary file]"
				return fc, nil
			}
			content, err := f.Contents()
			if err != nil {
				return fc, fmt.Errorf("failed to read %s from HEAD: %w", path, err)
			}
			oldText = content
		}
	}

	var newText string
	if changeType != "D" {
		data, err := os.ReadFile(filepath.Join(r.path, path))
		if err != nil {
			return fc, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if isBinary(data) {
			fc.Diff = "[binary file]"
			return fc, nil
		}
		newText = string(data)
	}

	fc.Diff, fc.Added, fc.Removed = lineDiff(oldText, newText, maxDiffLines)
	return fc, nil
}

// lineDiff renders a line-oriented diff with +/- markers and counts the
// added and removed lines. Output longer than maxLines is truncated.
func lineDiff(oldText, newText string, maxLines int) (string, int, int) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var buf bytes.Buffer
	added, removed := 0, 0
	for _, d := range diffs {
		marker := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			marker = "+"
		case diffmatchpatch.DiffDelete:
			marker = "-"
		}
		for _, line := range splitDiffLines(d.Text) {
			buf.WriteString(marker)
			buf.WriteString(line)
			buf.WriteByte('\n')
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				added++
			case diffmatchpatch.DiffDelete:
				removed++
			}
		}
	}
	return truncateDiff(buf.String(), maxLines), added, removed
}

func splitDiffLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// truncateDiff caps a diff at maxLines, appending a marker with the number
// of lines dropped.
func truncateDiff(diff string, maxLines int) string {
	if maxLines <= 0 {
		return diff
	}
	lines := strings.Split(diff, "\n")
	if len(lines) <= maxLines {
		return diff
	}
	kept := lines[:maxLines]
	omitted := len(lines) - maxLines
	return strings.Join(kept, "\n") + fmt.Sprintf("\n... [%d lines truncated]\n", omitted)
}

// isBinary reports whether data looks like binary content, using the same
// NUL-byte heuristic git uses.
func isBinary(data []byte) bool {
	const sniffLen = 8000
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	return bytes.IndexByte(data, 0) != -1
}
