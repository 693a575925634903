package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renatogalera/smart-commit/pkg/git"
)

func TestFilePrompt(t *testing.T) {
	fc := git.FileChange{
		Path:       "pkg/config/config.go",
		ChangeType: "M",
		Diff:       "+added line\n-removed line\n",
	}

	t.Run("detailed template", func(t *testing.T) {
		b := NewBuilder(72, false)
		got := b.FilePrompt(fc, nil)
		assert.Contains(t, got, "pkg/config/config.go")
		assert.Contains(t, got, `Preferred scope: pkg`)
		assert.Contains(t, got, "under 72 characters")
		assert.Contains(t, got, "+added line")
		assert.NotContains(t, got, "{")
	})

	t.Run("optimized template is shorter", func(t *testing.T) {
		detailed := NewBuilder(72, false).FilePrompt(fc, nil)
		optimized := NewBuilder(72, true).FilePrompt(fc, nil)
		assert.Less(t, len(optimized), len(detailed))
		assert.Contains(t, optimized, `use "pkg"`)
	})

	t.Run("root file falls back to core scope", func(t *testing.T) {
		got := NewBuilder(72, true).FilePrompt(git.FileChange{Path: "main.go", ChangeType: "A"}, nil)
		assert.Contains(t, got, `use "core"`)
	})

	t.Run("recent commits included", func(t *testing.T) {
		recent := []git.Commit{
			{Message: "feat(git): detect binary files\n\nlong body"},
			{Message: "fix: handle empty diff"},
		}
		got := NewBuilder(72, false).FilePrompt(fc, recent)
		assert.Contains(t, got, "- feat(git): detect binary files")
		assert.Contains(t, got, "- fix: handle empty diff")
		assert.NotContains(t, got, "long body")
	})
}

func TestChangesetPrompt(t *testing.T) {
	changes := []git.FileChange{
		{Path: "pkg/git/git.go", ChangeType: "M", Diff: "+x\n", Added: 1},
		{Path: "docs/usage.md", ChangeType: "A", Diff: "+y\n", Added: 1},
	}
	got := NewBuilder(80, false).ChangesetPrompt(changes, nil)
	assert.Contains(t, got, "- pkg/git/git.go (modified, +1 -0)")
	assert.Contains(t, got, "- docs/usage.md (added, +1 -0)")
	assert.Contains(t, got, "--- pkg/git/git.go ---")
	assert.True(t, strings.Contains(got, "under 80 characters"))
	assert.NotContains(t, got, "{TYPES}")
}
