package git

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineDiff(t *testing.T) {
	t.Run("counts added and removed lines", func(t *testing.T) {
		oldText := "one\ntwo\nthree\n"
		newText := "one\n2\nthree\nfour\n"
		diff, added, removed := lineDiff(oldText, newText, 0)
		assert.Equal(t, 2, added)
		assert.Equal(t, 1, removed)
		assert.Contains(t, diff, "-two")
		assert.Contains(t, diff, "+2")
		assert.Contains(t, diff, "+four")
	})

	t.Run("pure addition", func(t *testing.T) {
		diff, added, removed := lineDiff("", "alpha\nbeta\n", 0)
		assert.Equal(t, 2, added)
		assert.Equal(t, 0, removed)
		assert.True(t, strings.HasPrefix(diff, "+alpha"))
	})

	t.Run("pure deletion", func(t *testing.T) {
		_, added, removed := lineDiff("alpha\nbeta\n", "", 0)
		assert.Equal(t, 0, added)
		assert.Equal(t, 2, removed)
	})
}

func TestTruncateDiff(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("+line\n")
	}
	diff := b.String()

	t.Run("short diff untouched", func(t *testing.T) {
		assert.Equal(t, diff, truncateDiff(diff, 100))
	})

	t.Run("long diff capped with marker", func(t *testing.T) {
		got := truncateDiff(diff, 5)
		require.Contains(t, got, "lines truncated")
		assert.LessOrEqual(t, len(strings.Split(got, "\n")), 8)
	})

	t.Run("zero max disables truncation", func(t *testing.T) {
		assert.Equal(t, diff, truncateDiff(diff, 0))
	})
}

func TestIsBinary(t *testing.T) {
	assert.False(t, isBinary([]byte("plain text\nwith lines\n")))
	assert.True(t, isBinary([]byte{0x89, 'P', 'N', 'G', 0x00, 0x1a}))
	assert.False(t, isBinary(nil))
}

func TestTopLevelUntracked(t *testing.T) {
	got := TopLevelUntracked([]string{
		"pkg/newthing/a.go",
		"pkg/newthing/b.go",
		"README.md",
		"docs/guide.md",
	})
	assert.Equal(t, []string{"README.md", "docs", "pkg"}, got)
}

func TestFileChangeScope(t *testing.T) {
	assert.Equal(t, "pkg", FileChange{Path: "pkg/git/git.go"}.Scope())
	assert.Equal(t, "", FileChange{Path: "main.go"}.Scope())
}

func TestStateHasChanges(t *testing.T) {
	assert.False(t, (&State{}).HasChanges())
	assert.True(t, (&State{Untracked: []string{"x"}}).HasChanges())
	st := &State{
		Staged:   []FileChange{{Path: "a"}},
		Unstaged: []FileChange{{Path: "b"}},
	}
	assert.True(t, st.HasChanges())
	all := st.AllChanges()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Path)
}
