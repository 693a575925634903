package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererRows(t *testing.T) {
	r := NewRenderer(nil, false)
	proposals := sampleProposals()

	t.Run("selected row is marked", func(t *testing.T) {
		rows := r.Rows(proposals, 1, -1, nil, 0)
		require.Len(t, rows, 4) // header, two proposals, hint
		assert.True(t, strings.HasPrefix(rows[2], "> "))
		assert.False(t, strings.HasPrefix(rows[1], "> "))
	})

	t.Run("file column is aligned", func(t *testing.T) {
		rows := r.Rows([]Proposal{
			{FilePath: "a.py", Message: "feat: x"},
			{FilePath: "much/longer/path.py", Message: "fix: y"},
		}, 0, -1, nil, 0)
		assert.Contains(t, rows[1], "a.py            ")
	})

	t.Run("multi-byte path keeps columns aligned", func(t *testing.T) {
		rows := r.Rows([]Proposal{
			{FilePath: "café.py", Message: "feat: x"},
			{FilePath: "ab.py", Message: "fix: y"},
		}, 0, -1, nil, 0)
		assert.Contains(t, rows[1], "café.py  feat: x")
		assert.Contains(t, rows[2], "ab.py    fix: y")
	})

	t.Run("editing row shows cursor glyph", func(t *testing.T) {
		rows := r.Rows(proposals, 0, 0, []rune("abc"), 1)
		assert.Contains(t, rows[1], "a"+cursorGlyph+"bc")
		assert.False(t, strings.HasPrefix(rows[1], "> "))
	})

	t.Run("cursor at end of buffer", func(t *testing.T) {
		rows := r.Rows(proposals, 0, 0, []rune("abc"), 3)
		assert.Contains(t, rows[1], "abc"+cursorGlyph)
	})

	t.Run("edit hint replaces browse hint", func(t *testing.T) {
		browse := r.Rows(proposals, 0, -1, nil, 0)
		edit := r.Rows(proposals, 0, 0, []rune("x"), 0)
		assert.Contains(t, browse[len(browse)-1], "tab+enter")
		assert.Contains(t, edit[len(edit)-1], "esc discard")
	})

	t.Run("static mode has no hint or marker", func(t *testing.T) {
		rows := r.Rows(proposals, -1, -1, nil, 0)
		require.Len(t, rows, 3)
		for _, row := range rows[1:] {
			assert.False(t, strings.HasPrefix(row, "> "))
		}
	})
}

func TestRendererRedraw(t *testing.T) {
	newClockedRenderer := func(out *bytes.Buffer) (*Renderer, *time.Time) {
		now := time.Unix(0, 0)
		r := NewRenderer(out, false)
		r.now = func() time.Time { return now }
		return r, &now
	}

	t.Run("first draw clears without moving up", func(t *testing.T) {
		var out bytes.Buffer
		r, _ := newClockedRenderer(&out)
		r.Redraw([]string{"one", "two"}, false)
		assert.False(t, strings.Contains(out.String(), "[2A"))
		assert.Contains(t, out.String(), "\x1b[0J")
		assert.Contains(t, out.String(), "one\r\n")
	})

	t.Run("second draw moves up over previous block", func(t *testing.T) {
		var out bytes.Buffer
		r, now := newClockedRenderer(&out)
		r.Redraw([]string{"one", "two"}, false)
		*now = now.Add(time.Second)
		out.Reset()
		r.Redraw([]string{"uno", "dos"}, false)
		assert.Contains(t, out.String(), "\x1b[2A")
	})

	t.Run("throttled draw within window is skipped", func(t *testing.T) {
		var out bytes.Buffer
		r, now := newClockedRenderer(&out)
		r.Redraw([]string{"one"}, false)
		out.Reset()

		*now = now.Add(5 * time.Millisecond)
		r.Redraw([]string{"two"}, true)
		assert.Empty(t, out.String())

		*now = now.Add(redrawThrottle)
		r.Redraw([]string{"three"}, true)
		assert.Contains(t, out.String(), "three")
	})

	t.Run("forced draw ignores the throttle", func(t *testing.T) {
		var out bytes.Buffer
		r, now := newClockedRenderer(&out)
		r.Redraw([]string{"one"}, false)
		out.Reset()
		*now = now.Add(time.Millisecond)
		r.Redraw([]string{"two"}, false)
		assert.Contains(t, out.String(), "two")
	})

	t.Run("reset forgets the drawn block", func(t *testing.T) {
		var out bytes.Buffer
		r, now := newClockedRenderer(&out)
		r.Redraw([]string{"one"}, false)
		*now = now.Add(time.Second)
		r.Reset()
		out.Reset()
		r.Redraw([]string{"two"}, false)
		assert.False(t, strings.Contains(out.String(), "[1A"))
	})
}
