package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// redrawThrottle coalesces redraws from rapid repeated navigation keys.
const redrawThrottle = 20 * time.Millisecond

const cursorGlyph = "█"

// Renderer draws the proposal table. It is purely derived from session
// state and never mutates it.
type Renderer struct {
	out    io.Writer
	colors bool
	now    func() time.Time

	lastRows int
	lastDraw time.Time

	headerStyle lipgloss.Style
	selStyle    lipgloss.Style
	cursorStyle lipgloss.Style
	hintStyle   lipgloss.Style
}

func NewRenderer(out io.Writer, colors bool) *Renderer {
	return &Renderer{
		out:         out,
		colors:      colors,
		now:         time.Now,
		headerStyle: lipgloss.NewStyle().Bold(true),
		selStyle:    lipgloss.NewStyle().Reverse(true),
		cursorStyle: lipgloss.NewStyle().Reverse(true),
		hintStyle:   lipgloss.NewStyle().Faint(true),
	}
}

// Rows renders the table for the given state: one row per proposal, plus a
// key-hint line. editing == -1 means no row is being edited; selected == -1
// disables highlighting (static mode for the fallback menu).
func (r *Renderer) Rows(proposals []Proposal, selected, editing int, editBuf []rune, cursor int) []string {
	// Column width is display width, not byte length, so multi-byte paths
	// keep the message column aligned.
	fileWidth := runewidth.StringWidth("file")
	for _, p := range proposals {
		if w := runewidth.StringWidth(p.FilePath); w > fileWidth {
			fileWidth = w
		}
	}

	rows := make([]string, 0, len(proposals)+2)
	rows = append(rows, r.styled(r.headerStyle,
		fmt.Sprintf("  %3s  %s  %s", "#", runewidth.FillRight("file", fileWidth), "message")))

	for i, p := range proposals {
		message := p.Message
		if i == editing {
			glyph := cursorGlyph
			if r.colors {
				glyph = r.cursorStyle.Render(cursorGlyph)
			}
			message = string(editBuf[:cursor]) + glyph + string(editBuf[cursor:])
		}
		marker := "  "
		if i == selected && i != editing {
			marker = "> "
		}
		row := fmt.Sprintf("%s%3d  %s  %s", marker, i+1, runewidth.FillRight(p.FilePath, fileWidth), message)
		if i == selected && i != editing && r.colors {
			row = r.selStyle.Render(row)
		}
		rows = append(rows, row)
	}

	// Static mode (fallback menu) prints its own prompt instead of a hint.
	if selected >= 0 || editing >= 0 {
		hint := "↑/↓ move   enter edit   tab+enter commit all   c cancel"
		if editing >= 0 {
			hint = "enter save   esc discard   ctrl+c cancel"
		}
		rows = append(rows, r.styled(r.hintStyle, hint))
	}
	return rows
}

// Redraw repositions the cursor above the previously drawn block, clears to
// the end of the screen, and prints rows. When throttled, a redraw within
// the throttle window of the previous one is skipped; the next unthrottled
// redraw catches the display up.
func (r *Renderer) Redraw(rows []string, throttled bool) {
	if throttled && r.now().Sub(r.lastDraw) < redrawThrottle {
		return
	}
	if r.lastRows > 0 {
		fmt.Fprintf(r.out, "\x1b[%dA", r.lastRows)
	}
	fmt.Fprint(r.out, "\x1b[0J")
	for _, row := range rows {
		fmt.Fprint(r.out, row, "\r\n")
	}
	r.lastRows = len(rows)
	r.lastDraw = r.now()
}

// PrintStatic prints the table once without highlighting or ANSI cursor
// movement, for the non-raw fallback menu.
func (r *Renderer) PrintStatic(proposals []Proposal) {
	for _, row := range r.Rows(proposals, -1, -1, nil, 0) {
		fmt.Fprintln(r.out, strings.TrimRight(row, " "))
	}
}

// Reset forgets the previously drawn block, so the next Redraw starts a
// fresh region instead of overdrawing unrelated output.
func (r *Renderer) Reset() {
	r.lastRows = 0
	r.lastDraw = time.Time{}
}

func (r *Renderer) styled(s lipgloss.Style, text string) string {
	if !r.colors {
		return text
	}
	return s.Render(text)
}
