// Package console implements the interactive review console: raw keystroke
// capture, proposal navigation, inline message editing, and a line-based
// fallback for terminals without raw mode.
package console

import "unicode/utf8"

// KeyKind enumerates the logical keys the review loop reacts to.
type KeyKind int

const (
	KeyUnrecognized KeyKind = iota
	KeyPrintable
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeyArrowUp
	KeyArrowDown
	KeyCtrlC
)

// KeyEvent is one decoded keystroke. Rune is set only for KeyPrintable.
type KeyEvent struct {
	Kind KeyKind
	Rune rune
}

// DecodeKey decodes the bytes of a single read burst into a KeyEvent.
// Escape sequences from arrow keys arrive in one burst on every terminal we
// care about, so a lone 0x1B is a bare Escape press. Partial or unknown
// sequences decode to KeyUnrecognized and are dropped by the caller.
func DecodeKey(buf []byte) KeyEvent {
	if len(buf) == 0 {
		return KeyEvent{Kind: KeyUnrecognized}
	}
	switch buf[0] {
	case 0x03:
		return KeyEvent{Kind: KeyCtrlC}
	case '\r', '\n':
		return KeyEvent{Kind: KeyEnter}
	case 0x7f, '\b':
		return KeyEvent{Kind: KeyBackspace}
	case '\t':
		return KeyEvent{Kind: KeyTab}
	case 0x1b:
		if len(buf) == 1 {
			return KeyEvent{Kind: KeyEscape}
		}
		if len(buf) >= 3 && buf[1] == '[' {
			switch buf[2] {
			case 'A':
				return KeyEvent{Kind: KeyArrowUp}
			case 'B':
				return KeyEvent{Kind: KeyArrowDown}
			}
		}
		return KeyEvent{Kind: KeyUnrecognized}
	}
	if buf[0] >= 0x20 {
		r, size := utf8.DecodeRune(buf)
		if r == utf8.RuneError && size <= 1 {
			return KeyEvent{Kind: KeyUnrecognized}
		}
		return KeyEvent{Kind: KeyPrintable, Rune: r}
	}
	return KeyEvent{Kind: KeyUnrecognized}
}
