package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeKey(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want KeyEvent
	}{
		{"arrow up", []byte("\x1b[A"), KeyEvent{Kind: KeyArrowUp}},
		{"arrow down", []byte("\x1b[B"), KeyEvent{Kind: KeyArrowDown}},
		{"bare escape", []byte{0x1b}, KeyEvent{Kind: KeyEscape}},
		{"unknown escape sequence", []byte("\x1b[C"), KeyEvent{Kind: KeyUnrecognized}},
		{"truncated escape sequence", []byte("\x1b["), KeyEvent{Kind: KeyUnrecognized}},
		{"carriage return", []byte{'\r'}, KeyEvent{Kind: KeyEnter}},
		{"newline", []byte{'\n'}, KeyEvent{Kind: KeyEnter}},
		{"del backspace", []byte{0x7f}, KeyEvent{Kind: KeyBackspace}},
		{"bs backspace", []byte{'\b'}, KeyEvent{Kind: KeyBackspace}},
		{"tab", []byte{'\t'}, KeyEvent{Kind: KeyTab}},
		{"ctrl c", []byte{0x03}, KeyEvent{Kind: KeyCtrlC}},
		{"ascii letter", []byte{'a'}, KeyEvent{Kind: KeyPrintable, Rune: 'a'}},
		{"space", []byte{' '}, KeyEvent{Kind: KeyPrintable, Rune: ' '}},
		{"multi-byte rune", []byte("é"), KeyEvent{Kind: KeyPrintable, Rune: 'é'}},
		{"other control byte", []byte{0x01}, KeyEvent{Kind: KeyUnrecognized}},
		{"empty burst", nil, KeyEvent{Kind: KeyUnrecognized}},
		{"invalid utf8", []byte{0xff}, KeyEvent{Kind: KeyUnrecognized}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeKey(tt.in))
		})
	}
}
