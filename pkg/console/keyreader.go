package console

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Input is the terminal capability surface the review session depends on.
// KeyReader is the real implementation; tests substitute scripted fakes.
type Input interface {
	// ProbeRawSupport reports whether stdin can be switched to raw mode.
	// The answer is computed once and cached for the session.
	ProbeRawSupport() bool
	// EnterRaw switches the terminal to raw mode and returns an idempotent
	// restore function.
	EnterRaw() (restore func(), err error)
	// ReadKey blocks until one keystroke is available and decodes it.
	ReadKey() (KeyEvent, error)
}

// KeyReader reads decoded keystrokes from a terminal file descriptor.
type KeyReader struct {
	in     io.Reader
	fd     int
	probed bool
	rawOK  bool
}

// NewKeyReader wires the reader to the process stdin.
func NewKeyReader() *KeyReader {
	return &KeyReader{in: os.Stdin, fd: int(os.Stdin.Fd())}
}

// ProbeRawSupport checks once whether stdin is a terminal whose attributes
// we can read. GetState fails on pipes, redirected input, and platforms
// without termios support.
func (r *KeyReader) ProbeRawSupport() bool {
	if r.probed {
		return r.rawOK
	}
	r.probed = true
	if !term.IsTerminal(r.fd) {
		r.rawOK = false
		return false
	}
	_, err := term.GetState(r.fd)
	r.rawOK = err == nil
	if err != nil {
		log.Debug().Err(err).Msg("terminal state query failed, using fallback menu")
	}
	return r.rawOK
}

// EnterRaw switches stdin to raw mode for the whole session. The returned
// restore is safe to call more than once; only the first call restores.
func (r *KeyReader) EnterRaw() (func(), error) {
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	restored := false
	return func() {
		if restored {
			return
		}
		restored = true
		if err := term.Restore(r.fd, state); err != nil {
			log.Error().Err(err).Msg("failed to restore terminal mode")
		}
	}, nil
}

// ReadKey reads one input burst and decodes it. Arrow-key escape sequences
// arrive within a single read; a burst of exactly one 0x1B byte is a bare
// Escape. A read failure mid-session is reported as CtrlC so the caller
// cancels cleanly instead of crashing.
func (r *KeyReader) ReadKey() (KeyEvent, error) {
	var buf [8]byte
	n, err := r.in.Read(buf[:])
	if err != nil || n == 0 {
		log.Debug().Err(err).Msg("raw read failed, treating as cancel")
		return KeyEvent{Kind: KeyCtrlC}, nil
	}
	return DecodeKey(buf[:n]), nil
}
