package console

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Proposal is one file path with its generated commit message.
type Proposal struct {
	FilePath string
	Message  string
}

// OutcomeKind enumerates how a review session can end.
type OutcomeKind int

const (
	// ApproveAll means every proposal should be committed as it stands.
	ApproveAll OutcomeKind = iota
	// Cancel aborts without committing anything.
	Cancel
	// EditCommitted carries one rewritten message back to the caller, who
	// re-runs the review. Only the fallback menu produces this; the raw
	// console applies edits in place and keeps looping.
	EditCommitted
)

// Outcome is the session result. Index and Message are set only for
// EditCommitted.
type Outcome struct {
	Kind    OutcomeKind
	Index   int
	Message string
}

type sessionMode int

const (
	modeBrowse sessionMode = iota
	modeEdit
)

// ReviewSession owns the proposal list, the selection, and the Browse/Edit
// state machine. It is single-threaded: Run blocks on reads and nothing
// else touches its state while it runs.
type ReviewSession struct {
	proposals []Proposal
	selected  int
	mode      sessionMode

	// editBuf and cursor are meaningful only while mode == modeEdit.
	// The buffer is rune-indexed so multi-byte input edits cleanly.
	editBuf []rune
	cursor  int

	pendingTab bool
	canceled   atomic.Bool

	input    Input
	renderer *Renderer
	fallback *FallbackFlow
}

// Option configures a ReviewSession.
type Option func(*ReviewSession)

// WithSelected sets the initial selection, used when the caller re-runs the
// review after an external edit round-trip.
func WithSelected(index int) Option {
	return func(s *ReviewSession) { s.selected = index }
}

// WithInput replaces the terminal input source.
func WithInput(in Input) Option {
	return func(s *ReviewSession) { s.input = in }
}

// WithRenderer replaces the renderer.
func WithRenderer(r *Renderer) Option {
	return func(s *ReviewSession) { s.renderer = r }
}

// WithFallback replaces the non-raw fallback flow.
func WithFallback(f *FallbackFlow) Option {
	return func(s *ReviewSession) { s.fallback = f }
}

// NewReviewSession builds a session over proposals. The slice is owned by
// the session for the duration of Run and mutated when edits are committed.
func NewReviewSession(proposals []Proposal, opts ...Option) *ReviewSession {
	s := &ReviewSession{
		proposals: proposals,
		renderer:  NewRenderer(os.Stdout, true),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.input == nil {
		s.input = NewKeyReader()
	}
	if s.fallback == nil {
		s.fallback = NewFallbackFlow(os.Stdin, os.Stdout, s.renderer)
	}
	if s.selected < 0 || s.selected >= len(s.proposals) {
		s.selected = 0
	}
	return s
}

// Proposals returns the (possibly edited) proposal list.
func (s *ReviewSession) Proposals() []Proposal { return s.proposals }

// Run drives the review until the user approves, cancels, or (fallback
// only) commits one edit. Terminal mode is restored on every exit path.
func (s *ReviewSession) Run() (Outcome, error) {
	if len(s.proposals) == 0 {
		return Outcome{Kind: Cancel}, fmt.Errorf("no proposals to review")
	}

	if !s.input.ProbeRawSupport() {
		return s.fallback.Run(s.proposals)
	}

	restore, err := s.input.EnterRaw()
	if err != nil {
		log.Debug().Err(err).Msg("raw mode unavailable, using fallback menu")
		return s.fallback.Run(s.proposals)
	}
	restoreOnce := sync.OnceFunc(restore)
	defer restoreOnce()

	// Raw mode disables terminal signal generation, so Ctrl+C arrives as a
	// byte. A process-level SIGINT from elsewhere still must restore the
	// terminal and resolve to Cancel.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			s.canceled.Store(true)
			restoreOnce()
		}
	}()

	s.renderer.Reset()
	s.renderer.Redraw(s.rows(), false)

	for {
		if s.canceled.Load() {
			return Outcome{Kind: Cancel}, nil
		}
		ev, err := s.input.ReadKey()
		if err != nil {
			ev = KeyEvent{Kind: KeyCtrlC}
		}
		if out := s.handleKey(ev); out != nil {
			return *out, nil
		}
	}
}

// handleKey applies one key event and returns a terminal outcome, or nil
// when the session continues.
func (s *ReviewSession) handleKey(ev KeyEvent) *Outcome {
	if s.mode == modeEdit {
		return s.handleEditKey(ev)
	}
	return s.handleBrowseKey(ev)
}

func (s *ReviewSession) handleBrowseKey(ev KeyEvent) *Outcome {
	if s.pendingTab {
		s.pendingTab = false
		if ev.Kind == KeyEnter {
			return &Outcome{Kind: ApproveAll}
		}
	}

	switch ev.Kind {
	case KeyArrowUp:
		if s.selected > 0 {
			s.selected--
		}
		s.renderer.Redraw(s.rows(), true)
	case KeyArrowDown:
		if s.selected < len(s.proposals)-1 {
			s.selected++
		}
		s.renderer.Redraw(s.rows(), true)
	case KeyEnter:
		s.mode = modeEdit
		s.editBuf = []rune(s.proposals[s.selected].Message)
		s.cursor = len(s.editBuf)
		s.renderer.Redraw(s.rows(), false)
	case KeyTab:
		s.pendingTab = true
	case KeyCtrlC:
		return &Outcome{Kind: Cancel}
	case KeyPrintable:
		if ev.Rune == 'c' || ev.Rune == 'C' {
			return &Outcome{Kind: Cancel}
		}
	}
	return nil
}

func (s *ReviewSession) handleEditKey(ev KeyEvent) *Outcome {
	switch ev.Kind {
	case KeyPrintable:
		s.editBuf = append(s.editBuf[:s.cursor],
			append([]rune{ev.Rune}, s.editBuf[s.cursor:]...)...)
		s.cursor++
		s.renderer.Redraw(s.rows(), false)
	case KeyBackspace:
		if s.cursor > 0 {
			s.editBuf = append(s.editBuf[:s.cursor-1], s.editBuf[s.cursor:]...)
			s.cursor--
			s.renderer.Redraw(s.rows(), false)
		}
	case KeyEnter:
		edited := string(s.editBuf)
		if edited != s.proposals[s.selected].Message {
			s.proposals[s.selected].Message = edited
		}
		s.leaveEdit()
	case KeyEscape:
		s.leaveEdit()
	case KeyCtrlC:
		return &Outcome{Kind: Cancel}
	}
	return nil
}

// leaveEdit returns to Browse with the selection it had when Edit was
// entered.
func (s *ReviewSession) leaveEdit() {
	s.mode = modeBrowse
	s.editBuf = nil
	s.cursor = 0
	s.renderer.Redraw(s.rows(), false)
}

func (s *ReviewSession) rows() []string {
	editing := -1
	if s.mode == modeEdit {
		editing = s.selected
	}
	return s.renderer.Rows(s.proposals, s.selected, editing, s.editBuf, s.cursor)
}
