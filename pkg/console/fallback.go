package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FallbackFlow is the numbered line menu used when raw mode is unavailable
// (piped stdin, dumb terminals). It never touches terminal attributes.
type FallbackFlow struct {
	in       *bufio.Reader
	out      io.Writer
	renderer *Renderer
}

func NewFallbackFlow(in io.Reader, out io.Writer, renderer *Renderer) *FallbackFlow {
	return &FallbackFlow{in: bufio.NewReader(in), out: out, renderer: renderer}
}

// Run shows the table once and prompts until the user approves, cancels, or
// commits one edit. End of input cancels, since there is no way to confirm.
func (f *FallbackFlow) Run(proposals []Proposal) (Outcome, error) {
	f.renderer.PrintStatic(proposals)

	for {
		fmt.Fprintf(f.out, "\n[Enter]=commit all  [1-%d]=edit  [c]=cancel: ", len(proposals))
		line, err := f.readLine()
		if err != nil {
			return Outcome{Kind: Cancel}, nil
		}

		switch {
		case line == "":
			return Outcome{Kind: ApproveAll}, nil
		case line == "c" || line == "C":
			return Outcome{Kind: Cancel}, nil
		}

		idx, err := strconv.Atoi(line)
		if err != nil || idx < 1 || idx > len(proposals) {
			fmt.Fprintln(f.out, "invalid choice")
			continue
		}

		p := proposals[idx-1]
		fmt.Fprintf(f.out, "current: %s\n", p.Message)
		fmt.Fprint(f.out, "new message (empty keeps current): ")
		edited, err := f.readLine()
		if err != nil {
			return Outcome{Kind: Cancel}, nil
		}
		if edited == "" || edited == p.Message {
			continue
		}
		return Outcome{Kind: EditCommitted, Index: idx - 1, Message: edited}, nil
	}
}

func (f *FallbackFlow) readLine() (string, error) {
	line, err := f.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
