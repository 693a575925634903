// Package app orchestrates the commit workflows: repository inspection,
// message generation, interactive review, and commit creation.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/renatogalera/smart-commit/pkg/ai"
	"github.com/renatogalera/smart-commit/pkg/backend"
	"github.com/renatogalera/smart-commit/pkg/config"
	"github.com/renatogalera/smart-commit/pkg/console"
	"github.com/renatogalera/smart-commit/pkg/git"
	"github.com/renatogalera/smart-commit/pkg/prompt"
	"github.com/renatogalera/smart-commit/pkg/scopecache"
	"github.com/renatogalera/smart-commit/pkg/secscan"
)

// Options are the per-invocation flags for the commit workflow.
type Options struct {
	RepoPath   string
	Atomic     bool
	DryRun     bool
	NoPush     bool
	Force      bool
	CommitType string
}

// reviewFunc runs one review round over proposals, starting at selected.
// Swapped for a fake in tests.
type reviewFunc func(proposals []console.Proposal, selected int) (console.Outcome, []console.Proposal, error)

type styles struct {
	ok   lipgloss.Style
	warn lipgloss.Style
	bad  lipgloss.Style
	dim  lipgloss.Style
}

// App wires the collaborators for one run.
type App struct {
	cfg     *config.Config
	opts    Options
	repo    *git.Repository
	gen     *ai.Generator
	backend ai.Backend
	prompts *prompt.Builder
	scopes  *scopecache.Cache
	scanner *secscan.Scanner
	review  reviewFunc
	out     io.Writer
	st      styles
}

// New opens the repository, selects the AI backend, and loads the scope
// cache.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	repo, err := git.Open(opts.RepoPath)
	if err != nil {
		return nil, err
	}

	b, err := backend.New(ctx, cfg.AI)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("backend", b.Name()).Str("model", cfg.AI.Model).Msg("backend selected")

	cacheDir, err := config.CacheDir()
	if err != nil {
		return nil, err
	}
	scopes, err := scopecache.Load(cacheDir)
	if err != nil {
		log.Warn().Err(err).Msg("scope cache unavailable, continuing without persistence")
		scopes = scopecache.NewInMemory()
	}

	// llama.cpp and small ollama models do better with the short prompt.
	optimized := b.Name() == "llamacpp" || b.Name() == "ollama"

	a := &App{
		cfg:     cfg,
		opts:    opts,
		repo:    repo,
		gen:     ai.NewGenerator(b, cfg.Limits.SubjectChars, cfg.AI.MaxRetries),
		backend: b,
		prompts: prompt.NewBuilder(cfg.Limits.SubjectChars, optimized),
		scopes:  scopes,
		scanner: secscan.NewScanner(),
		out:     os.Stdout,
		st:      newStyles(cfg.UI.UseColors),
	}
	a.review = a.runConsole
	return a, nil
}

func newStyles(colors bool) styles {
	if !colors {
		plain := lipgloss.NewStyle()
		return styles{ok: plain, warn: plain, bad: plain, dim: plain}
	}
	return styles{
		ok:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		warn: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		bad:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		dim:  lipgloss.NewStyle().Faint(true),
	}
}

// Run executes the configured workflow. Only generation calls carry a
// deadline (see genCtx); the interactive review waits on the user, and the
// commit and push that follow it must not race a clock started before it.
func (a *App) Run(ctx context.Context) error {
	state, err := a.repo.State(ctx, a.cfg.Git.MaxDiffLines)
	if err != nil {
		return err
	}
	a.printStatus(state)

	if !state.HasChanges() {
		fmt.Fprintln(a.out, a.st.dim.Render("nothing to commit, working tree clean"))
		return nil
	}

	if err := a.scanForSecrets(ctx, state); err != nil {
		return err
	}

	if a.opts.Atomic || a.cfg.Git.AtomicMode {
		return a.runAtomic(ctx, state)
	}
	return a.runTraditional(ctx, state)
}

// genCtx bounds one generation call. Twice the request timeout leaves room
// for the generator's retries.
func (a *App) genCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(a.cfg.AI.TimeoutSecs)*time.Second*2)
}

func (a *App) printStatus(state *git.State) {
	line := fmt.Sprintf("on %s", state.Branch)
	if state.RemoteBranch != "" {
		line += fmt.Sprintf("  %s ↑%d ↓%d", state.RemoteBranch, state.Ahead, state.Behind)
	}
	if recent, err := a.repo.RecentCommits(1); err == nil && len(recent) > 0 {
		line += fmt.Sprintf("  last commit %s", humanize.Time(recent[0].When))
	}
	fmt.Fprintln(a.out, a.st.dim.Render(line))
}

// scanForSecrets aborts the run when trufflehog finds secrets in the files
// about to be committed, unless --force is set.
func (a *App) scanForSecrets(ctx context.Context, state *git.State) error {
	if !a.scanner.Enabled() {
		return nil
	}
	paths := make([]string, 0, len(state.Staged)+len(state.Unstaged)+len(state.Untracked))
	for _, fc := range state.AllChanges() {
		if fc.ChangeType != "D" {
			paths = append(paths, fc.Path)
		}
	}
	paths = append(paths, state.Untracked...)

	findings, err := a.scanner.ScanFiles(ctx, a.repo.Root(), paths)
	if err != nil {
		log.Warn().Err(err).Msg("secret scan failed, continuing")
		return nil
	}
	if len(findings) == 0 {
		return nil
	}
	for _, f := range findings {
		fmt.Fprintln(a.out, a.st.bad.Render("  "+f.String()))
	}
	if a.opts.Force {
		fmt.Fprintln(a.out, a.st.warn.Render("secrets detected, continuing due to --force"))
		return nil
	}
	return fmt.Errorf("aborting: %d potential secret(s) detected (use --force to override)", len(findings))
}

// runConsole loops the interactive review until the user approves or
// cancels. Fallback-menu edits come back as EditCommitted and re-enter the
// console with the edited row selected.
func (a *App) runConsole(proposals []console.Proposal, selected int) (console.Outcome, []console.Proposal, error) {
	for {
		session := console.NewReviewSession(proposals,
			console.WithSelected(selected),
			console.WithRenderer(console.NewRenderer(a.out, a.cfg.UI.UseColors)),
		)
		out, err := session.Run()
		if err != nil {
			return out, proposals, err
		}
		proposals = session.Proposals()
		if out.Kind != console.EditCommitted {
			return out, proposals, nil
		}
		proposals[out.Index].Message = out.Message
		selected = out.Index
	}
}

// reviewProposals handles non-interactive mode and delegates to the console
// otherwise. The returned bool is false when the user cancelled.
func (a *App) reviewProposals(proposals []console.Proposal) ([]console.Proposal, bool, error) {
	if !a.cfg.UI.Interactive {
		return proposals, true, nil
	}
	out, reviewed, err := a.review(proposals, 0)
	if err != nil {
		return nil, false, err
	}
	if out.Kind == console.Cancel {
		return nil, false, nil
	}
	return reviewed, true, nil
}

func (a *App) push(ctx context.Context) error {
	if a.opts.NoPush || !a.cfg.Git.AutoPush {
		return nil
	}
	fmt.Fprintln(a.out, a.st.dim.Render("pushing to origin..."))
	if err := a.repo.Push(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.st.ok.Render("pushed"))
	return nil
}

// Close persists the scope cache.
func (a *App) Close() error {
	return a.scopes.Save()
}
