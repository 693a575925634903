package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/renatogalera/smart-commit/pkg/console"
	"github.com/renatogalera/smart-commit/pkg/git"
)

// runTraditional creates one commit covering every change.
func (a *App) runTraditional(ctx context.Context, state *git.State) error {
	recent, err := a.repo.RecentCommits(5)
	if err != nil {
		log.Debug().Err(err).Msg("no commit history for style context")
	}

	changes := state.AllChanges()
	fmt.Fprintln(a.out, a.st.dim.Render("generating commit message..."))
	genCtx, cancel := a.genCtx(ctx)
	resp, err := a.gen.CommitMessage(genCtx, a.prompts.ChangesetPrompt(changes, recent))
	cancel()
	if err != nil {
		return err
	}
	message := a.adjustMessage(resp.Message, "")

	proposals := []console.Proposal{{FilePath: allChangesLabel(changes), Message: message}}
	if a.opts.DryRun {
		fmt.Fprintf(a.out, "dry run, would commit: %s\n", a.st.ok.Render(proposals[0].Message))
		return nil
	}

	proposals, approved, err := a.reviewProposals(proposals)
	if err != nil {
		return err
	}
	if !approved {
		fmt.Fprintln(a.out, a.st.warn.Render("cancelled, nothing committed"))
		return nil
	}

	if a.cfg.Git.AutoStage {
		if err := a.repo.StageAll(); err != nil {
			return err
		}
	}
	hash, err := a.repo.Commit(proposals[0].Message, a.cfg.AuthorName, a.cfg.AuthorEmail)
	if err != nil {
		return err
	}
	a.recordScopes(proposals)
	fmt.Fprintf(a.out, "%s %s\n", a.st.ok.Render("committed"), a.st.dim.Render(shortHash(hash)))

	return a.push(ctx)
}

// runAtomic proposes one commit per changed file (plus one per top-level
// untracked unit) and commits each approved proposal separately.
func (a *App) runAtomic(ctx context.Context, state *git.State) error {
	recent, err := a.repo.RecentCommits(5)
	if err != nil {
		log.Debug().Err(err).Msg("no commit history for style context")
	}

	changes := state.AllChanges()
	units := git.TopLevelUntracked(state.Untracked)

	proposals := make([]console.Proposal, 0, len(changes)+len(units))
	fmt.Fprintf(a.out, "%s\n", a.st.dim.Render(
		fmt.Sprintf("generating %d commit message(s)...", len(changes)+len(units))))

	for _, fc := range changes {
		genCtx, cancel := a.genCtx(ctx)
		resp, err := a.gen.CommitMessage(genCtx, a.prompts.FilePrompt(fc, recent))
		cancel()
		message := ""
		if err != nil {
			log.Warn().Err(err).Str("file", fc.Path).Msg("generation failed, using fallback message")
			message = fallbackMessage(fc)
		} else {
			message = a.adjustMessage(resp.Message, scopeDir(fc.Path))
		}
		proposals = append(proposals, console.Proposal{FilePath: fc.Path, Message: message})
	}
	for _, unit := range units {
		fc := git.FileChange{Path: unit, ChangeType: "A"}
		proposals = append(proposals, console.Proposal{FilePath: unit, Message: fallbackMessage(fc)})
	}

	if a.opts.DryRun {
		for _, p := range proposals {
			fmt.Fprintf(a.out, "dry run: %s  %s\n", p.FilePath, a.st.ok.Render(p.Message))
		}
		return nil
	}

	proposals, approved, err := a.reviewProposals(proposals)
	if err != nil {
		return err
	}
	if !approved {
		fmt.Fprintln(a.out, a.st.warn.Render("cancelled, nothing committed"))
		return nil
	}

	start := time.Now()
	for _, p := range proposals {
		if err := a.repo.StageFiles([]string{p.FilePath}); err != nil {
			return err
		}
		hash, err := a.repo.Commit(p.Message, a.cfg.AuthorName, a.cfg.AuthorEmail)
		if err != nil {
			return fmt.Errorf("failed to commit %s: %w", p.FilePath, err)
		}
		fmt.Fprintf(a.out, "%s %s  %s\n",
			a.st.ok.Render(shortHash(hash)), p.FilePath, a.st.dim.Render(p.Message))
	}
	a.recordScopes(proposals)
	fmt.Fprintf(a.out, "%s\n", a.st.ok.Render(
		fmt.Sprintf("%d commit(s) created in %s", len(proposals), time.Since(start).Round(time.Millisecond))))

	return a.push(ctx)
}

func allChangesLabel(changes []git.FileChange) string {
	if len(changes) == 1 {
		return changes[0].Path
	}
	return fmt.Sprintf("%d files", len(changes))
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
