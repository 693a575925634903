// Package git wraps go-git with the repository operations smart-commit
// needs: change inspection, staging, committing, and pushing.
package git

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog/log"

	"github.com/renatogalera/smart-commit/pkg/committypes"
)

// FileChange represents a single changed file and its diff.
type FileChange struct {
	Path       string
	ChangeType string // "M", "A", "D", "R", "C"
	Diff       string
	Added      int
	Removed    int
}

// Scope returns the conventional commit scope derived from the file path.
func (fc FileChange) Scope() string {
	return committypes.ScopeFromPath(fc.Path)
}

// Commit is a lightweight view of a repository commit.
type Commit struct {
	Hash    string
	Message string
	Author  string
	When    time.Time
}

// State captures the working tree at a point in time.
type State struct {
	Branch       string
	RemoteBranch string
	Ahead        int
	Behind       int
	Staged       []FileChange
	Unstaged     []FileChange
	Untracked    []string
}

func (s *State) HasChanges() bool {
	return len(s.Staged) > 0 || len(s.Unstaged) > 0 || len(s.Untracked) > 0
}

// AllChanges returns staged followed by unstaged changes.
func (s *State) AllChanges() []FileChange {
	out := make([]FileChange, 0, len(s.Staged)+len(s.Unstaged))
	out = append(out, s.Staged...)
	out = append(out, s.Unstaged...)
	return out
}

// Repository is an open git working tree.
type Repository struct {
	repo *gogit.Repository
	path string
}

// Open opens the repository at path, searching parent directories the way
// the git CLI does.
func Open(path string) (*Repository, error) {
	if path == "" {
		path = "."
	}
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	return &Repository{repo: repo, path: wt.Filesystem.Root()}, nil
}

// Root returns the working tree root directory.
func (r *Repository) Root() string { return r.path }

// State inspects branch, remote tracking, and per-file changes. Diffs longer
// than maxDiffLines are truncated.
func (r *Repository) State(ctx context.Context, maxDiffLines int) (*State, error) {
	st := &State{}

	headRef, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD reference: %w", err)
	}
	st.Branch = headRef.Name().Short()

	if remote, ahead, behind, err := r.trackingInfo(headRef); err == nil {
		st.RemoteBranch = remote
		st.Ahead = ahead
		st.Behind = behind
	} else {
		log.Debug().Err(err).Msg("could not resolve remote tracking info")
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree status: %w", err)
	}

	headTree, err := r.headTree()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(status))
	for p := range status {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		fs := status[path]
		if fs.Staging == gogit.Untracked || fs.Worktree == gogit.Untracked {
			st.Untracked = append(st.Untracked, path)
			continue
		}
		if fs.Staging != gogit.Unmodified {
			fc, err := r.fileChange(headTree, path, statusLetter(fs.Staging), maxDiffLines)
			if err != nil {
				log.Warn().Err(err).Str("file", path).Msg("failed to diff staged file")
				continue
			}
			st.Staged = append(st.Staged, fc)
		}
		if fs.Worktree != gogit.Unmodified {
			fc, err := r.fileChange(headTree, path, statusLetter(fs.Worktree), maxDiffLines)
			if err != nil {
				log.Warn().Err(err).Str("file", path).Msg("failed to diff unstaged file")
				continue
			}
			st.Unstaged = append(st.Unstaged, fc)
		}
	}
	return st, nil
}

func (r *Repository) headTree() (*object.Tree, error) {
	headRef, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD reference: %w", err)
	}
	commit, err := r.repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD tree: %w", err)
	}
	return tree, nil
}

// trackingInfo resolves the remote tracking branch and ahead/behind counts.
func (r *Repository) trackingInfo(headRef *plumbing.Reference) (string, int, int, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return "", 0, 0, err
	}
	branchCfg, ok := cfg.Branches[headRef.Name().Short()]
	if !ok || branchCfg.Remote == "" {
		return "", 0, 0, fmt.Errorf("branch %s has no upstream", headRef.Name().Short())
	}
	remoteName := branchCfg.Remote + "/" + branchCfg.Merge.Short()
	remoteRef, err := r.repo.Reference(
		plumbing.NewRemoteReferenceName(branchCfg.Remote, branchCfg.Merge.Short()), true)
	if err != nil {
		return "", 0, 0, err
	}

	ahead, err := r.countReachableFrom(headRef.Hash(), remoteRef.Hash())
	if err != nil {
		return remoteName, 0, 0, nil
	}
	behind, err := r.countReachableFrom(remoteRef.Hash(), headRef.Hash())
	if err != nil {
		return remoteName, ahead, 0, nil
	}
	return remoteName, ahead, behind, nil
}

// countReachableFrom counts commits reachable from `from` but not from `until`.
// The walk is bounded to keep status cheap on long-diverged branches.
func (r *Repository) countReachableFrom(from, until plumbing.Hash) (int, error) {
	const maxWalk = 250

	iter, err := r.repo.Log(&gogit.LogOptions{From: from})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	count := 0
	for i := 0; i < maxWalk; i++ {
		c, err := iter.Next()
		if err != nil {
			break
		}
		if c.Hash == until {
			return count, nil
		}
		count++
	}
	return count, nil
}

// StageFiles stages the given paths; deleted files are staged too because
// worktree.Add handles removals in go-git.
func (r *Repository) StageFiles(paths []string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	for _, p := range paths {
		if _, err := wt.Add(p); err != nil {
			return fmt.Errorf("failed to stage %s: %w", p, err)
		}
	}
	return nil
}

// StageAll stages every change in the working tree.
func (r *Repository) StageAll() error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// Commit creates a commit from the index and returns its hash.
func (r *Repository) Commit(message, authorName, authorEmail string) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}
	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit changes: %w", err)
	}
	return hash.String(), nil
}

// Push pushes the current branch to origin, creating the remote branch when
// it does not exist yet.
func (r *Repository) Push(ctx context.Context) error {
	headRef, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD reference: %w", err)
	}
	refspec := fmt.Sprintf("%s:%s", headRef.Name(), headRef.Name())
	err = r.repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{gitconfig.RefSpec(refspec)},
	})
	if err == gogit.NoErrAlreadyUpToDate {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}

// RecentCommits returns up to n commits from HEAD for prompt context.
func (r *Repository) RecentCommits(n int) ([]Commit, error) {
	headRef, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD reference: %w", err)
	}
	iter, err := r.repo.Log(&gogit.LogOptions{From: headRef.Hash()})
	if err != nil {
		return nil, fmt.Errorf("failed to get commit log: %w", err)
	}
	defer iter.Close()

	var commits []Commit
	for len(commits) < n {
		c, err := iter.Next()
		if err != nil {
			break
		}
		commits = append(commits, Commit{
			Hash:    c.Hash.String()[:8],
			Message: strings.TrimSpace(c.Message),
			Author:  c.Author.Name,
			When:    c.Author.When,
		})
	}
	return commits, nil
}

func statusLetter(code gogit.StatusCode) string {
	switch code {
	case gogit.Added:
		return "A"
	case gogit.Deleted:
		return "D"
	case gogit.Renamed:
		return "R"
	case gogit.Copied:
		return "C"
	default:
		return "M"
	}
}

// TopLevelUntracked collapses untracked paths to their top-level files or
// directories, so a new package is proposed as one unit.
func TopLevelUntracked(paths []string) []string {
	seen := map[string]struct{}{}
	for _, p := range paths {
		if top, _, found := strings.Cut(p, "/"); found {
			seen[top] = struct{}{}
		} else {
			seen[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
