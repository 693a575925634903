// Package cmd defines the smart-commit command tree.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/renatogalera/smart-commit/pkg/app"
	"github.com/renatogalera/smart-commit/pkg/config"
)

type rootFlags struct {
	configPath string
	verbose    bool
	debug      bool

	repoPath   string
	atomic     bool
	dryRun     bool
	noPush     bool
	force      bool
	commitType string
}

// NewRootCmd builds the command tree. The root command runs the commit
// workflow; config, test, and cache are management subcommands.
func NewRootCmd(version string) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "smart-commit",
		Short:         "Generate conventional commit messages with a local or remote AI backend",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(flags)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg, app.Options{
				RepoPath:   flags.repoPath,
				Atomic:     flags.atomic,
				DryRun:     flags.dryRun,
				NoPush:     flags.noPush,
				Force:      flags.force,
				CommitType: flags.commitType,
			})
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Warn().Err(err).Msg("failed to save scope cache")
				}
			}()
			return a.Run(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file path")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose logging")
	pf.BoolVar(&flags.debug, "debug", false, "debug logging")

	f := root.Flags()
	f.StringVar(&flags.repoPath, "repo", ".", "repository path")
	f.BoolVar(&flags.atomic, "atomic", false, "one commit per changed file")
	f.BoolVar(&flags.dryRun, "dry-run", false, "show messages without committing")
	f.BoolVar(&flags.noPush, "no-push", false, "skip pushing after committing")
	f.BoolVar(&flags.force, "force", false, "commit even when secrets are detected")
	f.StringVar(&flags.commitType, "commit-type", "", "force the conventional commit type")

	root.AddCommand(newConfigCmd(flags), newTestCmd(flags), newCacheCmd())
	return root
}

func setupLogging(flags *rootFlags) {
	level := zerolog.WarnLevel
	if flags.verbose {
		level = zerolog.InfoLevel
	}
	if flags.debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.LoadOrCreate(flags.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
