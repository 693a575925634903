package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renatogalera/smart-commit/pkg/config"
	"github.com/renatogalera/smart-commit/pkg/scopecache"
)

func newCacheCmd() *cobra.Command {
	var (
		stats bool
		clear bool
	)

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the learned scope cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := config.CacheDir()
			if err != nil {
				return err
			}
			cache, err := scopecache.Load(dir)
			if err != nil {
				return err
			}

			if clear {
				if err := cache.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "scope cache cleared")
				if !stats {
					return nil
				}
			}

			s := cache.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "directories: %d\nrecorded scopes: %d\n", s.Dirs, s.Records)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "show cache statistics (the default)")
	cmd.Flags().BoolVar(&clear, "clear", false, "delete the cache")
	return cmd
}
