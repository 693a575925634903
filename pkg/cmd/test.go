package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/renatogalera/smart-commit/pkg/backend"
	"github.com/renatogalera/smart-commit/pkg/config"
)

func newTestCmd(flags *rootFlags) *cobra.Command {
	var (
		backendName string
		all         bool
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test AI backend connectivity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			names := []string{cfg.AI.Backend}
			if backendName != "" {
				names = []string{backendName}
			}
			if all {
				names = backend.Names()
			}

			failed := 0
			for _, name := range names {
				if !testBackend(cmd.Context(), cmd, cfg, name) {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d backend(s) unreachable", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&backendName, "backend", "", "backend to test (defaults to configured)")
	cmd.Flags().BoolVar(&all, "all", false, "test every registered backend")
	return cmd
}

func testBackend(ctx context.Context, cmd *cobra.Command, cfg *config.Config, name string) bool {
	out := cmd.OutOrStdout()

	settings := cfg.AI
	settings.Backend = name
	b, err := backend.New(ctx, settings)
	if err != nil {
		fmt.Fprintf(out, "%-10s error: %v\n", name, err)
		return false
	}
	if !b.Available(ctx) {
		fmt.Fprintf(out, "%-10s unreachable\n", b.Name())
		return false
	}

	line := fmt.Sprintf("%-10s ok", b.Name())
	if models, err := b.ListModels(ctx); err == nil && len(models) > 0 {
		shown := models
		if len(shown) > 5 {
			shown = shown[:5]
		}
		line += "  models: " + strings.Join(shown, ", ")
		if len(models) > len(shown) {
			line += fmt.Sprintf(" (+%d more)", len(models)-len(shown))
		}
	}
	fmt.Fprintln(out, line)
	return true
}
