package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/renatogalera/smart-commit/pkg/config"
)

func newConfigCmd(flags *rootFlags) *cobra.Command {
	var (
		show        bool
		save        bool
		backendName string
		apiURL      string
		model       string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update the configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			changed := false
			if backendName != "" {
				cfg.AI.Backend = backendName
				changed = true
			}
			if apiURL != "" {
				cfg.AI.APIURL = apiURL
				changed = true
			}
			if model != "" {
				cfg.AI.Model = model
				changed = true
			}
			if changed {
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			if save || changed {
				path := flags.configPath
				if path == "" {
					if path, err = config.Path(); err != nil {
						return err
					}
				}
				if err := config.Save(path, cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", path)
			}

			if show || (!save && !changed) {
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), string(data))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "print the effective configuration")
	cmd.Flags().BoolVar(&save, "save", false, "write the configuration file")
	cmd.Flags().StringVar(&backendName, "backend", "", "set the AI backend")
	cmd.Flags().StringVar(&apiURL, "url", "", "set the AI server URL")
	cmd.Flags().StringVar(&model, "model", "", "set the model name")
	return cmd
}
