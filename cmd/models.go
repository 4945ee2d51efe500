package cmd

import (
	"fmt"

	"github.com/nulzo/llm-translate/internal/cli"
	"github.com/nulzo/llm-translate/internal/provider"
	"github.com/spf13/cobra"
)

func NewModelsCmd(opts *appOptions) *cobra.Command {
	var (
		id      string
		baseURL string
	)

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models a local server offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newApp(ctx, quiet(*opts))
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			pid := provider.ID(id)
			if baseURL == "" {
				if s, err := app.Settings.Get(ctx); err == nil {
					baseURL = s.Credentials[pid].BaseURL
				}
			}

			models, err := app.Service.ListModels(ctx, pid, baseURL)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(models) == 0 {
				fmt.Fprintln(out, cli.Stylize("no models found", cli.Yellow))
				return nil
			}
			for _, m := range models {
				if m.Loaded {
					fmt.Fprintf(out, "%s %s %s\n", cli.CheckMark(), m.ID, cli.Stylize("(loaded)", cli.DimCode))
					continue
				}
				fmt.Fprintf(out, "  %s\n", m.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&id, "provider", "p", string(provider.LMStudio), "provider to query")
	cmd.Flags().StringVar(&baseURL, "url", "", "server base URL (default: stored setting, then http://localhost:1234)")
	return cmd
}
