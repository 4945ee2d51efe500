package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/nulzo/llm-translate/internal/cli"
	"github.com/nulzo/llm-translate/internal/provider"
	"github.com/nulzo/llm-translate/pkg/api"
	"github.com/spf13/cobra"
)

func NewTranslateCmd(opts *appOptions) *cobra.Command {
	var (
		to      string
		id      string
		model   string
		baseURL string
		apiKey  string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate text once using the stored settings",
		Long:  "Translate text once. Without arguments the text is read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = strings.TrimSpace(string(b))
			}
			if text == "" {
				return fmt.Errorf("nothing to translate")
			}

			ctx := cmd.Context()
			app, err := newApp(ctx, quiet(*opts))
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			snapshot, err := app.Settings.Get(ctx)
			if err != nil {
				return err
			}
			snapshot = snapshot.Clone()

			if id != "" {
				snapshot.Provider = provider.ID(id)
			}
			if to != "" {
				snapshot.TargetLanguage = to
			}
			creds := snapshot.Credentials[snapshot.Provider]
			if model != "" {
				creds.Model = model
			}
			if baseURL != "" {
				creds.BaseURL = baseURL
			}
			if apiKey != "" {
				creds.APIKey = apiKey
			}
			snapshot.Credentials[snapshot.Provider] = creds

			out, err := app.Service.Translate(ctx, text, snapshot.TargetLanguage, snapshot.Provider, snapshot.Credentials)
			if err != nil {
				return err
			}

			if asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), cli.PrettyFormat(api.TranslateResponse{
					Translation:    out,
					Provider:       string(snapshot.Provider),
					TargetLanguage: snapshot.TargetLanguage,
				}))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&to, "to", "t", "", "target language code (en, ja, ko, zh, es, fr, de)")
	f.StringVarP(&id, "provider", "p", "", "provider: openai, claude, gemini, ollama, lmstudio")
	f.StringVar(&model, "model", "", "model name for local providers")
	f.StringVar(&baseURL, "url", "", "base URL for local providers")
	f.StringVar(&apiKey, "api-key", "", "API key for cloud providers")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// quiet keeps one-shot commands from interleaving info logs with their output.
func quiet(opts appOptions) appOptions {
	if opts.LogLevel == "" {
		opts.LogLevel = "error"
	}
	return opts
}
