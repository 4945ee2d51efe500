package cmd

import (
	"fmt"
	"strings"

	"github.com/nulzo/llm-translate/internal/cli"
	"github.com/nulzo/llm-translate/internal/provider"
	v1 "github.com/nulzo/llm-translate/internal/server/v1"
	"github.com/nulzo/llm-translate/pkg/api"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewSettingsCmd(opts *appOptions) *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the stored extension settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newApp(ctx, quiet(*opts))
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			s, err := app.Settings.Get(ctx)
			if err != nil {
				return err
			}

			view := v1.ToAPISettings(s)
			if !showSecrets {
				maskSecrets(&view)
			}
			out, err := yaml.Marshal(view)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "print API keys in full")

	cmd.AddCommand(newSettingsSetCmd(opts))
	return cmd
}

func newSettingsSetCmd(opts *appOptions) *cobra.Command {
	var (
		id      string
		to      string
		auto    bool
		target  string
		apiKey  string
		baseURL string
		model   string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change stored settings",
		Example: `  llm-translate settings set --provider ollama --to ja
  llm-translate settings set --for openai --api-key sk-...
  llm-translate settings set --for lmstudio --url http://localhost:1234 --model qwen2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newApp(ctx, quiet(*opts))
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			s, err := app.Settings.Get(ctx)
			if err != nil {
				return err
			}
			s = s.Clone()

			f := cmd.Flags()
			if f.Changed("provider") {
				s.Provider = provider.ID(id)
			}
			if f.Changed("to") {
				s.TargetLanguage = to
			}
			if f.Changed("auto") {
				s.AutoTranslate = auto
			}

			credTarget := s.Provider
			if target != "" {
				credTarget = provider.ID(target)
			}
			creds := s.Credentials[credTarget]
			if f.Changed("api-key") {
				creds.APIKey = apiKey
			}
			if f.Changed("url") {
				creds.BaseURL = baseURL
			}
			if f.Changed("model") {
				creds.Model = model
			}
			s.Credentials[credTarget] = creds

			if err := s.Validate(); err != nil {
				return err
			}
			if err := app.Settings.Save(ctx, s); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cli.CheckMark(), "settings saved")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&id, "provider", "p", "", "active provider")
	f.StringVarP(&to, "to", "t", "", "target language code")
	f.BoolVar(&auto, "auto", true, "translate automatically on selection")
	f.StringVar(&target, "for", "", "provider whose credentials to change (default: active provider)")
	f.StringVar(&apiKey, "api-key", "", "API key")
	f.StringVar(&baseURL, "url", "", "base URL")
	f.StringVar(&model, "model", "", "model name")
	return cmd
}

func maskSecrets(s *api.Settings) {
	for id, c := range s.Credentials {
		if c.APIKey != "" {
			c.APIKey = mask(c.APIKey)
			s.Credentials[id] = c
		}
	}
}

func mask(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}
