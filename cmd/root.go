package cmd

import (
	"github.com/nulzo/llm-translate/internal/cli"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Running it without a subcommand
// starts the relay.
func NewRootCmd(version string) *cobra.Command {
	opts := appOptions{Version: version}

	serve := NewServeCmd(&opts, version)

	rootCmd := &cobra.Command{
		Use:     "llm-translate",
		Short:   "Local translation relay for LLM providers",
		Long:    cli.Gradient("llm-translate", cli.BrandBlue, cli.BrandPurple) + " relays text from the browser extension to OpenAI, Claude, Gemini, Ollama or LM Studio.",
		Version: version,
		RunE:    serve.RunE,

		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "path to config file (default ./config.yaml)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	flags.BoolVar(&opts.NoColor, "no-color", false, "disable ANSI colors")

	rootCmd.AddCommand(
		serve,
		NewTranslateCmd(&opts),
		NewModelsCmd(&opts),
		NewSettingsCmd(&opts),
		NewVersionCmd(version),
	)
	return rootCmd
}
