package gateway

import (
	"fmt"

	"github.com/nulzo/llm-translate/internal/cli"
	"github.com/nulzo/llm-translate/internal/config"
	"github.com/nulzo/llm-translate/internal/httpclient"
	"github.com/nulzo/llm-translate/internal/provider"
	"go.uber.org/zap"

	// Import adapters to trigger init() registration
	_ "github.com/nulzo/llm-translate/internal/provider/anthropic"
	_ "github.com/nulzo/llm-translate/internal/provider/google"
	_ "github.com/nulzo/llm-translate/internal/provider/lmstudio"
	_ "github.com/nulzo/llm-translate/internal/provider/ollama"
	_ "github.com/nulzo/llm-translate/internal/provider/openai"
)

// BootstrapProviders builds the adapter registry from configuration. creds is
// only inspected to report which cloud providers still lack an API key; the
// keys themselves are read per call.
func BootstrapProviders(cfg *config.Config, creds provider.CredentialSet, log *zap.Logger) *provider.Registry {
	defaults := provider.Options{
		Client: httpclient.New(cfg.HTTP.Timeout),
		Logger: log,
	}
	registry := provider.NewRegistry(defaults, cfg.ProviderOptions())

	for _, id := range provider.Registered() {
		label := cli.Stylize(fmt.Sprintf("%-10s", id), cli.Black)
		if !id.Local() && creds[id].APIKey == "" {
			log.Debug(fmt.Sprintf("%s %s %s",
				cli.WarningSign(),
				label,
				cli.Stylize("no API key configured yet", cli.Yellow),
			))
			continue
		}
		log.Debug(fmt.Sprintf("%s %s %s", cli.CheckMark(), label, cli.Stylize("ready", cli.Green)))
	}

	if cfg.HTTP.Timeout == 0 {
		log.Debug("outbound HTTP client has no timeout")
	}
	return registry
}
