package gateway

import (
	"testing"

	"github.com/nulzo/llm-translate/internal/config"
	"github.com/nulzo/llm-translate/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBootstrapProviders_RegistersEveryProvider(t *testing.T) {
	cfg := &config.Config{Providers: map[provider.ID]config.ProviderConfig{
		provider.Ollama: {DefaultModel: "llama3"},
	}}

	registry := BootstrapProviders(cfg, provider.CredentialSet{}, zap.NewNop())

	assert.ElementsMatch(t, provider.IDs(), provider.Registered())
	for _, id := range provider.IDs() {
		a, err := registry.Get(id)
		require.NoError(t, err, id)
		assert.Equal(t, id, a.ID())
	}

	lm, err := registry.Get(provider.LMStudio)
	require.NoError(t, err)
	_, ok := lm.(provider.ModelLister)
	assert.True(t, ok)
}
