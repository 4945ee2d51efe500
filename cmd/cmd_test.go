package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOllamaStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":" Bonjour le monde \n"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, ollamaURL string) string {
	t.Helper()
	content := `
log:
  level: error
  color: false
store:
  driver: sqlite
  dsn: ` + filepath.Join(t.TempDir(), "settings.db") + `
defaults:
  provider: ollama
  target_language: ja
providers:
  ollama:
    base_url: ` + ollamaURL + `
    model: gemma2:9b
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("v1.2.3")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTranslateCommand(t *testing.T) {
	cfg := writeConfig(t, newOllamaStub(t).URL)

	out, err := run(t, "translate", "hello", "world", "--to", "fr", "--config", cfg, "--no-color")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour le monde\n", out)
}

func TestTranslateCommand_ReadsStdin(t *testing.T) {
	cfg := writeConfig(t, newOllamaStub(t).URL)

	root := NewRootCmd("v1.2.3")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("hello\n"))
	root.SetArgs([]string{"translate", "--config", cfg, "--json", "--no-color"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), `"translation": "Bonjour le monde"`)
	assert.Contains(t, out.String(), `"target_language": "ja"`)
}

func TestTranslateCommand_ProviderError(t *testing.T) {
	cfg := writeConfig(t, newOllamaStub(t).URL)

	_, err := run(t, "translate", "hello", "--provider", "openai", "--config", cfg)
	assert.EqualError(t, err, "translation failed: OpenAI API key is not configured")
}

func TestSettingsCommands(t *testing.T) {
	cfg := writeConfig(t, newOllamaStub(t).URL)

	_, err := run(t, "settings", "set", "--for", "openai", "--api-key", "sk-abcdefghijkl", "--to", "de", "--config", cfg, "--no-color")
	require.NoError(t, err)

	out, err := run(t, "settings", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "target_language: de")
	assert.Contains(t, out, "provider: ollama")
	assert.Contains(t, out, "sk-a*******ijkl")
	assert.NotContains(t, out, "sk-abcdefghijkl")

	_, err = run(t, "settings", "set", "--provider", "deepl", "--config", cfg)
	assert.ErrorContains(t, err, "unknown provider")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "llm-translate v1.2.3\n", out)
}

func TestCheckForUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"v1.3.0","html_url":"https://example.com/r"}`))
	}))
	defer srv.Close()

	info, err := CheckForUpdates(context.Background(), srv.Client(), srv.URL, "v1.2.3")
	require.NoError(t, err)
	assert.True(t, info.Outdated)
	assert.Equal(t, "v1.3.0", info.Latest)

	info, err = CheckForUpdates(context.Background(), srv.Client(), srv.URL, "v1.3.0")
	require.NoError(t, err)
	assert.False(t, info.Outdated)

	_, err = CheckForUpdates(context.Background(), srv.Client(), srv.URL, "not-a-version")
	assert.Error(t, err)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", mask("abcd"))
	assert.Equal(t, "sk-1**ef89", mask("sk-1cdef89"))
}
