package provider

import (
	"context"
	"net/url"

	"github.com/nulzo/llm-translate/internal/httpclient"
	"go.uber.org/zap"
)

// ID names one of the supported model providers.
type ID string

const (
	OpenAI   ID = "openai"
	Claude   ID = "claude"
	Gemini   ID = "gemini"
	Ollama   ID = "ollama"
	LMStudio ID = "lmstudio"
)

var displayNames = map[ID]string{
	OpenAI:   "OpenAI",
	Claude:   "Claude",
	Gemini:   "Gemini",
	Ollama:   "Ollama",
	LMStudio: "LM Studio",
}

// IDs returns every known provider in a stable order.
func IDs() []ID {
	return []ID{OpenAI, Claude, Gemini, Ollama, LMStudio}
}

// Valid reports whether id belongs to the closed set of providers.
func (id ID) Valid() bool {
	_, ok := displayNames[id]
	return ok
}

// DisplayName is the human name used in error messages.
func (id ID) DisplayName() string {
	if name, ok := displayNames[id]; ok {
		return name
	}
	return string(id)
}

// Local reports whether the provider runs on the user's machine and needs a
// base URL and model instead of an API key.
func (id ID) Local() bool {
	return id == Ollama || id == LMStudio
}

// Credentials is the per-provider slice of the user's settings. Which fields are
// required depends on the provider.
type Credentials struct {
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
	Model   string `json:"model,omitempty" yaml:"model,omitempty" mapstructure:"model"`
}

// CredentialSet holds credentials for every configured provider.
type CredentialSet map[ID]Credentials

// ModelDescriptor is one entry of a local server's model list.
type ModelDescriptor struct {
	ID     string `json:"id"`
	Loaded bool   `json:"loaded"`
}

// Adapter speaks one provider's wire protocol.
type Adapter interface {
	ID() ID
	// Translate asks the provider for a translation of text into languageName and
	// returns the trimmed result. Failures are *Error values.
	Translate(ctx context.Context, text, languageName string, creds Credentials) (string, error)
}

// ModelLister is implemented by adapters that can enumerate models on their server.
type ModelLister interface {
	ListModels(ctx context.Context, baseURL string) ([]ModelDescriptor, error)
}

// Options configures an adapter instance.
type Options struct {
	Client       httpclient.HTTPClient
	Endpoint     string // overrides the provider's default URL (proxies, tests)
	DefaultModel string // used when the request carries no model name
	Logger       *zap.Logger
}

// WithDefaults fills a nil client and logger.
func (o Options) WithDefaults() Options {
	if o.Client == nil {
		o.Client = httpclient.New(0)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// ResolveBaseURL picks the request's base URL or the fallback and checks it is
// an absolute http(s) URL.
func ResolveBaseURL(id ID, requested, fallback string) (string, error) {
	base := requested
	if base == "" {
		base = fallback
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ConfigurationError(id, id.DisplayName()+" URL is invalid: "+base)
	}
	return base, nil
}
