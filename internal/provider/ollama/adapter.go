package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/nulzo/llm-translate/internal/httpclient"
	"github.com/nulzo/llm-translate/internal/prompt"
	"github.com/nulzo/llm-translate/internal/provider"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "gemma2:9b"
	Temperature    = 0.1
	NumPredict     = 500
)

func init() {
	provider.Register(provider.Ollama, func(opts provider.Options) provider.Adapter {
		if opts.DefaultModel == "" {
			opts.DefaultModel = DefaultModel
		}
		return NewAdapter(opts)
	})
}

// Ollama specific structures
type Options struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type GenerateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options Options `json:"options"`
}

type GenerateResponse struct {
	Model    string  `json:"model"`
	Response *string `json:"response"`
	Done     bool    `json:"done"`
}

type Adapter struct {
	client       httpclient.HTTPClient
	baseURL      string
	defaultModel string
	logger       *zap.Logger
}

// NewAdapter builds an adapter. Unlike the registered factory it does not fill
// in DefaultModel, so a request without a model fails with a configuration error.
func NewAdapter(opts provider.Options) *Adapter {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultBaseURL
	}
	opts = opts.WithDefaults()
	return &Adapter{
		client:       opts.Client,
		baseURL:      opts.Endpoint,
		defaultModel: opts.DefaultModel,
		logger:       opts.Logger,
	}
}

func (a *Adapter) ID() provider.ID { return provider.Ollama }

func (a *Adapter) Translate(ctx context.Context, text, languageName string, creds provider.Credentials) (string, error) {
	model := creds.Model
	if model == "" {
		model = a.defaultModel
	}
	if model == "" {
		return "", provider.ConfigurationError(provider.Ollama, "Ollama model name is not configured")
	}

	baseURL, err := provider.ResolveBaseURL(provider.Ollama, creds.BaseURL, a.baseURL)
	if err != nil {
		return "", err
	}
	requestURL := strings.TrimRight(baseURL, "/") + "/api/generate"

	body := GenerateRequest{
		Model:  model,
		Prompt: prompt.Build(text, languageName).Combined(),
		Stream: false,
		Options: Options{
			Temperature: Temperature,
			NumPredict:  NumPredict,
		},
	}

	a.logger.Debug("sending translation request",
		zap.String("url", requestURL),
		zap.String("model", model),
	)

	var resp GenerateResponse
	err = httpclient.SendRequest(ctx, a.client, "POST", requestURL, nil, body, &resp)
	if err != nil {
		a.logger.Debug("translation request failed", zap.Error(err))
		return "", provider.Classify(provider.Ollama, err, hints(baseURL, model))
	}

	if resp.Response == nil || *resp.Response == "" {
		return "", provider.Malformed(provider.Ollama, hints(baseURL, model))
	}
	return strings.TrimSpace(*resp.Response), nil
}

func hints(baseURL, model string) provider.Hints {
	return provider.Hints{
		Unreachable: fmt.Sprintf("cannot connect to the Ollama server. Make sure it is running at %s.", baseURL),
		Malformed:   "invalid response from Ollama",
		Status: func(e *httpclient.UpstreamError) (provider.Reason, string) {
			switch e.StatusCode {
			case http.StatusNotFound:
				return provider.ReasonModelNotFound, fmt.Sprintf(
					"Ollama model '%s' was not found. Download the model (ollama pull %s) or check your settings.", model, model)
			case http.StatusForbidden:
				return provider.ReasonAccessDenied,
					"Ollama API access denied (403): start Ollama with OLLAMA_ORIGINS=* to allow requests from the extension."
			default:
				return "", fmt.Sprintf("Ollama API error: %s - %s", provider.StatusLine(e), string(e.Body))
			}
		},
	}
}
