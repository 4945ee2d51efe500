package lmstudio

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/nulzo/llm-translate/internal/httpclient"
	"github.com/nulzo/llm-translate/internal/prompt"
	"github.com/nulzo/llm-translate/internal/provider"
	"github.com/nulzo/llm-translate/internal/provider/openai"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:1234"
	DefaultModel   = "local-model"

	chatPath   = "/api/v0/chat/completions"
	modelsPath = "/api/v0/models"
)

func init() {
	provider.Register(provider.LMStudio, func(opts provider.Options) provider.Adapter {
		if opts.DefaultModel == "" {
			opts.DefaultModel = DefaultModel
		}
		return NewAdapter(opts)
	})
}

// ModelEntry is one element of the /api/v0/models data array.
type ModelEntry struct {
	ID     string `json:"id"`
	Type   string `json:"type,omitempty"`
	State  string `json:"state,omitempty"`
	Loaded bool   `json:"loaded,omitempty"`
}

type modelList struct {
	Data []ModelEntry `json:"data"`
}

// Adapter talks to LM Studio's OpenAI-compatible REST API.
type Adapter struct {
	client       httpclient.HTTPClient
	baseURL      string
	defaultModel string
	logger       *zap.Logger
}

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

func (a *Adapter) ID() provider.ID { return provider.LMStudio }

func (a *Adapter) Translate(ctx context.Context, text, languageName string, creds provider.Credentials) (string, error) {
	model := creds.Model
	if model == "" {
		model = a.defaultModel
	}
	if model == "" {
		return "", provider.ConfigurationError(provider.LMStudio, "LM Studio model name is not configured")
	}

	baseURL, err := provider.ResolveBaseURL(provider.LMStudio, creds.BaseURL, a.baseURL)
	if err != nil {
		return "", err
	}
	requestURL := strings.TrimRight(baseURL, "/") + chatPath

	stream := false
	body := openai.NewChatRequest(model, prompt.Build(text, languageName))
	body.Stream = &stream

	a.logger.Debug("sending translation request",
		zap.String("url", requestURL),
		zap.String("model", model),
	)

	var resp openai.ChatResponse
	if err := httpclient.SendRequest(ctx, a.client, "POST", requestURL, nil, body, &resp); err != nil {
		a.logger.Debug("translation request failed", zap.Error(err))
		return "", provider.Classify(provider.LMStudio, err, chatHints(model))
	}

	content, ok := resp.FirstContent()
	if !ok {
		return "", provider.Malformed(provider.LMStudio, chatHints(model))
	}
	return strings.TrimSpace(content), nil
}

// ListModels returns the models LM Studio knows about, loaded or not.
func (a *Adapter) ListModels(ctx context.Context, baseURL string) ([]provider.ModelDescriptor, error) {
	base, err := provider.ResolveBaseURL(provider.LMStudio, baseURL, a.baseURL)
	if err != nil {
		return nil, err
	}
	requestURL := strings.TrimRight(base, "/") + modelsPath

	var list modelList
	if err := httpclient.SendRequest(ctx, a.client, "GET", requestURL, nil, nil, &list); err != nil {
		return nil, provider.Classify(provider.LMStudio, err, provider.Hints{
			Unreachable: "cannot connect to the LM Studio server",
			Malformed:   "invalid model list from LM Studio",
			Status: func(e *httpclient.UpstreamError) (provider.Reason, string) {
				return "", fmt.Sprintf("LM Studio models API error: %d", e.StatusCode)
			},
		})
	}

	models := make([]provider.ModelDescriptor, 0, len(list.Data))
	for _, m := range list.Data {
		models = append(models, provider.ModelDescriptor{
			ID:     m.ID,
			Loaded: m.Loaded || m.State == "loaded",
		})
	}
	return models, nil
}

func chatHints(model string) provider.Hints {
	return provider.Hints{
		Unreachable: "cannot connect to the LM Studio server. Make sure the server is running.",
		Malformed:   "invalid response from LM Studio",
		Status: func(e *httpclient.UpstreamError) (provider.Reason, string) {
			switch e.StatusCode {
			case http.StatusNotFound:
				return provider.ReasonModelNotFound, fmt.Sprintf(
					"LM Studio model '%s' was not found. Load the model or check your settings.", model)
			case http.StatusBadRequest:
				return provider.ReasonBadRequest, fmt.Sprintf("LM Studio API request error (400): %s", string(e.Body))
			case http.StatusInternalServerError:
				return provider.ReasonServerError, fmt.Sprintf("LM Studio server error (500): %s", string(e.Body))
			default:
				return "", fmt.Sprintf("LM Studio API error: %s - %s", provider.StatusLine(e), string(e.Body))
			}
		},
	}
}
