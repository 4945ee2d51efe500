package anthropic

import (
	"context"
	"strings"

	"github.com/nulzo/llm-translate/internal/httpclient"
	"github.com/nulzo/llm-translate/internal/prompt"
	"github.com/nulzo/llm-translate/internal/provider"
	"go.uber.org/zap"
)

const (
	Endpoint   = "https://api.anthropic.com/v1/messages"
	Model      = "claude-3-haiku-20240307"
	APIVersion = "2023-06-01"
	MaxTokens  = 500
)

func init() {
	provider.Register(provider.Claude, func(opts provider.Options) provider.Adapter {
		return NewAdapter(opts)
	})
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

type Content struct {
	Type string  `json:"type"`
	Text *string `json:"text,omitempty"`
}

type Response struct {
	ID         string    `json:"id"`
	Content    []Content `json:"content"`
	Model      string    `json:"model"`
	StopReason string    `json:"stop_reason"`
}

type Adapter struct {
	client   httpclient.HTTPClient
	endpoint string
	logger   *zap.Logger
}

func NewAdapter(opts provider.Options) *Adapter {
	if opts.Endpoint == "" {
		opts.Endpoint = Endpoint
	}
	opts = opts.WithDefaults()
	return &Adapter{
		client:   opts.Client,
		endpoint: opts.Endpoint,
		logger:   opts.Logger,
	}
}

func (a *Adapter) ID() provider.ID { return provider.Claude }

func (a *Adapter) Translate(ctx context.Context, text, languageName string, creds provider.Credentials) (string, error) {
	if creds.APIKey == "" {
		return "", provider.ConfigurationError(provider.Claude, "Claude API key is not configured")
	}

	p := prompt.Build(text, languageName)
	body := Request{
		Model:     Model,
		MaxTokens: MaxTokens,
		System:    p.System,
		Messages:  []Message{{Role: "user", Content: p.User}},
	}
	headers := map[string]string{
		"x-api-key":         creds.APIKey,
		"anthropic-version": APIVersion,
	}

	a.logger.Debug("sending translation request", zap.String("url", a.endpoint), zap.String("model", Model))

	var resp Response
	if err := httpclient.SendRequest(ctx, a.client, "POST", a.endpoint, headers, body, &resp); err != nil {
		return "", provider.Classify(provider.Claude, err, provider.Hints{})
	}

	if len(resp.Content) == 0 || resp.Content[0].Text == nil {
		return "", provider.Malformed(provider.Claude, provider.Hints{})
	}
	return strings.TrimSpace(*resp.Content[0].Text), nil
}
