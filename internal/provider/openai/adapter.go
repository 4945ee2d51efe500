package openai

import (
	"context"
	"strings"

	"github.com/nulzo/llm-translate/internal/httpclient"
	"github.com/nulzo/llm-translate/internal/prompt"
	"github.com/nulzo/llm-translate/internal/provider"
	"go.uber.org/zap"
)

const (
	Endpoint    = "https://api.openai.com/v1/chat/completions"
	Model       = "gpt-3.5-turbo"
	MaxTokens   = 500
	Temperature = 0.1
)

func init() {
	provider.Register(provider.OpenAI, func(opts provider.Options) provider.Adapter {
		return NewAdapter(opts)
	})
}

// Message is one entry of a chat completion conversation.
type Message struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

// ChatRequest is the body of POST /v1/chat/completions. LM Studio accepts the same shape.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Stream      *bool     `json:"stream,omitempty"`
}

type Choice struct {
	Index        int      `json:"index"`
	Message      *Message `json:"message"`
	FinishReason string   `json:"finish_reason"`
}

type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// FirstContent returns the first choice's message content, if present.
func (r *ChatResponse) FirstContent() (string, bool) {
	if len(r.Choices) == 0 || r.Choices[0].Message == nil || r.Choices[0].Message.Content == nil {
		return "", false
	}
	return *r.Choices[0].Message.Content, true
}

// NewChatRequest builds the system+user chat body for a translation prompt.
func NewChatRequest(model string, p prompt.Prompt) ChatRequest {
	system, user := p.System, p.User
	return ChatRequest{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: &system},
			{Role: "user", Content: &user},
		},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}
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

func (a *Adapter) ID() provider.ID { return provider.OpenAI }

func (a *Adapter) Translate(ctx context.Context, text, languageName string, creds provider.Credentials) (string, error) {
	if creds.APIKey == "" {
		return "", provider.ConfigurationError(provider.OpenAI, "OpenAI API key is not configured")
	}

	body := NewChatRequest(Model, prompt.Build(text, languageName))
	headers := map[string]string{
		"Authorization": "Bearer " + creds.APIKey,
	}

	a.logger.Debug("sending translation request", zap.String("url", a.endpoint), zap.String("model", Model))

	var resp ChatResponse
	if err := httpclient.SendRequest(ctx, a.client, "POST", a.endpoint, headers, body, &resp); err != nil {
		return "", provider.Classify(provider.OpenAI, err, provider.Hints{})
	}

	content, ok := resp.FirstContent()
	if !ok {
		return "", provider.Malformed(provider.OpenAI, provider.Hints{})
	}
	return strings.TrimSpace(content), nil
}
