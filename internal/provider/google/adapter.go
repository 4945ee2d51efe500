package google

import (
	"context"
	"net/url"
	"strings"

	"github.com/nulzo/llm-translate/internal/httpclient"
	"github.com/nulzo/llm-translate/internal/prompt"
	"github.com/nulzo/llm-translate/internal/provider"
	"go.uber.org/zap"
)

const (
	Endpoint        = "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent"
	Temperature     = 0.1
	MaxOutputTokens = 500
)

func init() {
	provider.Register(provider.Gemini, func(opts provider.Options) provider.Adapter {
		return NewAdapter(opts)
	})
}

// Gemini structures
type Part struct {
	Text *string `json:"text,omitempty"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type Request struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type Candidate struct {
	Content      *Content `json:"content"`
	FinishReason string   `json:"finishReason"`
}

type Response struct {
	Candidates []Candidate `json:"candidates"`
}

func (r *Response) firstText() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	c := r.Candidates[0].Content
	if c == nil || len(c.Parts) == 0 || c.Parts[0].Text == nil {
		return "", false
	}
	return *c.Parts[0].Text, true
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

func (a *Adapter) ID() provider.ID { return provider.Gemini }

func (a *Adapter) Translate(ctx context.Context, text, languageName string, creds provider.Credentials) (string, error) {
	if creds.APIKey == "" {
		return "", provider.ConfigurationError(provider.Gemini, "Gemini API key is not configured")
	}

	combined := prompt.Build(text, languageName).Combined()
	body := Request{
		Contents: []Content{{Parts: []Part{{Text: &combined}}}},
		GenerationConfig: GenerationConfig{
			Temperature:     Temperature,
			MaxOutputTokens: MaxOutputTokens,
		},
	}

	// the key travels in the query string; keep it out of logs
	a.logger.Debug("sending translation request", zap.String("url", a.endpoint))
	requestURL := a.endpoint + "?key=" + url.QueryEscape(creds.APIKey)

	var resp Response
	if err := httpclient.SendRequest(ctx, a.client, "POST", requestURL, nil, body, &resp); err != nil {
		return "", provider.Classify(provider.Gemini, err, provider.Hints{})
	}

	out, ok := resp.firstText()
	if !ok {
		return "", provider.Malformed(provider.Gemini, provider.Hints{})
	}
	return strings.TrimSpace(out), nil
}
