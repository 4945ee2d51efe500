package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nulzo/llm-translate/internal/provider"
	"github.com/nulzo/llm-translate/internal/provider/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var body anthropic.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-3-haiku-20240307", body.Model)
		assert.Equal(t, 500, body.MaxTokens)
		assert.Contains(t, body.System, "French")
		assert.Equal(t, []anthropic.Message{{Role: "user", Content: "good morning"}}, body.Messages)

		_, _ = w.Write([]byte(`{"id":"msg_1","content":[{"type":"text","text":"Bonjour\n"}],"stop_reason":"end_turn"}`))
	}))
	defer ts.Close()

	adapter := anthropic.NewAdapter(provider.Options{Client: ts.Client(), Endpoint: ts.URL + "/v1/messages"})
	out, err := adapter.Translate(context.Background(), "good morning", "French", provider.Credentials{APIKey: "sk-ant-test"})

	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out)
}

func TestTranslate_MissingKey(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer ts.Close()

	adapter := anthropic.NewAdapter(provider.Options{Client: ts.Client(), Endpoint: ts.URL})
	_, err := adapter.Translate(context.Background(), "x", "French", provider.Credentials{})

	assert.True(t, provider.IsKind(err, provider.KindConfiguration))
	assert.False(t, called)
}

func TestTranslate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   provider.Kind
	}{
		{"overloaded", 529, `{"type":"error"}`, provider.KindProviderHTTP},
		{"empty content", 200, `{"content":[]}`, provider.KindMalformedResponse},
		{"not json", 200, `oops`, provider.KindMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			adapter := anthropic.NewAdapter(provider.Options{Client: ts.Client(), Endpoint: ts.URL})
			_, err := adapter.Translate(context.Background(), "x", "French", provider.Credentials{APIKey: "k"})

			var pe *provider.Error
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.kind, pe.Kind)
			if tt.kind == provider.KindProviderHTTP {
				assert.Equal(t, tt.status, pe.StatusCode)
				assert.Equal(t, "Claude API error: 529", pe.Message)
			}
		})
	}
}
