package provider

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/nulzo/llm-translate/internal/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	upstream := &httpclient.UpstreamError{StatusCode: 429, Body: []byte("slow down"), URL: "u"}
	transport := &httpclient.TransportError{URL: "u", Err: errors.New("connection refused")}
	decode := &httpclient.DecodeError{URL: "u", Err: errors.New("bad json")}

	err := Classify(OpenAI, upstream, Hints{})
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindProviderHTTP, pe.Kind)
	assert.Equal(t, 429, pe.StatusCode)
	assert.Equal(t, "slow down", pe.Body)
	assert.Equal(t, "OpenAI API error: 429", pe.Message)

	err = Classify(Gemini, transport, Hints{})
	assert.True(t, IsKind(err, KindTransport))
	assert.Contains(t, err.Error(), "cannot connect to Gemini")
	assert.ErrorIs(t, err, transport.Err)

	err = Classify(Claude, decode, Hints{Malformed: "custom"})
	assert.True(t, IsKind(err, KindMalformedResponse))
	assert.EqualError(t, err, "custom")

	assert.NoError(t, Classify(Claude, nil, Hints{}))
}

func TestClassify_StatusHint(t *testing.T) {
	hints := Hints{Status: func(e *httpclient.UpstreamError) (Reason, string) {
		return ReasonAccessDenied, "denied " + StatusLine(e)
	}}

	err := Classify(Ollama, &httpclient.UpstreamError{StatusCode: http.StatusForbidden}, hints)

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ReasonAccessDenied, pe.Reason)
	assert.Equal(t, "denied 403 Forbidden", pe.Message)
}

func TestIsKind_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", ConfigurationError(OpenAI, "missing"))

	assert.True(t, IsKind(err, KindConfiguration))
	assert.False(t, IsKind(err, KindTransport))
	assert.False(t, IsKind(errors.New("plain"), KindConfiguration))
}

func TestResolveBaseURL(t *testing.T) {
	base, err := ResolveBaseURL(Ollama, "", "http://localhost:11434")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434", base)

	base, err = ResolveBaseURL(Ollama, "https://box:8443", "http://localhost:11434")
	require.NoError(t, err)
	assert.Equal(t, "https://box:8443", base)

	for _, bad := range []string{"localhost:11434", "ftp://x", "http://", "::"} {
		_, err = ResolveBaseURL(Ollama, bad, "")
		assert.True(t, IsKind(err, KindConfiguration), bad)
	}
}
