package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nulzo/llm-translate/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAdapter implements provider.Adapter for testing
type MockAdapter struct {
	mock.Mock
	id provider.ID
}

func (m *MockAdapter) ID() provider.ID { return m.id }

func (m *MockAdapter) Translate(ctx context.Context, text, languageName string, creds provider.Credentials) (string, error) {
	args := m.Called(ctx, text, languageName, creds)
	return args.String(0), args.Error(1)
}

// echoAdapter answers "<lang>:<text>" padded with whitespace.
type echoAdapter struct{ id provider.ID }

func (e echoAdapter) ID() provider.ID { return e.id }

func (e echoAdapter) Translate(ctx context.Context, text, languageName string, creds provider.Credentials) (string, error) {
	return strings.TrimSpace("  " + languageName + ":" + text + "\n"), nil
}

type listingAdapter struct {
	echoAdapter
	models []provider.ModelDescriptor
}

func (l listingAdapter) ListModels(ctx context.Context, baseURL string) ([]provider.ModelDescriptor, error) {
	return l.models, nil
}

func TestTranslate_PassesResolvedLanguageAndCredentials(t *testing.T) {
	m := &MockAdapter{id: provider.OpenAI}
	creds := provider.CredentialSet{
		provider.OpenAI: {APIKey: "sk-1"},
		provider.Claude: {APIKey: "sk-ant"},
	}
	m.On("Translate", mock.Anything, "hello", "Japanese", provider.Credentials{APIKey: "sk-1"}).
		Return("こんにちは", nil).Once()

	svc := NewService(nil, provider.NewStaticRegistry(m))
	out, err := svc.Translate(context.Background(), "hello", "ja", provider.OpenAI, creds)

	require.NoError(t, err)
	assert.Equal(t, "こんにちは", out)
	m.AssertExpectations(t)
}

func TestTranslate_UnknownLanguagePassedThrough(t *testing.T) {
	m := &MockAdapter{id: provider.Ollama}
	m.On("Translate", mock.Anything, "hi", "pt-BR", provider.Credentials{}).Return("oi", nil)

	svc := NewService(nil, provider.NewStaticRegistry(m))
	out, err := svc.Translate(context.Background(), "hi", "pt-BR", provider.Ollama, nil)

	require.NoError(t, err)
	assert.Equal(t, "oi", out)
}

func TestTranslate_EchoRoundTripAndIdempotence(t *testing.T) {
	svc := NewService(nil, provider.NewStaticRegistry(echoAdapter{id: provider.Gemini}))

	first, err := svc.Translate(context.Background(), "hello", "ja", provider.Gemini, nil)
	require.NoError(t, err)
	second, err := svc.Translate(context.Background(), "hello", "ja", provider.Gemini, nil)
	require.NoError(t, err)

	assert.Contains(t, first, "Japanese")
	assert.Contains(t, first, "hello")
	assert.Equal(t, strings.TrimSpace(first), first)
	assert.Equal(t, first, second)
}

func TestTranslate_UnsupportedProviderInvokesNothing(t *testing.T) {
	m := &MockAdapter{id: provider.OpenAI}

	svc := NewService(nil, provider.NewStaticRegistry(m))
	_, err := svc.Translate(context.Background(), "hello", "ja", provider.ID("deepl"), nil)

	assert.ErrorIs(t, err, ErrTranslationFailed)
	assert.True(t, provider.IsKind(err, provider.KindUnsupportedProvider))
	m.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTranslate_WrapsAdapterError(t *testing.T) {
	m := &MockAdapter{id: provider.Claude}
	adapterErr := provider.HTTPError(provider.Claude, "", 401, []byte("nope"), "Claude API error: 401")
	m.On("Translate", mock.Anything, "x", "German", provider.Credentials{}).Return("", adapterErr).Once()

	svc := NewService(nil, provider.NewStaticRegistry(m))
	_, err := svc.Translate(context.Background(), "x", "de", provider.Claude, provider.CredentialSet{})

	assert.EqualError(t, err, "translation failed: Claude API error: 401")
	assert.ErrorIs(t, err, ErrTranslationFailed)

	var pe *provider.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 401, pe.StatusCode)
	m.AssertNumberOfCalls(t, "Translate", 1)
}

func TestListModels(t *testing.T) {
	models := []provider.ModelDescriptor{{ID: "m1", Loaded: true}}
	svc := NewService(nil, provider.NewStaticRegistry(
		listingAdapter{echoAdapter: echoAdapter{id: provider.LMStudio}, models: models},
		echoAdapter{id: provider.OpenAI},
	))

	got, err := svc.ListModels(context.Background(), provider.LMStudio, "")
	require.NoError(t, err)
	assert.Equal(t, models, got)

	_, err = svc.ListModels(context.Background(), provider.OpenAI, "")
	assert.True(t, provider.IsKind(err, provider.KindUnsupportedProvider))

	_, err = svc.ListModels(context.Background(), provider.ID("nope"), "")
	assert.True(t, provider.IsKind(err, provider.KindUnsupportedProvider))
}
