package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-translate/internal/config"
	"github.com/nulzo/llm-translate/internal/gateway"
	"github.com/nulzo/llm-translate/internal/provider"
	"github.com/nulzo/llm-translate/internal/provider/ollama"
	"github.com/nulzo/llm-translate/internal/server"
	"github.com/nulzo/llm-translate/internal/store"
	"github.com/nulzo/llm-translate/internal/store/memory"
	"github.com/nulzo/llm-translate/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockService implements gateway.Service for testing
type MockService struct {
	mock.Mock
}

func (m *MockService) Translate(ctx context.Context, text, targetLanguage string, id provider.ID, creds provider.CredentialSet) (string, error) {
	args := m.Called(ctx, text, targetLanguage, id, creds)
	return args.String(0), args.Error(1)
}

func (m *MockService) ListModels(ctx context.Context, id provider.ID, baseURL string) ([]provider.ModelDescriptor, error) {
	args := m.Called(ctx, id, baseURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.ModelDescriptor), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "0",
			Env:            "test",
			AllowedOrigins: []string{"chrome-extension://*"},
		},
	}
}

func seeded(t *testing.T) store.SettingsRepository {
	t.Helper()
	repo := memory.New()
	require.NoError(t, repo.Save(context.Background(), &store.Settings{
		TargetLanguage: "ja",
		AutoTranslate:  true,
		Provider:       provider.OpenAI,
		Credentials: provider.CredentialSet{
			provider.OpenAI:   {APIKey: "sk-1"},
			provider.LMStudio: {BaseURL: "http://lmstudio.local:1234"},
		},
	}))
	return repo
}

func setup(t *testing.T, cfg *config.Config, svc gateway.Service, repo store.SettingsRepository) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return server.New(cfg, zap.NewNop(), svc, repo, "test").Handler()
}

func do(t *testing.T, h http.Handler, method, path string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestTranslate_UsesStoredSettings(t *testing.T) {
	svc := new(MockService)
	repo := seeded(t)
	svc.On("Translate", mock.Anything, "hello", "ja", provider.OpenAI, mock.MatchedBy(func(c provider.CredentialSet) bool {
		return c[provider.OpenAI].APIKey == "sk-1"
	})).Return("こんにちは", nil).Once()

	w := do(t, setup(t, testConfig(), svc, repo), http.MethodPost, "/v1/translate", api.TranslateRequest{Text: "hello"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[api.TranslateResponse](t, w)
	assert.Equal(t, "こんにちは", resp.Translation)
	assert.Equal(t, "openai", resp.Provider)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	svc.AssertExpectations(t)
}

func TestTranslate_RequestOverridesSettings(t *testing.T) {
	svc := new(MockService)
	svc.On("Translate", mock.Anything, "hi", "de", provider.Gemini, mock.Anything).Return("hallo", nil).Once()

	w := do(t, setup(t, testConfig(), svc, seeded(t)), http.MethodPost, "/v1/translate",
		api.TranslateRequest{Text: "hi", TargetLanguage: "de", Provider: "gemini"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestTranslate_Validation(t *testing.T) {
	svc := new(MockService)

	w := do(t, setup(t, testConfig(), svc, seeded(t)), http.MethodPost, "/v1/translate", map[string]string{}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[api.ErrorResponse](t, w)
	assert.Equal(t, "validation", resp.Kind)
	assert.Contains(t, resp.Fields, "text")
	svc.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTranslate_ErrorKindsMapToStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    *provider.Error
		status int
	}{
		{"configuration", provider.ConfigurationError(provider.OpenAI, "OpenAI API key is not configured"), http.StatusUnprocessableEntity},
		{"unsupported", provider.UnsupportedProviderError("deepl"), http.StatusBadRequest},
		{"transport", provider.TransportError(provider.OpenAI, "cannot connect", nil), http.StatusBadGateway},
		{"http", provider.HTTPError(provider.OpenAI, "", 401, nil, "OpenAI API error: 401"), http.StatusBadGateway},
		{"malformed", provider.Malformed(provider.OpenAI, provider.Hints{}), http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Translate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return("", tc.err)

			w := do(t, setup(t, testConfig(), svc, seeded(t)), http.MethodPost, "/v1/translate", api.TranslateRequest{Text: "x"}, nil)

			assert.Equal(t, tc.status, w.Code)
			resp := decode[api.ErrorResponse](t, w)
			assert.Equal(t, string(tc.err.Kind), resp.Kind)
			assert.Equal(t, tc.err.Message, resp.Error)
		})
	}
}

func TestTranslate_EndToEndWithOllama(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		_, _ = w.Write([]byte(`{"response":"  Bonjour \n"}`))
	}))
	defer upstream.Close()

	repo := memory.New()
	require.NoError(t, repo.Save(context.Background(), &store.Settings{
		TargetLanguage: "fr",
		Provider:       provider.Ollama,
		Credentials: provider.CredentialSet{
			provider.Ollama: {BaseURL: upstream.URL, Model: "gemma2:9b"},
		},
	}))

	registry := provider.NewStaticRegistry(ollama.NewAdapter(provider.Options{}))
	svc := gateway.NewService(zap.NewNop(), registry)

	w := do(t, setup(t, testConfig(), svc, repo), http.MethodPost, "/v1/translate", api.TranslateRequest{Text: "hello"}, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Bonjour", decode[api.TranslateResponse](t, w).Translation)

	w = do(t, setup(t, testConfig(), svc, repo), http.MethodPost, "/v1/translate", api.TranslateRequest{Text: "hello", Provider: "deepl"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[api.ErrorResponse](t, w)
	assert.Equal(t, `translation failed: unsupported provider: "deepl"`, resp.Error)
	assert.Equal(t, "unsupported_provider", resp.Kind)
}

func TestListModels(t *testing.T) {
	svc := new(MockService)
	svc.On("ListModels", mock.Anything, provider.LMStudio, "http://lmstudio.local:1234").
		Return([]provider.ModelDescriptor{{ID: "m1", Loaded: true}, {ID: "m2"}}, nil).Once()
	svc.On("ListModels", mock.Anything, provider.LMStudio, "http://other:1234").
		Return([]provider.ModelDescriptor{}, nil).Once()

	h := setup(t, testConfig(), svc, seeded(t))

	w := do(t, h, http.MethodGet, "/v1/models?provider=lmstudio", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"models":[{"id":"m1","loaded":true},{"id":"m2","loaded":false}]}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/v1/models?url=http://other:1234", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"models":[]}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestSettings_GetAndUpdate(t *testing.T) {
	repo := seeded(t)
	h := setup(t, testConfig(), new(MockService), repo)

	w := do(t, h, http.MethodGet, "/v1/settings", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "openai", decode[api.Settings](t, w).Provider)

	off := false
	w = do(t, h, http.MethodPut, "/v1/settings", api.SettingsRequest{
		TargetLanguage: "ko",
		AutoTranslate:  &off,
		Provider:       "ollama",
		Credentials: map[string]api.Credentials{
			"ollama": {BaseURL: "http://localhost:11434", Model: "gemma2:9b"},
		},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, provider.Ollama, stored.Provider)
	assert.False(t, stored.AutoTranslate)
	assert.Equal(t, "gemma2:9b", stored.Credentials[provider.Ollama].Model)
}

func TestSettings_UpdateValidation(t *testing.T) {
	h := setup(t, testConfig(), new(MockService), seeded(t))

	w := do(t, h, http.MethodPut, "/v1/settings", api.SettingsRequest{TargetLanguage: "ja", Provider: "deepl"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[api.ErrorResponse](t, w)
	assert.Contains(t, resp.Fields["provider"], "must be one of")
}

func TestSettings_NotFoundBeforeSave(t *testing.T) {
	h := setup(t, testConfig(), new(MockService), memory.New())

	w := do(t, h, http.MethodGet, "/v1/settings", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLanguagesAndHealth(t *testing.T) {
	h := setup(t, testConfig(), new(MockService), seeded(t))

	w := do(t, h, http.MethodGet, "/v1/languages", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	langs := decode[api.LanguagesResponse](t, w)
	require.Len(t, langs.Languages, 7)
	assert.Equal(t, api.Language{Code: "de", Name: "German"}, langs.Languages[0])

	w = do(t, h, http.MethodGet, "/health", nil, nil)
	assert.JSONEq(t, `{"status":"ok","version":"test"}`, w.Body.String())
}

func TestCORS_Preflight(t *testing.T) {
	h := setup(t, testConfig(), new(MockService), seeded(t))

	w := do(t, h, http.MethodOptions, "/v1/translate", nil, map[string]string{"Origin": "chrome-extension://abcdef"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "chrome-extension://abcdef", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(t, h, http.MethodOptions, "/v1/translate", nil, map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuth_StaticKeys(t *testing.T) {
	cfg := testConfig()
	cfg.Server.APIKeys = []string{"relay-key"}
	h := setup(t, cfg, new(MockService), seeded(t))

	w := do(t, h, http.MethodGet, "/v1/languages", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodGet, "/v1/languages", nil, map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodGet, "/v1/languages", nil, map[string]string{"Authorization": "Bearer relay-key"})
	assert.Equal(t, http.StatusOK, w.Code)

	// health stays public
	w = do(t, h, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}
	h := setup(t, cfg, new(MockService), seeded(t))

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/v1/languages", nil, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, "/v1/languages", nil, nil).Code)
}
