package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-translate/internal/provider"
	"github.com/nulzo/llm-translate/internal/server/validator"
	"github.com/nulzo/llm-translate/internal/store"
	"github.com/nulzo/llm-translate/pkg/api"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	settings store.SettingsRepository
	logger   *zap.Logger
}

func NewSettingsHandler(settings store.SettingsRepository, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

// Get returns the stored settings.
//
// GET /v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.settings.Get(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToAPISettings(s))
}

// Update replaces the stored settings.
//
// PUT /v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req api.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	s := FromSettingsRequest(&req)
	if err := s.Validate(); err != nil {
		_ = c.Error(api.BadRequest(err.Error()))
		return
	}

	if err := h.settings.Save(c.Request.Context(), s); err != nil {
		_ = c.Error(api.InternalError("failed to save settings", err))
		return
	}

	h.logger.Info("settings updated",
		zap.String("provider", string(s.Provider)),
		zap.String("target_language", s.TargetLanguage),
	)
	c.JSON(http.StatusOK, ToAPISettings(s))
}

func ToAPISettings(s *store.Settings) api.Settings {
	out := api.Settings{
		TargetLanguage: s.TargetLanguage,
		AutoTranslate:  s.AutoTranslate,
		Provider:       string(s.Provider),
		Credentials:    make(map[string]api.Credentials, len(s.Credentials)),
	}
	for id, c := range s.Credentials {
		out.Credentials[string(id)] = api.Credentials{APIKey: c.APIKey, BaseURL: c.BaseURL, Model: c.Model}
	}
	return out
}

// FromSettingsRequest converts a request body. A missing auto_translate means
// enabled, as in the extension popup.
func FromSettingsRequest(req *api.SettingsRequest) *store.Settings {
	s := &store.Settings{
		TargetLanguage: req.TargetLanguage,
		AutoTranslate:  true,
		Provider:       provider.ID(req.Provider),
		Credentials:    make(provider.CredentialSet, len(req.Credentials)),
	}
	if req.AutoTranslate != nil {
		s.AutoTranslate = *req.AutoTranslate
	}
	for id, c := range req.Credentials {
		s.Credentials[provider.ID(id)] = provider.Credentials{APIKey: c.APIKey, BaseURL: c.BaseURL, Model: c.Model}
	}
	return s
}
