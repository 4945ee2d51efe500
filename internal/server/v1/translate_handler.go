package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-translate/internal/gateway"
	"github.com/nulzo/llm-translate/internal/provider"
	"github.com/nulzo/llm-translate/internal/server/middleware"
	"github.com/nulzo/llm-translate/internal/server/validator"
	"github.com/nulzo/llm-translate/internal/store"
	"github.com/nulzo/llm-translate/pkg/api"
)

type TranslateHandler struct {
	service  gateway.Service
	settings store.SettingsRepository
}

func NewTranslateHandler(service gateway.Service, settings store.SettingsRepository) *TranslateHandler {
	return &TranslateHandler{service: service, settings: settings}
}

// Translate reads a settings snapshot, applies request overrides and makes
// exactly one provider call.
//
// POST /v1/translate
func (h *TranslateHandler) Translate(c *gin.Context) {
	var req api.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	snapshot, err := loadSettings(c, h.settings)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id := snapshot.Provider
	if req.Provider != "" {
		id = provider.ID(req.Provider)
	}
	target := snapshot.TargetLanguage
	if req.TargetLanguage != "" {
		target = req.TargetLanguage
	}

	c.Set(middleware.ProviderKey, string(id))

	translation, err := h.service.Translate(c.Request.Context(), req.Text, target, id, snapshot.Credentials)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, api.TranslateResponse{
		Translation:    translation,
		Provider:       string(id),
		TargetLanguage: target,
	})
}

// loadSettings treats an empty store as empty settings so request overrides
// still work before anything is saved.
func loadSettings(c *gin.Context, repo store.SettingsRepository) (*store.Settings, error) {
	s, err := repo.Get(c.Request.Context())
	if errors.Is(err, store.ErrNotFound) {
		return &store.Settings{AutoTranslate: true, Credentials: provider.CredentialSet{}}, nil
	}
	if err != nil {
		return nil, api.InternalError("failed to load settings", err)
	}
	return s, nil
}
