package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-translate/internal/gateway"
	"github.com/nulzo/llm-translate/internal/provider"
	"github.com/nulzo/llm-translate/internal/store"
	"github.com/nulzo/llm-translate/pkg/api"
)

type ModelHandler struct {
	service  gateway.Service
	settings store.SettingsRepository
}

func NewModelHandler(service gateway.Service, settings store.SettingsRepository) *ModelHandler {
	return &ModelHandler{service: service, settings: settings}
}

// ListModels lists the models a local server offers. The url query parameter
// wins over the stored base URL.
//
// GET /v1/models?provider=lmstudio&url=http://localhost:1234
func (h *ModelHandler) ListModels(c *gin.Context) {
	id := provider.ID(c.DefaultQuery("provider", string(provider.LMStudio)))

	baseURL := c.Query("url")
	if baseURL == "" {
		snapshot, err := loadSettings(c, h.settings)
		if err != nil {
			_ = c.Error(err)
			return
		}
		baseURL = snapshot.Credentials[id].BaseURL
	}

	models, err := h.service.ListModels(c.Request.Context(), id, baseURL)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := api.ModelsResponse{Models: make([]api.Model, 0, len(models))}
	for _, m := range models {
		resp.Models = append(resp.Models, api.Model{ID: m.ID, Loaded: m.Loaded})
	}
	c.JSON(http.StatusOK, resp)
}
