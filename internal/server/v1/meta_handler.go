package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-translate/internal/language"
	"github.com/nulzo/llm-translate/pkg/api"
)

type MetaHandler struct {
	version string
}

func NewMetaHandler(version string) *MetaHandler {
	return &MetaHandler{version: version}
}

// Health is the liveness probe.
//
// GET /health
func (h *MetaHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok", Version: h.version})
}

// Languages lists the languages the popup offers.
//
// GET /v1/languages
func (h *MetaHandler) Languages(c *gin.Context) {
	supported := language.Supported()
	resp := api.LanguagesResponse{Languages: make([]api.Language, 0, len(supported))}
	for _, l := range supported {
		resp.Languages = append(resp.Languages, api.Language{Code: l.Code, Name: l.Name})
	}
	c.JSON(http.StatusOK, resp)
}
