package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-translate/internal/provider"
	"github.com/nulzo/llm-translate/internal/store"
	"github.com/nulzo/llm-translate/pkg/api"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error attached by a handler.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := Resolve(err)

		if status >= http.StatusInternalServerError {
			fields := []zap.Field{zap.Error(err), zap.String(RequestIDKey, c.GetString(RequestIDKey))}
			var apiErr *api.Error
			if errors.As(err, &apiErr) && apiErr.Log != nil {
				fields = append(fields, zap.NamedError("cause", apiErr.Log))
			}
			logger.Error("request failed", fields...)
		}

		c.AbortWithStatusJSON(status, body)
	}
}

// Resolve maps an error to its HTTP status and response body.
func Resolve(err error) (int, api.ErrorResponse) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr.Response()
	}

	var pe *provider.Error
	if errors.As(err, &pe) {
		return StatusForKind(pe.Kind), api.ErrorResponse{Error: err.Error(), Kind: string(pe.Kind)}
	}

	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound, api.ErrorResponse{Error: err.Error(), Kind: "not_found"}
	}

	return http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error", Kind: "internal"}
}

func StatusForKind(k provider.Kind) int {
	switch k {
	case provider.KindConfiguration:
		return http.StatusUnprocessableEntity
	case provider.KindUnsupportedProvider:
		return http.StatusBadRequest
	case provider.KindTransport, provider.KindProviderHTTP, provider.KindMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
