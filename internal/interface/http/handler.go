// Package handlers adapts the application services to Gin.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shamba-farm/internal/application"
	"github.com/oksasatya/shamba-farm/internal/interface/middleware"
	"github.com/oksasatya/shamba-farm/pkg/response"
	"github.com/oksasatya/shamba-farm/pkg/validation"
)

// decodeJSON reads the body into dst without running binding rules; the
// services validate so that every field error is reported at once. An empty
// body decodes as {}.
func decodeJSON(c *gin.Context, dst any) bool {
	if c.Request.Body == nil {
		return true
	}
	err := json.NewDecoder(c.Request.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
	return false
}

func clientInfo(c *gin.Context) application.ClientInfo {
	return application.ClientInfo{IP: middleware.ClientIP(c), UserAgent: c.GetHeader("User-Agent")}
}
