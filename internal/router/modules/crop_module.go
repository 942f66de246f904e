package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	handlers "github.com/oksasatya/shamba-farm/internal/interface/http"
	"github.com/oksasatya/shamba-farm/internal/interface/middleware"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
)

// CropModule mounts the crop routes. Ownership is checked per crop by the service.
type CropModule struct {
	Handler  *handlers.CropHandler
	Sessions repository.SessionRepository
	JWT      *helpers.JWTManager
}

func NewCropModule(h *handlers.CropHandler, sessions repository.SessionRepository, jwt *helpers.JWTManager) *CropModule {
	return &CropModule{Handler: h, Sessions: sessions, JWT: jwt}
}

func (m *CropModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/crops")
	auth.Use(middleware.Auth(m.Sessions, m.JWT))
	{
		auth.GET("/", m.Handler.List)
		auth.POST("/", m.Handler.Create)
		auth.GET("/:id/", m.Handler.Get)
		auth.PUT("/:id/", m.Handler.Update)
		auth.PATCH("/:id/", m.Handler.Patch)
		auth.DELETE("/:id/", m.Handler.Delete)
	}
}
