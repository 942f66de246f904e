package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	handlers "github.com/oksasatya/shamba-farm/internal/interface/http"
	"github.com/oksasatya/shamba-farm/internal/interface/middleware"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
)

// FarmerModule mounts the admin-only farmer management routes.
type FarmerModule struct {
	Handler  *handlers.FarmerHandler
	Sessions repository.SessionRepository
	JWT      *helpers.JWTManager
}

func NewFarmerModule(h *handlers.FarmerHandler, sessions repository.SessionRepository, jwt *helpers.JWTManager) *FarmerModule {
	return &FarmerModule{Handler: h, Sessions: sessions, JWT: jwt}
}

func (m *FarmerModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/farmers")
	admin.Use(middleware.Auth(m.Sessions, m.JWT), middleware.RequireRole(entity.RoleAdmin))
	{
		admin.GET("/", m.Handler.List)
		admin.POST("/", m.Handler.Create)
		admin.GET("/:id/", m.Handler.Get)
		admin.PUT("/:id/", m.Handler.Update)
		admin.PATCH("/:id/", m.Handler.Update)
		admin.DELETE("/:id/", m.Handler.Delete)
	}
}
