package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	handlers "github.com/oksasatya/shamba-farm/internal/interface/http"
	"github.com/oksasatya/shamba-farm/internal/interface/middleware"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
)

type ProfileModule struct {
	Handler  *handlers.ProfileHandler
	Sessions repository.SessionRepository
	JWT      *helpers.JWTManager
}

func NewProfileModule(h *handlers.ProfileHandler, sessions repository.SessionRepository, jwt *helpers.JWTManager) *ProfileModule {
	return &ProfileModule{Handler: h, Sessions: sessions, JWT: jwt}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/profile")
	auth.Use(middleware.Auth(m.Sessions, m.JWT))
	{
		auth.GET("/", m.Handler.GetMe)
		auth.PUT("/", m.Handler.UpdateMe)
		auth.PATCH("/", m.Handler.UpdateMe)
	}

	farmer := auth.Group("/farmer")
	farmer.Use(middleware.RequireRole(entity.RoleFarmer))
	{
		farmer.GET("/", m.Handler.GetFarmerProfile)
		farmer.PUT("/", m.Handler.UpdateFarmerProfile)
		farmer.PATCH("/", m.Handler.UpdateFarmerProfile)
	}
}
