package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	handlers "github.com/oksasatya/shamba-farm/internal/interface/http"
	"github.com/oksasatya/shamba-farm/internal/interface/middleware"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
)

// DashboardModule mounts both dashboards and the admin crop statistics.
type DashboardModule struct {
	Handler  *handlers.DashboardHandler
	Sessions repository.SessionRepository
	JWT      *helpers.JWTManager
}

func NewDashboardModule(h *handlers.DashboardHandler, sessions repository.SessionRepository, jwt *helpers.JWTManager) *DashboardModule {
	return &DashboardModule{Handler: h, Sessions: sessions, JWT: jwt}
}

func (m *DashboardModule) Register(rg *gin.RouterGroup) {
	auth := middleware.Auth(m.Sessions, m.JWT)
	admin := middleware.RequireRole(entity.RoleAdmin)
	farmer := middleware.RequireRole(entity.RoleFarmer)

	rg.GET("/dashboard/admin/", auth, admin, m.Handler.Admin)
	rg.GET("/dashboard/farmer/", auth, farmer, m.Handler.Farmer)
	rg.GET("/statistics/crops/", auth, admin, m.Handler.CropStatistics)
}
