package router

import (
	"github.com/oksasatya/shamba-farm/internal/application"
	"github.com/oksasatya/shamba-farm/internal/container"
	handlers "github.com/oksasatya/shamba-farm/internal/interface/http"
	"github.com/oksasatya/shamba-farm/internal/router/modules"
)

type services struct {
	Auth      *application.AuthService
	Farmers   *application.FarmerService
	Profiles  *application.ProfileService
	Crops     *application.CropService
	Dashboard *application.DashboardService
}

func buildServices() services {
	store := container.GetStore()
	sessions := container.GetSessions()
	logger := container.GetLogger()

	return services{
		Auth:      application.NewAuthService(store, sessions, container.GetJWT(), logger),
		Farmers:   application.NewFarmerService(store, sessions, logger),
		Profiles:  application.NewProfileService(store, logger),
		Crops:     application.NewCropService(store, logger),
		Dashboard: application.NewDashboardService(store, logger),
	}
}

// InitModules builds every feature module from the container and adds it to
// the registry. Call once at startup after the container is populated.
func InitModules(r *Registry, health *handlers.HealthHandler) {
	cfg := container.GetConfig()
	jwt := container.GetJWT()
	if jwt == nil {
		panic("router: JWT manager not set in container")
	}
	sessions := container.GetSessions()
	rdb := container.GetRedis()
	svc := buildServices()

	authLimit := 0
	if cfg.RateLimitEnabled {
		authLimit = cfg.AuthRateLimit
	}

	if health != nil {
		r.AddRoot(modules.NewHealthModule(health))
	}
	r.Add(modules.NewAuthModule(
		handlers.NewAuthHandler(svc.Auth, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure),
		jwt, rdb, authLimit,
	))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(svc.Profiles), sessions, jwt))
	r.Add(modules.NewFarmerModule(handlers.NewFarmerHandler(svc.Farmers), sessions, jwt))
	r.Add(modules.NewCropModule(handlers.NewCropHandler(svc.Crops), sessions, jwt))
	r.Add(modules.NewDashboardModule(handlers.NewDashboardHandler(svc.Dashboard), sessions, jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
