package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/shamba-farm/internal/interface/http"
	"github.com/oksasatya/shamba-farm/internal/interface/middleware"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
)

// AuthModule mounts register, login and logout.
// Public: POST /auth/register/, POST /auth/login/ (per-IP rate limited)
// Signed token: POST /auth/logout/
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
	RDB     *redis.Client
	Limit   int
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, rdb *redis.Client, limitPerMinute int) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, RDB: rdb, Limit: limitPerMinute}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(m.RDB, m.Limit, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register/", limiter, m.Handler.Register)
	rg.POST("/auth/login/", limiter, m.Handler.Login)
	rg.POST("/auth/logout/", middleware.SignedToken(m.JWT), m.Handler.Logout)
}
