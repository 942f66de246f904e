package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shamba-farm/internal/application"
	"github.com/oksasatya/shamba-farm/internal/interface/middleware"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
	"github.com/oksasatya/shamba-farm/pkg/response"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

// Register POST /api/auth/register/
func (h *AuthHandler) Register(c *gin.Context) {
	var req application.RegisterInput
	if !decodeJSON(c, &req) {
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), req, clientInfo(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	h.Cookies.SetToken(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusCreated, toAuthView(res), "User created successfully", nil)
}

// Login POST /api/auth/login/
func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginInput
	if !decodeJSON(c, &req) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req, clientInfo(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	h.Cookies.SetToken(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, toAuthView(res), "Login successful", nil)
}

// Logout POST /api/auth/logout/ (signed token required, live session not)
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		response.Error[any](c, http.StatusUnauthorized, "authentication credentials were not provided", nil)
		return
	}
	if err := h.Svc.Logout(c.Request.Context(), claims.UserID, claims.SessionID, clientInfo(c)); err != nil {
		response.FromError(c, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "Logout successful", nil)
}
