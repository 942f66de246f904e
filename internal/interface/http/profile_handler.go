package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shamba-farm/internal/application"
	"github.com/oksasatya/shamba-farm/internal/interface/middleware"
	"github.com/oksasatya/shamba-farm/pkg/response"
)

type ProfileHandler struct {
	Svc *application.ProfileService
}

func NewProfileHandler(svc *application.ProfileService) *ProfileHandler {
	return &ProfileHandler{Svc: svc}
}

// GetMe GET /api/profile/
func (h *ProfileHandler) GetMe(c *gin.Context) {
	u, err := h.Svc.GetMe(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u), "ok", nil)
}

// UpdateMe PUT/PATCH /api/profile/
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req application.UserUpdateInput
	if !decodeJSON(c, &req) {
		return
	}
	u, err := h.Svc.UpdateMe(c.Request.Context(), middleware.PrincipalFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u), "profile updated", nil)
}

// GetFarmerProfile GET /api/profile/farmer/
func (h *ProfileHandler) GetFarmerProfile(c *gin.Context) {
	f, err := h.Svc.GetFarmerProfile(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toFarmerView(f), "ok", nil)
}

// UpdateFarmerProfile PUT/PATCH /api/profile/farmer/
func (h *ProfileHandler) UpdateFarmerProfile(c *gin.Context) {
	var req application.FarmerUpdateInput
	if !decodeJSON(c, &req) {
		return
	}
	f, err := h.Svc.UpdateFarmerProfile(c.Request.Context(), middleware.PrincipalFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toFarmerView(f), "farmer profile updated", nil)
}
