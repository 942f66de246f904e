package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shamba-farm/internal/application"
	"github.com/oksasatya/shamba-farm/internal/interface/middleware"
	"github.com/oksasatya/shamba-farm/pkg/response"
)

// FarmerHandler serves the admin-only farmer management routes.
type FarmerHandler struct {
	Svc *application.FarmerService
}

func NewFarmerHandler(svc *application.FarmerService) *FarmerHandler {
	return &FarmerHandler{Svc: svc}
}

func (h *FarmerHandler) List(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toFarmerViews(out), "ok", map[string]any{"count": len(out)})
}

func (h *FarmerHandler) Create(c *gin.Context) {
	var req application.FarmerCreateInput
	if !decodeJSON(c, &req) {
		return
	}
	f, err := h.Svc.Create(c.Request.Context(), middleware.PrincipalFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toFarmerView(f), "farmer created", nil)
}

func (h *FarmerHandler) Get(c *gin.Context) {
	f, err := h.Svc.Get(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toFarmerView(f), "ok", nil)
}

// Update serves both PUT and PATCH; every field is optional.
func (h *FarmerHandler) Update(c *gin.Context) {
	var req application.FarmerUpdateInput
	if !decodeJSON(c, &req) {
		return
	}
	f, err := h.Svc.Update(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toFarmerView(f), "farmer updated", nil)
}

func (h *FarmerHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"), clientInfo(c)); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
