package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shamba-farm/internal/application"
	"github.com/oksasatya/shamba-farm/internal/interface/middleware"
	"github.com/oksasatya/shamba-farm/pkg/response"
)

type CropHandler struct {
	Svc *application.CropService
}

func NewCropHandler(svc *application.CropService) *CropHandler {
	return &CropHandler{Svc: svc}
}

// List GET /api/crops/?crop_type=&status=
func (h *CropHandler) List(c *gin.Context) {
	filter := application.CropListFilter{CropType: c.Query("crop_type"), Status: c.Query("status")}
	out, err := h.Svc.List(c.Request.Context(), middleware.PrincipalFrom(c), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCropViews(out), "ok", map[string]any{"count": len(out)})
}

func (h *CropHandler) Create(c *gin.Context) {
	var req application.CropInput
	if !decodeJSON(c, &req) {
		return
	}
	crop, err := h.Svc.Create(c.Request.Context(), middleware.PrincipalFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toCropView(crop), "crop created", nil)
}

func (h *CropHandler) Get(c *gin.Context) {
	crop, err := h.Svc.Get(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCropView(crop), "ok", nil)
}

func (h *CropHandler) Update(c *gin.Context) {
	var req application.CropInput
	if !decodeJSON(c, &req) {
		return
	}
	crop, err := h.Svc.Update(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCropView(crop), "crop updated", nil)
}

func (h *CropHandler) Patch(c *gin.Context) {
	var req application.CropPatch
	if !decodeJSON(c, &req) {
		return
	}
	crop, err := h.Svc.Patch(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCropView(crop), "crop updated", nil)
}

func (h *CropHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
