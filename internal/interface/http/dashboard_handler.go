package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shamba-farm/internal/application"
	"github.com/oksasatya/shamba-farm/internal/interface/middleware"
	"github.com/oksasatya/shamba-farm/pkg/response"
)

type DashboardHandler struct {
	Svc *application.DashboardService
}

func NewDashboardHandler(svc *application.DashboardService) *DashboardHandler {
	return &DashboardHandler{Svc: svc}
}

// Admin GET /api/dashboard/admin/
func (h *DashboardHandler) Admin(c *gin.Context) {
	d, err := h.Svc.Admin(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, AdminDashboardView{
		TotalFarmers: d.TotalFarmers,
		TotalCrops:   d.TotalCrops,
		CropsByType:  nonNil(d.CropsByType),
		RecentCrops:  toCropViews(d.RecentCrops),
	}, "ok", nil)
}

// Farmer GET /api/dashboard/farmer/
func (h *DashboardHandler) Farmer(c *gin.Context) {
	d, err := h.Svc.Farmer(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, FarmerDashboardView{
		TotalCrops:    d.TotalCrops,
		CropsByType:   nonNil(d.CropsByType),
		CropsByStatus: nonNil(d.CropsByStatus),
		RecentCrops:   toCropViews(d.RecentCrops),
	}, "ok", nil)
}

// CropStatistics GET /api/statistics/crops/
func (h *DashboardHandler) CropStatistics(c *gin.Context) {
	s, err := h.Svc.CropStatistics(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	view := CropStatisticsView{
		CropsByFarmer: make([]FarmerCountView, 0, len(s.CropsByFarmer)),
		CropsByMonth:  make([]MonthCountView, 0, len(s.CropsByMonth)),
	}
	for _, f := range s.CropsByFarmer {
		view.CropsByFarmer = append(view.CropsByFarmer, FarmerCountView(f))
	}
	for _, m := range s.CropsByMonth {
		view.CropsByMonth = append(view.CropsByMonth, MonthCountView(m))
	}
	response.Success(c, http.StatusOK, view, "ok", nil)
}
