package handler

import (
	"net/http"

	"github.com/personalhub/hub/internal/respond"
	"github.com/personalhub/hub/internal/service"
	"github.com/personalhub/hub/internal/validation"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	errs := validation.Errors{}
	limit := validation.QueryInt(errs, "recentLimit", r.URL.Query().Get("recentLimit"),
		service.DefaultRecentLimit, 1, service.MaxRecentLimit)
	if err := errs.Err(); err != nil {
		fail(w, r, err, "get dashboard stats")
		return
	}

	stats, err := h.dashboardService.Stats(r.Context(), userID(r), limit)
	if err != nil {
		fail(w, r, err, "get dashboard stats")
		return
	}
	respond.JSON(w, http.StatusOK, stats)
}

func (h *DashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	errs := validation.Errors{}
	limit := validation.QueryInt(errs, "limit", r.URL.Query().Get("limit"),
		service.DefaultActivityLimit, 1, service.MaxActivityLimit)
	if err := errs.Err(); err != nil {
		fail(w, r, err, "get dashboard activity")
		return
	}

	feed, err := h.dashboardService.Activity(r.Context(), userID(r), limit)
	if err != nil {
		fail(w, r, err, "get dashboard activity")
		return
	}
	respond.JSON(w, http.StatusOK, feed)
}
