package handler

import (
	"strings"

	"gptading/backend/internal/middleware"
	"gptading/backend/internal/service"
	"gptading/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the read-only portfolio views
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary handles GET /api/dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccess(c, summary)
}

// Portfolio handles GET /api/portfolio
func (h *DashboardHandler) Portfolio(c *gin.Context) {
	portfolio, err := h.dashboardService.Portfolio(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccess(c, portfolio)
}

// Trades handles GET /api/trades
func (h *DashboardHandler) Trades(c *gin.Context) {
	trades, err := h.dashboardService.Trades(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccess(c, trades)
}

// Pairs handles GET /api/market/pairs?symbols=BTC/USDT,ETH/USDT
func (h *DashboardHandler) Pairs(c *gin.Context) {
	var symbols []string
	if raw := c.Query("symbols"); raw != "" {
		symbols = strings.Split(raw, ",")
	}

	pairs, err := h.dashboardService.Pairs(c.Request.Context(), middleware.SessionID(c), symbols)
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccess(c, pairs)
}

// Allocation handles GET /api/portfolio/allocation
func (h *DashboardHandler) Allocation(c *gin.Context) {
	allocation, err := h.dashboardService.Allocation(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccess(c, allocation)
}
