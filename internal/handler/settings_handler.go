package handler

import (
	"gptading/backend/internal/middleware"
	"gptading/backend/internal/model"
	"gptading/backend/internal/service"
	"gptading/backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
}

func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetNotifications handles GET /api/settings/notifications
func (h *SettingsHandler) GetNotifications(c *gin.Context) {
	settings, err := h.settingsService.Notifications(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccess(c, settings)
}

// UpdateNotifications handles PUT /api/settings/notifications
func (h *SettingsHandler) UpdateNotifications(c *gin.Context) {
	var req model.NotificationSettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, validationDetails(err))
		return
	}

	settings, err := h.settingsService.UpdateNotifications(c.Request.Context(), middleware.SessionID(c), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccess(c, settings)
}
