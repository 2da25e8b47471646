package handler

import (
	"strconv"

	"gptading/backend/internal/middleware"
	"gptading/backend/internal/model"
	"gptading/backend/internal/service"
	"gptading/backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BotHandler struct {
	botService *service.BotService
}

func NewBotHandler(botService *service.BotService) *BotHandler {
	return &BotHandler{botService: botService}
}

// ListBots handles GET /api/bots?filter=all|active|profitable
func (h *BotHandler) ListBots(c *gin.Context) {
	bots, err := h.botService.List(c.Request.Context(), middleware.SessionID(c), c.Query("filter"))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, bots)
}

// CreateBot handles POST /api/bots
func (h *BotHandler) CreateBot(c *gin.Context) {
	var req model.BotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, validationDetails(err))
		return
	}

	bot, err := h.botService.Create(c.Request.Context(), middleware.SessionID(c), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendCreated(c, bot, "Bot created successfully")
}

// GetBot handles GET /api/bots/:id
func (h *BotHandler) GetBot(c *gin.Context) {
	id, ok := botID(c)
	if !ok {
		return
	}

	bot, err := h.botService.Get(c.Request.Context(), middleware.SessionID(c), id)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, bot)
}

// ToggleBot handles POST /api/bots/:id/toggle
func (h *BotHandler) ToggleBot(c *gin.Context) {
	id, ok := botID(c)
	if !ok {
		return
	}

	bot, err := h.botService.Toggle(c.Request.Context(), middleware.SessionID(c), id)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, bot)
}

// Stats handles GET /api/bots/stats
func (h *BotHandler) Stats(c *gin.Context) {
	stats, err := h.botService.Stats(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, stats)
}

// Strategies handles GET /api/strategies
func (h *BotHandler) Strategies(c *gin.Context) {
	strategies, err := h.botService.Strategies(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, strategies)
}

func botID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		util.SendError(c, util.ErrBadRequest("Invalid bot ID"))
		return 0, false
	}
	return id, true
}
