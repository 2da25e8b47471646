package handler

import (
	"gptading/backend/internal/middleware"
	"gptading/backend/internal/model"
	"gptading/backend/internal/service"
	"gptading/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ExchangeHandler handles the Zaffex connection endpoints
type ExchangeHandler struct {
	exchangeService *service.ExchangeService
}

// NewExchangeHandler creates a new exchange handler
func NewExchangeHandler(exchangeService *service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchangeService: exchangeService}
}

// Status returns the masked connection
// GET /api/exchange
func (h *ExchangeHandler) Status(c *gin.Context) {
	view, err := h.exchangeService.Status(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccess(c, view)
}

// Connect starts a connection attempt and answers before it finishes
// POST /api/exchange/connect
func (h *ExchangeHandler) Connect(c *gin.Context) {
	var req model.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, validationDetails(err))
		return
	}

	view, err := h.exchangeService.Connect(c.Request.Context(), middleware.SessionID(c), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendAccepted(c, view, "Connecting to Zaffex")
}

// Disconnect clears the credentials
// POST /api/exchange/disconnect
func (h *ExchangeHandler) Disconnect(c *gin.Context) {
	view, err := h.exchangeService.Disconnect(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccessWithMessage(c, view, "Disconnected from Zaffex")
}

// SetTestMode changes test mode while disconnected
// PUT /api/exchange/test-mode
func (h *ExchangeHandler) SetTestMode(c *gin.Context) {
	var req model.TestModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, validationDetails(err))
		return
	}

	view, err := h.exchangeService.SetTestMode(c.Request.Context(), middleware.SessionID(c), *req.TestMode)
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccess(c, view)
}
