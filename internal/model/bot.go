package model

import (
	"strings"
	"time"
)

// Risk is the risk profile label shown on a bot card
type Risk string

const (
	RiskLow    Risk = "Bajo"
	RiskMedium Risk = "Medio"
	RiskHigh   Risk = "Alto"
)

// Bot investment bounds (slider range on the create form)
const (
	MinBotInvestment     = 100.0
	MaxBotInvestment     = 10000.0
	DefaultBotInvestment = 1000.0
)

// Valid reports whether r is one of the known risk labels
func (r Risk) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Bot filters for list views
const (
	BotFilterAll        = "all"
	BotFilterActive     = "active"
	BotFilterProfitable = "profitable"
)

// Bot is a simulated trading strategy record
type Bot struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Strategy   string    `json:"strategy"`
	IsActive   bool      `json:"isActive"`
	Profit     float64   `json:"profit"`
	ROI        float64   `json:"roi"`
	Accuracy   float64   `json:"accuracy"`
	Risk       Risk      `json:"risk"`
	Investment float64   `json:"investment"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BotRequest is the create-bot form
type BotRequest struct {
	Name       string  `json:"name" binding:"required"`
	Strategy   string  `json:"strategy" binding:"required,strategy"`
	Risk       string  `json:"risk" binding:"omitempty,risk"`
	Investment float64 `json:"investment" binding:"omitempty,min=100,max=10000"`
}

// Normalize trims input and fills defaults
func (r *BotRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Strategy = strings.TrimSpace(r.Strategy)
	r.Risk = strings.TrimSpace(r.Risk)
	if r.Risk == "" {
		r.Risk = string(RiskMedium)
	}
	if r.Investment == 0 {
		r.Investment = DefaultBotInvestment
	}
}

// BotStats is the summary row above the bot grid
type BotStats struct {
	Total          int     `json:"total"`
	Active         int     `json:"active"`
	Profitable     int     `json:"profitable"`
	PositiveProfit float64 `json:"positiveProfit"`
	AverageROI     float64 `json:"averageRoi"`
}
