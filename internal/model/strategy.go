package model

import "strings"

// Strategy is an entry of the strategy catalog
type Strategy struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StrategyUsage is a catalog entry with the number of bots using it
type StrategyUsage struct {
	Strategy
	BotCount int `json:"botCount"`
}

// Strategies is the fixed strategy catalog offered by the create form
var Strategies = []Strategy{
	{ID: "grid", Name: "Grid Trading", Description: "Operaciones automáticas en rangos definidos"},
	{ID: "dca", Name: "DCA + RSI", Description: "Promedio de costo con indicadores técnicos"},
	{ID: "momentum", Name: "Momentum Trading", Description: "Seguimiento de tendencias fuertes"},
	{ID: "scalping", Name: "High Frequency", Description: "Múltiples operaciones de corto plazo"},
	{ID: "arbitrage", Name: "Cross Exchange", Description: "Aprovecha diferencias de precio entre exchanges"},
	{ID: "ai", Name: "Machine Learning", Description: "Predicciones basadas en inteligencia artificial"},
}

// LookupStrategy finds a catalog entry by id or display name, ignoring case
func LookupStrategy(s string) (Strategy, bool) {
	s = strings.TrimSpace(s)
	for _, st := range Strategies {
		if strings.EqualFold(st.ID, s) || strings.EqualFold(st.Name, s) {
			return st, true
		}
	}
	return Strategy{}, false
}
