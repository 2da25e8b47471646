package seed

import (
	"testing"

	"gptading/backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestDefault_Shape(t *testing.T) {
	s := Default()

	assert.Len(t, s.Bots, 6)
	assert.Len(t, s.Trades, 6)
	assert.Len(t, s.Pairs, 6)
	assert.Equal(t, 47650.0, s.Portfolio.Balance)
	assert.Equal(t, 40000.0, s.Portfolio.InitialBalance)
	assert.False(t, s.Exchange.IsConnected)
	assert.True(t, s.Exchange.TestMode)
	assert.Equal(t, model.ExchangeStatusDisconnected, s.Exchange.Status)

	var total float64
	for _, a := range s.Allocation {
		total += a.Percentage
	}
	assert.Equal(t, 100.0, total)
}

func TestDefault_BotsUseCatalogStrategies(t *testing.T) {
	for _, b := range Default().Bots {
		_, ok := model.LookupStrategy(b.Strategy)
		assert.True(t, ok, b.Strategy)
		assert.True(t, b.Risk.Valid(), b.Risk)
	}
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	b := Default()

	a.Bots[0].IsActive = !a.Bots[0].IsActive
	a.Bots = append(a.Bots, model.Bot{ID: 99})

	assert.NotEqual(t, a.Bots[0].IsActive, b.Bots[0].IsActive)
	assert.Len(t, b.Bots, 6)
}
