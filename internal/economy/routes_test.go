package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/ashfall/internal/world"
)

func TestTradeRouteMovesSupplyTowardHighPrices(t *testing.T) {
	w := world.NewState()
	w.AddLocation(&world.Location{
		ID: "city", Type: world.LocCity, Population: 300, ConnectedTo: []string{"village"},
	})
	w.AddLocation(&world.Location{
		ID: "village", Type: world.LocVillage, Population: 80, ConnectedTo: []string{"city"},
	})
	e := New(w)
	city := e.Markets["city"]
	village := e.Markets["village"]

	// Steep price gap on tools: goods flow from cheap to dear.
	city.Price[GoodsTools] = 30
	village.Price[GoodsTools] = 10
	village.Supply[GoodsTools] = 50
	citySupply := city.Supply[GoodsTools]
	villageSupply := village.Supply[GoodsTools]

	e.runTradeRoutes()
	assert.Equal(t, citySupply+tradeRouteUnits, city.Supply[GoodsTools])
	assert.Equal(t, villageSupply-tradeRouteUnits, village.Supply[GoodsTools])
}

func TestTradeRouteIgnoresSmallGaps(t *testing.T) {
	w := world.NewState()
	w.AddLocation(&world.Location{
		ID: "city", Type: world.LocCity, Population: 300, ConnectedTo: []string{"village"},
	})
	w.AddLocation(&world.Location{
		ID: "village", Type: world.LocVillage, Population: 80, ConnectedTo: []string{"city"},
	})
	e := New(w)
	city := e.Markets["city"]
	village := e.Markets["village"]

	city.Price[GoodsTools] = 12
	village.Price[GoodsTools] = 10 // ratio 1.2 < 1.3
	before := village.Supply[GoodsTools]

	e.runTradeRoutes()
	assert.Equal(t, before, village.Supply[GoodsTools])
}
