// Package economy provides the per-location market simulator: supply and
// demand pricing with inflation smoothing and trade-route arbitrage
// between connected markets.
package economy

import (
	"fmt"
	"math"
	"sort"

	"github.com/talgya/ashfall/internal/world"
)

// Goods enumerates tradeable goods types.
type Goods string

const (
	GoodsFood     Goods = "food"
	GoodsWood     Goods = "wood"
	GoodsTools    Goods = "tools"
	GoodsMedicine Goods = "medicine"
	GoodsLuxury   Goods = "luxury"
)

// AllGoods lists every goods type in stable order.
var AllGoods = []Goods{GoodsFood, GoodsWood, GoodsTools, GoodsMedicine, GoodsLuxury}

// basePrices is the production-cost anchor per goods type. Prices stay
// within [0.5×, 3×] of base.
var basePrices = map[Goods]float64{
	GoodsFood:     2,
	GoodsWood:     3,
	GoodsTools:    10,
	GoodsMedicine: 12,
	GoodsLuxury:   25,
}

const (
	priceFloorRatio   = 0.5
	priceCeilingRatio = 3.0
	demandElasticity  = 0.3
	tradeRouteRatio   = 1.3
	tradeRouteUnits   = 5.0
)

// BasePrice returns the production-cost anchor for a goods type.
func BasePrice(g Goods) float64 {
	return basePrices[g]
}

// Market holds the economic state of one location.
type Market struct {
	Location    string            `json:"location"`
	Price       map[Goods]float64 `json:"price"`
	Supply      map[Goods]float64 `json:"supply"`
	Demand      map[Goods]float64 `json:"demand"`
	TradeVolume float64           `json:"trade_volume"`
}

// NewMarket creates a market at base prices with unit supply/demand.
func NewMarket(locID string) *Market {
	m := &Market{
		Location: locID,
		Price:    make(map[Goods]float64, len(AllGoods)),
		Supply:   make(map[Goods]float64, len(AllGoods)),
		Demand:   make(map[Goods]float64, len(AllGoods)),
	}
	for _, g := range AllGoods {
		m.Price[g] = basePrices[g]
		m.Supply[g] = 10
		m.Demand[g] = 10
	}
	return m
}

// Economy runs all markets one tick at a time.
type Economy struct {
	World         *world.State
	Markets       map[string]*Market
	InflationRate float64
}

// New creates a market for every city and village location.
func New(w *world.State) *Economy {
	e := &Economy{
		World:   w,
		Markets: make(map[string]*Market),
	}
	for id, l := range w.Locations {
		if l.Type == world.LocCity || l.Type == world.LocVillage {
			e.Markets[id] = NewMarket(id)
		}
	}
	return e
}

// Update advances every market one tick: production, demand evolution,
// pricing, consumption, inflation smoothing, and trade-route transfers.
func (e *Economy) Update() {
	e.updateInflation()

	for _, m := range e.Markets {
		loc, ok := e.World.GetLocation(m.Location)
		if !ok {
			continue
		}
		e.produce(m, loc)
		e.evolveDemand(m, loc)
		for _, g := range AllGoods {
			m.Price[g] = e.resolvePrice(m, g)
			consumed := math.Min(m.Supply[g], m.Demand[g]*0.1)
			m.Supply[g] -= consumed
			m.TradeVolume += consumed
		}
	}

	e.runTradeRoutes()
}

// produce regenerates supply by location type: villages grow food and cut
// wood, cities manufacture tools, medicine, and luxuries.
func (e *Economy) produce(m *Market, loc *world.Location) {
	scale := 1 + float64(loc.Population)/200
	switch loc.Type {
	case world.LocVillage:
		m.Supply[GoodsFood] += 12 * scale
		m.Supply[GoodsWood] += 6 * scale
		m.Supply[GoodsMedicine] += 0.5 * scale
	case world.LocCity:
		m.Supply[GoodsFood] += 4 * scale
		m.Supply[GoodsTools] += 5 * scale
		m.Supply[GoodsMedicine] += 2 * scale
		m.Supply[GoodsLuxury] += 1 * scale
	}
}

// evolveDemand recomputes demand from population, season, and plague:
// food ×1.5 in winter, medicine ×3 while the plague is active.
func (e *Economy) evolveDemand(m *Market, loc *world.Location) {
	pop := float64(loc.Population)
	m.Demand[GoodsFood] = pop * 0.5
	m.Demand[GoodsWood] = pop * 0.2
	m.Demand[GoodsTools] = pop * 0.1
	m.Demand[GoodsMedicine] = pop * 0.05
	m.Demand[GoodsLuxury] = pop * 0.02

	if e.World.Global.Season == world.Winter {
		m.Demand[GoodsFood] *= 1.5
	}
	if e.World.Global.PlagueActive {
		m.Demand[GoodsMedicine] *= 3
	}
	for _, g := range AllGoods {
		if m.Demand[g] < 1 {
			m.Demand[g] = 1
		}
	}
}

// resolvePrice computes base × (demand/supply)^0.3 × (1 + inflation),
// clamped to [0.5×, 3×] base.
func (e *Economy) resolvePrice(m *Market, g Goods) float64 {
	base := basePrices[g]
	supply := m.Supply[g]
	if supply < 1 {
		supply = 1
	}
	price := base * math.Pow(m.Demand[g]/supply, demandElasticity) * (1 + e.InflationRate)

	floor := base * priceFloorRatio
	ceiling := base * priceCeilingRatio
	if price < floor {
		price = floor
	}
	if price > ceiling {
		price = ceiling
	}
	return price
}

// updateInflation exponentially smooths the inflation rate toward 0.1
// when the economy index is depressed, toward 0 otherwise, clamped to
// [-0.1, 0.5].
func (e *Economy) updateInflation() {
	target := 0.0
	if e.World.Global.EconomyIndex < 1 {
		target = 0.1
	}
	e.InflationRate += (target - e.InflationRate) * 0.1
	if e.InflationRate < -0.1 {
		e.InflationRate = -0.1
	}
	if e.InflationRate > 0.5 {
		e.InflationRate = 0.5
	}
}

// runTradeRoutes moves a fixed quantity from the cheaper to the dearer of
// two connected markets whenever the price ratio exceeds 1.3.
func (e *Economy) runTradeRoutes() {
	ids := make([]string, 0, len(e.Markets))
	for id := range e.Markets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		m := e.Markets[id]
		loc, ok := e.World.GetLocation(id)
		if !ok {
			continue
		}
		for _, otherID := range loc.ConnectedTo {
			// Routes are bidirectional; visit each pair once.
			if otherID <= id {
				continue
			}
			other, ok := e.Markets[otherID]
			if !ok {
				continue
			}
			for _, g := range AllGoods {
				low, high := m, other
				if m.Price[g] > other.Price[g] {
					low, high = other, m
				}
				if low.Price[g] <= 0 || high.Price[g]/low.Price[g] <= tradeRouteRatio {
					continue
				}
				moved := math.Min(tradeRouteUnits, low.Supply[g])
				low.Supply[g] -= moved
				high.Supply[g] += moved
				low.TradeVolume += moved
				high.TradeVolume += moved
			}
		}
	}
}

// GetPrice returns the current price for a goods type at a location.
func (e *Economy) GetPrice(locID string, g Goods) (float64, bool) {
	m, ok := e.Markets[locID]
	if !ok {
		return 0, false
	}
	p, ok := m.Price[g]
	return p, ok
}

// Summary describes one market for the status layers.
type Summary struct {
	Location    string            `json:"location"`
	Prices      map[Goods]float64 `json:"prices"`
	TradeVolume float64           `json:"trade_volume"`
	Inflation   float64           `json:"inflation"`
}

// GetSummary returns a snapshot of every market, sorted by location id.
func (e *Economy) GetSummary() []Summary {
	ids := make([]string, 0, len(e.Markets))
	for id := range e.Markets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		m := e.Markets[id]
		prices := make(map[Goods]float64, len(m.Price))
		for g, p := range m.Price {
			prices[g] = p
		}
		out = append(out, Summary{
			Location:    id,
			Prices:      prices,
			TradeVolume: m.TradeVolume,
			Inflation:   e.InflationRate,
		})
	}
	return out
}

// Describe renders one market's prices for logs.
func (e *Economy) Describe(locID string) string {
	m, ok := e.Markets[locID]
	if !ok {
		return fmt.Sprintf("no market at %s", locID)
	}
	return fmt.Sprintf("%s: food %.1f, tools %.1f, medicine %.1f",
		locID, m.Price[GoodsFood], m.Price[GoodsTools], m.Price[GoodsMedicine])
}
