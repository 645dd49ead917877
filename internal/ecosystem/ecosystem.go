// Package ecosystem provides per-location population dynamics: logistic
// plant growth with seasonal scaling, prey feeding on plant biomass, and
// predators coupled to prey through predation and conversion rates.
package ecosystem

import (
	"fmt"
	"math"
	"sort"

	"github.com/talgya/ashfall/internal/world"
)

// SpeciesType is the trophic role of a species.
type SpeciesType uint8

const (
	Plant SpeciesType = iota
	Prey
	Predator
)

// ParseSpeciesType maps a scenario string to a SpeciesType.
func ParseSpeciesType(s string) (SpeciesType, bool) {
	switch s {
	case "plant":
		return Plant, true
	case "prey":
		return Prey, true
	case "predator":
		return Predator, true
	}
	return 0, false
}

// Species is one population at one location. Population never goes
// negative; a population at zero stays at zero.
type Species struct {
	ID               string      `json:"id"`
	Type             SpeciesType `json:"type"`
	Population       float64     `json:"population"`
	GrowthRate       float64     `json:"growth_rate"`
	CarryingCapacity float64     `json:"carrying_capacity"`
	PredationRate    float64     `json:"predation_rate,omitempty"`
	ConversionRate   float64     `json:"conversion_rate,omitempty"`
	MortalityRate    float64     `json:"mortality_rate,omitempty"`
}

// System runs every location's ecosystem one tick at a time and is the
// sole writer of location stability.
type System struct {
	World   *world.State
	Systems map[string][]*Species
}

// New creates an ecosystem simulator with no populations; species are
// registered per location during scenario setup.
func New(w *world.State) *System {
	return &System{
		World:   w,
		Systems: make(map[string][]*Species),
	}
}

// AddSpecies registers a species at a location.
func (s *System) AddSpecies(locID string, sp *Species) {
	s.Systems[locID] = append(s.Systems[locID], sp)
}

// seasonMultiplier scales plant growth by season.
func seasonMultiplier(season world.Season) float64 {
	switch season {
	case world.Spring:
		return 1.2
	case world.Summer:
		return 1.0
	case world.Autumn:
		return 0.8
	default:
		return 0.5
	}
}

// Update advances every location's populations one tick and recomputes
// stability for locations with an ecosystem.
func (s *System) Update() {
	mult := seasonMultiplier(s.World.Global.Season)

	for locID, species := range s.Systems {
		plantBiomass := 0.0
		preyTotal := 0.0
		for _, sp := range species {
			switch sp.Type {
			case Plant:
				plantBiomass += sp.Population
			case Prey:
				preyTotal += sp.Population
			}
		}

		// Food availability for prey: plant biomass / 1000, capped at 1.
		foodAvail := math.Min(plantBiomass/1000, 1)

		for _, sp := range species {
			switch sp.Type {
			case Plant:
				s.growPlant(sp, mult, preyTotal, foodAvail)
			case Prey:
				s.growPrey(sp, species, foodAvail)
			case Predator:
				s.growPredator(sp, species)
			}
			if sp.Population < 0 {
				sp.Population = 0
			}
		}

		if loc, ok := s.World.GetLocation(locID); ok {
			loc.Stability = s.stability(species)
		}
	}
}

// growPlant applies discretized logistic growth rN(1-N/K) scaled by the
// seasonal multiplier, minus grazing by prey.
func (s *System) growPlant(sp *Species, seasonMult, preyTotal, foodAvail float64) {
	if sp.Population <= 0 || sp.CarryingCapacity <= 0 {
		return
	}
	growth := sp.GrowthRate * sp.Population * (1 - sp.Population/sp.CarryingCapacity) * seasonMult
	grazing := preyTotal * 0.2 * foodAvail
	sp.Population += growth - grazing
}

// growPrey applies natural growth scaled by food availability minus
// predation losses summed over every predator at the location.
func (s *System) growPrey(sp *Species, species []*Species, foodAvail float64) {
	if sp.Population <= 0 {
		return
	}
	growth := sp.GrowthRate * sp.Population * foodAvail
	losses := 0.0
	for _, other := range species {
		if other.Type == Predator {
			losses += other.PredationRate * sp.Population * other.Population
		}
	}
	sp.Population += growth - losses
}

// growPredator gains conversion × predation × prey × predators and loses
// mortality × predators.
func (s *System) growPredator(sp *Species, species []*Species) {
	if sp.Population <= 0 {
		return
	}
	gains := 0.0
	for _, other := range species {
		if other.Type == Prey {
			gains += sp.ConversionRate * sp.PredationRate * other.Population * sp.Population
		}
	}
	sp.Population += gains - sp.MortalityRate*sp.Population
}

// stability is 1 − 0.5 × (fraction of species within 10% of extinction
// or 90% of carrying capacity).
func (s *System) stability(species []*Species) float64 {
	if len(species) == 0 {
		return 1
	}
	atRisk := 0
	for _, sp := range species {
		if sp.CarryingCapacity > 0 {
			if sp.Population < 0.1*sp.CarryingCapacity || sp.Population > 0.9*sp.CarryingCapacity {
				atRisk++
			}
		} else if sp.Population < 5 {
			atRisk++
		}
	}
	return 1 - 0.5*float64(atRisk)/float64(len(species))
}

// Info describes one location's ecosystem for the status layers.
type Info struct {
	Location  string     `json:"location"`
	Species   []*Species `json:"species"`
	Stability float64    `json:"stability"`
}

// GetEcosystemInfo returns a snapshot of one location's populations.
func (s *System) GetEcosystemInfo(locID string) (Info, bool) {
	species, ok := s.Systems[locID]
	if !ok {
		return Info{}, false
	}
	info := Info{Location: locID, Species: species, Stability: s.stability(species)}
	return info, true
}

// Describe renders every ecosystem for logs, sorted by location.
func (s *System) Describe() string {
	ids := make([]string, 0, len(s.Systems))
	for id := range s.Systems {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := ""
	for _, id := range ids {
		for _, sp := range s.Systems[id] {
			out += fmt.Sprintf("%s/%s: %.0f\n", id, sp.ID, sp.Population)
		}
	}
	return out
}
