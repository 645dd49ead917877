// Package weather provides the stochastic climate simulator: a six-state
// Markov chain with seasonal reweighting, regime persistence, and a
// temperature model driven by the day of year plus correlated noise.
package weather

import (
	"math"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/ashfall/internal/entropy"
	"github.com/talgya/ashfall/internal/world"
)

// Condition is one of the six weather regimes.
type Condition uint8

const (
	Clear Condition = iota
	Cloudy
	Rain
	Storm
	Snow
	Fog
	numConditions
)

// ConditionName returns a human-readable condition name.
func ConditionName(c Condition) string {
	switch c {
	case Clear:
		return "clear"
	case Cloudy:
		return "cloudy"
	case Rain:
		return "rain"
	case Storm:
		return "storm"
	case Snow:
		return "snow"
	case Fog:
		return "fog"
	default:
		return "unknown"
	}
}

// baseTransitions is the fixed transition matrix, rows = current
// condition, columns = next. Rows are reweighted by season and
// renormalized before sampling.
var baseTransitions = [numConditions][numConditions]float64{
	Clear:  {0.55, 0.25, 0.08, 0.02, 0.03, 0.07},
	Cloudy: {0.25, 0.35, 0.20, 0.07, 0.05, 0.08},
	Rain:   {0.15, 0.30, 0.35, 0.10, 0.03, 0.07},
	Storm:  {0.10, 0.30, 0.30, 0.20, 0.03, 0.07},
	Snow:   {0.15, 0.25, 0.05, 0.02, 0.45, 0.08},
	Fog:    {0.25, 0.30, 0.15, 0.03, 0.05, 0.22},
}

// conditionTempOffset is the fixed per-condition temperature adjustment.
var conditionTempOffset = [numConditions]float64{
	Clear:  2,
	Cloudy: 0,
	Rain:   -2,
	Storm:  -4,
	Snow:   -8,
	Fog:    -1,
}

const (
	indoorTemp = 15.0
	baseTemp   = 10.0
	tempAmp    = 15.0
)

// Local is the per-location weather snapshot.
type Local struct {
	Condition   Condition `json:"condition"`
	Temperature float64   `json:"temperature"`
}

// System runs global and per-location weather one tick at a time.
type System struct {
	World *world.State
	Rng   *entropy.Source

	Current     Condition
	Temperature float64
	ticksLeft   int

	noise  opensimplex.Noise
	locals map[string]Local
}

// New creates a weather system starting clear. Daily temperature noise
// comes from an opensimplex field over the day axis so consecutive days
// stay correlated.
func New(w *world.State, rng *entropy.Source, seed int64) *System {
	s := &System{
		World:   w,
		Rng:     rng,
		Current: Clear,
		noise:   opensimplex.New(seed),
		locals:  make(map[string]Local),
	}
	s.ticksLeft = rng.Between(2, 6)
	s.Update()
	return s
}

// Update advances the weather one tick: resample the regime when its
// persistence runs out, recompute the temperature, and refresh every
// location's local weather.
func (s *System) Update() {
	s.ticksLeft--
	if s.ticksLeft <= 0 {
		s.Current = s.nextCondition()
		s.ticksLeft = s.Rng.Between(2, 6)
	}

	s.Temperature = s.globalTemp()

	// Stable order: local jitter draws from the shared source, so map
	// iteration would make runs diverge under the same seed.
	ids := make([]string, 0, len(s.World.Locations))
	for id := range s.World.Locations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		loc := s.World.Locations[id]
		if loc.Indoor {
			s.locals[id] = Local{Condition: Clear, Temperature: indoorTemp}
			continue
		}
		// Local weather mirrors the global regime with small
		// independent jitter.
		local := Local{Condition: s.Current, Temperature: s.Temperature + s.Rng.Range(-2, 2)}
		if s.Rng.Chance(0.1) {
			local.Condition = s.drift(s.Current)
		}
		s.locals[id] = local
	}
}

// nextCondition samples the seasonally reweighted transition row for the
// current regime.
func (s *System) nextCondition() Condition {
	row := baseTransitions[s.Current]
	season := s.World.Global.Season

	switch season {
	case world.Winter:
		row[Snow] *= 3
		row[Rain] *= 0.5
	case world.Summer:
		row[Snow] = 0
		row[Storm] *= 1.5
	}

	total := 0.0
	for _, w := range row {
		total += w
	}
	roll := s.Rng.Float() * total
	for c, w := range row {
		roll -= w
		if roll <= 0 {
			return Condition(c)
		}
	}
	return Clear
}

// drift shifts a condition one step toward an adjacent regime for local
// variation.
func (s *System) drift(c Condition) Condition {
	switch c {
	case Clear:
		return Cloudy
	case Cloudy:
		if s.Rng.Chance(0.5) {
			return Clear
		}
		return Rain
	case Rain:
		return Cloudy
	case Storm:
		return Rain
	case Snow:
		return Cloudy
	default:
		return Clear
	}
}

// globalTemp is seasonal base + amplitude × sin(2π·day/365) + correlated
// daily noise in [-5, 5] + the per-condition offset.
func (s *System) globalTemp() float64 {
	day := float64(s.World.Global.DayOfYear)
	seasonal := baseTemp + tempAmp*math.Sin(2*math.Pi*(day-80)/365)
	noise := s.noise.Eval2(day*0.1, 0) * 5
	return seasonal + noise + conditionTempOffset[s.Current]
}

// GetWeather returns the weather at a location, falling back to the
// global regime for unknown ids.
func (s *System) GetWeather(locID string) Local {
	if local, ok := s.locals[locID]; ok {
		return local
	}
	return Local{Condition: s.Current, Temperature: s.Temperature}
}

// Effects describes the current regime's gameplay modifiers.
type Effects struct {
	TravelPenalty float64 `json:"travel_penalty"`
	Visibility    float64 `json:"visibility"`
	MoodModifier  float64 `json:"mood_modifier"`
}

// GetEffects maps the current global regime to modifiers consumed by the
// narration and movement layers.
func (s *System) GetEffects() Effects {
	switch s.Current {
	case Storm:
		return Effects{TravelPenalty: 2.0, Visibility: 0.4, MoodModifier: -0.1}
	case Snow:
		return Effects{TravelPenalty: 1.5, Visibility: 0.6, MoodModifier: -0.05}
	case Rain:
		return Effects{TravelPenalty: 1.2, Visibility: 0.8, MoodModifier: -0.03}
	case Fog:
		return Effects{TravelPenalty: 1.1, Visibility: 0.3, MoodModifier: 0}
	case Cloudy:
		return Effects{TravelPenalty: 1.0, Visibility: 0.9, MoodModifier: 0}
	default:
		return Effects{TravelPenalty: 1.0, Visibility: 1.0, MoodModifier: 0.03}
	}
}
