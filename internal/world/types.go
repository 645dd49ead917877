// Package world holds the shared mutable state of the simulation: the
// character and location tables, the relation graph, world time, and the
// append-only event history. Every other system reads from and writes
// through this one store.
package world

// Personality holds a character's fixed disposition. Set once at creation
// and never mutated by the kernel.
type Personality struct {
	Ambition float64 `json:"ambition" yaml:"ambition"`
	Loyalty  float64 `json:"loyalty" yaml:"loyalty"`
	Morality float64 `json:"morality" yaml:"morality"`
	Courage  float64 `json:"courage" yaml:"courage"`
	Cunning  float64 `json:"cunning" yaml:"cunning"`
}

// Emotion holds a character's current emotional state. All fields stay
// clamped to [0, 1]. Trust changes only through relation mutation; the
// other four decay each tick.
type Emotion struct {
	Trust   float64 `json:"trust" yaml:"trust"`
	Fear    float64 `json:"fear" yaml:"fear"`
	Anger   float64 `json:"anger" yaml:"anger"`
	Joy     float64 `json:"joy" yaml:"joy"`
	Despair float64 `json:"despair" yaml:"despair"`
}

// MemoryEntry is one interpreted event in a character's memory stream.
// Secondhand entries come from rumor propagation rather than witnessing.
type MemoryEntry struct {
	Tick       int    `json:"tick"`
	EventID    string `json:"event_id"`
	Text       string `json:"text"`
	Secondhand bool   `json:"secondhand,omitempty"`
}

// Character is a person in the world.
type Character struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Personality Personality   `json:"personality"`
	Emotion     Emotion       `json:"emotion"`
	Location    string        `json:"location"`
	Resources   int           `json:"resources"`
	Power       int           `json:"power"`
	Memory      []MemoryEntry `json:"memory,omitempty"`
}

// LocationType categorizes a location.
type LocationType uint8

const (
	LocCity LocationType = iota
	LocVillage
	LocForest
	LocMountain
	LocCastle
	LocRuin
)

// LocationTypeName returns a human-readable location type name.
func LocationTypeName(t LocationType) string {
	switch t {
	case LocCity:
		return "city"
	case LocVillage:
		return "village"
	case LocForest:
		return "forest"
	case LocMountain:
		return "mountain"
	case LocCastle:
		return "castle"
	case LocRuin:
		return "ruin"
	default:
		return "unknown"
	}
}

// ParseLocationType maps a scenario string to a LocationType.
func ParseLocationType(s string) (LocationType, bool) {
	switch s {
	case "city":
		return LocCity, true
	case "village":
		return LocVillage, true
	case "forest":
		return LocForest, true
	case "mountain":
		return LocMountain, true
	case "castle":
		return LocCastle, true
	case "ruin":
		return LocRuin, true
	}
	return 0, false
}

// Location is a place in the world.
type Location struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        LocationType `json:"type"`
	Resources   int          `json:"resources"`
	Population  int          `json:"population"`
	Stability   float64      `json:"stability"`
	ConnectedTo []string     `json:"connected_to,omitempty"`
	DangerLevel float64      `json:"danger_level"`
	Indoor      bool         `json:"indoor,omitempty"`
}

// Season of the simulation year.
type Season uint8

const (
	Spring Season = iota
	Summer
	Autumn
	Winter
)

// SeasonName returns a human-readable season name.
func SeasonName(s Season) string {
	switch s {
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Autumn:
		return "autumn"
	case Winter:
		return "winter"
	default:
		return "unknown"
	}
}

// SeasonForDay maps a day of year (1–365) to its season.
func SeasonForDay(day int) Season {
	switch {
	case day <= 90:
		return Spring
	case day <= 180:
		return Summer
	case day <= 270:
		return Autumn
	default:
		return Winter
	}
}

// GlobalState holds world-wide flags read by the simulators and the
// event generator.
type GlobalState struct {
	WarActive    bool    `json:"war_active"`
	EconomyIndex float64 `json:"economy_index"`
	PlagueActive bool    `json:"plague_active"`
	Season       Season  `json:"season"`
	DayOfYear    int     `json:"day_of_year"`
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampSigned bounds v to [-1, 1].
func ClampSigned(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
