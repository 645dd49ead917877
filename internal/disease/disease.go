// Package disease provides the per-character epidemic state machine:
// susceptible → exposed → infected → recovered or dead, with contact
// transmission weighted by social closeness.
package disease

import (
	"fmt"
	"sort"

	"github.com/talgya/ashfall/internal/entropy"
	"github.com/talgya/ashfall/internal/world"
)

// State is one stage of infection. Transitions are one-directional except
// recovered→susceptible after immunity expiry.
type State uint8

const (
	Susceptible State = iota
	Exposed
	Infected
	Recovered
	Dead
)

// StateName returns a human-readable state name.
func StateName(s State) string {
	switch s {
	case Susceptible:
		return "susceptible"
	case Exposed:
		return "exposed"
	case Infected:
		return "infected"
	case Recovered:
		return "recovered"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// Disease defines one pathogen's parameters. ImmunityDuration of 0 means
// recovery grants permanent immunity.
type Disease struct {
	ID               string  `yaml:"id"`
	Name             string  `yaml:"name"`
	TransmissionRate float64 `yaml:"transmission_rate"`
	RecoveryRate     float64 `yaml:"recovery_rate"`
	MortalityRate    float64 `yaml:"mortality_rate"`
	IncubationTicks  int     `yaml:"incubation_ticks"`
	ImmunityDuration int     `yaml:"immunity_duration"`
}

// Health tracks one character's infection state and stage-entry ticks.
type Health struct {
	CharacterID string `json:"character_id"`
	State       State  `json:"state"`
	DiseaseID   string `json:"disease_id,omitempty"`
	ExposedAt   int    `json:"exposed_at,omitempty"`
	InfectedAt  int    `json:"infected_at,omitempty"`
	RecoveredAt int    `json:"recovered_at,omitempty"`
}

// plagueRatio is the (exposed+infected)/population fraction past which
// the global plague flag is raised.
const plagueRatio = 0.1

// System runs the epidemic one tick at a time over the shared world.
type System struct {
	World *world.State
	Rng   *entropy.Source

	Diseases map[string]*Disease
	Status   map[string]*Health
}

// New creates a disease system with every character susceptible.
func New(w *world.State, rng *entropy.Source) *System {
	s := &System{
		World:    w,
		Rng:      rng,
		Diseases: make(map[string]*Disease),
		Status:   make(map[string]*Health),
	}
	for id := range w.Characters {
		s.Status[id] = &Health{CharacterID: id, State: Susceptible}
	}
	return s
}

// Register adds a disease definition.
func (s *System) Register(d *Disease) {
	s.Diseases[d.ID] = d
}

// Infect seeds a character directly into the infected state.
func (s *System) Infect(charID, diseaseID string) bool {
	h, ok := s.Status[charID]
	if !ok {
		if _, exists := s.World.Characters[charID]; !exists {
			return false
		}
		h = &Health{CharacterID: charID}
		s.Status[charID] = h
	}
	if _, ok := s.Diseases[diseaseID]; !ok {
		return false
	}
	h.State = Infected
	h.DiseaseID = diseaseID
	h.InfectedAt = s.World.Tick
	return true
}

// Update advances every character's state one tick, runs contact
// transmission, and maintains the global plague flag.
func (s *System) Update() {
	tick := s.World.Tick

	// Stage transitions first, then transmission from those infected at
	// the start of the tick.
	for _, id := range s.orderedIDs() {
		h := s.Status[id]
		d := s.Diseases[h.DiseaseID]
		switch h.State {
		case Exposed:
			if d != nil && tick-h.ExposedAt >= d.IncubationTicks {
				h.State = Infected
				h.InfectedAt = tick
			}
		case Infected:
			if d == nil {
				break
			}
			if s.Rng.Chance(d.MortalityRate) {
				h.State = Dead
				s.recordDeath(id)
			} else if s.Rng.Chance(d.RecoveryRate) {
				h.State = Recovered
				h.RecoveredAt = tick
			}
		case Recovered:
			if d != nil && d.ImmunityDuration > 0 && tick-h.RecoveredAt >= d.ImmunityDuration {
				h.State = Susceptible
				h.DiseaseID = ""
			}
		}
	}

	s.transmit()
	s.updatePlagueFlag()
}

// transmit exposes every co-located susceptible to every infected with
// probability transmissionRate × contactFactor. Contact factor rises
// with trust: closer relationships imply more contact.
func (s *System) transmit() {
	for _, id := range s.orderedIDs() {
		h := s.Status[id]
		if h.State != Infected {
			continue
		}
		carrier, ok := s.World.GetCharacter(id)
		if !ok {
			continue
		}
		d := s.Diseases[h.DiseaseID]
		if d == nil {
			continue
		}

		for _, other := range s.World.CharactersAt(carrier.Location) {
			if other.ID == id {
				continue
			}
			oh, ok := s.Status[other.ID]
			if !ok || oh.State != Susceptible {
				continue
			}
			p := d.TransmissionRate * s.ContactFactor(other.ID, id)
			// A fully transmissible disease always spreads on contact.
			if d.TransmissionRate >= 1 {
				p = 1
			}
			if s.Rng.Chance(p) {
				oh.State = Exposed
				oh.DiseaseID = d.ID
				oh.ExposedAt = s.World.Tick
			}
		}
	}
}

// ContactFactor maps the trust between two characters to a contact
// scalar: 0.5 + 0.25 × (trust + 1), i.e. [0.5, 1.0].
func (s *System) ContactFactor(a, b string) float64 {
	trust := s.World.Graph.Get(a, b).Trust
	return 0.5 + 0.25*(trust+1)
}

func (s *System) recordDeath(charID string) {
	c, ok := s.World.GetCharacter(charID)
	name := charID
	if ok {
		name = c.Name
	}
	loc := ""
	if ok {
		loc = c.Location
	}
	s.World.AddEvent(world.GameEvent{
		ID:           fmt.Sprintf("death-%s-%d", charID, s.World.Tick),
		Type:         world.EventDeath,
		Tick:         s.World.Tick,
		Participants: []string{charID},
		Location:     loc,
		Description:  fmt.Sprintf("%s succumbed to the sickness", name),
		IsPublic:     true,
	})
}

// updatePlagueFlag raises the global flag when exposed+infected exceeds
// a tenth of the population.
func (s *System) updatePlagueFlag() {
	if len(s.Status) == 0 {
		return
	}
	sick := 0
	for _, h := range s.Status {
		if h.State == Exposed || h.State == Infected {
			sick++
		}
	}
	s.World.Global.PlagueActive = float64(sick)/float64(len(s.Status)) > plagueRatio
}

func (s *System) orderedIDs() []string {
	ids := make([]string, 0, len(s.Status))
	for id := range s.Status {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Stats aggregates the epidemic for the status layers.
type Stats struct {
	Susceptible int  `json:"susceptible"`
	Exposed     int  `json:"exposed"`
	Infected    int  `json:"infected"`
	Recovered   int  `json:"recovered"`
	Dead        int  `json:"dead"`
	Plague      bool `json:"plague_active"`
}

// GetStats counts characters per state.
func (s *System) GetStats() Stats {
	var st Stats
	for _, h := range s.Status {
		switch h.State {
		case Susceptible:
			st.Susceptible++
		case Exposed:
			st.Exposed++
		case Infected:
			st.Infected++
		case Recovered:
			st.Recovered++
		case Dead:
			st.Dead++
		}
	}
	st.Plague = s.World.Global.PlagueActive
	return st
}

// Describe renders one character's health for the narration layer.
func (s *System) Describe(charID string) string {
	h, ok := s.Status[charID]
	if !ok {
		return "in unknown health"
	}
	switch h.State {
	case Susceptible:
		return "healthy"
	case Exposed:
		return "feeling off, though nothing shows yet"
	case Infected:
		d := s.Diseases[h.DiseaseID]
		if d != nil {
			return fmt.Sprintf("gravely ill with %s", d.Name)
		}
		return "gravely ill"
	case Recovered:
		return "recovered and immune"
	case Dead:
		return "dead"
	default:
		return "in unknown health"
	}
}
