// Package belief holds each character's subjective probabilities about
// other characters' traits, updated from witnessed events and from
// trust-weighted peer testimony.
package belief

import (
	"github.com/talgya/ashfall/internal/relation"
	"github.com/talgya/ashfall/internal/world"
)

// neutralPrior is the belief assumed for any (character, subject, trait)
// never updated.
const neutralPrior = 0.5

type key struct {
	character string
	subject   string
	trait     string
}

// System stores per-(character, subject, trait) beliefs in [0, 1].
type System struct {
	beliefs map[key]float64
	graph   *relation.Graph
}

// NewSystem creates an empty belief store reading speaker credibility
// from the relation graph.
func NewSystem(g *relation.Graph) *System {
	return &System{
		beliefs: make(map[key]float64),
		graph:   g,
	}
}

// Get returns the character's belief about a subject's trait, defaulting
// to the neutral prior.
func (s *System) Get(character, subject, trait string) float64 {
	if v, ok := s.beliefs[key{character, subject, trait}]; ok {
		return v
	}
	return neutralPrior
}

// Update applies saturating evidence to a belief. Evidence in [-1, 1]
// moves an undecided belief (near 0.5) much further than an already
// extreme one:
//
//	new = cur + evidence × strength × (1 − 2|cur − 0.5|)
func (s *System) Update(character, subject, trait string, evidence, strength float64) {
	k := key{character, subject, trait}
	cur := neutralPrior
	if v, ok := s.beliefs[k]; ok {
		cur = v
	}
	openness := 1 - 2*abs(cur-0.5)
	s.beliefs[k] = world.Clamp01(cur + evidence*strength*openness)
}

// ShareInformation lets speaker's claim about subject update listener's
// belief, scaled by the listener's trust in the speaker. A distrusted
// speaker carries no weight.
func (s *System) ShareInformation(speaker, listener, subject, trait string, evidence float64) {
	credibility := s.graph.Get(listener, speaker).Trust
	if credibility <= 0 {
		return
	}
	s.Update(listener, subject, trait, evidence, credibility)
}

// ObserveEvent converts a witnessed event into trait evidence about its
// first participant.
func (s *System) ObserveEvent(observer string, ev world.GameEvent) {
	if len(ev.Participants) == 0 {
		return
	}
	subject := ev.Participants[0]
	if subject == observer {
		return
	}
	switch ev.Type {
	case world.EventBetrayal:
		s.Update(observer, subject, "trustworthy", -0.8, 0.6)
	case world.EventCombat:
		s.Update(observer, subject, "dangerous", 0.6, 0.5)
	case world.EventTrade:
		s.Update(observer, subject, "trustworthy", 0.2, 0.3)
	case world.EventAlliance:
		s.Update(observer, subject, "trustworthy", 0.4, 0.4)
	}
}

// Perception renders a belief as a qualitative judgment.
func (s *System) Perception(character, subject, trait string) string {
	v := s.Get(character, subject, trait)
	switch {
	case v >= 0.8:
		return "certain"
	case v >= 0.6:
		return "likely"
	case v > 0.4:
		return "uncertain"
	case v > 0.2:
		return "doubtful"
	default:
		return "disbelieved"
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
