package world

import (
	"fmt"
	"sort"

	"github.com/talgya/ashfall/internal/relation"
)

// emotionRetention is the per-tick multiplier applied to anger, fear, joy,
// and despair. Trust is excluded: it changes only through relation
// mutation, never by the passage of time.
const emotionRetention = 0.95

// State is the central store for time, characters, locations, the relation
// graph, event history, and global flags. All cross-cutting mutation goes
// through ApplyEffect and AddEvent.
type State struct {
	Tick       int
	Characters map[string]*Character
	Locations  map[string]*Location
	Graph      *relation.Graph
	History    []GameEvent
	Global     GlobalState
}

// NewState creates an empty world at day 1 of spring.
func NewState() *State {
	return &State{
		Characters: make(map[string]*Character),
		Locations:  make(map[string]*Location),
		Graph:      relation.New(),
		Global: GlobalState{
			EconomyIndex: 1.0,
			Season:       Spring,
			DayOfYear:    1,
		},
	}
}

// AddCharacter registers a character in the world table.
func (s *State) AddCharacter(c *Character) {
	s.Characters[c.ID] = c
}

// AddLocation registers a location in the world table.
func (s *State) AddLocation(l *Location) {
	s.Locations[l.ID] = l
}

// GetCharacter looks up a character by id.
func (s *State) GetCharacter(id string) (*Character, bool) {
	c, ok := s.Characters[id]
	return c, ok
}

// GetLocation looks up a location by id.
func (s *State) GetLocation(id string) (*Location, bool) {
	l, ok := s.Locations[id]
	return l, ok
}

// CharactersAt returns all characters at a location, sorted by id.
func (s *State) CharactersAt(locID string) []*Character {
	var out []*Character
	for _, c := range s.Characters {
		if c.Location == locID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AdvanceTime moves the world forward one tick: increments the day of
// year (wrapping at 365), recomputes the season, and applies emotion
// decay to every character.
func (s *State) AdvanceTime() {
	s.Tick++
	s.Global.DayOfYear++
	if s.Global.DayOfYear > 365 {
		s.Global.DayOfYear = 1
	}
	s.Global.Season = SeasonForDay(s.Global.DayOfYear)

	for _, c := range s.Characters {
		c.Emotion.Anger *= emotionRetention
		c.Emotion.Fear *= emotionRetention
		c.Emotion.Joy *= emotionRetention
		c.Emotion.Despair *= emotionRetention
	}
}

// ApplyEffect dispatches one typed effect into the world. Effects against
// unknown characters are silently dropped; clamped fields are bounded
// after every write.
func (s *State) ApplyEffect(e Effect) {
	switch e.Kind {
	case EffectEmotion:
		c, ok := s.Characters[e.Target]
		if !ok {
			return
		}
		applyEmotion(c, e)
	case EffectRelation:
		from, to, ok := SplitRelationTarget(e.Target)
		if !ok {
			return
		}
		if _, ok := s.Characters[from]; !ok {
			return
		}
		if _, ok := s.Characters[to]; !ok {
			return
		}
		applyRelation(s.Graph, from, to, e)
	case EffectResource:
		c, ok := s.Characters[e.Target]
		if !ok {
			return
		}
		if e.Absolute {
			c.Resources = int(e.Value)
		} else {
			c.Resources += int(e.Value)
		}
	case EffectStat:
		c, ok := s.Characters[e.Target]
		if !ok {
			return
		}
		if e.Field == FieldPower {
			if e.Absolute {
				c.Power = int(e.Value)
			} else {
				c.Power += int(e.Value)
			}
		}
	}
}

func applyEmotion(c *Character, e Effect) {
	write := func(cur float64) float64 {
		if e.Absolute {
			return Clamp01(e.Value)
		}
		return Clamp01(cur + e.Value)
	}
	switch e.Field {
	case FieldTrust:
		c.Emotion.Trust = write(c.Emotion.Trust)
	case FieldFear:
		c.Emotion.Fear = write(c.Emotion.Fear)
	case FieldAnger:
		c.Emotion.Anger = write(c.Emotion.Anger)
	case FieldJoy:
		c.Emotion.Joy = write(c.Emotion.Joy)
	case FieldDespair:
		c.Emotion.Despair = write(c.Emotion.Despair)
	}
}

func applyRelation(g *relation.Graph, from, to string, e Effect) {
	if e.Absolute {
		rel := g.Get(from, to)
		switch e.Field {
		case FieldRelTrust:
			rel.Trust = e.Value
		case FieldRelFear:
			rel.Fear = e.Value
		case FieldRelRespect:
			rel.Respect = e.Value
		case FieldRelDebt:
			rel.Debt = e.Value
		}
		g.Update(from, to, rel)
		return
	}

	var d relation.Delta
	switch e.Field {
	case FieldRelTrust:
		d.Trust = e.Value
	case FieldRelFear:
		d.Fear = e.Value
	case FieldRelRespect:
		d.Respect = e.Value
	case FieldRelDebt:
		d.Debt = e.Value
	}
	g.Modify(from, to, d)
}

// AddEvent appends an event to the history and writes a first-person
// memory entry into every witness.
func (s *State) AddEvent(ev GameEvent) {
	s.History = append(s.History, ev)
	for _, wid := range ev.Witnesses {
		w, ok := s.Characters[wid]
		if !ok {
			continue
		}
		w.Memory = append(w.Memory, MemoryEntry{
			Tick:    ev.Tick,
			EventID: ev.ID,
			Text:    fmt.Sprintf("I saw it myself: %s", ev.Description),
		})
	}
}

// RecentEvents returns the last n events, oldest first.
func (s *State) RecentEvents(n int) []GameEvent {
	if n >= len(s.History) {
		n = len(s.History)
	}
	return s.History[len(s.History)-n:]
}

// EventsByParticipant returns every event id took part in, in order.
func (s *State) EventsByParticipant(id string) []GameEvent {
	var out []GameEvent
	for i := range s.History {
		if s.History[i].HasParticipant(id) {
			out = append(out, s.History[i])
		}
	}
	return out
}
