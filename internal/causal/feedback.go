// Package causal turns chosen actions into world state change and rolls
// emergent events from instability signals. FeedbackLoop.ApplyChoice is
// the single path by which narrative-causal effects enter the world
// outside the automatic simulators.
package causal

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/talgya/ashfall/internal/ai"
	"github.com/talgya/ashfall/internal/belief"
	"github.com/talgya/ashfall/internal/entropy"
	"github.com/talgya/ashfall/internal/relation"
	"github.com/talgya/ashfall/internal/world"
)

const maxWitnesses = 5

// FeedbackLoop applies chosen actions, synthesizes the resulting events,
// and propagates witness and rumor reactions.
type FeedbackLoop struct {
	World   *world.State
	Beliefs *belief.System
	Rng     *entropy.Source

	// Running per-(character, field) deltas, consumed by the narrative
	// layer for qualitative summaries.
	deltas map[string]map[string]float64

	// Threshold states already signalled, so ambient events fire on the
	// crossing rather than every tick the condition holds.
	tripped map[string]bool
}

// NewFeedbackLoop creates a feedback loop over a world.
func NewFeedbackLoop(w *world.State, b *belief.System, rng *entropy.Source) *FeedbackLoop {
	return &FeedbackLoop{
		World:   w,
		Beliefs: b,
		Rng:     rng,
		deltas:  make(map[string]map[string]float64),
		tripped: make(map[string]bool),
	}
}

// ApplyChoice resolves a choice's symbolic effect targets, applies every
// effect, synthesizes the event, and propagates witness reactions and
// rumors. The whole sequence completes before returning; no event is ever
// partially applied.
func (f *FeedbackLoop) ApplyChoice(choice *ai.Choice, actorID, targetID string) *world.GameEvent {
	if choice == nil || choice.Action == nil {
		return nil
	}
	action := choice.Action

	resolved := make([]world.Effect, 0, len(action.Effects))
	for _, e := range action.Effects {
		e.Target = resolveTarget(e.Target, actorID, targetID)
		if e.Target == "" {
			continue
		}
		f.World.ApplyEffect(e)
		f.recordDelta(e)
		resolved = append(resolved, e)
	}

	participants := []string{actorID}
	if targetID != "" && targetID != actorID {
		participants = append(participants, targetID)
	}

	actor, _ := f.World.GetCharacter(actorID)
	locID := ""
	if actor != nil {
		locID = actor.Location
	}

	ev := world.GameEvent{
		ID:           uuid.NewString(),
		Type:         eventTypeFor(action.Category),
		Tick:         f.World.Tick,
		Participants: participants,
		Location:     locID,
		Description:  describeChoice(choice, actor, targetID),
		Effects:      resolved,
		IsPublic:     action.Category == ai.CategoryCombat || action.Category == ai.CategoryEconomic,
		Witnesses:    f.witnessesAt(locID, participants),
	}

	f.World.AddEvent(ev)
	f.Propagate(ev)
	return &ev
}

// resolveTarget maps the symbolic keys "self", "target", and
// "self:target" to concrete ids. Composite keys with symbolic halves are
// resolved piecewise.
func resolveTarget(symbolic, actorID, targetID string) string {
	switch symbolic {
	case "self":
		return actorID
	case "target":
		return targetID
	}
	if from, to, ok := strings.Cut(symbolic, ":"); ok {
		if from == "self" {
			from = actorID
		} else if from == "target" {
			from = targetID
		}
		if to == "self" {
			to = actorID
		} else if to == "target" {
			to = targetID
		}
		if from == "" || to == "" {
			return ""
		}
		return from + ":" + to
	}
	return symbolic
}

func (f *FeedbackLoop) recordDelta(e world.Effect) {
	var charID, field string
	switch e.Kind {
	case world.EffectEmotion:
		charID = e.Target
		field = "emotion"
	case world.EffectResource:
		charID = e.Target
		field = "resources"
	case world.EffectStat:
		charID = e.Target
		field = "power"
	case world.EffectRelation:
		from, _, ok := world.SplitRelationTarget(e.Target)
		if !ok {
			return
		}
		charID = from
		field = "relation"
	}
	if charID == "" {
		return
	}
	m, ok := f.deltas[charID]
	if !ok {
		m = make(map[string]float64)
		f.deltas[charID] = m
	}
	m[field] += e.Value
}

// Deltas returns the accumulated per-character field deltas since the
// last reset.
func (f *FeedbackLoop) Deltas() map[string]map[string]float64 {
	return f.deltas
}

// ResetDeltas clears the accumulated deltas; the orchestrator calls this
// once the narrative layer has consumed them.
func (f *FeedbackLoop) ResetDeltas() {
	f.deltas = make(map[string]map[string]float64)
}

func eventTypeFor(cat ai.Category) world.EventType {
	switch cat {
	case ai.CategoryCombat:
		return world.EventCombat
	case ai.CategoryEconomic:
		return world.EventTrade
	case ai.CategorySocial, ai.CategoryDialogue:
		return world.EventDialogue
	default:
		return world.EventCustom
	}
}

func describeChoice(choice *ai.Choice, actor *world.Character, targetID string) string {
	name := "someone"
	if actor != nil {
		name = actor.Name
	}
	if choice.Text != "" {
		return fmt.Sprintf("%s: %s", name, choice.Text)
	}
	if targetID != "" {
		return fmt.Sprintf("%s performed %s against %s", name, choice.Action.Name, targetID)
	}
	return fmt.Sprintf("%s performed %s", name, choice.Action.Name)
}

// witnessesAt returns up to maxWitnesses non-participant characters
// co-located with the actor.
func (f *FeedbackLoop) witnessesAt(locID string, participants []string) []string {
	if locID == "" {
		return nil
	}
	isParticipant := make(map[string]bool, len(participants))
	for _, p := range participants {
		isParticipant[p] = true
	}
	var out []string
	for _, c := range f.World.CharactersAt(locID) {
		if isParticipant[c.ID] {
			continue
		}
		out = append(out, c.ID)
		if len(out) >= maxWitnesses {
			break
		}
	}
	return out
}

// Propagate adjusts every non-participant witness's relations toward the
// participants by a fixed type-conditioned table, then runs a 2-hop rumor
// spread for public events.
func (f *FeedbackLoop) Propagate(ev world.GameEvent) {
	for _, wid := range ev.Witnesses {
		if ev.HasParticipant(wid) {
			continue
		}
		w, ok := f.World.GetCharacter(wid)
		if !ok {
			continue
		}
		for _, pid := range ev.Participants {
			f.witnessReaction(w, pid, ev)
		}
		if f.Beliefs != nil {
			f.Beliefs.ObserveEvent(wid, ev)
		}
	}

	if ev.IsPublic && len(ev.Participants) > 0 {
		f.spreadRumor(ev)
	}
}

func (f *FeedbackLoop) witnessReaction(w *world.Character, participantID string, ev world.GameEvent) {
	g := f.World.Graph
	switch ev.Type {
	case world.EventBetrayal:
		g.Modify(w.ID, participantID, relation.Delta{Trust: -0.2, Respect: -0.1, EventID: ev.ID})
	case world.EventCombat:
		d := relation.Delta{EventID: ev.ID}
		if w.Personality.Morality > 0.6 {
			d.Trust = -0.1
		}
		if w.Personality.Courage > 0.6 {
			d.Respect = 0.05
		}
		if d.Trust != 0 || d.Respect != 0 {
			g.Modify(w.ID, participantID, d)
		}
	case world.EventTrade:
		g.Modify(w.ID, participantID, relation.Delta{Trust: 0.02, EventID: ev.ID})
	}
}

// spreadRumor runs a bounded diffusion from the first participant with
// per-edge probability 0.2 + 0.3×trust, writing a lower-fidelity rumor
// memory into every newly informed non-participant.
func (f *FeedbackLoop) spreadRumor(ev world.GameEvent) {
	source := ev.Participants[0]
	informed := f.World.Graph.RumorSpread(source, 2, func(r relation.Relation) float64 {
		return 0.2 + 0.3*r.Trust
	}, f.Rng)

	for id := range informed {
		if id == source || ev.HasParticipant(id) {
			continue
		}
		c, ok := f.World.GetCharacter(id)
		if !ok {
			continue
		}
		c.Memory = append(c.Memory, world.MemoryEntry{
			Tick:       ev.Tick,
			EventID:    ev.ID,
			Text:       fmt.Sprintf("I heard a rumor: %s", ev.Description),
			Secondhand: true,
		})
	}
}
