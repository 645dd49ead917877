package ai

import (
	"math"
	"sort"

	"github.com/talgya/ashfall/internal/entropy"
	"github.com/talgya/ashfall/internal/world"
)

// Fixed weighting of the fit terms in the final utility.
const (
	personalityWeight = 0.3
	emotionWeight     = 0.2
)

// Breakdown exposes the independent terms of one utility computation.
type Breakdown struct {
	SelfBenefit    float64 `json:"self_benefit"`
	TargetBenefit  float64 `json:"target_benefit"`
	Risk           float64 `json:"risk"`
	PersonalityFit float64 `json:"personality_fit"`
	EmotionalFit   float64 `json:"emotional_fit"`
}

// Scorer computes expected utility for a character choosing among catalog
// actions against the shared world state.
type Scorer struct {
	World *world.State
}

// NewScorer creates a utility scorer over a world.
func NewScorer(w *world.State) *Scorer {
	return &Scorer{World: w}
}

// CalculateUtility scores one action for an actor against an optional
// target. Any failing condition yields -Inf with a zeroed breakdown: the
// action is unconditionally invalid.
func (sc *Scorer) CalculateUtility(actor *world.Character, action *Action, targetID string) (float64, Breakdown) {
	for _, cond := range action.Conditions {
		if !sc.evaluate(actor, cond, targetID) {
			return math.Inf(-1), Breakdown{}
		}
	}

	trust := 0.0
	if targetID != "" {
		trust = sc.World.Graph.Get(actor.ID, targetID).Trust
	}

	b := Breakdown{
		SelfBenefit:    benefitTo(action.Effects, "self"),
		TargetBenefit:  benefitTo(action.Effects, "target") * trust,
		Risk:           (1 - sc.successRate(actor, action, trust)) * action.Weights.RiskFactor,
		PersonalityFit: personalityFit(actor.Personality, action.Category),
		EmotionalFit:   emotionalFit(actor.Emotion, trust, action.Category),
	}

	utility := b.SelfBenefit*action.Weights.SelfBenefit +
		b.TargetBenefit*action.Weights.TargetBenefit -
		b.Risk +
		personalityWeight*b.PersonalityFit +
		emotionWeight*b.EmotionalFit
	return utility, b
}

// evaluate checks one condition. Unknown kinds or fields default to false.
func (sc *Scorer) evaluate(actor *world.Character, cond Condition, targetID string) bool {
	switch cond.Kind {
	case CondStat:
		v, ok := statValue(actor, cond.Stat)
		return ok && cond.Op.compare(v, cond.Value)
	case CondRelation:
		if targetID == "" {
			return false
		}
		rel := sc.World.Graph.Get(actor.ID, targetID)
		switch cond.Relation {
		case RelTrust:
			return cond.Op.compare(rel.Trust, cond.Value)
		case RelFear:
			return cond.Op.compare(rel.Fear, cond.Value)
		case RelRespect:
			return cond.Op.compare(rel.Respect, cond.Value)
		case RelDebt:
			return cond.Op.compare(rel.Debt, cond.Value)
		}
		return false
	case CondResource:
		return cond.Op.compare(float64(actor.Resources), cond.Value)
	case CondLocation:
		if cond.Op == OpNE {
			return actor.Location != cond.Location
		}
		return actor.Location == cond.Location
	}
	return false
}

func statValue(c *world.Character, f StatField) (float64, bool) {
	switch f {
	case StatAmbition:
		return c.Personality.Ambition, true
	case StatLoyalty:
		return c.Personality.Loyalty, true
	case StatMorality:
		return c.Personality.Morality, true
	case StatCourage:
		return c.Personality.Courage, true
	case StatCunning:
		return c.Personality.Cunning, true
	case StatTrust:
		return c.Emotion.Trust, true
	case StatFear:
		return c.Emotion.Fear, true
	case StatAnger:
		return c.Emotion.Anger, true
	case StatJoy:
		return c.Emotion.Joy, true
	case StatDespair:
		return c.Emotion.Despair, true
	case StatPower:
		return float64(c.Power), true
	}
	return 0, false
}

// benefitTo sums the action's effects aimed at one symbolic target:
// resource deltas ×0.01, power deltas ×0.1, joy gains positive, fear
// gains negative.
func benefitTo(effects []world.Effect, symbolic string) float64 {
	total := 0.0
	for _, e := range effects {
		if e.Target != symbolic {
			continue
		}
		switch e.Kind {
		case world.EffectResource:
			total += e.Value * 0.01
		case world.EffectStat:
			if e.Field == world.FieldPower {
				total += e.Value * 0.1
			}
		case world.EffectEmotion:
			switch e.Field {
			case world.FieldJoy:
				total += e.Value
			case world.FieldFear:
				total -= e.Value
			}
		}
	}
	return total
}

// successRate adjusts an action's base rate by the actor stat its
// category leans on: cunning for dialogue, courage for combat, target
// trust for social.
func (sc *Scorer) successRate(actor *world.Character, action *Action, trust float64) float64 {
	rate := action.BaseSuccessRate
	switch action.Category {
	case CategoryDialogue:
		rate += 0.2 * (actor.Personality.Cunning - 0.5)
	case CategoryCombat:
		rate += 0.2 * (actor.Personality.Courage - 0.5)
	case CategorySocial:
		rate += 0.2 * trust
	}
	return world.Clamp01(rate)
}

// personalityFit is a fixed per-category linear combination of the five
// personality traits.
func personalityFit(p world.Personality, cat Category) float64 {
	switch cat {
	case CategoryCombat:
		return 0.5*p.Courage + 0.3*p.Ambition - 0.2*p.Morality
	case CategoryDialogue:
		return 0.5*p.Cunning + 0.3*p.Ambition + 0.2*p.Morality
	case CategorySocial:
		return 0.5*p.Loyalty + 0.3*p.Morality - 0.2*p.Cunning
	case CategoryEconomic:
		return 0.5*p.Ambition + 0.3*p.Cunning + 0.2*p.Loyalty
	}
	return 0
}

// emotionalFit gives category-conditioned bonuses from current emotion:
// anger boosts combat, high fear boosts everything but combat, trust
// boosts the social categories.
func emotionalFit(e world.Emotion, trust float64, cat Category) float64 {
	fit := 0.0
	if cat == CategoryCombat {
		fit += 0.5*e.Anger - 0.4*e.Fear
	} else {
		fit += 0.3 * e.Fear
	}
	if cat == CategorySocial || cat == CategoryDialogue {
		fit += 0.4 * trust
	}
	return fit
}

type scored struct {
	action  *Action
	utility float64
}

// SelectAction scores every candidate, discards the invalid ones, and
// performs a sigmoid-weighted stochastic pick among the top 3 rather than
// pure argmax, so NPC behavior stays biased toward high utility without
// becoming predictable. Returns nil when no action is valid.
func (sc *Scorer) SelectAction(actor *world.Character, actions []*Action, targetID string, rng *entropy.Source) *Action {
	var candidates []scored
	for _, a := range actions {
		u, _ := sc.CalculateUtility(actor, a, targetID)
		if math.IsInf(u, -1) {
			continue
		}
		candidates = append(candidates, scored{action: a, utility: u})
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].utility > candidates[j].utility
	})
	if len(candidates) > 3 {
		candidates = candidates[:3]
	}

	total := 0.0
	weights := make([]float64, len(candidates))
	for i, c := range candidates {
		w := sigmoid(c.utility)
		if w < 0.1 {
			w = 0.1
		}
		weights[i] = w
		total += w
	}

	roll := rng.Float() * total
	for i, w := range weights {
		roll -= w
		if roll <= 0 {
			return candidates[i].action
		}
	}
	return candidates[len(candidates)-1].action
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
