package ai_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ashfall/internal/ai"
	"github.com/talgya/ashfall/internal/entropy"
	"github.com/talgya/ashfall/internal/relation"
	"github.com/talgya/ashfall/internal/world"
)

func scorerWorld() (*world.State, *ai.Scorer) {
	w := world.NewState()
	w.AddLocation(&world.Location{ID: "market", Name: "Market", Type: world.LocCity})
	w.AddCharacter(&world.Character{
		ID: "actor", Name: "Actor", Location: "market",
		Personality: world.Personality{Ambition: 0.6, Loyalty: 0.5, Morality: 0.5, Courage: 0.5, Cunning: 0.5},
		Resources:   5, Power: 10,
	})
	w.AddCharacter(&world.Character{ID: "mark", Name: "Mark", Location: "market", Resources: 30, Power: 8})
	return w, ai.NewScorer(w)
}

func tradeAction() *ai.Action {
	return &ai.Action{
		ID:       "trade_goods",
		Name:     "Trade goods",
		Category: ai.CategoryEconomic,
		Conditions: []ai.Condition{
			{Kind: ai.CondResource, Op: ai.OpGE, Value: 10},
		},
		Effects: []world.Effect{
			{Kind: world.EffectResource, Target: "self", Value: 5},
			{Kind: world.EffectResource, Target: "target", Value: 5},
		},
		BaseSuccessRate: 0.8,
		Weights:         ai.Weights{SelfBenefit: 1, TargetBenefit: 1, RiskFactor: 0.5},
	}
}

func TestFailedConditionYieldsNegativeInfinity(t *testing.T) {
	w, sc := scorerWorld()
	actor, _ := w.GetCharacter("actor")

	// Actor has 5 resources, trade requires >= 10.
	u, b := sc.CalculateUtility(actor, tradeAction(), "mark")
	assert.True(t, math.IsInf(u, -1))
	assert.Equal(t, ai.Breakdown{}, b)

	actor.Resources = 10
	u, _ = sc.CalculateUtility(actor, tradeAction(), "mark")
	assert.False(t, math.IsInf(u, -1))
}

func TestTargetBenefitScalesWithTrust(t *testing.T) {
	w, sc := scorerWorld()
	actor, _ := w.GetCharacter("actor")
	actor.Resources = 50

	help := &ai.Action{
		ID: "offer_help", Category: ai.CategorySocial,
		Effects: []world.Effect{
			{Kind: world.EffectResource, Target: "target", Value: 10},
		},
		BaseSuccessRate: 0.9,
		Weights:         ai.Weights{SelfBenefit: 1, TargetBenefit: 1, RiskFactor: 0.1},
	}

	w.Graph.Modify("actor", "mark", relation.Delta{Trust: 0.8})
	trusted, bt := sc.CalculateUtility(actor, help, "mark")
	assert.InDelta(t, 0.1*0.8, bt.TargetBenefit, 1e-9)

	// Helping someone distrusted scores lower: the benefit term flips sign.
	w.Graph.Update("actor", "mark", relation.Relation{Trust: -0.8})
	distrusted, bd := sc.CalculateUtility(actor, help, "mark")
	assert.InDelta(t, -0.1*0.8, bd.TargetBenefit, 1e-9)
	assert.Greater(t, trusted, distrusted)
}

func TestRiskTermLowersUtility(t *testing.T) {
	w, sc := scorerWorld()
	actor, _ := w.GetCharacter("actor")

	risky := &ai.Action{
		ID: "duel", Category: ai.CategoryCombat,
		BaseSuccessRate: 0.3,
		Weights:         ai.Weights{RiskFactor: 1},
	}
	safe := &ai.Action{
		ID: "duel_safe", Category: ai.CategoryCombat,
		BaseSuccessRate: 0.9,
		Weights:         ai.Weights{RiskFactor: 1},
	}

	uRisky, bRisky := sc.CalculateUtility(actor, risky, "mark")
	uSafe, bSafe := sc.CalculateUtility(actor, safe, "mark")
	assert.Greater(t, bRisky.Risk, bSafe.Risk)
	assert.Less(t, uRisky, uSafe)
}

func TestRelationConditionNeedsTarget(t *testing.T) {
	w, sc := scorerWorld()
	actor, _ := w.GetCharacter("actor")

	confide := &ai.Action{
		ID: "share_secret", Category: ai.CategoryDialogue,
		Conditions: []ai.Condition{
			{Kind: ai.CondRelation, Relation: ai.RelTrust, Op: ai.OpGT, Value: 0.3},
		},
		BaseSuccessRate: 0.7,
	}

	// No target at all: the relation condition cannot hold.
	u, _ := sc.CalculateUtility(actor, confide, "")
	assert.True(t, math.IsInf(u, -1))

	w.Graph.Modify("actor", "mark", relation.Delta{Trust: 0.5})
	u, _ = sc.CalculateUtility(actor, confide, "mark")
	assert.False(t, math.IsInf(u, -1))
}

func TestSelectActionSkipsInvalid(t *testing.T) {
	w, sc := scorerWorld()
	actor, _ := w.GetCharacter("actor")
	rng := entropy.New(7)

	valid := &ai.Action{ID: "chat", Category: ai.CategoryDialogue, BaseSuccessRate: 0.9}
	invalid := tradeAction() // resources 5 < 10

	for i := 0; i < 20; i++ {
		picked := sc.SelectAction(actor, []*ai.Action{invalid, valid}, "mark", rng)
		require.NotNil(t, picked)
		assert.Equal(t, "chat", picked.ID)
	}
}

func TestSelectActionNilWhenNothingValid(t *testing.T) {
	w, sc := scorerWorld()
	actor, _ := w.GetCharacter("actor")
	rng := entropy.New(7)

	assert.Nil(t, sc.SelectAction(actor, []*ai.Action{tradeAction()}, "mark", rng))
	assert.Nil(t, sc.SelectAction(actor, nil, "mark", rng))
}

func TestSelectActionStaysInTopThree(t *testing.T) {
	w, sc := scorerWorld()
	actor, _ := w.GetCharacter("actor")
	rng := entropy.New(99)

	// Four valid actions with strictly ordered self-benefit. The weakest
	// must never be chosen: selection samples only the top three.
	var actions []*ai.Action
	for i, v := range []float64{400, 300, 200, -400} {
		actions = append(actions, &ai.Action{
			ID:       string(rune('a' + i)),
			Category: ai.CategoryCustom,
			Effects: []world.Effect{
				{Kind: world.EffectResource, Target: "self", Value: v},
			},
			BaseSuccessRate: 1,
			Weights:         ai.Weights{SelfBenefit: 1},
		})
	}

	for i := 0; i < 100; i++ {
		picked := sc.SelectAction(actor, actions, "", rng)
		require.NotNil(t, picked)
		assert.NotEqual(t, "d", picked.ID)
	}
}

func TestParseValidation(t *testing.T) {
	_, err := ai.ParseCategory("warfare")
	assert.Error(t, err)
	_, err = ai.ParseStatField("charisma")
	assert.Error(t, err)
	_, err = ai.ParseRelationField("envy")
	assert.Error(t, err)
	_, err = ai.ParseOperator("=")
	assert.Error(t, err)

	cat, err := ai.ParseCategory("combat")
	require.NoError(t, err)
	assert.Equal(t, ai.CategoryCombat, cat)
}
