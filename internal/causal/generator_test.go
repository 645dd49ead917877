package causal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ashfall/internal/belief"
	"github.com/talgya/ashfall/internal/causal"
	"github.com/talgya/ashfall/internal/entropy"
	"github.com/talgya/ashfall/internal/relation"
	"github.com/talgya/ashfall/internal/world"
)

func generatorWorld() (*world.State, *causal.EventGenerator) {
	w := world.NewState()
	w.AddLocation(&world.Location{ID: "pass", Name: "The Pass", Type: world.LocMountain, DangerLevel: 0.8})
	w.AddCharacter(&world.Character{ID: "ana", Name: "Ana", Location: "pass", Resources: 100, Power: 40})
	w.AddCharacter(&world.Character{ID: "bo", Name: "Bo", Location: "pass", Resources: 100, Power: 35})
	rng := entropy.New(23)
	loop := causal.NewFeedbackLoop(w, belief.NewSystem(w.Graph), rng)
	return w, causal.NewEventGenerator(w, loop, rng)
}

func alwaysTrigger(id string) causal.Trigger {
	return causal.Trigger{
		ID:       id,
		BaseProb: 1,
		Gate:     func(*world.State) bool { return true },
		Build: func(*world.State) world.GameEvent {
			return world.GameEvent{Type: world.EventCustom, Description: id}
		},
	}
}

func TestTriggerNeverRefiresConsecutiveTicks(t *testing.T) {
	w, gen := generatorWorld()
	gen.SetTriggers([]causal.Trigger{alwaysTrigger("storm_omen")})

	w.AdvanceTime()
	fired := gen.GenerateEvents()
	require.Len(t, fired, 1)
	gen.ClearRecent()

	// Fired on the previous tick: suppressed this tick.
	w.AdvanceTime()
	assert.Empty(t, gen.GenerateEvents())
	gen.ClearRecent()

	// One tick of cooldown has passed: eligible again.
	w.AdvanceTime()
	assert.Len(t, gen.GenerateEvents(), 1)
}

func TestGateBlocksTrigger(t *testing.T) {
	w, gen := generatorWorld()
	gen.SetTriggers([]causal.Trigger{{
		ID:       "war_drums",
		BaseProb: 1,
		Gate:     func(w *world.State) bool { return w.Global.WarActive },
		Build: func(*world.State) world.GameEvent {
			return world.GameEvent{Type: world.EventPolitical}
		},
	}})

	w.AdvanceTime()
	assert.Empty(t, gen.GenerateEvents())

	w.Global.WarActive = true
	assert.Len(t, gen.GenerateEvents(), 1)
}

func TestNegativeModifierSuppresses(t *testing.T) {
	w, gen := generatorWorld()
	tr := alwaysTrigger("ill_omen")
	tr.Modifiers = []func(*world.State) float64{
		func(*world.State) float64 { return -5 },
	}
	gen.SetTriggers([]causal.Trigger{tr})

	for i := 0; i < 50; i++ {
		w.AdvanceTime()
		assert.Empty(t, gen.GenerateEvents())
		gen.ClearRecent()
	}
}

func TestFiredEventsEnterHistoryWithTickAndID(t *testing.T) {
	w, gen := generatorWorld()
	gen.SetTriggers([]causal.Trigger{alwaysTrigger("omen")})

	w.AdvanceTime()
	fired := gen.GenerateEvents()
	require.Len(t, fired, 1)
	assert.NotEmpty(t, fired[0].ID)
	assert.Equal(t, w.Tick, fired[0].Tick)
	require.Len(t, w.History, 1)
	assert.Equal(t, fired[0].ID, w.History[0].ID)
}

func TestDefaultTriggerGates(t *testing.T) {
	w, _ := generatorWorld()

	// Dangerous location present: the raid gate passes somewhere in the
	// catalog. Drain the probability by sampling many ticks.
	sawRaid := false
	for i := 0; i < 400 && !sawRaid; i++ {
		w.AdvanceTime()
		g2 := causal.NewEventGenerator(w, nil, entropy.New(int64(i)))
		for _, ev := range g2.GenerateEvents() {
			if ev.Type == world.EventDisaster {
				sawRaid = true
			}
		}
	}
	assert.True(t, sawRaid)
}

func TestInstabilityDetection(t *testing.T) {
	w := world.NewState()
	w.AddCharacter(&world.Character{ID: "king", Resources: 200, Power: 90})
	w.AddCharacter(&world.Character{ID: "serf", Resources: 200, Power: 10})

	// Power 90 vs 10 is past the 2× imbalance ratio.
	signals := causal.DetectInstability(w)
	assert.Contains(t, signals, causal.InstabilityPowerImbalance)
	assert.NotContains(t, signals, causal.InstabilityResourceScarcity)

	// Starve everyone below the scarcity mean.
	for _, c := range w.Characters {
		c.Resources = 10
	}
	signals = causal.DetectInstability(w)
	assert.Contains(t, signals, causal.InstabilityResourceScarcity)

	// Poison the graph below the trust-collapse line.
	w.Graph.Modify("king", "serf", relation.Delta{Trust: -0.6})
	signals = causal.DetectInstability(w)
	assert.Contains(t, signals, causal.InstabilityTrustCollapse)
}
