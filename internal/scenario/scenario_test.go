package scenario_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ashfall/internal/scenario"
	"github.com/talgya/ashfall/internal/world"
)

func TestDefaultScenarioBuilds(t *testing.T) {
	build, err := scenario.Default().Build()
	require.NoError(t, err)

	assert.Len(t, build.World.Characters, 5)
	assert.Len(t, build.World.Locations, 4)
	assert.Len(t, build.Actions, 5)
	assert.Len(t, build.Species, 3)
	assert.Len(t, build.Diseases, 1)

	// Seeded relations land in the graph.
	assert.InDelta(t, 0.6, build.World.Graph.Get("tobin", "wren").Trust, 1e-9)

	keep, ok := build.World.GetLocation("keep")
	require.True(t, ok)
	assert.True(t, keep.Indoor)
	assert.Equal(t, world.LocCastle, keep.Type)
}

func TestBuildRejectsUnknownLocationType(t *testing.T) {
	sc := &scenario.Scenario{
		Locations: []scenario.LocationSpec{{ID: "x", Name: "X", Type: "swamp"}},
	}
	_, err := sc.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "swamp")
}

func TestBuildRejectsCharacterAtUnknownLocation(t *testing.T) {
	sc := &scenario.Scenario{
		Characters: []scenario.CharacterSpec{{ID: "ana", Name: "Ana", Location: "nowhere"}},
	}
	_, err := sc.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nowhere")
}

func TestBuildRejectsBadEffectField(t *testing.T) {
	sc := scenario.Default()
	sc.Actions = []scenario.ActionSpec{{
		ID: "bad", Name: "Bad", Category: "social",
		Effects: []scenario.EffectSpec{
			{Kind: "emotion", Target: "target", Field: "joyy", Value: 0.1},
		},
	}}
	_, err := sc.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "joyy")
}

func TestBuildRejectsBadConditionOperator(t *testing.T) {
	sc := scenario.Default()
	sc.Actions = []scenario.ActionSpec{{
		ID: "bad", Name: "Bad", Category: "social",
		Conditions: []scenario.ConditionSpec{
			{Kind: "stat", Field: "courage", Op: "=>", Value: 0.4},
		},
	}}
	_, err := sc.Build()
	require.Error(t, err)
}

func TestBuildRejectsSpeciesAtUnknownLocation(t *testing.T) {
	sc := scenario.Default()
	sc.Species = append(sc.Species, scenario.SpeciesSpec{
		Location: "atlantis", ID: "eels", Type: "prey", Population: 10,
	})
	_, err := sc.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "atlantis")
}

func TestLoadRoundTrip(t *testing.T) {
	raw := `
seed: 7
locations:
  - id: dale
    name: Dale
    type: village
    population: 30
characters:
  - id: ana
    name: Ana
    location: dale
    resources: 20
    power: 5
    personality:
      ambition: 0.4
      loyalty: 0.6
actions:
  - id: wave
    name: Wave hello
    category: social
    base_success_rate: 0.95
`
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	sc, err := scenario.Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sc.Seed)

	build, err := sc.Build()
	require.NoError(t, err)
	ana, ok := build.World.GetCharacter("ana")
	require.True(t, ok)
	assert.Equal(t, "dale", ana.Location)
	assert.InDelta(t, 0.4, ana.Personality.Ambition, 1e-9)
	require.Len(t, build.Actions, 1)
	assert.Equal(t, "wave", build.Actions[0].ID)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := scenario.Load("/does/not/exist.yaml")
	assert.Error(t, err)
}
