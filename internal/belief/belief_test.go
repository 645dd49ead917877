package belief_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/ashfall/internal/belief"
	"github.com/talgya/ashfall/internal/relation"
	"github.com/talgya/ashfall/internal/world"
)

func TestGetDefaultsToNeutralPrior(t *testing.T) {
	s := belief.NewSystem(relation.New())
	assert.Equal(t, 0.5, s.Get("ana", "bo", "trustworthy"))
}

func TestUpdateSaturates(t *testing.T) {
	s := belief.NewSystem(relation.New())

	// From the neutral prior, full openness: 0.5 + 0.5×0.6×1 = 0.8.
	s.Update("ana", "bo", "trustworthy", 0.5, 0.6)
	assert.InDelta(t, 0.8, s.Get("ana", "bo", "trustworthy"), 1e-9)

	// At 0.8 the openness factor is 1−2×0.3 = 0.4, so the same evidence
	// moves the belief far less.
	s.Update("ana", "bo", "trustworthy", 0.5, 0.6)
	assert.InDelta(t, 0.92, s.Get("ana", "bo", "trustworthy"), 1e-9)

	// Repeated evidence approaches but never escapes [0, 1].
	for i := 0; i < 100; i++ {
		s.Update("ana", "bo", "trustworthy", 1, 1)
	}
	v := s.Get("ana", "bo", "trustworthy")
	assert.LessOrEqual(t, v, 1.0)
	assert.Greater(t, v, 0.9)
}

func TestShareInformationScaledByTrust(t *testing.T) {
	g := relation.New()
	s := belief.NewSystem(g)

	// Listener trusts speaker at 0.5: evidence lands at half strength.
	g.Modify("listener", "speaker", relation.Delta{Trust: 0.5})
	s.ShareInformation("speaker", "listener", "bo", "dangerous", 0.8)
	assert.InDelta(t, 0.5+0.8*0.5, s.Get("listener", "bo", "dangerous"), 1e-9)
}

func TestShareInformationIgnoresDistrustedSpeaker(t *testing.T) {
	g := relation.New()
	s := belief.NewSystem(g)

	g.Modify("listener", "speaker", relation.Delta{Trust: -0.4})
	s.ShareInformation("speaker", "listener", "bo", "dangerous", 0.8)
	assert.Equal(t, 0.5, s.Get("listener", "bo", "dangerous"))

	// Zero trust is also no credibility.
	s.ShareInformation("stranger", "listener", "bo", "dangerous", 0.8)
	assert.Equal(t, 0.5, s.Get("listener", "bo", "dangerous"))
}

func TestObserveEvent(t *testing.T) {
	s := belief.NewSystem(relation.New())

	s.ObserveEvent("witness", world.GameEvent{
		Type: world.EventBetrayal, Participants: []string{"villain", "victim"},
	})
	assert.Less(t, s.Get("witness", "villain", "trustworthy"), 0.5)

	s.ObserveEvent("witness", world.GameEvent{
		Type: world.EventCombat, Participants: []string{"brute"},
	})
	assert.Greater(t, s.Get("witness", "brute", "dangerous"), 0.5)

	// Observing your own action changes nothing.
	s.ObserveEvent("villain", world.GameEvent{
		Type: world.EventBetrayal, Participants: []string{"villain"},
	})
	assert.Equal(t, 0.5, s.Get("villain", "villain", "trustworthy"))
}

func TestPerceptionBands(t *testing.T) {
	s := belief.NewSystem(relation.New())
	assert.Equal(t, "uncertain", s.Perception("a", "b", "trustworthy"))

	s.Update("a", "b", "trustworthy", 1, 1)
	assert.Equal(t, "certain", s.Perception("a", "b", "trustworthy"))

	s.Update("a", "c", "trustworthy", -1, 1)
	assert.Equal(t, "disbelieved", s.Perception("a", "c", "trustworthy"))
}
