package disease_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ashfall/internal/disease"
	"github.com/talgya/ashfall/internal/entropy"
	"github.com/talgya/ashfall/internal/world"
)

func plagueWorld() *world.State {
	w := world.NewState()
	w.AddLocation(&world.Location{ID: "town", Name: "Town", Type: world.LocVillage})
	w.AddLocation(&world.Location{ID: "hills", Name: "Hills", Type: world.LocMountain})
	w.AddCharacter(&world.Character{ID: "ana", Name: "Ana", Location: "town"})
	w.AddCharacter(&world.Character{ID: "bo", Name: "Bo", Location: "town"})
	w.AddCharacter(&world.Character{ID: "cass", Name: "Cass", Location: "hills"})
	return w
}

func fever() *disease.Disease {
	return &disease.Disease{
		ID: "fever", Name: "Grey Fever",
		TransmissionRate: 1.0,
		RecoveryRate:     0,
		MortalityRate:    0,
		IncubationTicks:  2,
	}
}

func TestFullTransmissionAlwaysExposesContacts(t *testing.T) {
	w := plagueWorld()
	sys := disease.New(w, entropy.New(1))
	sys.Register(fever())
	require.True(t, sys.Infect("ana", "fever"))

	sys.Update()

	// Co-located susceptible is guaranteed exposure at rate 1.0.
	assert.Equal(t, disease.Exposed, sys.Status["bo"].State)
	// Different location: no contact, no exposure.
	assert.Equal(t, disease.Susceptible, sys.Status["cass"].State)
}

func TestIncubationThenInfection(t *testing.T) {
	w := plagueWorld()
	sys := disease.New(w, entropy.New(1))
	sys.Register(fever())
	sys.Infect("ana", "fever")

	sys.Update() // bo exposed at tick 0
	require.Equal(t, disease.Exposed, sys.Status["bo"].State)

	w.AdvanceTime()
	sys.Update() // tick 1: incubation not elapsed
	assert.Equal(t, disease.Exposed, sys.Status["bo"].State)

	w.AdvanceTime()
	sys.Update() // tick 2: incubation elapsed
	assert.Equal(t, disease.Infected, sys.Status["bo"].State)
}

func TestCertainRecoveryAndPermanentImmunity(t *testing.T) {
	w := plagueWorld()
	sys := disease.New(w, entropy.New(1))
	d := fever()
	d.RecoveryRate = 1
	sys.Register(d)
	sys.Infect("cass", "fever")

	w.AdvanceTime()
	sys.Update()
	require.Equal(t, disease.Recovered, sys.Status["cass"].State)

	// ImmunityDuration 0 means recovery is permanent.
	for i := 0; i < 50; i++ {
		w.AdvanceTime()
		sys.Update()
		assert.Equal(t, disease.Recovered, sys.Status["cass"].State)
	}
}

func TestImmunityExpiry(t *testing.T) {
	w := plagueWorld()
	sys := disease.New(w, entropy.New(1))
	d := fever()
	d.RecoveryRate = 1
	d.ImmunityDuration = 3
	sys.Register(d)
	sys.Infect("cass", "fever")

	w.AdvanceTime()
	sys.Update()
	require.Equal(t, disease.Recovered, sys.Status["cass"].State)
	recoveredAt := sys.Status["cass"].RecoveredAt

	for w.Tick-recoveredAt < 3 {
		w.AdvanceTime()
		sys.Update()
	}
	assert.Equal(t, disease.Susceptible, sys.Status["cass"].State)
	assert.Empty(t, sys.Status["cass"].DiseaseID)
}

func TestCertainMortalityEmitsDeathEvent(t *testing.T) {
	w := plagueWorld()
	sys := disease.New(w, entropy.New(1))
	d := fever()
	d.MortalityRate = 1
	sys.Register(d)
	sys.Infect("cass", "fever")

	w.AdvanceTime()
	sys.Update()
	assert.Equal(t, disease.Dead, sys.Status["cass"].State)

	require.NotEmpty(t, w.History)
	last := w.History[len(w.History)-1]
	assert.Equal(t, world.EventDeath, last.Type)
	assert.Equal(t, []string{"cass"}, last.Participants)

	// The dead never transition again.
	for i := 0; i < 10; i++ {
		w.AdvanceTime()
		sys.Update()
	}
	assert.Equal(t, disease.Dead, sys.Status["cass"].State)
	assert.Len(t, w.History, 1)
}

func TestContactFactorRange(t *testing.T) {
	w := plagueWorld()
	sys := disease.New(w, entropy.New(1))

	// Neutral trust: midpoint.
	assert.InDelta(t, 0.75, sys.ContactFactor("ana", "bo"), 1e-9)

	w.ApplyEffect(world.Effect{Kind: world.EffectRelation, Target: "ana:bo", Field: world.FieldRelTrust, Value: 1})
	assert.InDelta(t, 1.0, sys.ContactFactor("ana", "bo"), 1e-9)

	w.ApplyEffect(world.Effect{Kind: world.EffectRelation, Target: "ana:bo", Field: world.FieldRelTrust, Value: -3})
	assert.InDelta(t, 0.5, sys.ContactFactor("ana", "bo"), 1e-9)
}

func TestPlagueFlag(t *testing.T) {
	w := world.NewState()
	w.AddLocation(&world.Location{ID: "town", Type: world.LocCity})
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		w.AddCharacter(&world.Character{ID: id, Name: id, Location: "town"})
	}
	sys := disease.New(w, entropy.New(1))
	sys.Register(fever())

	sys.Update()
	assert.False(t, w.Global.PlagueActive)

	// One infected of five is 20% sick: above the 10% line.
	sys.Infect("a", "fever")
	sys.Update()
	assert.True(t, w.Global.PlagueActive)

	st := sys.GetStats()
	assert.True(t, st.Plague)
	assert.Equal(t, 1, st.Infected)
	assert.Equal(t, 4, st.Exposed+st.Susceptible)
}
