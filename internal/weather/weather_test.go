package weather_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ashfall/internal/entropy"
	"github.com/talgya/ashfall/internal/weather"
	"github.com/talgya/ashfall/internal/world"
)

func weatherWorld() *world.State {
	w := world.NewState()
	w.AddLocation(&world.Location{ID: "town", Name: "Town", Type: world.LocVillage})
	w.AddLocation(&world.Location{ID: "keep", Name: "Keep", Type: world.LocCastle, Indoor: true})
	return w
}

func TestIndoorLocationsPinned(t *testing.T) {
	w := weatherWorld()
	sys := weather.New(w, entropy.New(3), 3)

	for i := 0; i < 50; i++ {
		w.AdvanceTime()
		sys.Update()
		local := sys.GetWeather("keep")
		assert.Equal(t, weather.Clear, local.Condition)
		assert.Equal(t, 15.0, local.Temperature)
	}
}

func TestNoSnowInSummer(t *testing.T) {
	w := weatherWorld()
	w.Global.DayOfYear = 120
	w.Global.Season = world.SeasonForDay(120)
	require.Equal(t, world.Summer, w.Global.Season)

	sys := weather.New(w, entropy.New(11), 11)
	for i := 0; i < 300; i++ {
		sys.Update()
		assert.NotEqual(t, weather.Snow, sys.Current)
	}
}

func TestConditionAlwaysValid(t *testing.T) {
	w := weatherWorld()
	sys := weather.New(w, entropy.New(5), 5)

	for i := 0; i < 400; i++ {
		w.AdvanceTime()
		sys.Update()
		assert.Less(t, int(sys.Current), 6)
		local := sys.GetWeather("town")
		assert.Less(t, int(local.Condition), 6)
	}
}

func TestTemperatureSeasonalSwing(t *testing.T) {
	w := weatherWorld()
	sys := weather.New(w, entropy.New(9), 9)

	sample := func(day int) float64 {
		w.Global.DayOfYear = day
		w.Global.Season = world.SeasonForDay(day)
		total := 0.0
		for i := 0; i < 20; i++ {
			sys.Update()
			total += sys.Temperature
		}
		return total / 20
	}

	// Midsummer (near the sine peak) must run warmer than midwinter.
	summer := sample(172)
	winter := sample(355)
	assert.Greater(t, summer, winter+10)
}

func TestGetWeatherFallsBackToGlobal(t *testing.T) {
	w := weatherWorld()
	sys := weather.New(w, entropy.New(1), 1)

	local := sys.GetWeather("nowhere")
	assert.Equal(t, sys.Current, local.Condition)
	assert.Equal(t, sys.Temperature, local.Temperature)
}

func TestEffectsByRegime(t *testing.T) {
	w := weatherWorld()
	sys := weather.New(w, entropy.New(1), 1)

	sys.Current = weather.Storm
	fx := sys.GetEffects()
	assert.Equal(t, 2.0, fx.TravelPenalty)
	assert.Less(t, fx.Visibility, 0.5)

	sys.Current = weather.Clear
	fx = sys.GetEffects()
	assert.Equal(t, 1.0, fx.TravelPenalty)
	assert.Equal(t, 1.0, fx.Visibility)
}
