package causal

import (
	"sort"

	"github.com/talgya/ashfall/internal/world"
)

// Canonical instability thresholds, shared by the event generator and the
// feedback loop's ambient threshold checks so the two never disagree.
const (
	trustCollapseThreshold = -0.25
	fearSpikeThreshold     = 0.5
	resourceScarcityMean   = 50.0
	clusterTrustThreshold  = 0.3
	asymmetryClusterCount  = 2
	powerImbalanceRatio    = 2.0
	powerVacuumCeiling     = 30
)

// Instability identifies one boolean aggregate-state signal.
type Instability string

const (
	InstabilityPowerImbalance       Instability = "power_imbalance"
	InstabilityResourceScarcity     Instability = "resource_scarcity"
	InstabilityTrustCollapse        Instability = "trust_collapse"
	InstabilityInformationAsymmetry Instability = "information_asymmetry"
	InstabilityFearSpike            Instability = "fear_spike"
)

// DetectInstability evaluates the five aggregate signals against the
// current world. Each detected signal raises emergent-event probability.
func DetectInstability(w *world.State) []Instability {
	var out []Instability

	if powerImbalance(w) {
		out = append(out, InstabilityPowerImbalance)
	}
	if meanResources(w) < resourceScarcityMean {
		out = append(out, InstabilityResourceScarcity)
	}

	stats := w.Graph.GetStats()
	if stats.Edges > 0 && stats.AvgTrust < trustCollapseThreshold {
		out = append(out, InstabilityTrustCollapse)
	}
	if len(w.Graph.Clusters(clusterTrustThreshold)) > asymmetryClusterCount {
		out = append(out, InstabilityInformationAsymmetry)
	}
	if stats.Edges > 0 && stats.AvgFear > fearSpikeThreshold {
		out = append(out, InstabilityFearSpike)
	}
	return out
}

// powerImbalance reports whether the most powerful character more than
// doubles the runner-up.
func powerImbalance(w *world.State) bool {
	if len(w.Characters) < 2 {
		return false
	}
	powers := make([]int, 0, len(w.Characters))
	for _, c := range w.Characters {
		powers = append(powers, c.Power)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(powers)))
	return float64(powers[0]) > powerImbalanceRatio*float64(powers[1])
}

func meanResources(w *world.State) float64 {
	if len(w.Characters) == 0 {
		return resourceScarcityMean
	}
	total := 0
	for _, c := range w.Characters {
		total += c.Resources
	}
	return float64(total) / float64(len(w.Characters))
}

func maxPower(w *world.State) int {
	max := 0
	for _, c := range w.Characters {
		if c.Power > max {
			max = c.Power
		}
	}
	return max
}
