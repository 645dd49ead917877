// Package relation provides the directed weighted social graph between
// characters: trust, fear, respect, and debt per ordered pair, plus the
// graph analytics the event generator and UI consume — mutual-trust
// clusters, centrality, and stochastic rumor diffusion.
package relation

import (
	"sort"

	"github.com/talgya/ashfall/internal/entropy"
)

// Relation is one directed edge A→B. A→B and B→A are independent records.
type Relation struct {
	Trust        float64  `json:"trust"`   // [-1, 1]
	Fear         float64  `json:"fear"`    // [0, 1]
	Respect      float64  `json:"respect"` // [-1, 1]
	Debt         float64  `json:"debt"`    // unbounded
	SecretShared bool     `json:"secret_shared,omitempty"`
	History      []string `json:"history,omitempty"` // event ids
}

func (r *Relation) clamp() {
	if r.Trust < -1 {
		r.Trust = -1
	}
	if r.Trust > 1 {
		r.Trust = 1
	}
	if r.Fear < 0 {
		r.Fear = 0
	}
	if r.Fear > 1 {
		r.Fear = 1
	}
	if r.Respect < -1 {
		r.Respect = -1
	}
	if r.Respect > 1 {
		r.Respect = 1
	}
}

// Delta is an additive adjustment to an edge.
type Delta struct {
	Trust   float64
	Fear    float64
	Respect float64
	Debt    float64
	// SecretShared, when non-nil, overwrites the flag.
	SecretShared *bool
	// EventID, when set, is appended to the edge history.
	EventID string
}

// Stats aggregates the whole graph — the input to instability detection.
type Stats struct {
	Edges    int     `json:"edges"`
	AvgTrust float64 `json:"avg_trust"`
	AvgFear  float64 `json:"avg_fear"`
}

// Graph is a sparse adjacency structure keyed by source character id.
// Edges are created lazily with zero defaults on first access and never
// deleted.
type Graph struct {
	edges map[string]map[string]*Relation
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{edges: make(map[string]map[string]*Relation)}
}

func (g *Graph) ensure(from, to string) *Relation {
	out, ok := g.edges[from]
	if !ok {
		out = make(map[string]*Relation)
		g.edges[from] = out
	}
	r, ok := out[to]
	if !ok {
		r = &Relation{}
		out[to] = r
	}
	return r
}

// Get returns the relation from→to, creating a zero-valued edge if absent.
func (g *Graph) Get(from, to string) Relation {
	return *g.ensure(from, to)
}

// Update overwrites the relation from→to. Clamped fields are bounded on
// write; debt and secretShared pass through unchecked.
func (g *Graph) Update(from, to string, rel Relation) {
	r := g.ensure(from, to)
	hist := r.History
	*r = rel
	if len(rel.History) == 0 {
		r.History = hist
	}
	r.clamp()
}

// Modify applies an additive delta to the relation from→to, clamping
// afterwards.
func (g *Graph) Modify(from, to string, d Delta) {
	r := g.ensure(from, to)
	r.Trust += d.Trust
	r.Fear += d.Fear
	r.Respect += d.Respect
	r.Debt += d.Debt
	if d.SecretShared != nil {
		r.SecretShared = *d.SecretShared
	}
	if d.EventID != "" {
		r.History = append(r.History, d.EventID)
	}
	r.clamp()
}

// Friends returns ids this character trusts (outgoing trust > 0).
func (g *Graph) Friends(id string) []string {
	var out []string
	for to, r := range g.edges[id] {
		if r.Trust > 0 {
			out = append(out, to)
		}
	}
	sort.Strings(out)
	return out
}

// Enemies returns ids this character distrusts (outgoing trust < -0.3).
func (g *Graph) Enemies(id string) []string {
	var out []string
	for to, r := range g.edges[id] {
		if r.Trust < -0.3 {
			out = append(out, to)
		}
	}
	sort.Strings(out)
	return out
}

// MutualFriends returns the intersection of both characters' friend lists.
func (g *Graph) MutualFriends(a, b string) []string {
	bf := make(map[string]bool)
	for _, id := range g.Friends(b) {
		bf[id] = true
	}
	var out []string
	for _, id := range g.Friends(a) {
		if bf[id] {
			out = append(out, id)
		}
	}
	return out
}

// mutual reports whether both directions of a↔b exceed the trust threshold.
func (g *Graph) mutual(a, b string, threshold float64) bool {
	ra, ok := g.lookup(a, b)
	if !ok || ra.Trust <= threshold {
		return false
	}
	rb, ok := g.lookup(b, a)
	return ok && rb.Trust > threshold
}

func (g *Graph) lookup(from, to string) (*Relation, bool) {
	if out, ok := g.edges[from]; ok {
		if r, ok := out[to]; ok {
			return r, true
		}
	}
	return nil, false
}

// Clusters finds connected components under mutually-reciprocated trust:
// only edges trusted above threshold in both directions propagate
// membership. Singleton components are discarded. This is the
// faction-detection primitive.
func (g *Graph) Clusters(threshold float64) [][]string {
	nodes := g.nodes()
	visited := make(map[string]bool)
	var clusters [][]string

	for _, seed := range nodes {
		if visited[seed] {
			continue
		}
		visited[seed] = true
		component := []string{seed}
		queue := []string{seed}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, other := range nodes {
				if visited[other] || !g.mutual(cur, other, threshold) {
					continue
				}
				visited[other] = true
				component = append(component, other)
				queue = append(queue, other)
			}
		}
		if len(component) > 1 {
			sort.Strings(component)
			clusters = append(clusters, component)
		}
	}
	return clusters
}

// nodes returns every id appearing as a source or target, sorted.
func (g *Graph) nodes() []string {
	seen := make(map[string]bool)
	for from, out := range g.edges {
		seen[from] = true
		for to := range out {
			seen[to] = true
		}
	}
	nodes := make([]string, 0, len(seen))
	for id := range seen {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)
	return nodes
}

// Centrality returns out-degree plus in-degree for a character.
func (g *Graph) Centrality(id string) int {
	degree := len(g.edges[id])
	for from, out := range g.edges {
		if from == id {
			continue
		}
		if _, ok := out[id]; ok {
			degree++
		}
	}
	return degree
}

// MostInfluential returns the top n characters by centrality.
func (g *Graph) MostInfluential(n int) []string {
	nodes := g.nodes()
	sort.SliceStable(nodes, func(i, j int) bool {
		return g.Centrality(nodes[i]) > g.Centrality(nodes[j])
	})
	if n > len(nodes) {
		n = len(nodes)
	}
	return nodes[:n]
}

// RumorSpread runs a bounded stochastic diffusion from source. Over hops
// discrete rounds, every informed node attempts to inform each outgoing
// neighbor with probability prob(edge). Returns all ever-informed ids,
// source included.
func (g *Graph) RumorSpread(source string, hops int, prob func(Relation) float64, rng *entropy.Source) map[string]bool {
	informed := map[string]bool{source: true}
	frontier := []string{source}

	for hop := 0; hop < hops && len(frontier) > 0; hop++ {
		var next []string
		for _, id := range frontier {
			targets := make([]string, 0, len(g.edges[id]))
			for to := range g.edges[id] {
				targets = append(targets, to)
			}
			sort.Strings(targets)
			for _, to := range targets {
				if informed[to] {
					continue
				}
				if rng.Chance(prob(*g.edges[id][to])) {
					informed[to] = true
					next = append(next, to)
				}
			}
		}
		frontier = next
	}
	return informed
}

// GetStats returns edge count and mean trust/fear across all edges.
func (g *Graph) GetStats() Stats {
	var st Stats
	for _, out := range g.edges {
		for _, r := range out {
			st.Edges++
			st.AvgTrust += r.Trust
			st.AvgFear += r.Fear
		}
	}
	if st.Edges > 0 {
		st.AvgTrust /= float64(st.Edges)
		st.AvgFear /= float64(st.Edges)
	}
	return st
}
