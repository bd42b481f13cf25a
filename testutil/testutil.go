package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/trackgo/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Shuffle pseudo-randomizes the order of elements.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(n, swap)
}

// MatchGraphConfig controls random match-graph generation.
type MatchGraphConfig struct {
	// Views is the number of views in the scene.
	Views int
	// FeaturesPerView bounds the feature indices drawn per view.
	FeaturesPerView int
	// Matches is the number of random correspondences to draw.
	Matches int
	// Describer is the describer type stamped on all matches.
	// Defaults to SIFT.
	Describer model.DescriberType
}

// MatchGraph is a randomly generated set of pairwise matches together
// with its ground-truth connectivity.
type MatchGraph struct {
	Matches model.PairwiseMatches

	edges [][2]model.NodeKey
	label map[model.NodeKey]int
}

// RandomMatchGraph draws cfg.Matches random correspondences between
// distinct views. Self pairs never occur; duplicate correspondences may.
func RandomMatchGraph(rng *RNG, cfg MatchGraphConfig) *MatchGraph {
	if cfg.Describer == model.DescriberUninitialized {
		cfg.Describer = model.DescriberSIFT
	}

	g := &MatchGraph{
		Matches: make(model.PairwiseMatches),
	}

	for i := 0; i < cfg.Matches; i++ {
		va := model.ViewID(rng.Intn(cfg.Views))
		vb := model.ViewID(rng.Intn(cfg.Views))
		for vb == va {
			vb = model.ViewID(rng.Intn(cfg.Views))
		}
		if vb < va {
			va, vb = vb, va
		}
		m := model.IndMatch{
			I: model.FeatureIndex(rng.Intn(cfg.FeaturesPerView)),
			J: model.FeatureIndex(rng.Intn(cfg.FeaturesPerView)),
		}

		p := model.Pair{ViewA: va, ViewB: vb, Describer: cfg.Describer}
		g.Matches[p] = append(g.Matches[p], m)
		g.edges = append(g.edges, [2]model.NodeKey{
			{View: va, Keypoint: model.KeypointID{Describer: cfg.Describer, Feature: m.I}},
			{View: vb, Keypoint: model.KeypointID{Describer: cfg.Describer, Feature: m.J}},
		})
	}
	return g
}

// Nodes returns every node touched by the graph.
func (g *MatchGraph) Nodes() []model.NodeKey {
	g.ensureLabels()
	nodes := make([]model.NodeKey, 0, len(g.label))
	for n := range g.label {
		nodes = append(nodes, n)
	}
	return nodes
}

// SameClass answers ground-truth connectivity via naive label propagation.
func (g *MatchGraph) SameClass(a, b model.NodeKey) bool {
	g.ensureLabels()
	la, oka := g.label[a]
	lb, okb := g.label[b]
	return oka && okb && la == lb
}

func (g *MatchGraph) ensureLabels() {
	if g.label != nil {
		return
	}
	g.label = make(map[model.NodeKey]int)
	next := 0
	for _, e := range g.edges {
		for _, n := range e {
			if _, ok := g.label[n]; !ok {
				g.label[n] = next
				next++
			}
		}
	}
	// Relabel until fixpoint. Quadratic, but the graphs are test-sized.
	for changed := true; changed; {
		changed = false
		for _, e := range g.edges {
			la, lb := g.label[e[0]], g.label[e[1]]
			if la == lb {
				continue
			}
			if lb < la {
				la, lb = lb, la
			}
			for n, l := range g.label {
				if l == lb {
					g.label[n] = la
				}
			}
			changed = true
		}
	}
}

// ShuffleMatches returns a copy of matches with permuted intra-pair match
// order and roughly half of the pairs stated in reversed view order. The
// described correspondence graph is unchanged.
func ShuffleMatches(rng *RNG, matches model.PairwiseMatches) model.PairwiseMatches {
	out := make(model.PairwiseMatches, len(matches))
	for p, ms := range matches {
		shuffled := make([]model.IndMatch, len(ms))
		copy(shuffled, ms)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		if rng.Intn(2) == 0 {
			// State the pair the other way round and swap match endpoints.
			rp := model.Pair{ViewA: p.ViewB, ViewB: p.ViewA, Describer: p.Describer}
			for i, m := range shuffled {
				shuffled[i] = model.IndMatch{I: m.J, J: m.I}
			}
			out[rp] = append(out[rp], shuffled...)
			continue
		}
		out[p] = append(out[p], shuffled...)
	}
	return out
}
