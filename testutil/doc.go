// Package testutil provides testing utilities for Trackgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded thread-safe RNG and generators for random match
// graphs with known ground-truth connectivity.
//
// # Random Match Graphs
//
//	rng := testutil.NewRNG(seed)
//	g := testutil.RandomMatchGraph(rng, testutil.MatchGraphConfig{
//	    Views: 8, FeaturesPerView: 50, Matches: 200,
//	})
//	// g.Matches feeds the builder; g.SameClass answers ground truth.
//
// # Permutation Helpers
//
//	shuffled := testutil.ShuffleMatches(rng, g.Matches)
package testutil
