// Package unionfind implements a dense disjoint-set forest.
//
// The track builder numbers every distinct feature observation with a
// dense handle and merges matched observations here. A flat parent array
// with path compression and union by rank is all the "graph" the fusion
// needs; the union structure is never traversed as a graph.
package unionfind
