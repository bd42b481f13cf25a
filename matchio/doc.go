// Package matchio moves pairwise-match documents and track snapshots in
// and out of a blob store.
//
// Match documents are JSON (see codec) and carry one record per view
// pair. LoadAll fans out over many documents concurrently and merges the
// results into one PairwiseMatches, ready for the track builder.
//
// Track snapshots are framed dumps of an exported TracksMap: a fixed
// header naming the codec and compression (none, zstd, lz4) followed by
// the encoded payload. They are self-describing; ReadSnapshot needs no
// out-of-band configuration.
package matchio
