// Package trackgo provides a feature-track fusion engine for
// Structure-from-Motion pipelines.
//
// Given pairwise feature matches between images, trackgo computes the
// transitive closure of the "is the same 3D point" relation and produces,
// for each equivalence class, a track: the observations of one world point
// across multiple images.
//
// # Quick Start
//
//	tb := trackgo.NewTracksBuilder()
//	if err := tb.Build(matches); err != nil {
//	    return err
//	}
//	stats, _ := tb.Filter(trackgo.WithMinTrackLength(2))
//	tracks, _ := tb.ExportTracks()
//	perView := trackgo.ComputeTracksPerView(tracks)
//
//	// Which tracks are visible in all three views?
//	common := trackgo.CommonTrackIDsInImages([]model.ViewID{1, 2, 3}, perView)
//
// # Phases
//
// The engine is a batch component with three sequential phases:
//
//  1. Build fuses all correspondences with a union-find forest. Classes
//     spanning different describer types never merge; matches are
//     partitioned by type at the input.
//  2. Filter drops classes that are too short or that contain two
//     distinct features from one view (a "view conflict" - logically
//     impossible for one world point). Class scanning parallelizes; the
//     surviving set is identical either way.
//  3. ExportTracks materializes the survivors as an immutable TracksMap.
//     Track ids derive from class content, so a given input always yields
//     the same id assignment regardless of pair ordering.
//
// The query helpers (TracksInImage, CommonTracksInImages, ...) are free
// functions over the exported TracksMap and the ComputeTracksPerView
// inverted index; both results are value-like and safe to share across
// goroutines.
//
// # Beyond the core
//
//   - matchio: load/store pairwise-match documents and track snapshots
//     (zstd/lz4 framing) against a blob store
//   - blobstore: memory, local filesystem, S3 and MinIO backends
//   - resource: concurrency and IO throttling for bulk loading
package trackgo
