package trackgo

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/trackgo/internal/pool"
	"github.com/hupe1980/trackgo/internal/unionfind"
	"github.com/hupe1980/trackgo/model"
)

// TracksBuilder fuses pairwise feature matches into tracks.
//
// It implements the transitive closure of the "is the same 3D point"
// relation over feature observations: every match unions its two endpoint
// observations, and each resulting equivalence class is one candidate
// track.
//
// Usage:
//
//	tb := trackgo.NewTracksBuilder()
//	if err := tb.Build(matches); err != nil { ... }
//	stats, _ := tb.Filter()
//	tracks, _ := tb.ExportTracks()
//
// The builder is a batch component: Build, Filter and ExportTracks run
// sequentially on one driver goroutine. The union-find forest is owned
// exclusively by the builder and is never exposed.
type TracksBuilder struct {
	opts options

	forest *unionfind.Forest
	nodes  []model.NodeKey                      // handle -> key
	index  map[model.NodeKey]unionfind.Handle   // key -> handle
	pairs  int

	removed map[unionfind.Handle]struct{} // rejected class representatives

	built bool
}

// NewTracksBuilder creates a TracksBuilder.
func NewTracksBuilder(optFns ...Option) *TracksBuilder {
	opts := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &TracksBuilder{
		opts:    opts,
		forest:  unionfind.New(0),
		index:   make(map[model.NodeKey]unionfind.Handle),
		removed: make(map[unionfind.Handle]struct{}),
	}
}

// Build ingests all pairwise correspondences and fuses matched
// observations into equivalence classes.
//
// Malformed input (a self pair, an uninitialized describer, or - when
// feature counts were declared - an out-of-range feature index) aborts the
// build without partial results.
func (tb *TracksBuilder) Build(matches model.PairwiseMatches) error {
	start := time.Now()
	err := tb.build(matches)
	tb.opts.metricsCollector.RecordBuild(len(matches), len(tb.nodes), time.Since(start), err)
	if err != nil {
		return err
	}

	tb.opts.logger.Info("tracks built",
		"pairs", tb.pairs,
		"nodes", len(tb.nodes),
		"classes", tb.forest.NumClasses(),
		"duration", time.Since(start),
	)
	return nil
}

func (tb *TracksBuilder) build(matches model.PairwiseMatches) error {
	if len(matches) == 0 {
		return ErrEmptyMatches
	}

	// Validate before mutating anything. Pairs are checked in sorted order
	// so that the reported error is stable for a given input.
	pairs := make([]model.Pair, 0, len(matches))
	for p := range matches {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		if a.ViewA != b.ViewA {
			return a.ViewA < b.ViewA
		}
		if a.ViewB != b.ViewB {
			return a.ViewB < b.ViewB
		}
		return a.Describer < b.Describer
	})

	for _, p := range pairs {
		if p.ViewA == p.ViewB {
			return &ErrSelfPair{View: p.ViewA}
		}
		if !p.Describer.Valid() {
			return &ErrUninitializedDescriber{Pair: p}
		}
		if tb.opts.featureCounts != nil {
			for _, m := range matches[p] {
				if err := tb.checkFeatureRange(p.ViewA, m.I); err != nil {
					return err
				}
				if err := tb.checkFeatureRange(p.ViewB, m.J); err != nil {
					return err
				}
			}
		}
	}

	// Fusion. Union order does not matter; export normalizes ids from class
	// content, never from representatives.
	for _, p := range pairs {
		for _, m := range matches[p] {
			a := tb.insert(model.NodeKey{View: p.ViewA, Keypoint: model.KeypointID{Describer: p.Describer, Feature: m.I}})
			b := tb.insert(model.NodeKey{View: p.ViewB, Keypoint: model.KeypointID{Describer: p.Describer, Feature: m.J}})
			tb.forest.Union(a, b)
		}
		tb.pairs++
	}

	tb.built = true
	return nil
}

func (tb *TracksBuilder) checkFeatureRange(v model.ViewID, f model.FeatureIndex) error {
	count, ok := tb.opts.featureCounts[v]
	if !ok {
		return nil
	}
	if uint32(f) >= count {
		return &ErrFeatureIndexOutOfRange{View: v, Feature: f, Count: count}
	}
	return nil
}

// insert returns the handle of key, allocating a forest node on first sight.
func (tb *TracksBuilder) insert(key model.NodeKey) unionfind.Handle {
	if h, ok := tb.index[key]; ok {
		return h
	}
	h := tb.forest.MakeSet()
	tb.index[key] = h
	tb.nodes = append(tb.nodes, key)
	return h
}

// FilterStats reports what the filter phase removed and why.
type FilterStats struct {
	Kept                int
	RemovedTooShort     int
	RemovedViewConflict int
}

// Filter removes classes that are shorter than the minimum track length or
// that contain two distinct features of one view ("view conflict").
// Removal drops the entire class; no splitting is attempted.
//
// Classes are independent, so the scan may be partitioned across workers.
// Parallelism has no behavioral effect.
func (tb *TracksBuilder) Filter(optFns ...FilterOption) (FilterStats, error) {
	if !tb.built {
		return FilterStats{}, ErrNotBuilt
	}

	fo := FilterOptions{
		MinTrackLength: 2,
		Parallel:       true,
	}
	for _, fn := range optFns {
		fn(&fo)
	}
	if fo.MinTrackLength < 1 {
		fo.MinTrackLength = 1
	}

	start := time.Now()

	classes := tb.survivingClasses()
	roots := make([]unionfind.Handle, 0, len(classes))
	for root := range classes {
		roots = append(roots, root)
	}

	verdicts := make([]uint8, len(roots)) // 0 keep, 1 too short, 2 conflict
	scan := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			verdicts[i] = tb.classVerdict(classes[roots[i]], fo.MinTrackLength)
		}
	}

	if fo.Parallel && len(roots) > 1 {
		tb.scanParallel(len(roots), fo.Workers, scan)
	} else {
		scan(0, len(roots))
	}

	var stats FilterStats
	for i, v := range verdicts {
		switch v {
		case 1:
			stats.RemovedTooShort++
			tb.removed[roots[i]] = struct{}{}
		case 2:
			stats.RemovedViewConflict++
			tb.removed[roots[i]] = struct{}{}
		default:
			stats.Kept++
		}
	}

	tb.opts.metricsCollector.RecordFilter(stats.Kept, stats.RemovedTooShort, stats.RemovedViewConflict, time.Since(start))
	tb.opts.logger.Info("tracks filtered",
		"kept", stats.Kept,
		"removed_too_short", stats.RemovedTooShort,
		"removed_view_conflict", stats.RemovedViewConflict,
		"min_length", fo.MinTrackLength,
		"duration", time.Since(start),
	)
	return stats, nil
}

// classVerdict tests one class. Must tolerate classes of size one.
func (tb *TracksBuilder) classVerdict(members []unionfind.Handle, minLength int) uint8 {
	if len(members) < minLength {
		return 1
	}
	seen := make(map[model.ViewID]struct{}, len(members))
	for _, h := range members {
		v := tb.nodes[h].View
		if _, dup := seen[v]; dup {
			return 2
		}
		seen[v] = struct{}{}
	}
	return 0
}

// scanParallel partitions [0,n) into chunks and runs scan over a fixed
// worker pool. The forest is read-only during this phase.
func (tb *TracksBuilder) scanParallel(n, workers int, scan func(lo, hi int)) {
	wp := pool.New(workers)
	defer wp.Close()

	chunk := n / (wp.Size() * 4)
	if chunk < 64 {
		chunk = 64
	}

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		lo, hi := lo, hi
		wg.Add(1)
		if err := wp.Submit(context.Background(), func() {
			defer wg.Done()
			scan(lo, hi)
		}); err != nil {
			// Pool is private and open for the duration of the call.
			wg.Done()
			scan(lo, hi)
		}
	}
	wg.Wait()
}

// survivingClasses enumerates the classes that have not been rejected.
func (tb *TracksBuilder) survivingClasses() map[unionfind.Handle][]unionfind.Handle {
	classes := tb.forest.Classes()
	for root := range tb.removed {
		delete(classes, root)
	}
	return classes
}

// NbTracks returns the number of surviving classes.
func (tb *TracksBuilder) NbTracks() int {
	if !tb.built {
		return 0
	}
	return len(tb.survivingClasses())
}

// ExportTracks materializes the surviving classes as a TracksMap.
//
// TrackID assignment is deterministic under a fixed input: classes are
// ordered by their minimum NodeKey member and numbered contiguously from
// zero. Representatives never leak into the result.
func (tb *TracksBuilder) ExportTracks() (model.TracksMap, error) {
	if !tb.built {
		return nil, ErrNotBuilt
	}

	start := time.Now()
	classes := tb.survivingClasses()

	type classExport struct {
		min   model.NodeKey
		track model.Track
	}

	exports := make([]classExport, 0, len(classes))
	for _, members := range classes {
		ce := classExport{
			min: tb.nodes[members[0]],
			track: model.Track{
				Describer:   tb.nodes[members[0]].Keypoint.Describer,
				FeatPerView: make(map[model.ViewID]model.FeatureIndex, len(members)),
			},
		}
		for _, h := range members {
			key := tb.nodes[h]
			if key.Less(ce.min) {
				ce.min = key
			}
			// Unfiltered classes may still carry view conflicts; keep the
			// smallest feature index so the result stays order-independent.
			if prev, ok := ce.track.FeatPerView[key.View]; !ok || key.Keypoint.Feature < prev {
				ce.track.FeatPerView[key.View] = key.Keypoint.Feature
			}
		}
		exports = append(exports, ce)
	}

	sort.Slice(exports, func(i, j int) bool {
		return exports[i].min.Less(exports[j].min)
	})

	tracks := make(model.TracksMap, len(exports))
	for i, ce := range exports {
		tracks[model.TrackID(i)] = ce.track
	}

	tb.opts.metricsCollector.RecordExport(len(tracks), time.Since(start))
	if tb.opts.logger.Enabled(context.Background(), slog.LevelDebug) {
		hist := TracksLengthHistogram(tracks)
		total := 0
		for length, count := range hist {
			total += length * count
		}
		mean := 0.0
		if len(tracks) > 0 {
			mean = float64(total) / float64(len(tracks))
		}
		tb.opts.logger.Debug("tracks exported",
			"tracks", len(tracks),
			"observations", total,
			"mean_length", mean,
		)
	}
	return tracks, nil
}
