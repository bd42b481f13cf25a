package trackgo

import (
	"github.com/hupe1980/trackgo/model"
)

// ComputeTracksPerView builds the inverted index from views to the sorted
// ids of the tracks visible in them.
//
// Downstream algorithms rely on each per-view list being sorted ascending
// and duplicate-free; the roaring accumulator guarantees both.
func ComputeTracksPerView(tracks model.TracksMap) model.TracksPerView {
	sets := make(map[model.ViewID]*model.TrackSet)
	for id, track := range tracks {
		for v := range track.FeatPerView {
			set, ok := sets[v]
			if !ok {
				set = model.NewTrackSet()
				sets[v] = set
			}
			set.Add(id)
		}
	}

	perView := make(model.TracksPerView, len(sets))
	for v, set := range sets {
		perView[v] = set.ToSlice()
	}
	return perView
}
