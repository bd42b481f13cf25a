package trackgo

import (
	"github.com/hupe1980/trackgo/model"
)

// Query helpers over immutable TracksMap/TracksPerView results. All
// functions here are read-only, hold no state, and are safe for
// concurrent use.

// TracksInImage returns the ids of all tracks with an observation in view
// v, sorted ascending. Linear in the number of tracks; prefer
// TracksInImageFast when a per-view index is available.
func TracksInImage(v model.ViewID, tracks model.TracksMap) model.TrackIDSet {
	set := model.NewTrackSet()
	for id, track := range tracks {
		if track.HasView(v) {
			set.Add(id)
		}
	}
	return set.ToSlice()
}

// TracksInImageFast returns the ids of all tracks visible in view v using
// the per-view index. O(|perView[v]|).
func TracksInImageFast(v model.ViewID, perView model.TracksPerView) model.TrackIDSet {
	ids, ok := perView[v]
	if !ok {
		return nil
	}
	out := make(model.TrackIDSet, len(ids))
	copy(out, ids)
	return out
}

// TracksInImages returns the union of tracks touching at least one view
// in views, sorted ascending. The map is scanned once.
func TracksInImages(views []model.ViewID, tracks model.TracksMap) model.TrackIDSet {
	vs := model.NewViewSet(views...)
	set := model.NewTrackSet()
	for id, track := range tracks {
		for v := range track.FeatPerView {
			if vs.Contains(v) {
				set.Add(id)
				break
			}
		}
	}
	return set.ToSlice()
}

// TracksInImagesFast returns the union of tracks touching at least one
// view in views, using the per-view index.
func TracksInImagesFast(views []model.ViewID, perView model.TracksPerView) model.TrackIDSet {
	set := model.NewTrackSet()
	for _, v := range views {
		for _, id := range perView[v] {
			set.Add(id)
		}
	}
	return set.ToSlice()
}

// CommonTrackIDsInImages returns the ids of the tracks visible in every
// view of views, computed by sweep-merging the sorted per-view lists.
// Cost is linear in the total size of the scanned lists.
func CommonTrackIDsInImages(views []model.ViewID, perView model.TracksPerView) model.TrackIDSet {
	if len(views) == 0 {
		return nil
	}

	lists := make([]model.TrackIDSet, 0, len(views))
	seen := model.NewViewSet()
	for _, v := range views {
		if seen.Contains(v) {
			continue
		}
		seen.Add(v)
		ids, ok := perView[v]
		if !ok {
			return nil
		}
		lists = append(lists, ids)
	}

	// Start from the shortest list to bound the candidate set.
	shortest := 0
	for i := 1; i < len(lists); i++ {
		if len(lists[i]) < len(lists[shortest]) {
			shortest = i
		}
	}
	candidates := make(model.TrackIDSet, len(lists[shortest]))
	copy(candidates, lists[shortest])

	for i, list := range lists {
		if i == shortest || len(candidates) == 0 {
			continue
		}
		candidates = intersectSorted(candidates, list)
	}
	return candidates
}

// intersectSorted sweep-merges two ascending id lists.
func intersectSorted(a, b model.TrackIDSet) model.TrackIDSet {
	out := a[:0]
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// CommonTracksInImages returns the subset of tracks observed in every view
// of views. A track qualifies iff its observations cover all of views.
func CommonTracksInImages(views []model.ViewID, tracks model.TracksMap) model.TracksMap {
	if len(views) == 0 {
		return model.TracksMap{}
	}
	out := make(model.TracksMap)
	for id, track := range tracks {
		all := true
		for _, v := range views {
			if !track.HasView(v) {
				all = false
				break
			}
		}
		if all {
			out[id] = track
		}
	}
	return out
}

// CommonTracksInImagesFast composes CommonTrackIDsInImages with a lookup
// into tracks. Prefer it when the per-view index is already built.
func CommonTracksInImagesFast(views []model.ViewID, tracks model.TracksMap, perView model.TracksPerView) model.TracksMap {
	ids := CommonTrackIDsInImages(views, perView)
	out := make(model.TracksMap, len(ids))
	for _, id := range ids {
		if track, ok := tracks[id]; ok {
			out[id] = track
		}
	}
	return out
}

// FeatureIDInViewPerTrack returns, for each requested track that has an
// observation in view v, the observed keypoint (describer type plus
// feature index). Tracks without an entry for v are skipped.
func FeatureIDInViewPerTrack(tracks model.TracksMap, trackIDs model.TrackIDSet, v model.ViewID) []model.KeypointID {
	var out []model.KeypointID
	for _, id := range trackIDs {
		track, ok := tracks[id]
		if !ok {
			continue
		}
		if feat, ok := track.FeatPerView[v]; ok {
			out = append(out, model.KeypointID{Describer: track.Describer, Feature: feat})
		}
	}
	return out
}

// TracksToIndexedMatches converts two-view tracks back into indexed
// matches: for each id in filter, the emitted match pairs the feature in
// the lower view with the feature in the higher view.
//
// Every referenced track must exist and span exactly two views.
func TracksToIndexedMatches(tracks model.TracksMap, filter model.TrackIDSet) ([]model.IndMatch, error) {
	out := make([]model.IndMatch, 0, len(filter))
	for _, id := range filter {
		track, ok := tracks[id]
		if !ok {
			return nil, &ErrUnknownTrack{TrackID: id}
		}
		if track.Length() != 2 {
			return nil, &ErrNotTwoViewTrack{TrackID: id, Length: track.Length()}
		}
		views := track.Views()
		out = append(out, model.IndMatch{
			I: track.FeatPerView[views[0]],
			J: track.FeatPerView[views[1]],
		})
	}
	return out, nil
}

// TracksLengthHistogram returns the occurrence count of each track length.
func TracksLengthHistogram(tracks model.TracksMap) map[int]int {
	hist := make(map[int]int)
	for _, track := range tracks {
		hist[track.Length()]++
	}
	return hist
}

// ImageIDsInTracks returns all view ids observed by any track, ascending.
func ImageIDsInTracks(tracks model.TracksMap) []model.ViewID {
	set := model.NewViewSet()
	for _, track := range tracks {
		for v := range track.FeatPerView {
			set.Add(v)
		}
	}
	return set.ToSlice()
}

// ImageIDsInTracksPerView returns the view ids present in the per-view
// index, ascending.
func ImageIDsInTracksPerView(perView model.TracksPerView) []model.ViewID {
	set := model.NewViewSet()
	for v := range perView {
		set.Add(v)
	}
	return set.ToSlice()
}
