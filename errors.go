package trackgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/trackgo/model"
)

var (
	// ErrEmptyMatches is returned when Build is invoked without any pairwise matches.
	ErrEmptyMatches = errors.New("no pairwise matches")

	// ErrNotBuilt is returned when Filter or ExportTracks is invoked before a
	// successful Build.
	ErrNotBuilt = errors.New("tracks not built")
)

// ErrSelfPair indicates a pair whose two views are the same image.
// A view cannot be matched against itself.
type ErrSelfPair struct {
	View model.ViewID
}

func (e *ErrSelfPair) Error() string {
	return fmt.Sprintf("self pair: view %d matched against itself", e.View)
}

// ErrUninitializedDescriber indicates a pair carrying matches with the
// uninitialized describer sentinel.
type ErrUninitializedDescriber struct {
	Pair model.Pair
}

func (e *ErrUninitializedDescriber) Error() string {
	return fmt.Sprintf("uninitialized describer type on %s", e.Pair)
}

// ErrFeatureIndexOutOfRange indicates a match referencing a feature index at
// or beyond the declared feature count of its view. Only reported when the
// caller declared counts via WithDeclaredFeatureCounts.
type ErrFeatureIndexOutOfRange struct {
	View    model.ViewID
	Feature model.FeatureIndex
	Count   uint32
}

func (e *ErrFeatureIndexOutOfRange) Error() string {
	return fmt.Sprintf("feature index %d out of range for view %d (declared count %d)", e.Feature, e.View, e.Count)
}

// ErrNotTwoViewTrack indicates that TracksToIndexedMatches was invoked on a
// track whose length is not exactly two.
type ErrNotTwoViewTrack struct {
	TrackID model.TrackID
	Length  int
}

func (e *ErrNotTwoViewTrack) Error() string {
	return fmt.Sprintf("track %d has %d views, want exactly 2", e.TrackID, e.Length)
}

// ErrUnknownTrack indicates a track id that does not exist in the TracksMap.
type ErrUnknownTrack struct {
	TrackID model.TrackID
}

func (e *ErrUnknownTrack) Error() string {
	return fmt.Sprintf("unknown track %d", e.TrackID)
}
