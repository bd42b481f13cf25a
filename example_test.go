package trackgo_test

import (
	"fmt"
	"log"

	"github.com/hupe1980/trackgo"
	"github.com/hupe1980/trackgo/model"
)

// Example_buildAndQuery demonstrates the full build/filter/export/query flow.
func Example_buildAndQuery() {
	matches := model.PairwiseMatches{
		{ViewA: 1, ViewB: 2, Describer: model.DescriberSIFT}: {{I: 10, J: 20}, {I: 11, J: 21}},
		{ViewA: 2, ViewB: 3, Describer: model.DescriberSIFT}: {{I: 20, J: 30}},
	}

	tb := trackgo.NewTracksBuilder()
	if err := tb.Build(matches); err != nil {
		log.Fatal(err)
	}
	stats, err := tb.Filter(trackgo.WithMinTrackLength(2))
	if err != nil {
		log.Fatal(err)
	}
	tracks, err := tb.ExportTracks()
	if err != nil {
		log.Fatal(err)
	}

	perView := trackgo.ComputeTracksPerView(tracks)

	fmt.Println("kept:", stats.Kept)
	fmt.Println("tracks in view 2:", trackgo.TracksInImageFast(2, perView))
	fmt.Println("common to views 1 and 3:", trackgo.CommonTrackIDsInImages([]model.ViewID{1, 3}, perView))
	// Output:
	// kept: 2
	// tracks in view 2: [0 1]
	// common to views 1 and 3: [0]
}

// Example_viewConflict shows why impossible fusions are rejected wholesale.
func Example_viewConflict() {
	// Feature 10 of view 1 matched against two distinct features of view 2:
	// one world point cannot project twice into the same image.
	matches := model.PairwiseMatches{
		{ViewA: 1, ViewB: 2, Describer: model.DescriberSIFT}: {{I: 10, J: 20}, {I: 10, J: 21}},
	}

	tb := trackgo.NewTracksBuilder()
	if err := tb.Build(matches); err != nil {
		log.Fatal(err)
	}
	stats, err := tb.Filter()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("view conflicts:", stats.RemovedViewConflict)
	fmt.Println("surviving tracks:", tb.NbTracks())
	// Output:
	// view conflicts: 1
	// surviving tracks: 0
}
