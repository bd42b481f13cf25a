package model

import (
	"fmt"
)

// ViewID is the unique identifier of one image (view) in an SfM scene.
type ViewID uint32

// FeatureIndex is an offset into the feature list of a view.
// The feature lists themselves live outside this library.
type FeatureIndex uint32

// TrackID identifies one exported track. IDs are contiguous from 0 and
// stable within one build: the same input always yields the same mapping.
type TrackID uint32

// DescriberType names the feature detector/descriptor family a keypoint
// belongs to. Features, matches and tracks are always partitioned by
// describer type; no operation crosses types.
type DescriberType uint8

const (
	// DescriberUninitialized is the zero value. No valid feature carries it.
	DescriberUninitialized DescriberType = iota
	// DescriberSIFT is SIFT with quantized descriptors.
	DescriberSIFT
	// DescriberSIFTFloat is SIFT with floating point descriptors.
	DescriberSIFTFloat
	// DescriberAKAZEFloat is AKAZE with floating point descriptors.
	DescriberAKAZEFloat
	// DescriberAKAZEMLDB is AKAZE with binary (M-LDB) descriptors.
	DescriberAKAZEMLDB
	// DescriberCCTag3 is the CCTag marker family with 3 crowns.
	DescriberCCTag3
	// DescriberCCTag4 is the CCTag marker family with 4 crowns.
	DescriberCCTag4
)

var describerNames = map[DescriberType]string{
	DescriberUninitialized: "UNINITIALIZED",
	DescriberSIFT:          "SIFT",
	DescriberSIFTFloat:     "SIFT_FLOAT",
	DescriberAKAZEFloat:    "AKAZE_FLOAT",
	DescriberAKAZEMLDB:     "AKAZE_MLDB",
	DescriberCCTag3:        "CCTAG3",
	DescriberCCTag4:        "CCTAG4",
}

// String returns the stable name of the describer type.
func (d DescriberType) String() string {
	if name, ok := describerNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DescriberType(%d)", uint8(d))
}

// Valid reports whether d is a known, initialized describer type.
func (d DescriberType) Valid() bool {
	_, ok := describerNames[d]
	return ok && d != DescriberUninitialized
}

// ParseDescriberType returns the describer type with the given stable name.
func ParseDescriberType(name string) (DescriberType, error) {
	for d, n := range describerNames {
		if n == name {
			return d, nil
		}
	}
	return DescriberUninitialized, fmt.Errorf("unknown describer type %q", name)
}

// MarshalText implements encoding.TextMarshaler using the stable name.
func (d DescriberType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DescriberType) UnmarshalText(text []byte) error {
	parsed, err := ParseDescriberType(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// KeypointID uniquely identifies a feature detection within one view.
type KeypointID struct {
	Describer DescriberType
	Feature   FeatureIndex
}

// Less orders keypoints primarily by describer type, secondarily by
// feature index.
func (k KeypointID) Less(other KeypointID) bool {
	if k.Describer != other.Describer {
		return k.Describer < other.Describer
	}
	return k.Feature < other.Feature
}

// String returns a string representation of the KeypointID.
func (k KeypointID) String() string {
	return fmt.Sprintf("%s:%d", k.Describer, k.Feature)
}

// NodeKey uniquely identifies one feature detection in one view. It is the
// node identity of the fusion forest.
type NodeKey struct {
	View     ViewID
	Keypoint KeypointID
}

// Less orders node keys lexicographically: view first, keypoint second.
func (n NodeKey) Less(other NodeKey) bool {
	if n.View != other.View {
		return n.View < other.View
	}
	return n.Keypoint.Less(other.Keypoint)
}

// String returns a string representation of the NodeKey.
func (n NodeKey) String() string {
	return fmt.Sprintf("Node(%d, %s)", n.View, n.Keypoint)
}

// IndMatch is a pairwise correspondence between two features of the same
// describer type in two distinct views.
type IndMatch struct {
	I FeatureIndex `json:"i"`
	J FeatureIndex `json:"j"`
}

// Pair identifies an unordered view pair together with the describer type
// of its matches. The builder tolerates either view order.
type Pair struct {
	ViewA     ViewID
	ViewB     ViewID
	Describer DescriberType
}

// String returns a string representation of the Pair.
func (p Pair) String() string {
	return fmt.Sprintf("Pair(%d, %d, %s)", p.ViewA, p.ViewB, p.Describer)
}

// PairwiseMatches maps each view pair to its pairwise correspondences.
// This is the input of the track builder.
type PairwiseMatches map[Pair][]IndMatch

// Track is one equivalence class of feature observations: a describer type
// plus, for each view the world point was seen in, the observed feature
// index. After filtering each view appears at most once.
type Track struct {
	Describer   DescriberType           `json:"describer"`
	FeatPerView map[ViewID]FeatureIndex `json:"featPerView"`
}

// Length returns the number of views observing the track.
func (t Track) Length() int {
	return len(t.FeatPerView)
}

// HasView reports whether the track has an observation in view v.
func (t Track) HasView(v ViewID) bool {
	_, ok := t.FeatPerView[v]
	return ok
}

// Views returns the track's view ids in ascending order.
func (t Track) Views() []ViewID {
	vs := NewViewSet()
	for v := range t.FeatPerView {
		vs.Add(v)
	}
	return vs.ToSlice()
}

// TracksMap is the exported result of a build: TrackID to Track.
type TracksMap map[TrackID]Track

// SortedIDs returns the track ids in ascending order. Use it whenever
// deterministic iteration matters.
func (m TracksMap) SortedIDs() TrackIDSet {
	ts := NewTrackSet()
	for id := range m {
		ts.Add(id)
	}
	return ts.ToSlice()
}

// TrackIDSet is a sorted, duplicate-free sequence of track ids. The order
// is load-bearing: per-view lists are intersected by linear sweeps.
type TrackIDSet []TrackID

// Contains reports whether the set contains id. The receiver must be sorted.
func (s TrackIDSet) Contains(id TrackID) bool {
	lo, hi := 0, len(s)
	for lo < hi {
		mid := (lo + hi) / 2
		if s[mid] < id {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(s) && s[lo] == id
}

// TracksPerView is the inverted index from a view to the sorted ids of the
// tracks visible in that view.
type TracksPerView map[ViewID]TrackIDSet
