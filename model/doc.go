// Package model defines core types used throughout Trackgo.
//
// # Identity Types
//
//   - ViewID: Unique identifier of an image (uint32)
//   - FeatureIndex: Offset into a view's external feature list (uint32)
//   - DescriberType: Detector/descriptor family tag (SIFT, AKAZE, markers)
//   - KeypointID: (DescriberType, FeatureIndex) within one view
//   - NodeKey: (ViewID, KeypointID), the node identity of the fusion forest
//   - TrackID: Identifier of an exported track (uint32)
//
// # Data Types
//
//   - IndMatch: Pairwise feature correspondence between two views
//   - PairwiseMatches: Builder input, matches grouped by view pair
//   - Track: DescriberType plus the per-view feature observations
//   - TracksMap: Exported TrackID to Track mapping
//   - TracksPerView: Inverted index, view to sorted visible track ids
//
// # Set Types
//
// TrackSet and ViewSet wrap 32-bit Roaring Bitmaps. Their ascending
// iteration order is what keeps TrackIDSet results sorted without an
// explicit sort step.
package model
