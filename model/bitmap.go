package model

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// TrackSet is a set of TrackIDs backed by a 32-bit Roaring Bitmap.
// Iteration order is always ascending, which makes it a natural
// accumulator for the sorted TrackIDSet results of the query layer.
type TrackSet struct {
	rb *roaring.Bitmap
}

// NewTrackSet creates a new empty track set.
func NewTrackSet() *TrackSet {
	return &TrackSet{
		rb: roaring.New(),
	}
}

// Add adds a TrackID to the set.
func (s *TrackSet) Add(id TrackID) {
	s.rb.Add(uint32(id))
}

// Contains checks if a TrackID is in the set.
func (s *TrackSet) Contains(id TrackID) bool {
	return s.rb.Contains(uint32(id))
}

// IsEmpty returns true if the set is empty.
func (s *TrackSet) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Cardinality returns the number of elements in the set.
func (s *TrackSet) Cardinality() uint64 {
	return s.rb.GetCardinality()
}

// Clone returns a deep copy of the set.
func (s *TrackSet) Clone() *TrackSet {
	return &TrackSet{
		rb: s.rb.Clone(),
	}
}

// And computes the intersection with another set.
func (s *TrackSet) And(other *TrackSet) {
	s.rb.And(other.rb)
}

// Or computes the union with another set.
func (s *TrackSet) Or(other *TrackSet) {
	s.rb.Or(other.rb)
}

// Iterator returns an iterator over the set in ascending order.
func (s *TrackSet) Iterator() iter.Seq[TrackID] {
	return func(yield func(TrackID) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(TrackID(it.Next())) {
				return
			}
		}
	}
}

// ToSlice materializes the set as a sorted TrackIDSet.
func (s *TrackSet) ToSlice() TrackIDSet {
	out := make(TrackIDSet, 0, s.rb.GetCardinality())
	it := s.rb.Iterator()
	for it.HasNext() {
		out = append(out, TrackID(it.Next()))
	}
	return out
}

// ViewSet is a set of ViewIDs backed by a 32-bit Roaring Bitmap.
type ViewSet struct {
	rb *roaring.Bitmap
}

// NewViewSet creates a new empty view set.
func NewViewSet(views ...ViewID) *ViewSet {
	s := &ViewSet{
		rb: roaring.New(),
	}
	for _, v := range views {
		s.Add(v)
	}
	return s
}

// Add adds a ViewID to the set.
func (s *ViewSet) Add(v ViewID) {
	s.rb.Add(uint32(v))
}

// Contains checks if a ViewID is in the set.
func (s *ViewSet) Contains(v ViewID) bool {
	return s.rb.Contains(uint32(v))
}

// IsEmpty returns true if the set is empty.
func (s *ViewSet) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Cardinality returns the number of elements in the set.
func (s *ViewSet) Cardinality() uint64 {
	return s.rb.GetCardinality()
}

// Iterator returns an iterator over the set in ascending order.
func (s *ViewSet) Iterator() iter.Seq[ViewID] {
	return func(yield func(ViewID) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(ViewID(it.Next())) {
				return
			}
		}
	}
}

// ToSlice materializes the set as an ascending slice.
func (s *ViewSet) ToSlice() []ViewID {
	out := make([]ViewID, 0, s.rb.GetCardinality())
	it := s.rb.Iterator()
	for it.HasNext() {
		out = append(out, ViewID(it.Next()))
	}
	return out
}
