package unionfind

// Handle is the dense index of a node inside a Forest. Handles are
// allocated contiguously from 0 by MakeSet.
type Handle = uint32

// Forest is a disjoint-set forest over dense node handles with path
// compression on Find and union by rank on Union.
//
// The caller owns the mapping between its node identities and handles;
// the forest only sees the dense side. Amortized cost per operation is
// inverse-Ackermann.
//
// Not safe for concurrent mutation. Concurrent Find calls are also unsafe
// (path compression writes); freeze the forest and use Root for read-only
// phases.
type Forest struct {
	parent []uint32
	rank   []uint8
}

// New creates a forest with capacity preallocated for n nodes.
func New(n int) *Forest {
	return &Forest{
		parent: make([]uint32, 0, n),
		rank:   make([]uint8, 0, n),
	}
}

// Len returns the number of nodes in the forest.
func (f *Forest) Len() int {
	return len(f.parent)
}

// MakeSet allocates a new singleton set and returns its handle.
func (f *Forest) MakeSet() Handle {
	h := uint32(len(f.parent))
	f.parent = append(f.parent, h)
	f.rank = append(f.rank, 0)
	return h
}

// Find returns the representative of the set containing h, compressing
// the path along the way.
func (f *Forest) Find(h Handle) Handle {
	root := h
	for f.parent[root] != root {
		root = f.parent[root]
	}
	for f.parent[h] != root {
		h, f.parent[h] = f.parent[h], root
	}
	return root
}

// Root returns the representative of the set containing h without
// mutating the forest. Safe for concurrent use on a frozen forest.
func (f *Forest) Root(h Handle) Handle {
	for f.parent[h] != h {
		h = f.parent[h]
	}
	return h
}

// Union merges the sets containing a and b. Returns false if they were
// already in the same set.
func (f *Forest) Union(a, b Handle) bool {
	ra, rb := f.Find(a), f.Find(b)
	if ra == rb {
		return false
	}
	switch {
	case f.rank[ra] < f.rank[rb]:
		f.parent[ra] = rb
	case f.rank[ra] > f.rank[rb]:
		f.parent[rb] = ra
	default:
		f.parent[rb] = ra
		f.rank[ra]++
	}
	return true
}

// Classes enumerates the current equivalence classes without mutating the
// forest. The result maps each representative to the handles of its
// members; member order follows handle order.
func (f *Forest) Classes() map[Handle][]Handle {
	classes := make(map[Handle][]Handle)
	for h := uint32(0); h < uint32(len(f.parent)); h++ {
		root := f.Root(h)
		classes[root] = append(classes[root], h)
	}
	return classes
}

// NumClasses returns the number of disjoint sets in the forest.
func (f *Forest) NumClasses() int {
	n := 0
	for h := uint32(0); h < uint32(len(f.parent)); h++ {
		if f.parent[h] == h {
			n++
		}
	}
	return n
}
