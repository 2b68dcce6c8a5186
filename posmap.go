package oram

// PositionMap tracks block-to-leaf assignments. For recursive ORAM this can
// be backed by a smaller ORAM instance; the engine only needs this interface.
type PositionMap interface {
	// Get returns the leaf currently assigned to blockID.
	// Returns (leaf, true) if assigned, (0, false) if not.
	Get(blockID int) (leaf int, ok bool)

	// Set assigns blockID to leaf.
	Set(blockID, leaf int)

	// Delete removes the assignment for blockID.
	Delete(blockID int)

	// Size returns the number of blocks with assigned positions.
	Size() int

	// Snapshot returns a copy of all assignments, for state persistence.
	Snapshot() map[int]int
}

// InMemoryPositionMap implements PositionMap using a Go map.
type InMemoryPositionMap struct {
	m map[int]int
}

// NewInMemoryPositionMap creates a new empty position map.
func NewInMemoryPositionMap() *InMemoryPositionMap {
	return &InMemoryPositionMap{m: make(map[int]int)}
}

// Get returns the leaf assigned to blockID.
func (p *InMemoryPositionMap) Get(blockID int) (int, bool) {
	leaf, ok := p.m[blockID]
	return leaf, ok
}

// Set assigns blockID to leaf.
func (p *InMemoryPositionMap) Set(blockID, leaf int) {
	p.m[blockID] = leaf
}

// Delete removes the assignment for blockID.
func (p *InMemoryPositionMap) Delete(blockID int) {
	delete(p.m, blockID)
}

// Size returns the number of blocks with assigned positions.
func (p *InMemoryPositionMap) Size() int {
	return len(p.m)
}

// Snapshot returns a copy of all assignments.
func (p *InMemoryPositionMap) Snapshot() map[int]int {
	out := make(map[int]int, len(p.m))
	for id, leaf := range p.m {
		out[id] = leaf
	}
	return out
}
