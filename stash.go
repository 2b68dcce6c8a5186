package oram

import "fmt"

// block is one logical data block held client-side in plaintext.
type block struct {
	id   int    // block ID (EmptyBlockID = dummy)
	leaf int    // currently assigned leaf
	data []byte // plaintext payload, exactly BlockSize bytes
}

// stash holds blocks that are off the tree between accesses. Entries keep
// insertion order so that eviction is deterministic given state.
type stash struct {
	blocks []block
	index  map[int]int // block ID -> position in blocks
}

func newStash() *stash {
	return &stash{index: make(map[int]int)}
}

func (s *stash) size() int {
	return len(s.blocks)
}

// merge inserts the real blocks decoded from one path fetch. A block ID that
// is already present means the same block exists in two places at once,
// which breaks the single-residence invariant.
func (s *stash) merge(blocks []block) error {
	for _, b := range blocks {
		if _, dup := s.index[b.id]; dup {
			return fmt.Errorf("%w: block %d fetched while already in stash", ErrProtocol, b.id)
		}
		s.index[b.id] = len(s.blocks)
		s.blocks = append(s.blocks, b)
	}
	return nil
}

// put inserts or replaces the block with b's ID.
func (s *stash) put(b block) {
	if i, ok := s.index[b.id]; ok {
		s.blocks[i] = b
		return
	}
	s.index[b.id] = len(s.blocks)
	s.blocks = append(s.blocks, b)
}

// take removes and returns the block with the given ID, if present.
func (s *stash) take(blockID int) (block, bool) {
	i, ok := s.index[blockID]
	if !ok {
		return block{}, false
	}
	b := s.blocks[i]
	delete(s.index, blockID)
	copy(s.blocks[i:], s.blocks[i+1:])
	s.blocks = s.blocks[:len(s.blocks)-1]
	for j := i; j < len(s.blocks); j++ {
		s.index[s.blocks[j].id] = j
	}
	return b, true
}

// dropPositions removes the blocks at the given positions, keeping the
// remaining entries in order. Used by eviction after slots are assigned.
func (s *stash) dropPositions(placed map[int]bool) {
	kept := s.blocks[:0]
	for i, b := range s.blocks {
		if placed[i] {
			delete(s.index, b.id)
			continue
		}
		s.index[b.id] = len(kept)
		kept = append(kept, b)
	}
	s.blocks = kept
}
