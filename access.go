package oram

import (
	"fmt"
	"sort"
)

// access runs one full oblivious operation: resolve, fetch, serve, evict,
// writeback. The caller holds o.mu and has validated the arguments.
func (o *ORAM) access(op Op, blockID int, newData []byte) ([]byte, error) {
	// Resolve: find the path the block currently lives on. Unseen blocks
	// get a random path, which keeps the fetch shape identical.
	leaf, ok := o.posMap.Get(blockID)
	if !ok {
		leaf = o.randomLeaf()
	}

	// Fetch: pull every bucket on the path and merge the real blocks into
	// the stash. The target block, if it exists anywhere, is now local.
	o.pathBuf = pathNodes(o.pathBuf[:0], leaf, o.height)
	path := o.pathBuf
	for _, node := range path {
		buf, err := o.store.ReadBucket(node)
		if err != nil {
			return nil, err
		}
		blocks, err := o.codec.decodeBucket(buf, o.cfg.BucketSize)
		if err != nil {
			return nil, err
		}
		if err := o.stash.merge(blocks); err != nil {
			return nil, err
		}
	}

	// Serve: take the block out of the stash, capture its pre-update
	// value, apply the operation, and reassign a fresh random leaf.
	prev := make([]byte, o.cfg.BlockSize)
	b, found := o.stash.take(blockID)
	if found {
		copy(prev, b.data)
	} else {
		b = block{id: blockID, data: make([]byte, o.cfg.BlockSize)}
	}
	if op == OpWrite {
		copy(b.data, newData)
	}
	if op == OpRemove {
		o.posMap.Delete(blockID)
	} else {
		b.leaf = o.randomLeaf()
		o.posMap.Set(blockID, b.leaf)
		o.stash.put(b)
	}

	// Evict and write the path back.
	if err := o.evict(path, leaf); err != nil {
		return nil, err
	}
	return prev, nil
}

// evict writes stash blocks back onto the just-fetched path and rewrites
// every bucket on it, leaf to root. Within each bucket, eligible entries are
// taken deepest-eligible first (ties broken by stash insertion order), so a
// block that can only sit deep on this particular path claims a slot before
// blocks that any future path can carry. Deterministic given the stash and
// position map state.
func (o *ORAM) evict(path []int, pathLeaf int) error {
	type candidate struct {
		pos   int // stash position, preserves insertion order on ties
		level int // deepest path level this block is eligible for
	}
	cands := make([]candidate, len(o.stash.blocks))
	for i, b := range o.stash.blocks {
		cands[i] = candidate{pos: i, level: ancestorLevel(pathLeaf, b.leaf, o.height)}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].level > cands[j].level })

	// Assign slots level by level from the leaf upward. Candidates are
	// sorted by eligibility depth, so at each level the eligible set is a
	// prefix of the sorted slice.
	placed := make(map[int]bool)
	perLevel := make([][]block, o.height+1)
	upper := 0
	for level := o.height; level >= 0; level-- {
		for upper < len(cands) && cands[upper].level >= level {
			upper++
		}
		bucket := make([]block, 0, o.cfg.BucketSize)
		for i := 0; i < upper && len(bucket) < o.cfg.BucketSize; i++ {
			if placed[cands[i].pos] {
				continue
			}
			bucket = append(bucket, o.stash.blocks[cands[i].pos])
			placed[cands[i].pos] = true
		}
		perLevel[level] = bucket
	}
	o.stash.dropPositions(placed)

	// Writeback: every path bucket is re-encoded and rewritten whether or
	// not its contents changed, always L+1 writes of fresh ciphertext.
	for level := o.height; level >= 0; level-- {
		buf, err := o.codec.encodeBucket(perLevel[level], o.cfg.BucketSize)
		if err != nil {
			return err
		}
		if err := o.store.WriteBucket(path[level], buf); err != nil {
			return err
		}
	}

	if o.stash.size() > o.cfg.StashLimit {
		return fmt.Errorf("%w: %d blocks held, limit %d",
			ErrStashOverflow, o.stash.size(), o.cfg.StashLimit)
	}
	return nil
}
