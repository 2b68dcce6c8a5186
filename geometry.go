package oram

import "math/bits"

// treeHeight returns the number of levels below the root needed to give each
// of capacity blocks its own leaf: the smallest L with 2^L >= capacity. A
// tree of height L has 2^L leaves and 2^(L+1)-1 nodes, one bucket per node.
func treeHeight(capacity int) int {
	if capacity <= 1 {
		return 0
	}
	return bits.Len(uint(capacity - 1))
}

// pathNodes appends to dst the node indices from the root down to the given
// leaf, length height+1. Nodes use heap layout: root is 0, the children of
// node i are 2i+1 and 2i+2, leaves occupy [numLeaves-1, 2*numLeaves-1).
func pathNodes(dst []int, leaf, height int) []int {
	node := (1 << height) - 1 + leaf
	start := len(dst)
	for i := 0; i <= height; i++ {
		dst = append(dst, node)
		node = (node - 1) / 2
	}
	// walked leaf to root; reverse into root-to-leaf order
	for i, j := start, len(dst)-1; i < j; i, j = i+1, j-1 {
		dst[i], dst[j] = dst[j], dst[i]
	}
	return dst
}

// ancestorLevel returns the level of the deepest node shared by the paths to
// leaves a and b: 0 means they meet only at the root, height means a == b.
// A block assigned to leaf b is eligible for the bucket at level l of a's
// path iff l <= ancestorLevel(a, b, height).
func ancestorLevel(a, b, height int) int {
	if a == b {
		return height
	}
	return height - bits.Len(uint(a^b))
}
