// Package storage provides bucket stores for the ORAM tree: fixed-length
// opaque byte buffers addressed by tree node index. A store never sees
// plaintext or block identities; the node index is the only information a
// client reveals, and that is observable by design.
package storage

import "errors"

var (
	ErrOutOfRange = errors.New("storage: bucket index out of range")
	ErrBadLength  = errors.New("storage: bucket buffer has wrong length")
	ErrNotFound   = errors.New("storage: bucket not found")
)

// BucketStore is an untrusted array of fixed-size encrypted buckets.
// Implementations may keep the buckets in memory, on disk, or remote.
type BucketStore interface {
	// ReadBucket returns the buffer stored at the given node index.
	ReadBucket(node int) ([]byte, error)

	// WriteBucket replaces the buffer at the given node index. The buffer
	// must be exactly BucketBytes long; partial buckets are rejected.
	WriteBucket(node int, buf []byte) error

	// NumBuckets returns the number of addressable buckets.
	NumBuckets() int

	// BucketBytes returns the fixed buffer length.
	BucketBytes() int

	// Close releases underlying resources.
	Close() error
}
