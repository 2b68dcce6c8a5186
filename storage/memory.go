package storage

// MemStore implements BucketStore using in-memory buffers.
type MemStore struct {
	buckets     [][]byte
	bucketBytes int
}

// NewMemStore creates an in-memory store of numBuckets zeroed buckets of
// bucketBytes each.
func NewMemStore(numBuckets, bucketBytes int) *MemStore {
	buckets := make([][]byte, numBuckets)
	for i := range buckets {
		buckets[i] = make([]byte, bucketBytes)
	}
	return &MemStore{buckets: buckets, bucketBytes: bucketBytes}
}

// ReadBucket returns a copy of the bucket at node.
func (s *MemStore) ReadBucket(node int) ([]byte, error) {
	if node < 0 || node >= len(s.buckets) {
		return nil, ErrOutOfRange
	}
	out := make([]byte, s.bucketBytes)
	copy(out, s.buckets[node])
	return out, nil
}

// WriteBucket replaces the bucket at node.
func (s *MemStore) WriteBucket(node int, buf []byte) error {
	if node < 0 || node >= len(s.buckets) {
		return ErrOutOfRange
	}
	if len(buf) != s.bucketBytes {
		return ErrBadLength
	}
	copy(s.buckets[node], buf)
	return nil
}

// NumBuckets returns the number of buckets.
func (s *MemStore) NumBuckets() int {
	return len(s.buckets)
}

// BucketBytes returns the fixed buffer length.
func (s *MemStore) BucketBytes() int {
	return s.bucketBytes
}

// Close is a no-op for MemStore.
func (s *MemStore) Close() error {
	return nil
}

// Corrupt flips one bit of the stored bucket at node. Test hook for
// exercising tamper detection; a real server tampering looks exactly like
// this.
func (s *MemStore) Corrupt(node, byteOffset int) {
	s.buckets[node][byteOffset] ^= 0x01
}
