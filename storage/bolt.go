package storage

import (
	bolt "go.etcd.io/bbolt"
)

var treeBucket = []byte("tree")

// BoltStore persists buckets in a bbolt database, all records under one
// bbolt bucket keyed by node index. bbolt fsyncs on every committed
// transaction, which gives writebacks the same durability as the leveldb
// store's synchronous writes.
type BoltStore struct {
	db          *bolt.DB
	numBuckets  int
	bucketBytes int
}

// OpenBolt opens (or creates) the database at path for a tree of numBuckets
// buckets of bucketBytes each.
func OpenBolt(path string, numBuckets, bucketBytes int) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(treeBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db, numBuckets: numBuckets, bucketBytes: bucketBytes}, nil
}

// ReadBucket returns the buffer stored for node.
func (s *BoltStore) ReadBucket(node int) ([]byte, error) {
	if node < 0 || node >= s.numBuckets {
		return nil, ErrOutOfRange
	}
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(treeBucket).Get(nodeKey(node))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid inside the transaction
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) != s.bucketBytes {
		return nil, ErrBadLength
	}
	return out, nil
}

// WriteBucket stores buf for node in its own committed transaction.
func (s *BoltStore) WriteBucket(node int, buf []byte) error {
	if node < 0 || node >= s.numBuckets {
		return ErrOutOfRange
	}
	if len(buf) != s.bucketBytes {
		return ErrBadLength
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(treeBucket).Put(nodeKey(node), buf)
	})
}

// NumBuckets returns the number of addressable buckets.
func (s *BoltStore) NumBuckets() int {
	return s.numBuckets
}

// BucketBytes returns the fixed buffer length.
func (s *BoltStore) BucketBytes() int {
	return s.bucketBytes
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
