package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDBStore persists buckets in a leveldb database, one record per tree
// node. Writes are synchronous so an acknowledged writeback survives a
// process crash; a lost writeback would silently desynchronize the tree
// from the client's position map.
type LevelDBStore struct {
	db          *leveldb.DB
	numBuckets  int
	bucketBytes int
}

// OpenLevelDB opens (or creates) the database at path for a tree of
// numBuckets buckets of bucketBytes each.
func OpenLevelDB(path string, numBuckets, bucketBytes int) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDBStore{db: db, numBuckets: numBuckets, bucketBytes: bucketBytes}, nil
}

func nodeKey(node int) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], uint64(node))
	return k[:]
}

// ReadBucket returns the buffer stored for node.
func (s *LevelDBStore) ReadBucket(node int) ([]byte, error) {
	if node < 0 || node >= s.numBuckets {
		return nil, ErrOutOfRange
	}
	buf, err := s.db.Get(nodeKey(node), nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(buf) != s.bucketBytes {
		return nil, ErrBadLength
	}
	return buf, nil
}

// WriteBucket stores buf for node with a synchronous write.
func (s *LevelDBStore) WriteBucket(node int, buf []byte) error {
	if node < 0 || node >= s.numBuckets {
		return ErrOutOfRange
	}
	if len(buf) != s.bucketBytes {
		return ErrBadLength
	}
	return s.db.Put(nodeKey(node), buf, &opt.WriteOptions{Sync: true})
}

// NumBuckets returns the number of addressable buckets.
func (s *LevelDBStore) NumBuckets() int {
	return s.numBuckets
}

// BucketBytes returns the fixed buffer length.
func (s *LevelDBStore) BucketBytes() int {
	return s.bucketBytes
}

// Close closes the underlying database.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
