// Package oram implements the Path ORAM protocol: oblivious reads and
// writes against an untrusted bucket store. The server observes only which
// tree nodes are touched and fresh ciphertext; the shape of every access is
// identical (one full root-to-leaf path read, then written back), so the
// access pattern reveals nothing about which logical block was requested.
package oram

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/etclab/oramstore/storage"
)

// Op selects the operation performed by Access.
type Op int

const (
	OpRead Op = iota
	OpWrite
	OpRemove
)

// ORAM is one Path ORAM instance: the client-side controller over an
// untrusted bucket store. Methods serialize internally, so an instance is
// safe for concurrent callers, but each access runs to completion before the
// next begins. Distinct instances are fully independent.
type ORAM struct {
	cfg       Config
	height    int
	numLeaves int

	codec    *codec
	stateKey []byte
	store    storage.BucketStore
	posMap   PositionMap
	stash    *stash

	mu      sync.Mutex
	failure error // first fatal error; non-nil poisons the instance
	pathBuf []int
}

// New creates an instance over store, deriving encryption keys from
// masterKey, and overwrites every bucket with fresh dummy ciphertext. Any
// data previously reachable through the store is lost.
func New(cfg Config, store storage.BucketStore, masterKey []byte) (*ORAM, error) {
	o, err := prepare(cfg, store, masterKey)
	if err != nil {
		return nil, err
	}
	if err := o.initBuckets(); err != nil {
		return nil, err
	}
	return o, nil
}

// Open resumes an instance over an already-initialized store, restoring the
// client state previously written by SaveState.
func Open(cfg Config, store storage.BucketStore, masterKey []byte, state io.Reader) (*ORAM, error) {
	o, err := prepare(cfg, store, masterKey)
	if err != nil {
		return nil, err
	}
	if err := o.loadState(state); err != nil {
		return nil, err
	}
	return o, nil
}

// NewInMemory creates an instance backed by an in-memory store and a random
// ephemeral key. Data does not outlive the instance; intended for tests and
// in-process use.
func NewInMemory(cfg Config) (*ORAM, error) {
	cfg, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	numBuckets, err := NumBuckets(cfg)
	if err != nil {
		return nil, err
	}
	bucketBytes, err := BucketBytes(cfg)
	if err != nil {
		return nil, err
	}
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("oram: generate key: %w", err)
	}
	return New(cfg, storage.NewMemStore(numBuckets, bucketBytes), key)
}

func prepare(cfg Config, store storage.BucketStore, masterKey []byte) (*ORAM, error) {
	cfg, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	height := treeHeight(cfg.Capacity)
	numLeaves := 1 << height

	c, err := newCodec(masterKey, cfg.BlockSize)
	if err != nil {
		return nil, err
	}
	stateKey, err := deriveKey(masterKey, stateKeyLabel)
	if err != nil {
		return nil, err
	}

	if store.NumBuckets() < 2*numLeaves-1 {
		return nil, fmt.Errorf("%w: store holds %d buckets, tree needs %d",
			ErrInvalidConfig, store.NumBuckets(), 2*numLeaves-1)
	}
	if store.BucketBytes() != cfg.BucketSize*c.slotLen() {
		return nil, fmt.Errorf("%w: store bucket is %d bytes, codec produces %d",
			ErrInvalidConfig, store.BucketBytes(), cfg.BucketSize*c.slotLen())
	}

	return &ORAM{
		cfg:       cfg,
		height:    height,
		numLeaves: numLeaves,
		codec:     c,
		stateKey:  stateKey,
		store:     store,
		posMap:    NewInMemoryPositionMap(),
		stash:     newStash(),
	}, nil
}

// initBuckets fills the whole tree with encrypted dummies so every bucket
// the server holds is valid, fixed-length ciphertext from the start.
func (o *ORAM) initBuckets() error {
	for node := 0; node < 2*o.numLeaves-1; node++ {
		buf, err := o.codec.encodeBucket(nil, o.cfg.BucketSize)
		if err != nil {
			return err
		}
		if err := o.store.WriteBucket(node, buf); err != nil {
			return err
		}
	}
	return nil
}

// Capacity returns the number of logical blocks this instance can store.
func (o *ORAM) Capacity() int {
	return o.cfg.Capacity
}

// BlockSize returns the configured block payload size.
func (o *ORAM) BlockSize() int {
	return o.cfg.BlockSize
}

// Height returns the height of the binary tree.
func (o *ORAM) Height() int {
	return o.height
}

// NumLeaves returns the number of leaf nodes in the tree.
func (o *ORAM) NumLeaves() int {
	return o.numLeaves
}

// StashSize returns the current number of blocks in the stash.
func (o *ORAM) StashSize() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stash.size()
}

// Size returns the number of allocated blocks.
func (o *ORAM) Size() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.posMap.Size()
}

// Err returns the fatal error that poisoned the instance, or nil.
func (o *ORAM) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.failure
}

// Read returns the current contents of blockID (zeros if never written).
func (o *ORAM) Read(blockID int) ([]byte, error) {
	return o.Access(OpRead, blockID, nil)
}

// Write stores data in blockID and returns the previous contents.
func (o *ORAM) Write(blockID int, data []byte) ([]byte, error) {
	return o.Access(OpWrite, blockID, data)
}

// Remove drops blockID from the store and returns its last contents.
// A later Read of the same ID sees zeros again.
func (o *ORAM) Remove(blockID int) ([]byte, error) {
	return o.Access(OpRemove, blockID, nil)
}

// Access performs one oblivious operation. For OpWrite, data must be exactly
// BlockSize bytes and the previous contents are returned; data is ignored
// for OpRead and OpRemove. Regardless of op, the server observes the same
// fixed-shape path read and writeback.
//
// Errors from inside the access (authentication failure, stash overflow,
// storage I/O) are fatal: the instance refuses further operations with
// ErrInstanceFailed, since a half-completed writeback cannot be trusted.
func (o *ORAM) Access(op Op, blockID int, data []byte) ([]byte, error) {
	if blockID < 0 || blockID >= o.cfg.Capacity {
		return nil, ErrInvalidBlockID
	}
	switch op {
	case OpWrite:
		if len(data) != o.cfg.BlockSize {
			return nil, ErrInvalidDataSize
		}
	case OpRead, OpRemove:
	default:
		return nil, fmt.Errorf("%w: unknown op %d", ErrProtocol, op)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failure != nil {
		return nil, fmt.Errorf("%w: %v", ErrInstanceFailed, o.failure)
	}
	prev, err := o.access(op, blockID, data)
	if err != nil {
		o.failure = err
		return nil, err
	}
	return prev, nil
}

// randomLeaf returns a cryptographically random leaf index.
func (o *ORAM) randomLeaf() int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(o.numLeaves)))
	if err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return int(n.Int64())
}
