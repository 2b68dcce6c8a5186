package oram

import (
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etclab/oramstore/storage"
)

func newRecordedORAM(t *testing.T, cfg Config) (*ORAM, *storage.Recorder) {
	t.Helper()
	numBuckets, err := NumBuckets(cfg)
	require.NoError(t, err)
	bucketBytes, err := BucketBytes(cfg)
	require.NoError(t, err)

	rec := storage.NewRecorder(storage.NewMemStore(numBuckets, bucketBytes))
	o, err := New(cfg, rec, testKey(t))
	require.NoError(t, err)
	rec.Reset() // drop the initialization writes
	return o, rec
}

// accessShape captures what the server observes for one access: the op
// kinds and buffer lengths in order, with node indices abstracted away.
type accessShape struct {
	kinds []storage.OpKind
	lens  []int
}

func splitAccesses(t *testing.T, ops []storage.TraceOp, height int) []accessShape {
	t.Helper()
	perAccess := 2 * (height + 1)
	require.Zero(t, len(ops)%perAccess, "trace not a whole number of accesses")

	var shapes []accessShape
	for i := 0; i < len(ops); i += perAccess {
		var s accessShape
		for _, op := range ops[i : i+perAccess] {
			s.kinds = append(s.kinds, op.Kind)
			s.lens = append(s.lens, op.Len)
		}
		shapes = append(shapes, s)
	}
	return shapes
}

// Every access must look the same from the server: L+1 bucket reads, then
// L+1 bucket writes, all of the fixed bucket length, regardless of the
// block, the op, or history.
func TestPattern_FixedShape(t *testing.T) {
	cfg := Config{Capacity: 64, BlockSize: 16, BucketSize: 4}
	o, rec := newRecordedORAM(t, cfg)

	o.Write(0, make([]byte, 16))
	o.Write(63, make([]byte, 16))
	o.Read(0)
	o.Read(17) // never written
	o.Remove(63)
	o.Read(63)

	shapes := splitAccesses(t, rec.Ops(), o.Height())
	require.Len(t, shapes, 6)

	want := shapes[0]
	half := o.Height() + 1
	for i, s := range shapes {
		require.Len(t, s.kinds, 2*half)
		for j, k := range s.kinds {
			if j < half {
				assert.Equal(t, storage.OpRead, k, "access %d op %d", i, j)
			} else {
				assert.Equal(t, storage.OpWrite, k, "access %d op %d", i, j)
			}
		}
		assert.Equal(t, want.lens, s.lens, "access %d buffer lengths", i)
	}

	bucketBytes, err := BucketBytes(cfg)
	require.NoError(t, err)
	for _, l := range want.lens {
		assert.Equal(t, bucketBytes, l)
	}
}

// The nodes touched by one access must form a root-to-leaf path and be
// written back exactly as read.
func TestPattern_PathConsistency(t *testing.T) {
	cfg := Config{Capacity: 32, BlockSize: 16, BucketSize: 4}
	o, rec := newRecordedORAM(t, cfg)

	rng := mrand.New(mrand.NewSource(7))
	for round := 0; round < 50; round++ {
		rec.Reset()
		id := rng.Intn(32)
		if round%2 == 0 {
			_, err := o.Write(id, make([]byte, 16))
			require.NoError(t, err)
		} else {
			_, err := o.Read(id)
			require.NoError(t, err)
		}

		ops := rec.Ops()
		half := o.Height() + 1
		require.Len(t, ops, 2*half)

		// reads walk down from the root, each node a child of the last
		assert.Equal(t, 0, ops[0].Node, "round %d: first read not the root", round)
		for j := 1; j < half; j++ {
			parent := (ops[j].Node - 1) / 2
			assert.Equal(t, ops[j-1].Node, parent, "round %d: read %d breaks the path", round, j)
		}

		// writes cover exactly the read path (leaf-to-root order)
		for j := 0; j < half; j++ {
			assert.Equal(t, ops[half-1-j].Node, ops[half+j].Node,
				"round %d: write %d not the mirrored read node", round, j)
		}
	}
}

// Two equal-length traces over different blocks must be indistinguishable
// in shape.
func TestPattern_TraceIndependence(t *testing.T) {
	cfg := Config{Capacity: 64, BlockSize: 16, BucketSize: 4}

	run := func(ids []int) []accessShape {
		o, rec := newRecordedORAM(t, cfg)
		for _, id := range ids {
			_, err := o.Write(id, make([]byte, 16))
			require.NoError(t, err)
		}
		return splitAccesses(t, rec.Ops(), o.Height())
	}

	hammerOne := run([]int{5, 5, 5, 5, 5, 5})
	spread := run([]int{0, 11, 22, 33, 44, 55})

	require.Equal(t, len(hammerOne), len(spread))
	for i := range hammerOne {
		assert.Equal(t, hammerOne[i].kinds, spread[i].kinds, "access %d kinds", i)
		assert.Equal(t, hammerOne[i].lens, spread[i].lens, "access %d lengths", i)
	}
}
