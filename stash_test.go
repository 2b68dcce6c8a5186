package oram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStash_MergeAndTake(t *testing.T) {
	s := newStash()
	err := s.merge([]block{
		{id: 1, leaf: 0, data: []byte{1}},
		{id: 2, leaf: 1, data: []byte{2}},
		{id: 3, leaf: 2, data: []byte{3}},
	})
	require.NoError(t, err)
	require.Equal(t, 3, s.size())

	b, ok := s.take(2)
	require.True(t, ok)
	assert.Equal(t, 2, b.id)
	assert.Equal(t, 2, s.size())

	_, ok = s.take(2)
	assert.False(t, ok)

	// remaining entries keep their order and stay reachable
	b, ok = s.take(1)
	require.True(t, ok)
	assert.Equal(t, 1, b.id)
	b, ok = s.take(3)
	require.True(t, ok)
	assert.Equal(t, 3, b.id)
	assert.Equal(t, 0, s.size())
}

func TestStash_DuplicateMergeFailsFast(t *testing.T) {
	s := newStash()
	require.NoError(t, s.merge([]block{{id: 5, data: []byte{5}}}))

	// The same block surfacing again means it exists in two places at
	// once; that is a protocol violation, not an update.
	err := s.merge([]block{{id: 5, data: []byte{6}}})
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestStash_PutReplaces(t *testing.T) {
	s := newStash()
	s.put(block{id: 1, leaf: 0, data: []byte{1}})
	s.put(block{id: 1, leaf: 3, data: []byte{9}})
	require.Equal(t, 1, s.size())

	b, ok := s.take(1)
	require.True(t, ok)
	assert.Equal(t, 3, b.leaf)
	assert.Equal(t, []byte{9}, b.data)
}

func TestStash_DropPositions(t *testing.T) {
	s := newStash()
	for i := 0; i < 5; i++ {
		s.put(block{id: i, data: []byte{byte(i)}})
	}

	s.dropPositions(map[int]bool{0: true, 2: true, 4: true})
	require.Equal(t, 2, s.size())

	// survivors are re-indexed and keep insertion order
	assert.Equal(t, 1, s.blocks[0].id)
	assert.Equal(t, 3, s.blocks[1].id)
	for _, id := range []int{1, 3} {
		_, ok := s.index[id]
		assert.True(t, ok, "id %d lost from index", id)
	}
	for _, id := range []int{0, 2, 4} {
		_, ok := s.index[id]
		assert.False(t, ok, "id %d still indexed after drop", id)
	}
}

func TestStash_InsertionOrderAfterTake(t *testing.T) {
	s := newStash()
	for i := 0; i < 4; i++ {
		s.put(block{id: i, data: []byte{byte(i)}})
	}
	s.take(1)

	want := []int{0, 2, 3}
	require.Equal(t, len(want), s.size())
	for i, id := range want {
		assert.Equal(t, id, s.blocks[i].id)
		assert.Equal(t, i, s.index[id])
	}
}
