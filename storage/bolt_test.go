package storage

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoltStore_ReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.bolt")
	s, err := OpenBolt(path, 15, 64)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 15, s.NumBuckets())
	assert.Equal(t, 64, s.BucketBytes())

	buf := bytes.Repeat([]byte{0x77}, 64)
	require.NoError(t, s.WriteBucket(4, buf))

	got, err := s.ReadBucket(4)
	require.NoError(t, err)
	assert.Equal(t, buf, got)
}

func TestBoltStore_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.bolt")
	s, err := OpenBolt(path, 15, 64)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ReadBucket(0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoltStore_Bounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.bolt")
	s, err := OpenBolt(path, 7, 32)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ReadBucket(7)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.ErrorIs(t, s.WriteBucket(-1, make([]byte, 32)), ErrOutOfRange)
	assert.ErrorIs(t, s.WriteBucket(0, make([]byte, 33)), ErrBadLength)
}

func TestBoltStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.bolt")
	buf := bytes.Repeat([]byte{0x2E}, 32)

	s, err := OpenBolt(path, 7, 32)
	require.NoError(t, err)
	require.NoError(t, s.WriteBucket(5, buf))
	require.NoError(t, s.Close())

	s, err = OpenBolt(path, 7, 32)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.ReadBucket(5)
	require.NoError(t, err)
	assert.Equal(t, buf, got)
}
