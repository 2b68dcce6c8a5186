package storage

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelDBStore_ReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	s, err := OpenLevelDB(path, 15, 64)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 15, s.NumBuckets())
	assert.Equal(t, 64, s.BucketBytes())

	buf := bytes.Repeat([]byte{0x5A}, 64)
	require.NoError(t, s.WriteBucket(7, buf))

	got, err := s.ReadBucket(7)
	require.NoError(t, err)
	assert.Equal(t, buf, got)
}

func TestLevelDBStore_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	s, err := OpenLevelDB(path, 15, 64)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ReadBucket(3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLevelDBStore_Bounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	s, err := OpenLevelDB(path, 7, 32)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ReadBucket(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = s.ReadBucket(7)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.ErrorIs(t, s.WriteBucket(0, make([]byte, 31)), ErrBadLength)
}

func TestLevelDBStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	buf := bytes.Repeat([]byte{0xC3}, 32)

	s, err := OpenLevelDB(path, 7, 32)
	require.NoError(t, err)
	require.NoError(t, s.WriteBucket(2, buf))
	require.NoError(t, s.Close())

	s, err = OpenLevelDB(path, 7, 32)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.ReadBucket(2)
	require.NoError(t, err)
	assert.Equal(t, buf, got)
}
