package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreBasics(t *testing.T) {
	db := MemStore()

	k, v := []byte("french"), []byte("fry")

	has, err := db.Has(k)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, db.Set(k, v))

	got, err := db.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	require.NoError(t, db.Delete(k))
	got, err = db.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheWrapWriteAndDiscard(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("a"), []byte("1")))

	// discarded writes never reach the parent
	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Delete([]byte("a")))
	cache.Discard()

	got, err := db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)
	got, err = db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Nil(t, got)

	// written changes do
	cache = db.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Delete([]byte("a")))
	require.NoError(t, cache.Write())

	got, err = db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}

func TestCacheWrapReadsThrough(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("key"), []byte("committed")))

	cache := db.CacheWrap()
	got, err := cache.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("committed"), got)

	// the overlay shadows the parent until discarded
	require.NoError(t, cache.Set([]byte("key"), []byte("dirty")))
	got, err = cache.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("dirty"), got)

	cache.Discard()
	got, err = db.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("committed"), got)
}

func TestIteratorMergesOverlay(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("k1"), []byte("a")))
	require.NoError(t, db.Set([]byte("k2"), []byte("b")))
	require.NoError(t, db.Set([]byte("k3"), []byte("c")))

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("k2"), []byte("B"))) // shadow
	require.NoError(t, cache.Delete([]byte("k3")))           // hide
	require.NoError(t, cache.Set([]byte("k4"), []byte("d"))) // add

	it, err := cache.Iterator(nil, nil)
	require.NoError(t, err)
	defer it.Close()

	var keys, values []string
	for it.Valid() {
		keys = append(keys, string(it.Key()))
		values = append(values, string(it.Value()))
		require.NoError(t, it.Next())
	}
	assert.Equal(t, []string{"k1", "k2", "k4"}, keys)
	assert.Equal(t, []string{"a", "B", "d"}, values)
}

func TestIteratorRange(t *testing.T) {
	db := MemStore()
	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, db.Set([]byte(k), []byte(k)))
	}

	it, err := db.Iterator([]byte("b"), []byte("d"))
	require.NoError(t, err)
	defer it.Close()

	var keys []string
	for it.Valid() {
		keys = append(keys, string(it.Key()))
		require.NoError(t, it.Next())
	}
	assert.Equal(t, []string{"b", "c"}, keys)

	rit, err := db.ReverseIterator([]byte("d"), []byte("b"))
	require.NoError(t, err)
	defer rit.Close()

	keys = nil
	for rit.Valid() {
		keys = append(keys, string(rit.Key()))
		require.NoError(t, rit.Next())
	}
	assert.Equal(t, []string{"d", "c"}, keys)
}
