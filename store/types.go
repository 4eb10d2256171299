package store

import (
	"github.com/EricInMarkham/fundpool"
)

// Type aliases were created for the store related types from the root
// package. This is to provide a conceptual split between the root
// interfaces and the store implementations, without an import cycle.
type (
	ReadOnlyKVStore  = fundpool.ReadOnlyKVStore
	KVStore          = fundpool.KVStore
	SetDeleter       = fundpool.SetDeleter
	Batch            = fundpool.Batch
	Iterator         = fundpool.Iterator
	CacheableKVStore = fundpool.CacheableKVStore
	KVCacheWrap      = fundpool.KVCacheWrap
	CommitKVStore    = fundpool.CommitKVStore
	CommitID         = fundpool.CommitID
)

// Model groups together key value pair of a stored entity.
type Model struct {
	Key   []byte
	Value []byte
}
