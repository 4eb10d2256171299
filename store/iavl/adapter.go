/*
Package iavl provides a disk-backed CommitKVStore built on a merkle
tree. Every Commit persists a new version; on restart the latest
persisted version is reloaded, so pool state survives the process.
*/
package iavl

import (
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/EricInMarkham/fundpool/errors"
	"github.com/EricInMarkham/fundpool/store"
)

// cacheSize is the number of inner tree nodes held in memory.
const cacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore creates a new store with disk backing under the given
// directory. The name separates several stores sharing a directory.
func NewCommitStore(dir, name string) (*CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &CommitStore{
		tree: iavl.NewMutableTree(db, cacheSize),
	}, nil
}

// MemCommitStore creates a new store without disk backing, useful to
// test the commit flow.
func MemCommitStore() *CommitStore {
	return &CommitStore{
		tree: iavl.NewMutableTree(dbm.NewMemDB(), cacheSize),
	}
}

// Get returns the value stored under given key in the working tree.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, value := s.tree.Get(key)
	return value, nil
}

// Has checks if a key exists in the working tree.
func (s *CommitStore) Has(key []byte) (bool, error) {
	return s.tree.Has(key), nil
}

// Set updates the working tree. Changes are not persisted until Commit.
func (s *CommitStore) Set(key, value []byte) error {
	s.tree.Set(key, value)
	return nil
}

// Delete removes from the working tree.
func (s *CommitStore) Delete(key []byte) error {
	s.tree.Remove(key)
	return nil
}

// Iterator over a domain of keys in ascending order. End is exclusive.
func (s *CommitStore) Iterator(start, end []byte) (store.Iterator, error) {
	return store.NewSliceIterator(s.collect(start, end)), nil
}

// ReverseIterator over a domain of keys in descending order. The domain
// is (end, start]: start must be greater than end and end is exclusive.
func (s *CommitStore) ReverseIterator(start, end []byte) (store.Iterator, error) {
	// IterateRange bounds are ascending and half open [lo, hi), so the
	// reverse domain is shifted by the smallest possible key suffix.
	var lo, hi []byte
	if end != nil {
		lo = append(append([]byte(nil), end...), 0)
	}
	if start != nil {
		hi = append(append([]byte(nil), start...), 0)
	}
	models := s.collect(lo, hi)
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (s *CommitStore) collect(start, end []byte) []store.Model {
	var models []store.Model
	s.tree.IterateRange(start, end, true, func(key, value []byte) bool {
		models = append(models, store.Model{Key: key, Value: value})
		return false
	})
	return models
}

// NewBatch returns a batch that applies to the working tree on Write.
func (s *CommitStore) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(s)
}

// CacheWrap gives us a savepoint to perform a group of actions that is
// either fully applied to the working tree or fully dropped.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Commit persists the next version to disk, and returns info
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(err, "save version")
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s *CommitStore) LoadLatestVersion() error {
	_, err := s.tree.Load()
	return errors.Wrap(err, "load latest version")
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() store.CommitID {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}
}
