package store

import (
	"bytes"
	"sort"

	"github.com/google/btree"
)

// mergeIterators combines the uncommitted btree overlay with a backing
// store iterator into a single iterator. Set items shadow the parent
// value under the same key, deleted items hide it.
//
// The merge is materialized up front. Cache overlays are short lived
// and small (one operation worth of writes), so eager collection is
// cheaper than the bookkeeping of a streaming merge.
func mergeIterators(bt *btree.BTree, parent Iterator, start, end []byte, reverse bool) (Iterator, error) {
	defer parent.Close()

	var merged []Model
	deleted := make(map[string]struct{})
	shadowed := make(map[string]struct{})

	collect := func(item btree.Item) bool {
		switch t := item.(type) {
		case setItem:
			merged = append(merged, Model{Key: t.Key(), Value: t.value})
			shadowed[string(t.Key())] = struct{}{}
		case deletedItem:
			deleted[string(t.Key())] = struct{}{}
		}
		return true
	}
	collectRange(bt, start, end, reverse, collect)

	for parent.Valid() {
		key := append([]byte(nil), parent.Key()...)
		value := append([]byte(nil), parent.Value()...)
		if _, gone := deleted[string(key)]; !gone {
			if _, hidden := shadowed[string(key)]; !hidden {
				merged = append(merged, Model{Key: key, Value: value})
			}
		}
		if err := parent.Next(); err != nil {
			return nil, err
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		cmp := bytes.Compare(merged[i].Key, merged[j].Key)
		if reverse {
			return cmp > 0
		}
		return cmp < 0
	})
	return NewSliceIterator(merged), nil
}

// collectRange walks the overlay btree over the iteration domain.
// Forward iteration covers [start, end), reverse iteration covers
// (end, start]. Nil bounds mean unbounded on that side. Collection
// order is irrelevant as the merge result is sorted afterwards.
func collectRange(bt *btree.BTree, start, end []byte, reverse bool, insert btree.ItemIterator) {
	if reverse {
		bt.Ascend(func(item btree.Item) bool {
			k := item.(keyer).Key()
			if end != nil && bytes.Compare(k, end) <= 0 {
				return true
			}
			if start != nil && bytes.Compare(k, start) > 0 {
				return false
			}
			return insert(item)
		})
		return
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(insert)
	case start == nil:
		bt.AscendLessThan(bkey{end}, insert)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, insert)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, insert)
	}
}
