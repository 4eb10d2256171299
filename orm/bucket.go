package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/EricInMarkham/fundpool"
	"github.com/EricInMarkham/fundpool/errors"
)

const (
	// SeqID is a constant to use to get a default ID sequence
	SeqID = "id"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a generic holder that stores data as well
// as references to sequences.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
// Bucket is a prefixed subspace of the DB
// proto defines the default Model, all elements of this type
type Bucket struct {
	name   string
	prefix []byte
	proto  Model
}

// NewBucket creates a bucket to store data
func NewBucket(name string, proto Model) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get one element from the bucket, returns nil Object if not present.
func (b Bucket) Get(db fundpool.ReadOnlyKVStore, key []byte) (Object, error) {
	dbkey := b.DBKey(key)
	bz, err := db.Get(dbkey)
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Parse takes a key and value data (weird parallel to json.Unmarshal)
// and combines them into an Object. The value is unmarshaled into a
// fresh instance of the bucket's prototype model.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	model := b.cloneProto()
	if err := model.Unmarshal(value); err != nil {
		return nil, errors.Wrapf(err, "parsing %s bucket value", b.name)
	}
	return NewSimpleObj(key, model), nil
}

// cloneProto returns a zero value instance of the prototype model type.
func (b Bucket) cloneProto() Model {
	return reflect.New(reflect.TypeOf(b.proto).Elem()).Interface().(Model)
}

// Save will write the object to the bucket, but only if it is valid.
func (b Bucket) Save(db fundpool.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return errors.Wrapf(err, "saving to %s bucket", b.name)
	}

	bz, err := obj.Value().Marshal()
	if err != nil {
		return err
	}
	// Get treats a nil value as absence and some backends reject nil
	// outright, so a model that serializes to nothing cannot be stored.
	if len(bz) == 0 {
		return errors.Wrapf(errors.ErrModel,
			"%s bucket value serialized to empty bytes", b.name)
	}
	return db.Set(b.DBKey(obj.Key()), bz)
}

// Delete removes an object from the bucket. Deleting a non-existent
// entry is not an error.
func (b Bucket) Delete(db fundpool.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}

// Has returns true if an object is stored under given key.
func (b Bucket) Has(db fundpool.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Sequence returns a Sequence by name, scoped to this bucket.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// Iterator walks all objects of the bucket in ascending key order.
// Returned keys have the bucket prefix already stripped.
func (b Bucket) Iterator(db fundpool.ReadOnlyKVStore) (*ObjectIterator, error) {
	start, end := prefixRange(b.prefix)
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return &ObjectIterator{bucket: b, wrapped: it}, nil
}

// ObjectIterator walks a bucket and parses raw models on the fly.
type ObjectIterator struct {
	bucket  Bucket
	wrapped fundpool.Iterator
}

// Valid returns true if there is another object to read.
func (o *ObjectIterator) Valid() bool {
	return o.wrapped.Valid()
}

// Next moves to the next object.
func (o *ObjectIterator) Next() error {
	return o.wrapped.Next()
}

// Object parses the current entry into key and model.
func (o *ObjectIterator) Object() (Object, error) {
	key := o.wrapped.Key()[len(o.bucket.prefix):]
	return o.bucket.Parse(key, o.wrapped.Value())
}

// Close releases the underlying iterator.
func (o *ObjectIterator) Close() {
	o.wrapped.Close()
}

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed the last byte? then we need to carry it
	for l > 0 && end[l] == 0 {
		l--
		end[l]++
	}
	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}
