/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary index (which may be composite),
and may be iterated in key order.
* Easy queries for one and iteration.
*/
package orm

// Marshaller is anything that can be represented in binary
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal
//
// This is separated from Marshal, as this almost always requires
// a pointer, and functions that only need to marshal bytes can
// use the Marshaller interface to access non-pointers as well
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Model is implemented by any entity that can be stored in a bucket
type Model interface {
	Persistent
	Validate() error
}

// Object is what is stored in the bucket
// Key is joined with the prefix to set the full key
// Value is the data stored
type Object interface {
	Key() []byte
	Value() Model
	Validate() error
}
