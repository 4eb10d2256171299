/*

Package fundpool defines interfaces and types used throughout the
module: storage, identity, and the notification contract.

A fund pool is a custodial account governed by a fixed committee of
owners. Anyone may deposit into the pool, but value only leaves it
through a transfer request approved by a quorum of distinct owners.
The state machine itself lives in x/pool; this package provides the
storage contract (KVStore and friends) and the Address identity type
that every component codes against.

*/
package fundpool
