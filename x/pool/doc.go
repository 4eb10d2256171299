/*
Package pool implements a custodial fund pool governed by a fixed
committee of owners.

Anyone may deposit into the pool. Only registered owners may request
moving funds out, and a request executes only once the configured
number of distinct owners approved it. The amount of every open request
is reserved against the custody balance, so the sum of open requests
can never exceed the funds actually held.

All state lives in a caller-provided key value store. Every public
operation runs against a cache wrap of that store and is written only
on success, so a failing operation (including a failure of the external
transfer primitive) leaves no trace.
*/
package pool
