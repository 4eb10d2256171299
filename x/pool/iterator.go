package pool

import (
	"github.com/EricInMarkham/fundpool"
	"github.com/EricInMarkham/fundpool/coin"
	"github.com/EricInMarkham/fundpool/errors"
	"github.com/EricInMarkham/fundpool/orm"
)

// OpenRequest is one entry of the open request listing.
type OpenRequest struct {
	ID        int64
	Recipient fundpool.Address
	Amount    coin.Amount
}

// OpenRequests returns an iterator over every request currently open,
// in creation order. Executed requests are omitted entirely, they do
// not appear as placeholder entries. The iterator is lazy and can be
// restarted with Reset.
func (p *Pool) OpenRequests() *OpenRequestIter {
	return &OpenRequestIter{pool: p}
}

// OpenRequestIter walks the transfer ledger, yielding open requests.
//
//	it := pool.OpenRequests()
//	defer it.Close()
//	for it.Next() {
//	    r := it.Request()
//	    // ...
//	}
//	if err := it.Err(); err != nil { ... }
type OpenRequestIter struct {
	pool *Pool
	it   *orm.ObjectIterator
	cur  OpenRequest
	err  error
	done bool
}

// Next advances to the next open request. It returns false when the
// ledger is exhausted or an error occurred, see Err.
func (i *OpenRequestIter) Next() bool {
	if i.done || i.err != nil {
		return false
	}
	if i.it == nil {
		i.it, i.err = i.pool.transfers.Iterator(i.pool.db)
		if i.err != nil {
			return false
		}
	}

	for i.it.Valid() {
		obj, err := i.it.Object()
		if err != nil {
			i.err = err
			return false
		}
		if err := i.it.Next(); err != nil {
			i.err = err
			return false
		}

		req, ok := obj.Value().(*TransferRequest)
		if !ok {
			i.err = errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
			return false
		}
		if req.Status != StatusOpen {
			continue
		}

		i.cur = OpenRequest{
			ID:        orm.DecodeSequence(obj.Key()),
			Recipient: fundpool.Address(req.Recipient),
			Amount:    coin.Amount(req.Amount),
		}
		return true
	}

	i.done = true
	return false
}

// Request returns the entry the iterator is positioned on. Only valid
// after a Next call that returned true.
func (i *OpenRequestIter) Request() OpenRequest {
	return i.cur
}

// Err returns the first error encountered during iteration, if any.
func (i *OpenRequestIter) Err() error {
	return i.err
}

// Reset rewinds the iterator so the listing can be walked again,
// observing the current ledger state.
func (i *OpenRequestIter) Reset() {
	i.Close()
	i.it = nil
	i.cur = OpenRequest{}
	i.err = nil
	i.done = false
}

// Close releases the underlying store iterator. The iterator may not
// be used afterwards except for Reset.
func (i *OpenRequestIter) Close() {
	if i.it != nil {
		i.it.Close()
		i.it = nil
	}
}
