package pool

import (
	"github.com/EricInMarkham/fundpool"
	"github.com/EricInMarkham/fundpool/coin"
)

// Observer receives fire-and-forget notifications about pool activity.
// The pool never depends on an observer for its own logic: callbacks
// run only after the triggering operation was committed, and their
// return is ignored. Delivery beyond the callback is out of scope.
type Observer interface {
	// OwnerAdded fires when a new owner joined the committee.
	OwnerAdded(owner fundpool.Address)

	// TransferRequested fires when a new transfer request was created.
	TransferRequested(id int64, recipient fundpool.Address, amount coin.Amount)

	// TransferExecuted fires when a request reached quorum and the
	// funds were moved.
	TransferExecuted(id int64, recipient fundpool.Address, amount coin.Amount)
}

// NopObserver ignores all notifications. It is the default.
type NopObserver struct{}

var _ Observer = NopObserver{}

func (NopObserver) OwnerAdded(fundpool.Address) {}

func (NopObserver) TransferRequested(int64, fundpool.Address, coin.Amount) {}

func (NopObserver) TransferExecuted(int64, fundpool.Address, coin.Amount) {}
