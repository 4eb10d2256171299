package pool

import (
	"github.com/EricInMarkham/fundpool"
	"github.com/EricInMarkham/fundpool/coin"
	"github.com/EricInMarkham/fundpool/errors"
)

// maybeExecute runs the quorum check for a request and performs the
// transfer when the threshold is met. It is called after every
// creation and every approval, there is no polling.
//
// The check is for equality, not for a minimum: once executed, a
// request accepts no further approvals, so the count can never exceed
// the threshold at check time.
//
// A failure of the transfer primitive surfaces as ErrMoveFailed and
// aborts the surrounding transaction, leaving the request open and
// the triggering approval unrecorded. On success the reservation is
// released, custody reduced and the request sealed as executed.
//
// The move runs last. All internal bookkeeping happens first on the
// discardable cache, so when the primitive fails everything unwinds,
// and after it succeeds the only step left is the final cache write.
func (p *Pool) maybeExecute(db fundpool.KVStore, id int64, req *TransferRequest) (bool, error) {
	if uint32(len(req.Approvals)) != p.cfg.ApprovalsRequired {
		return false, nil
	}

	recipient := fundpool.Address(req.Recipient)
	amount := coin.Amount(req.Amount)

	if err := p.settle(db, amount); err != nil {
		return false, err
	}

	req.Status = StatusExecuted
	if err := p.transfers.Update(db, id, req); err != nil {
		return false, err
	}

	if err := p.mover.Move(recipient, amount); err != nil {
		return false, errors.Wrapf(ErrMoveFailed, "id %d: %s", id, err)
	}
	return true, nil
}
