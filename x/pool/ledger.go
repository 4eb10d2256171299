package pool

import (
	"github.com/EricInMarkham/fundpool"
	"github.com/EricInMarkham/fundpool/coin"
	"github.com/EricInMarkham/fundpool/errors"
)

// CreateRequest opens a new transfer request with the requester as its
// first approver and the amount reserved against the custody balance.
// The quorum check runs within the same call, so with a threshold of 1
// the request also executes before this returns. The new identifier is
// returned, the first one ever allocated is 1.
//
// Fails with ErrNotOwner for non-members and ErrInsufficientLiquidity
// if the amount exceeds the available liquidity. On any failure no
// state is changed and no identifier is consumed.
func (p *Pool) CreateRequest(requester, recipient fundpool.Address, amount coin.Amount) (int64, error) {
	if err := requester.Validate(); err != nil {
		return 0, errors.Wrap(err, "requester")
	}
	if err := recipient.Validate(); err != nil {
		return 0, errors.Wrap(err, "recipient")
	}
	if err := amount.Validate(); err != nil {
		return 0, err
	}
	if !amount.IsPositive() {
		return 0, errors.Wrap(errors.ErrAmount, "transfer must be positive")
	}

	var (
		id       int64
		executed bool
	)
	err := p.transact(func(db fundpool.KVStore) error {
		info, err := p.owners.GetInfo(db, requester)
		if err != nil {
			return err
		}
		if info == nil {
			return errors.Wrapf(ErrNotOwner, "requester %s", requester)
		}

		if err := p.reserve(db, amount); err != nil {
			return err
		}

		req := &TransferRequest{
			Recipient: recipient.Clone(),
			Amount:    amount.Int64(),
			Approvals: [][]byte{requester.Clone()},
			Status:    StatusOpen,
		}
		if id, err = p.transfers.Create(db, req); err != nil {
			return err
		}

		executed, err = p.maybeExecute(db, id, req)
		return err
	})
	if err != nil {
		return 0, err
	}

	p.obs.TransferRequested(id, recipient, amount)
	if executed {
		p.obs.TransferExecuted(id, recipient, amount)
	}
	return id, nil
}

// Request returns a copy of the transfer request with given
// identifier, executed ones included. Fails with ErrUnknownRequest if
// the identifier was never allocated.
func (p *Pool) Request(id int64) (*TransferRequest, error) {
	req, err := p.transfers.GetTransfer(p.db, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.Wrapf(ErrUnknownRequest, "id %d", id)
	}
	return req, nil
}
