package pool

import (
	"github.com/EricInMarkham/fundpool"
	"github.com/EricInMarkham/fundpool/coin"
	"github.com/EricInMarkham/fundpool/errors"
)

// Approve records one owner's approval of an open transfer request and
// runs the quorum check. Approval order is preserved.
//
// Fails with ErrNotOwner for non-members, ErrUnknownRequest for an
// identifier that was never allocated, ErrAlreadyExecuted for a
// terminal request and ErrDuplicateApproval if this owner already
// approved. On any failure, including a failing transfer primitive,
// the approval is not recorded.
func (p *Pool) Approve(approver fundpool.Address, id int64) error {
	if err := approver.Validate(); err != nil {
		return errors.Wrap(err, "approver")
	}

	var (
		executed  bool
		recipient fundpool.Address
		amount    coin.Amount
	)
	err := p.transact(func(db fundpool.KVStore) error {
		info, err := p.owners.GetInfo(db, approver)
		if err != nil {
			return err
		}
		if info == nil {
			return errors.Wrapf(ErrNotOwner, "approver %s", approver)
		}

		latest, err := p.transfers.Latest(db)
		if err != nil {
			return err
		}
		if id < 1 || id > latest {
			return errors.Wrapf(ErrUnknownRequest, "id %d", id)
		}
		req, err := p.transfers.GetTransfer(db, id)
		if err != nil {
			return err
		}
		if req == nil {
			return errors.Wrapf(ErrUnknownRequest, "id %d", id)
		}

		if req.Status == StatusExecuted {
			return errors.Wrapf(ErrAlreadyExecuted, "id %d", id)
		}
		if req.HasApproval(approver) {
			return errors.Wrapf(ErrDuplicateApproval, "owner %s", approver)
		}

		req.Approvals = append(req.Approvals, approver.Clone())
		if err := p.transfers.Update(db, id, req); err != nil {
			return err
		}

		recipient = fundpool.Address(req.Recipient)
		amount = coin.Amount(req.Amount)
		executed, err = p.maybeExecute(db, id, req)
		return err
	})
	if err != nil {
		return err
	}

	if executed {
		p.obs.TransferExecuted(id, recipient, amount)
	}
	return nil
}
