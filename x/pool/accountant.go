package pool

import (
	"github.com/EricInMarkham/fundpool"
	"github.com/EricInMarkham/fundpool/coin"
	"github.com/EricInMarkham/fundpool/errors"
)

// Deposit increases the custody balance. Any identity may deposit,
// owner or not; the per-depositor total is recorded for inspection but
// confers no rights.
func (p *Pool) Deposit(from fundpool.Address, amount coin.Amount) error {
	if err := from.Validate(); err != nil {
		return errors.Wrap(err, "depositor")
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "deposit must be positive")
	}

	return p.transact(func(db fundpool.KVStore) error {
		funds, err := p.funds.GetFunds(db)
		if err != nil {
			return err
		}
		custody, err := coin.Amount(funds.Custody).Add(amount)
		if err != nil {
			return err
		}
		funds.Custody = custody.Int64()
		if err := p.funds.SaveFunds(db, funds); err != nil {
			return err
		}
		return p.deposits.Record(db, from, amount)
	})
}

// CustodyBalance returns the total value held by the pool.
func (p *Pool) CustodyBalance() (coin.Amount, error) {
	funds, err := p.funds.GetFunds(p.db)
	if err != nil {
		return 0, err
	}
	return coin.Amount(funds.Custody), nil
}

// PendingTotal returns the sum of amounts reserved by all open
// transfer requests.
func (p *Pool) PendingTotal() (coin.Amount, error) {
	funds, err := p.funds.GetFunds(p.db)
	if err != nil {
		return 0, err
	}
	return coin.Amount(funds.Pending), nil
}

// AvailableLiquidity returns custody balance minus the pending total,
// the ceiling for new transfer requests.
func (p *Pool) AvailableLiquidity() (coin.Amount, error) {
	funds, err := p.funds.GetFunds(p.db)
	if err != nil {
		return 0, err
	}
	return coin.Amount(funds.Custody).Sub(coin.Amount(funds.Pending))
}

// Deposits returns the lifetime deposit total of given address.
func (p *Pool) Deposits(a fundpool.Address) (coin.Amount, error) {
	if err := a.Validate(); err != nil {
		return 0, errors.Wrap(err, "depositor")
	}
	return p.deposits.Total(p.db, a)
}

// reserve locks the amount for an open request. It fails with
// ErrInsufficientLiquidity if the amount exceeds what is not yet
// reserved.
func (p *Pool) reserve(db fundpool.KVStore, amount coin.Amount) error {
	funds, err := p.funds.GetFunds(db)
	if err != nil {
		return err
	}
	available, err := coin.Amount(funds.Custody).Sub(coin.Amount(funds.Pending))
	if err != nil {
		return err
	}
	if amount > available {
		return errors.Wrapf(ErrInsufficientLiquidity,
			"requested %s, available %s", amount, available)
	}
	pending, err := coin.Amount(funds.Pending).Add(amount)
	if err != nil {
		return err
	}
	funds.Pending = pending.Int64()
	return p.funds.SaveFunds(db, funds)
}

// settle releases the reservation and removes the amount from custody,
// as part of executing a request.
func (p *Pool) settle(db fundpool.KVStore, amount coin.Amount) error {
	funds, err := p.funds.GetFunds(db)
	if err != nil {
		return err
	}
	pending, err := coin.Amount(funds.Pending).Sub(amount)
	if err != nil {
		return err
	}
	custody, err := coin.Amount(funds.Custody).Sub(amount)
	if err != nil {
		return err
	}
	funds.Pending = pending.Int64()
	funds.Custody = custody.Int64()
	return p.funds.SaveFunds(db, funds)
}
