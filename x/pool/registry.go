package pool

import (
	"sort"

	"github.com/EricInMarkham/fundpool"
	"github.com/EricInMarkham/fundpool/errors"
)

// AddOwner registers a new committee member. It fails with
// ErrDuplicateOwner if the address is already a member and with
// ErrOwnerLimit once the committee is at capacity. Membership is
// monotonic, owners are never removed.
func (p *Pool) AddOwner(a fundpool.Address) error {
	if err := a.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}

	err := p.transact(func(db fundpool.KVStore) error {
		info, err := p.owners.GetInfo(db, a)
		if err != nil {
			return err
		}
		if info != nil {
			return errors.Wrapf(ErrDuplicateOwner, "owner %s", a)
		}

		count, err := p.owners.Count(db)
		if err != nil {
			return err
		}
		if count >= int64(p.cfg.MaxOwners) {
			return errors.Wrapf(ErrOwnerLimit, "capacity %d", p.cfg.MaxOwners)
		}

		_, err = p.owners.Register(db, a)
		return err
	})
	if err != nil {
		return err
	}

	p.obs.OwnerAdded(a)
	return nil
}

// IsOwner returns true if given address is a registered committee
// member.
func (p *Pool) IsOwner(a fundpool.Address) (bool, error) {
	info, err := p.owners.GetInfo(p.db, a)
	return info != nil, err
}

// Owners returns all committee members in registration order.
func (p *Pool) Owners() ([]fundpool.Address, error) {
	type member struct {
		addr  fundpool.Address
		index uint32
	}

	it, err := p.owners.Iterator(p.db)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var members []member
	for it.Valid() {
		obj, err := it.Object()
		if err != nil {
			return nil, err
		}
		info, ok := obj.Value().(*OwnerInfo)
		if !ok {
			return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
		}
		members = append(members, member{
			addr:  fundpool.Address(obj.Key()).Clone(),
			index: info.Index,
		})
		if err := it.Next(); err != nil {
			return nil, err
		}
	}

	// bucket iteration is in address order, registration order is
	// recorded in the index
	sort.Slice(members, func(i, j int) bool {
		return members[i].index < members[j].index
	})

	addrs := make([]fundpool.Address, len(members))
	for i, m := range members {
		addrs[i] = m.addr
	}
	return addrs, nil
}
