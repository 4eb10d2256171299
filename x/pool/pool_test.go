package pool

import (
	"testing"

	"github.com/EricInMarkham/fundpool"
	"github.com/EricInMarkham/fundpool/coin"
	"github.com/EricInMarkham/fundpool/errors"
	"github.com/EricInMarkham/fundpool/pooltest"
	"github.com/EricInMarkham/fundpool/pooltest/assert"
	"github.com/EricInMarkham/fundpool/store"
)

func newTestPool(t testing.TB, cfg Config) (*Pool, *pooltest.Mover, *pooltest.Observer) {
	t.Helper()
	mover := &pooltest.Mover{}
	obs := &pooltest.Observer{}
	p, err := NewPool(store.MemStore(), cfg, mover, WithObserver(obs))
	assert.Nil(t, err)
	return p, mover, obs
}

// openSum walks the open request listing and returns the amount total.
func openSum(t testing.TB, p *Pool) coin.Amount {
	t.Helper()
	it := p.OpenRequests()
	defer it.Close()
	var sum coin.Amount
	for it.Next() {
		var err error
		sum, err = sum.Add(it.Request().Amount)
		assert.Nil(t, err)
	}
	assert.Nil(t, it.Err())
	return sum
}

// assertPendingInvariant checks that the pending total always equals
// the sum of open request amounts.
func assertPendingInvariant(t testing.TB, p *Pool) {
	t.Helper()
	pending, err := p.PendingTotal()
	assert.Nil(t, err)
	assert.Equal(t, openSum(t, p), pending)
}

func TestNewPoolConfig(t *testing.T) {
	cases := map[string]struct {
		cfg     Config
		wantErr *errors.Error
	}{
		"valid": {
			cfg: Config{MaxOwners: 3, ApprovalsRequired: 2},
		},
		"zero max owners": {
			cfg:     Config{MaxOwners: 0, ApprovalsRequired: 1},
			wantErr: ErrConfiguration,
		},
		"zero threshold": {
			cfg:     Config{MaxOwners: 3, ApprovalsRequired: 0},
			wantErr: ErrConfiguration,
		},
		"threshold above capacity": {
			cfg:     Config{MaxOwners: 2, ApprovalsRequired: 3},
			wantErr: ErrConfiguration,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := NewPool(store.MemStore(), tc.cfg, &pooltest.Mover{})
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestNewPoolRequiresMover(t *testing.T) {
	_, err := NewPool(store.MemStore(), Config{MaxOwners: 1, ApprovalsRequired: 1}, nil)
	assert.IsErr(t, ErrConfiguration, err)
}

func TestReopenRejectsChangedConfig(t *testing.T) {
	db := store.MemStore()
	mover := &pooltest.Mover{}

	_, err := NewPool(db, Config{MaxOwners: 3, ApprovalsRequired: 2}, mover)
	assert.Nil(t, err)

	// same parameters reopen fine
	_, err = NewPool(db, Config{MaxOwners: 3, ApprovalsRequired: 2}, mover)
	assert.Nil(t, err)

	// the configuration is immutable after creation
	_, err = NewPool(db, Config{MaxOwners: 3, ApprovalsRequired: 3}, mover)
	assert.IsErr(t, ErrConfiguration, err)
}

func TestAddOwner(t *testing.T) {
	p, _, obs := newTestPool(t, Config{MaxOwners: 3, ApprovalsRequired: 2})

	a, b, c, d := pooltest.SequenceAddress(1), pooltest.SequenceAddress(2),
		pooltest.SequenceAddress(3), pooltest.SequenceAddress(4)

	assert.Nil(t, p.AddOwner(a))
	assert.Nil(t, p.AddOwner(b))
	assert.Nil(t, p.AddOwner(c))

	is, err := p.IsOwner(b)
	assert.Nil(t, err)
	assert.Equal(t, true, is)
	is, err = p.IsOwner(d)
	assert.Nil(t, err)
	assert.Equal(t, false, is)

	// duplicates are rejected
	assert.IsErr(t, ErrDuplicateOwner, p.AddOwner(a))

	// the committee is full, a fourth member is rejected
	assert.IsErr(t, ErrOwnerLimit, p.AddOwner(d))

	// registry unchanged by the failures
	owners, err := p.Owners()
	assert.Nil(t, err)
	assert.Equal(t, []fundpool.Address{a, b, c}, owners)
	assert.Equal(t, []fundpool.Address{a, b, c}, obs.Owners)
}

func TestDeposit(t *testing.T) {
	p, _, _ := newTestPool(t, Config{MaxOwners: 1, ApprovalsRequired: 1})

	alice := pooltest.SequenceAddress(1)
	stranger := pooltest.SequenceAddress(9)

	// anyone may deposit, owner or not
	assert.Nil(t, p.Deposit(alice, 70))
	assert.Nil(t, p.Deposit(stranger, 30))
	assert.Nil(t, p.Deposit(alice, 5))

	balance, err := p.CustodyBalance()
	assert.Nil(t, err)
	assert.Equal(t, coin.NewAmount(105), balance)

	// per-depositor bookkeeping is tracked separately
	total, err := p.Deposits(alice)
	assert.Nil(t, err)
	assert.Equal(t, coin.NewAmount(75), total)
	total, err = p.Deposits(stranger)
	assert.Nil(t, err)
	assert.Equal(t, coin.NewAmount(30), total)

	// depositing nothing is rejected
	assert.IsErr(t, errors.ErrAmount, p.Deposit(alice, 0))
}

// TestTwoOfThreeLifecycle walks the canonical 2-of-3 committee flow.
func TestTwoOfThreeLifecycle(t *testing.T) {
	p, mover, obs := newTestPool(t, Config{MaxOwners: 3, ApprovalsRequired: 2})

	a, b, c := pooltest.SequenceAddress(1), pooltest.SequenceAddress(2), pooltest.SequenceAddress(3)
	x := pooltest.SequenceAddress(10)

	assert.Nil(t, p.AddOwner(a))
	assert.Nil(t, p.AddOwner(b))
	assert.Nil(t, p.AddOwner(c))
	assert.Nil(t, p.Deposit(a, 100))

	id, err := p.CreateRequest(a, x, 40)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id)

	// one approval of two, the request stays open and reserved
	assert.Equal(t, 0, mover.CallCount)
	pending, err := p.PendingTotal()
	assert.Nil(t, err)
	assert.Equal(t, coin.NewAmount(40), pending)
	assertPendingInvariant(t, p)

	assert.Nil(t, p.Approve(b, id))

	// quorum reached, the transfer fired exactly once
	assert.Equal(t, 1, mover.CallCount)
	assert.Equal(t, []pooltest.Move{{Recipient: x, Amount: 40}}, mover.Moves)

	pending, err = p.PendingTotal()
	assert.Nil(t, err)
	assert.Equal(t, coin.NewAmount(0), pending)
	balance, err := p.CustodyBalance()
	assert.Nil(t, err)
	assert.Equal(t, coin.NewAmount(60), balance)
	assertPendingInvariant(t, p)

	// the executed request is terminal
	assert.IsErr(t, ErrAlreadyExecuted, p.Approve(c, id))

	assert.Equal(t, []pooltest.Event{{ID: 1, Recipient: x, Amount: 40}}, obs.Requested)
	assert.Equal(t, []pooltest.Event{{ID: 1, Recipient: x, Amount: 40}}, obs.Executed)
}

// TestSingleApprovalExecutesImmediately covers the degenerate
// threshold of one: creation and execution happen in the same call.
func TestSingleApprovalExecutesImmediately(t *testing.T) {
	p, mover, _ := newTestPool(t, Config{MaxOwners: 1, ApprovalsRequired: 1})

	a := pooltest.SequenceAddress(1)
	x := pooltest.SequenceAddress(10)

	assert.Nil(t, p.AddOwner(a))
	assert.Nil(t, p.Deposit(a, 50))

	id, err := p.CreateRequest(a, x, 10)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, 1, mover.CallCount)

	pending, err := p.PendingTotal()
	assert.Nil(t, err)
	assert.Equal(t, coin.NewAmount(0), pending)
	balance, err := p.CustodyBalance()
	assert.Nil(t, err)
	assert.Equal(t, coin.NewAmount(40), balance)
	assertPendingInvariant(t, p)
}

func TestNonOwnerRejected(t *testing.T) {
	p, mover, _ := newTestPool(t, Config{MaxOwners: 3, ApprovalsRequired: 2})

	a := pooltest.SequenceAddress(1)
	stranger := pooltest.SequenceAddress(9)
	x := pooltest.SequenceAddress(10)

	assert.Nil(t, p.AddOwner(a))
	assert.Nil(t, p.Deposit(a, 100))

	_, err := p.CreateRequest(stranger, x, 10)
	assert.IsErr(t, ErrNotOwner, err)

	id, err := p.CreateRequest(a, x, 10)
	assert.Nil(t, err)
	assert.IsErr(t, ErrNotOwner, p.Approve(stranger, id))

	// no state was changed by the rejections
	assert.Equal(t, 0, mover.CallCount)
	pending, err := p.PendingTotal()
	assert.Nil(t, err)
	assert.Equal(t, coin.NewAmount(10), pending)
	assertPendingInvariant(t, p)
}

func TestApproveUnknownRequest(t *testing.T) {
	p, _, _ := newTestPool(t, Config{MaxOwners: 2, ApprovalsRequired: 2})

	a := pooltest.SequenceAddress(1)
	assert.Nil(t, p.AddOwner(a))

	assert.IsErr(t, ErrUnknownRequest, p.Approve(a, 1))
	assert.IsErr(t, ErrUnknownRequest, p.Approve(a, 0))
	assert.IsErr(t, ErrUnknownRequest, p.Approve(a, -3))

	assert.Nil(t, p.Deposit(a, 100))
	id, err := p.CreateRequest(a, pooltest.SequenceAddress(10), 10)
	assert.Nil(t, err)
	assert.IsErr(t, ErrUnknownRequest, p.Approve(a, id+1))
}

func TestDuplicateApproval(t *testing.T) {
	p, _, _ := newTestPool(t, Config{MaxOwners: 3, ApprovalsRequired: 3})

	a, b := pooltest.SequenceAddress(1), pooltest.SequenceAddress(2)
	x := pooltest.SequenceAddress(10)

	assert.Nil(t, p.AddOwner(a))
	assert.Nil(t, p.AddOwner(b))
	assert.Nil(t, p.Deposit(a, 100))

	id1, err := p.CreateRequest(a, x, 10)
	assert.Nil(t, err)
	id2, err := p.CreateRequest(a, x, 20)
	assert.Nil(t, err)

	// the requester already approved through creation
	assert.IsErr(t, ErrDuplicateApproval, p.Approve(a, id1))

	assert.Nil(t, p.Approve(b, id1))
	// operations on other requests do not reset the tracking
	assert.Nil(t, p.Approve(b, id2))
	assert.IsErr(t, ErrDuplicateApproval, p.Approve(b, id1))
	assertPendingInvariant(t, p)
}

func TestInsufficientLiquidity(t *testing.T) {
	p, mover, _ := newTestPool(t, Config{MaxOwners: 2, ApprovalsRequired: 2})

	a := pooltest.SequenceAddress(1)
	x := pooltest.SequenceAddress(10)

	assert.Nil(t, p.AddOwner(a))
	assert.Nil(t, p.Deposit(a, 100))

	// open requests reserve their amount
	id, err := p.CreateRequest(a, x, 70)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id)

	available, err := p.AvailableLiquidity()
	assert.Nil(t, err)
	assert.Equal(t, coin.NewAmount(30), available)

	// a request above the remaining liquidity is rejected whole
	_, err = p.CreateRequest(a, x, 31)
	assert.IsErr(t, ErrInsufficientLiquidity, err)

	// no identifier was consumed and nothing changed
	id, err = p.CreateRequest(a, x, 30)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), id)
	assert.Equal(t, 0, mover.CallCount)
	assertPendingInvariant(t, p)
}

func TestRequestLookup(t *testing.T) {
	p, _, _ := newTestPool(t, Config{MaxOwners: 2, ApprovalsRequired: 1})

	a := pooltest.SequenceAddress(1)
	x := pooltest.SequenceAddress(10)

	assert.Nil(t, p.AddOwner(a))
	assert.Nil(t, p.Deposit(a, 100))

	_, err := p.Request(1)
	assert.IsErr(t, ErrUnknownRequest, err)

	id, err := p.CreateRequest(a, x, 10)
	assert.Nil(t, err)

	// executed requests stay readable
	req, err := p.Request(id)
	assert.Nil(t, err)
	assert.Equal(t, StatusExecuted, req.Status)
	assert.Equal(t, x, fundpool.Address(req.Recipient))
	assert.Equal(t, a, fundpool.Address(req.Approvals[0]))
}

func TestRequestIDsAreMonotonic(t *testing.T) {
	p, _, _ := newTestPool(t, Config{MaxOwners: 2, ApprovalsRequired: 1})

	a := pooltest.SequenceAddress(1)
	x := pooltest.SequenceAddress(10)

	assert.Nil(t, p.AddOwner(a))
	assert.Nil(t, p.Deposit(a, 100))

	// executed requests do not free their identifier
	for want := int64(1); want <= 5; want++ {
		id, err := p.CreateRequest(a, x, 10)
		assert.Nil(t, err)
		assert.Equal(t, want, id)
	}
}
