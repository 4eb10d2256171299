package pool

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/EricInMarkham/fundpool/coin"
	"github.com/EricInMarkham/fundpool/pooltest"
	"github.com/EricInMarkham/fundpool/store"
)

func TestLifecycle(t *testing.T) {
	Convey("Given a funded 2-of-3 pool", t, func() {
		a := pooltest.SequenceAddress(1)
		b := pooltest.SequenceAddress(2)
		c := pooltest.SequenceAddress(3)
		x := pooltest.SequenceAddress(10)

		mover := &pooltest.Mover{}
		p, err := NewPool(store.MemStore(), Config{MaxOwners: 3, ApprovalsRequired: 2}, mover)
		So(err, ShouldBeNil)

		So(p.AddOwner(a), ShouldBeNil)
		So(p.AddOwner(b), ShouldBeNil)
		So(p.AddOwner(c), ShouldBeNil)
		So(p.Deposit(a, 100), ShouldBeNil)

		Convey("An owner opens a transfer request", func() {
			id, err := p.CreateRequest(a, x, 40)
			So(err, ShouldBeNil)
			So(id, ShouldEqual, 1)

			pending, err := p.PendingTotal()
			So(err, ShouldBeNil)
			So(pending, ShouldEqual, coin.NewAmount(40))

			Convey("A second approval executes it", func() {
				So(p.Approve(b, id), ShouldBeNil)
				So(mover.CallCount, ShouldEqual, 1)

				balance, err := p.CustodyBalance()
				So(err, ShouldBeNil)
				So(balance, ShouldEqual, coin.NewAmount(60))

				Convey("And the request becomes terminal", func() {
					So(ErrAlreadyExecuted.Is(p.Approve(c, id)), ShouldBeTrue)
				})
			})

			Convey("The requester cannot approve twice", func() {
				So(ErrDuplicateApproval.Is(p.Approve(a, id)), ShouldBeTrue)
				So(mover.CallCount, ShouldEqual, 0)
			})

			Convey("A non-member cannot approve", func() {
				So(ErrNotOwner.Is(p.Approve(x, id)), ShouldBeTrue)
			})

			Convey("The reservation caps further requests", func() {
				_, err := p.CreateRequest(b, x, 61)
				So(ErrInsufficientLiquidity.Is(err), ShouldBeTrue)

				id2, err := p.CreateRequest(b, x, 60)
				So(err, ShouldBeNil)
				So(id2, ShouldEqual, 2)
			})
		})
	})
}
