package pool

import (
	"github.com/EricInMarkham/fundpool/errors"
)

// The pool extension reserves the 1200-1209 error code range.
var (
	// ErrConfiguration is returned when construction parameters are
	// invalid. This is fatal, construction aborts.
	ErrConfiguration = errors.Register(1200, "invalid configuration")

	// ErrNotOwner is returned when an identity that is not a registered
	// owner attempts an owner-only operation.
	ErrNotOwner = errors.Register(1201, "not an owner")

	// ErrOwnerLimit is returned when the owner set is full.
	ErrOwnerLimit = errors.Register(1202, "owner limit exceeded")

	// ErrDuplicateOwner is returned when adding an identity that is
	// already a member.
	ErrDuplicateOwner = errors.Register(1203, "duplicate owner")

	// ErrInsufficientLiquidity is returned when a request asks for more
	// than the custody balance minus already reserved amounts.
	ErrInsufficientLiquidity = errors.Register(1204, "insufficient liquidity")

	// ErrUnknownRequest is returned when a transfer request identifier
	// was never allocated.
	ErrUnknownRequest = errors.Register(1205, "unknown transfer request")

	// ErrDuplicateApproval is returned when an owner approves the same
	// request twice.
	ErrDuplicateApproval = errors.Register(1206, "duplicate approval")

	// ErrAlreadyExecuted is returned when approving a request that has
	// already been executed. Executed requests are immutable.
	ErrAlreadyExecuted = errors.Register(1207, "transfer already executed")

	// ErrMoveFailed is returned when the external transfer primitive
	// rejects the move. The triggering operation is rolled back whole.
	ErrMoveFailed = errors.Register(1208, "transfer primitive failed")
)
