/*
Package pooltest provides mocks and fixtures for testing pool code.

All implementations are deterministic and dependency free, so any
package can pull them in without dragging the world along.
*/
package pooltest

import (
	"fmt"

	"github.com/EricInMarkham/fundpool"
	"github.com/EricInMarkham/fundpool/coin"
)

// SequenceAddress returns a deterministic address for given number.
// The same number always produces the same address.
func SequenceAddress(i int) fundpool.Address {
	return fundpool.NewAddress([]byte(fmt.Sprintf("test-address-%d", i)))
}

// Move records one call to the Mover mock.
type Move struct {
	Recipient fundpool.Address
	Amount    coin.Amount
}

// Mover is a transfer primitive mock. It counts calls, remembers every
// successful move and can be scripted to fail.
type Mover struct {
	// Err is returned by every Move call if set. The move is not
	// recorded then.
	Err error

	// CallCount is the number of Move calls, failed ones included.
	CallCount int

	// Moves are all successful transfers in call order.
	Moves []Move
}

func (m *Mover) Move(recipient fundpool.Address, amount coin.Amount) error {
	m.CallCount++
	if m.Err != nil {
		return m.Err
	}
	m.Moves = append(m.Moves, Move{Recipient: recipient, Amount: amount})
	return nil
}

// Event records one transfer notification.
type Event struct {
	ID        int64
	Recipient fundpool.Address
	Amount    coin.Amount
}

// Observer records every notification it receives.
type Observer struct {
	Owners    []fundpool.Address
	Requested []Event
	Executed  []Event
}

func (o *Observer) OwnerAdded(owner fundpool.Address) {
	o.Owners = append(o.Owners, owner)
}

func (o *Observer) TransferRequested(id int64, recipient fundpool.Address, amount coin.Amount) {
	o.Requested = append(o.Requested, Event{ID: id, Recipient: recipient, Amount: amount})
}

func (o *Observer) TransferExecuted(id int64, recipient fundpool.Address, amount coin.Amount) {
	o.Executed = append(o.Executed, Event{ID: id, Recipient: recipient, Amount: amount})
}
