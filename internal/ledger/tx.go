package ledger

import (
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"math/big"
	"time"
)

// View gives read access to ledger state. It is only valid inside the
// callback it was handed to.
type View struct {
	l   *Ledger
	now time.Time
}

// Tx is a unit of work. Mutations go through its methods, or register an undo
// step with OnRollback, so that a failing unit leaves no trace.
type Tx struct {
	*View
	undo   []func()
	events []entity.Event
}

func (v *View) Now() time.Time {
	return v.now
}

func (tx *Tx) OnRollback(fn func()) {
	tx.undo = append(tx.undo, fn)
}

func (tx *Tx) Emit(e entity.Event) {
	tx.events = append(tx.events, e)
}

func (tx *Tx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
	tx.events = nil
}

func (tx *Tx) receipt() *Receipt {
	r := &Receipt{ID: newReceiptId(), Time: tx.now, Events: tx.events}
	for i, e := range r.Events {
		e.Stamp(r.ID, i, tx.now)
	}

	return r
}

func (v *View) NativeBalance(addr common.Address) *big.Int {
	return balanceOf(v.l.native, addr)
}

func (tx *Tx) Credit(addr common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return entity.ErrInvalidAmount
	}
	tx.setBalance(tx.l.native, addr, new(big.Int).Add(tx.NativeBalance(addr), amount))

	return nil
}

func (tx *Tx) TransferNative(from, to common.Address, amount *big.Int) error {
	return tx.move(tx.l.native, from, to, amount)
}

func (tx *Tx) move(balances map[common.Address]*big.Int, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return entity.ErrInvalidAmount
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}

	fromBalance := balanceOf(balances, from)
	if fromBalance.Cmp(amount) < 0 {
		return entity.ErrInsufficientBalance
	}

	tx.setBalance(balances, from, new(big.Int).Sub(fromBalance, amount))
	tx.setBalance(balances, to, new(big.Int).Add(balanceOf(balances, to), amount))

	return nil
}

func (tx *Tx) setBalance(balances map[common.Address]*big.Int, addr common.Address, value *big.Int) {
	previous, existed := balances[addr]
	balances[addr] = value
	tx.OnRollback(func() {
		if existed {
			balances[addr] = previous
		} else {
			delete(balances, addr)
		}
	})
}

func balanceOf(balances map[common.Address]*big.Int, addr common.Address) *big.Int {
	if b, ok := balances[addr]; ok {
		return new(big.Int).Set(b)
	}

	return new(big.Int)
}
