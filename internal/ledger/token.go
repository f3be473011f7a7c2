package ledger

import (
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"math/big"
)

func (tx *Tx) DeployToken(addr common.Address) {
	if _, ok := tx.l.tokens[addr]; ok {
		return
	}
	tx.l.tokens[addr] = &token{
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]map[common.Address]*big.Int),
	}
	tx.OnRollback(func() { delete(tx.l.tokens, addr) })
}

func (v *View) getToken(addr common.Address) (*token, error) {
	t, ok := v.l.tokens[addr]
	if !ok {
		return nil, entity.ErrUnknownToken
	}

	return t, nil
}

func (v *View) TokenBalance(tokenAddr, owner common.Address) (*big.Int, error) {
	t, err := v.getToken(tokenAddr)
	if err != nil {
		return nil, err
	}

	return balanceOf(t.balances, owner), nil
}

func (v *View) Allowance(tokenAddr, owner, spender common.Address) (*big.Int, error) {
	t, err := v.getToken(tokenAddr)
	if err != nil {
		return nil, err
	}

	return balanceOf(t.allowances[owner], spender), nil
}

func (tx *Tx) MintToken(tokenAddr, to common.Address, amount *big.Int) error {
	t, err := tx.getToken(tokenAddr)
	if err != nil {
		return err
	}
	if amount == nil || amount.Sign() < 0 {
		return entity.ErrInvalidAmount
	}
	tx.setBalance(t.balances, to, new(big.Int).Add(balanceOf(t.balances, to), amount))

	return nil
}

func (tx *Tx) ApproveToken(tokenAddr, owner, spender common.Address, amount *big.Int) error {
	t, err := tx.getToken(tokenAddr)
	if err != nil {
		return err
	}
	if amount == nil || amount.Sign() < 0 {
		return entity.ErrInvalidAmount
	}

	allowances, ok := t.allowances[owner]
	if !ok {
		allowances = make(map[common.Address]*big.Int)
		t.allowances[owner] = allowances
		tx.OnRollback(func() { delete(t.allowances, owner) })
	}
	tx.setBalance(allowances, spender, new(big.Int).Set(amount))

	return nil
}

// TransferTokenFrom moves amount from one holder to another on behalf of
// spender, consuming spender's allowance.
func (tx *Tx) TransferTokenFrom(tokenAddr, spender, from, to common.Address, amount *big.Int) error {
	t, err := tx.getToken(tokenAddr)
	if err != nil {
		return err
	}
	if amount == nil || amount.Sign() < 0 {
		return entity.ErrInvalidAmount
	}

	if spender != from {
		allowance := balanceOf(t.allowances[from], spender)
		if allowance.Cmp(amount) < 0 {
			return entity.ErrInsufficientAllowance
		}
		if err := tx.ApproveToken(tokenAddr, from, spender, new(big.Int).Sub(allowance, amount)); err != nil {
			return err
		}
	}

	return tx.move(t.balances, from, to, amount)
}
