package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"math/big"
)

// The helpers below wrap a single Tx call in its own unit of work.

func (l *Ledger) Credit(addr common.Address, amount *big.Int) error {
	_, err := l.Execute(func(tx *Tx) error {
		return tx.Credit(addr, amount)
	})
	return err
}

func (l *Ledger) NativeBalance(addr common.Address) *big.Int {
	var balance *big.Int
	_ = l.View(func(v *View) error {
		balance = v.NativeBalance(addr)
		return nil
	})
	return balance
}

func (l *Ledger) DeployToken(addr common.Address) {
	_, _ = l.Execute(func(tx *Tx) error {
		tx.DeployToken(addr)
		return nil
	})
}

func (l *Ledger) MintToken(tokenAddr, to common.Address, amount *big.Int) error {
	_, err := l.Execute(func(tx *Tx) error {
		return tx.MintToken(tokenAddr, to, amount)
	})
	return err
}

func (l *Ledger) ApproveToken(tokenAddr, owner, spender common.Address, amount *big.Int) error {
	_, err := l.Execute(func(tx *Tx) error {
		return tx.ApproveToken(tokenAddr, owner, spender, amount)
	})
	return err
}

func (l *Ledger) TokenBalance(tokenAddr, owner common.Address) (*big.Int, error) {
	var balance *big.Int
	err := l.View(func(v *View) (err error) {
		balance, err = v.TokenBalance(tokenAddr, owner)
		return err
	})
	return balance, err
}

func (l *Ledger) OwnerOf(collectionAddr common.Address, tokenId uint64) (common.Address, error) {
	var owner common.Address
	err := l.View(func(v *View) (err error) {
		owner, err = v.OwnerOf(collectionAddr, tokenId)
		return err
	})
	return owner, err
}

func (l *Ledger) Approve(collectionAddr, caller, spender common.Address, tokenId uint64) error {
	_, err := l.Execute(func(tx *Tx) error {
		return tx.Approve(collectionAddr, caller, spender, tokenId)
	})
	return err
}

func (l *Ledger) SetApprovalForAll(collectionAddr, owner, operator common.Address, approved bool) error {
	_, err := l.Execute(func(tx *Tx) error {
		return tx.SetApprovalForAll(collectionAddr, owner, operator, approved)
	})
	return err
}

func (l *Ledger) TransferAsset(collectionAddr, spender, from, to common.Address, tokenId uint64) error {
	_, err := l.Execute(func(tx *Tx) error {
		return tx.TransferAsset(collectionAddr, spender, from, to, tokenId)
	})
	return err
}
