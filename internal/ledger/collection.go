package ledger

import (
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
)

func (tx *Tx) RegisterCollection(addr common.Address, guard TransferGuard) {
	if c, ok := tx.l.collections[addr]; ok {
		previous := c.guard
		c.guard = guard
		tx.OnRollback(func() { c.guard = previous })
		return
	}

	tx.l.collections[addr] = &collection{
		owners:    make(map[uint64]common.Address),
		approvals: make(map[uint64]common.Address),
		operators: make(map[common.Address]map[common.Address]bool),
		guard:     guard,
	}
	tx.OnRollback(func() { delete(tx.l.collections, addr) })
}

func (v *View) getCollection(addr common.Address) (*collection, error) {
	c, ok := v.l.collections[addr]
	if !ok {
		return nil, entity.ErrUnknownCollection
	}

	return c, nil
}

func (v *View) HasCollection(addr common.Address) bool {
	_, ok := v.l.collections[addr]
	return ok
}

func (v *View) OwnerOf(collectionAddr common.Address, tokenId uint64) (common.Address, error) {
	c, err := v.getCollection(collectionAddr)
	if err != nil {
		return common.Address{}, err
	}

	owner, ok := c.owners[tokenId]
	if !ok {
		return common.Address{}, entity.ErrNftNotFound
	}

	return owner, nil
}

func (v *View) Exists(collectionAddr common.Address, tokenId uint64) bool {
	_, err := v.OwnerOf(collectionAddr, tokenId)
	return err == nil
}

func (v *View) GetApproved(collectionAddr common.Address, tokenId uint64) (common.Address, error) {
	c, err := v.getCollection(collectionAddr)
	if err != nil {
		return common.Address{}, err
	}
	if _, ok := c.owners[tokenId]; !ok {
		return common.Address{}, entity.ErrNftNotFound
	}

	return c.approvals[tokenId], nil
}

func (v *View) IsApprovedForAll(collectionAddr, owner, operator common.Address) bool {
	c, err := v.getCollection(collectionAddr)
	if err != nil {
		return false
	}

	return c.operators[owner][operator]
}

// IsApproved reports whether spender may move the asset: it owns it, holds the
// single-token approval, or is an operator of the owner.
func (v *View) IsApproved(collectionAddr common.Address, tokenId uint64, spender common.Address) bool {
	c, err := v.getCollection(collectionAddr)
	if err != nil {
		return false
	}
	owner, ok := c.owners[tokenId]
	if !ok {
		return false
	}

	return owner == spender || c.approvals[tokenId] == spender || c.operators[owner][spender]
}

func (tx *Tx) MintAsset(collectionAddr, to common.Address, tokenId uint64) error {
	c, err := tx.getCollection(collectionAddr)
	if err != nil {
		return err
	}
	if _, ok := c.owners[tokenId]; ok {
		return entity.ErrAlreadyMinted
	}

	c.owners[tokenId] = to
	tx.OnRollback(func() { delete(c.owners, tokenId) })

	return nil
}

func (tx *Tx) Approve(collectionAddr, caller, spender common.Address, tokenId uint64) error {
	c, err := tx.getCollection(collectionAddr)
	if err != nil {
		return err
	}
	owner, ok := c.owners[tokenId]
	if !ok {
		return entity.ErrNftNotFound
	}
	if caller != owner && !c.operators[owner][caller] {
		return entity.ErrNotOwner
	}

	tx.setApproval(c, tokenId, spender)

	return nil
}

func (tx *Tx) SetApprovalForAll(collectionAddr, owner, operator common.Address, approved bool) error {
	c, err := tx.getCollection(collectionAddr)
	if err != nil {
		return err
	}

	operators, ok := c.operators[owner]
	if !ok {
		operators = make(map[common.Address]bool)
		c.operators[owner] = operators
		tx.OnRollback(func() { delete(c.operators, owner) })
	}
	previous, existed := operators[operator]
	operators[operator] = approved
	tx.OnRollback(func() {
		if existed {
			operators[operator] = previous
		} else {
			delete(operators, operator)
		}
	})

	return nil
}

// TransferAsset moves custody of an asset from -> to on behalf of spender. The
// single-token approval is cleared and the collection guard is consulted.
func (tx *Tx) TransferAsset(collectionAddr, spender, from, to common.Address, tokenId uint64) error {
	c, err := tx.getCollection(collectionAddr)
	if err != nil {
		return err
	}
	owner, ok := c.owners[tokenId]
	if !ok {
		return entity.ErrNftNotFound
	}
	if owner != from {
		return entity.ErrNotOwner
	}
	if !tx.IsApproved(collectionAddr, tokenId, spender) {
		return entity.ErrNotApproved
	}
	if c.guard != nil {
		if err := c.guard(from, to, tokenId); err != nil {
			return err
		}
	}

	tx.setApproval(c, tokenId, common.Address{})
	c.owners[tokenId] = to
	tx.OnRollback(func() { c.owners[tokenId] = owner })

	return nil
}

func (tx *Tx) setApproval(c *collection, tokenId uint64, spender common.Address) {
	previous, existed := c.approvals[tokenId]
	if spender == (common.Address{}) {
		delete(c.approvals, tokenId)
	} else {
		c.approvals[tokenId] = spender
	}
	tx.OnRollback(func() {
		if existed {
			c.approvals[tokenId] = previous
		} else {
			delete(c.approvals, tokenId)
		}
	})
}
