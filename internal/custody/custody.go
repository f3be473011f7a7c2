package custody

import (
	"bytes"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"sort"
)

// Custody holds listed assets in escrow. A listing exists exactly as long as
// the escrow owns the asset on the ledger.
type Custody struct {
	escrow   common.Address
	listings map[entity.AssetRef]common.Address
}

func New(escrow common.Address) *Custody {
	return &Custody{
		escrow:   escrow,
		listings: make(map[entity.AssetRef]common.Address),
	}
}

func (c *Custody) Escrow() common.Address {
	return c.escrow
}

func (c *Custody) List(tx *ledger.Tx, ref entity.AssetRef, caller common.Address) (entity.Listing, error) {
	if _, ok := c.listings[ref]; ok {
		return entity.Listing{}, entity.ErrAlreadyListed
	}

	owner, err := tx.OwnerOf(ref.Collection, ref.TokenId)
	if err != nil {
		return entity.Listing{}, err
	}
	if owner != caller {
		return entity.Listing{}, entity.ErrNotOwner
	}
	if !tx.IsApproved(ref.Collection, ref.TokenId, c.escrow) {
		return entity.Listing{}, entity.ErrNotApproved
	}
	if err := tx.TransferAsset(ref.Collection, c.escrow, owner, c.escrow, ref.TokenId); err != nil {
		return entity.Listing{}, err
	}

	c.put(tx, ref, owner)

	return listing(ref, owner), nil
}

func (c *Custody) Cancel(tx *ledger.Tx, ref entity.AssetRef, caller common.Address) (entity.Listing, error) {
	owner, ok := c.listings[ref]
	if !ok {
		return entity.Listing{}, entity.ErrNoListing
	}
	if owner != caller {
		return entity.Listing{}, entity.ErrNotOwner
	}
	if err := tx.TransferAsset(ref.Collection, c.escrow, c.escrow, owner, ref.TokenId); err != nil {
		return entity.Listing{}, err
	}

	c.remove(tx, ref)

	return listing(ref, owner), nil
}

// Settle releases the asset to buyer. It returns the listing as it was, so the
// caller knows the previous owner.
func (c *Custody) Settle(tx *ledger.Tx, ref entity.AssetRef, buyer common.Address) (entity.Listing, error) {
	owner, ok := c.listings[ref]
	if !ok {
		return entity.Listing{}, entity.ErrNoListing
	}
	if err := tx.TransferAsset(ref.Collection, c.escrow, c.escrow, buyer, ref.TokenId); err != nil {
		return entity.Listing{}, err
	}

	c.remove(tx, ref)

	return listing(ref, owner), nil
}

func (c *Custody) Listing(_ *ledger.View, ref entity.AssetRef) (entity.Listing, bool) {
	owner, ok := c.listings[ref]
	if !ok {
		return entity.Listing{}, false
	}
	return listing(ref, owner), true
}

func (c *Custody) Listings(_ *ledger.View) []entity.Listing {
	listings := make([]entity.Listing, 0, len(c.listings))
	for ref, owner := range c.listings {
		listings = append(listings, listing(ref, owner))
	}
	sort.Slice(listings, func(i, j int) bool {
		if cmp := bytes.Compare(listings[i].Collection.Bytes(), listings[j].Collection.Bytes()); cmp != 0 {
			return cmp < 0
		}
		return listings[i].TokenId < listings[j].TokenId
	})

	return listings
}

func (c *Custody) put(tx *ledger.Tx, ref entity.AssetRef, owner common.Address) {
	c.listings[ref] = owner
	tx.OnRollback(func() { delete(c.listings, ref) })
}

func (c *Custody) remove(tx *ledger.Tx, ref entity.AssetRef) {
	owner := c.listings[ref]
	delete(c.listings, ref)
	tx.OnRollback(func() { c.listings[ref] = owner })
}

func listing(ref entity.AssetRef, owner common.Address) entity.Listing {
	return entity.Listing{Collection: ref.Collection, TokenId: ref.TokenId, Owner: owner}
}
