package custody

import (
	"errors"
	"testing"

	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	seller     = common.HexToAddress("0x0000000000000000000000000000000000005e11")
	buyer      = common.HexToAddress("0x000000000000000000000000000000000000b0e7")
	escrow     = common.HexToAddress("0x000000000000000000000000000000000000e5c0")
	collection = common.HexToAddress("0x0000000000000000000000000000000000000421")
	ref        = entity.AssetRef{Collection: collection, TokenId: 1}
)

func setup(t *testing.T) (*ledger.Ledger, *Custody) {
	l := ledger.New(nil, nil)
	_, err := l.Execute(func(tx *ledger.Tx) error {
		tx.RegisterCollection(collection, nil)
		return tx.MintAsset(collection, seller, 1)
	})
	require.NoError(t, err)

	return l, New(escrow)
}

func list(l *ledger.Ledger, c *Custody, caller common.Address) (listing entity.Listing, err error) {
	_, err = l.Execute(func(tx *ledger.Tx) (err error) {
		listing, err = c.List(tx, ref, caller)
		return err
	})
	return listing, err
}

func ownerOf(t *testing.T, l *ledger.Ledger) common.Address {
	owner, err := l.OwnerOf(collection, 1)
	require.NoError(t, err)
	return owner
}

func TestList_Preconditions(t *testing.T) {
	l, c := setup(t)

	_, err := list(l, c, seller)
	assert.ErrorIs(t, err, entity.ErrNotApproved)

	require.NoError(t, l.Approve(collection, seller, escrow, 1))
	_, err = list(l, c, buyer)
	assert.ErrorIs(t, err, entity.ErrNotOwner)

	listing, err := list(l, c, seller)
	require.NoError(t, err)
	assert.Equal(t, seller, listing.Owner)
	assert.Equal(t, escrow, ownerOf(t, l))

	_, err = list(l, c, seller)
	assert.ErrorIs(t, err, entity.ErrAlreadyListed)

	_, err = l.Execute(func(tx *ledger.Tx) error {
		_, err := c.List(tx, entity.AssetRef{Collection: collection, TokenId: 2}, seller)
		return err
	})
	assert.ErrorIs(t, err, entity.ErrNftNotFound)
}

func TestCancel_ReturnsCustody(t *testing.T) {
	l, c := setup(t)
	require.NoError(t, l.Approve(collection, seller, escrow, 1))
	_, err := list(l, c, seller)
	require.NoError(t, err)

	_, err = l.Execute(func(tx *ledger.Tx) error {
		_, err := c.Cancel(tx, ref, buyer)
		return err
	})
	assert.ErrorIs(t, err, entity.ErrNotOwner)

	_, err = l.Execute(func(tx *ledger.Tx) error {
		_, err := c.Cancel(tx, ref, seller)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, seller, ownerOf(t, l))

	_ = l.View(func(v *ledger.View) error {
		_, ok := c.Listing(v, ref)
		assert.False(t, ok)
		return nil
	})

	_, err = l.Execute(func(tx *ledger.Tx) error {
		_, err := c.Cancel(tx, ref, seller)
		return err
	})
	assert.ErrorIs(t, err, entity.ErrNoListing)

	// the escrow approval was consumed by the first listing
	_, err = list(l, c, seller)
	assert.ErrorIs(t, err, entity.ErrNotApproved)
	require.NoError(t, l.SetApprovalForAll(collection, seller, escrow, true))
	_, err = list(l, c, seller)
	assert.NoError(t, err)
}

func TestSettle(t *testing.T) {
	l, c := setup(t)
	require.NoError(t, l.SetApprovalForAll(collection, seller, escrow, true))
	_, err := list(l, c, seller)
	require.NoError(t, err)

	abort := errors.New("payment failed")
	_, err = l.Execute(func(tx *ledger.Tx) error {
		_, err := c.Settle(tx, ref, buyer)
		require.NoError(t, err)
		return abort
	})
	require.ErrorIs(t, err, abort)
	assert.Equal(t, escrow, ownerOf(t, l), "custody restored on rollback")

	var previous entity.Listing
	_, err = l.Execute(func(tx *ledger.Tx) (err error) {
		previous, err = c.Settle(tx, ref, buyer)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, seller, previous.Owner)
	assert.Equal(t, buyer, ownerOf(t, l))

	_, err = l.Execute(func(tx *ledger.Tx) error {
		_, err := c.Settle(tx, ref, buyer)
		return err
	})
	assert.ErrorIs(t, err, entity.ErrNoListing)

	_ = l.View(func(v *ledger.View) error {
		assert.Empty(t, c.Listings(v))
		return nil
	})
}
