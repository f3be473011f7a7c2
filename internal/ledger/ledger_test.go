package ledger

import (
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/event"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice      = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob        = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	escrow     = common.HexToAddress("0x000000000000000000000000000000000000e5c0")
	nftAddr    = common.HexToAddress("0x0000000000000000000000000000000000000421")
	currency   = common.HexToAddress("0x0000000000000000000000000000000000000020")
	fixedClock = func() time.Time { return time.Unix(1_700_000_000, 0) }
)

func assertAmount(t *testing.T, want int64, got *big.Int) {
	t.Helper()
	assert.Zero(t, big.NewInt(want).Cmp(got), "want %d, got %s", want, got)
}

func TestExecute_RollsBackEveryMutationOnError(t *testing.T) {
	l := New(fixedClock, nil)
	require.NoError(t, l.Credit(alice, big.NewInt(100)))
	l.DeployToken(currency)
	require.NoError(t, l.MintToken(currency, alice, big.NewInt(50)))

	_, _ = l.Execute(func(tx *Tx) error {
		tx.RegisterCollection(nftAddr, nil)
		return nil
	})
	_, _ = l.Execute(func(tx *Tx) error {
		return tx.MintAsset(nftAddr, alice, 7)
	})

	custom := map[string]int{"k": 1}
	boom := errors.New("boom")
	_, err := l.Execute(func(tx *Tx) error {
		require.NoError(t, tx.TransferNative(alice, bob, big.NewInt(60)))
		require.NoError(t, tx.ApproveToken(currency, alice, escrow, big.NewInt(50)))
		require.NoError(t, tx.TransferTokenFrom(currency, escrow, alice, bob, big.NewInt(20)))
		require.NoError(t, tx.Approve(nftAddr, alice, escrow, 7))
		require.NoError(t, tx.TransferAsset(nftAddr, escrow, alice, bob, 7))

		custom["k"] = 2
		tx.OnRollback(func() { custom["k"] = 1 })
		tx.Emit(entity.NewItemListed(entity.Listing{Collection: nftAddr, TokenId: 7, Owner: alice}))

		return boom
	})
	require.ErrorIs(t, err, boom)

	assertAmount(t, 100, l.NativeBalance(alice))
	assertAmount(t, 0, l.NativeBalance(bob))
	balance, err := l.TokenBalance(currency, alice)
	require.NoError(t, err)
	assertAmount(t, 50, balance)
	owner, err := l.OwnerOf(nftAddr, 7)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
	assert.Equal(t, 1, custom["k"])

	_ = l.View(func(v *View) error {
		allowance, err := v.Allowance(currency, alice, escrow)
		require.NoError(t, err)
		assert.Equal(t, 0, allowance.Sign())
		assert.False(t, v.IsApproved(nftAddr, 7, escrow))
		return nil
	})
}

func TestExecute_RollsBackOnPanic(t *testing.T) {
	l := New(fixedClock, nil)
	require.NoError(t, l.Credit(alice, big.NewInt(10)))

	assert.Panics(t, func() {
		_, _ = l.Execute(func(tx *Tx) error {
			_ = tx.TransferNative(alice, bob, big.NewInt(10))
			panic("unexpected")
		})
	})

	assertAmount(t, 10, l.NativeBalance(alice))
	require.NoError(t, l.Credit(bob, big.NewInt(1)), "ledger must stay usable after a panic")
}

func TestExecute_StampsAndDispatchesEventsOnCommit(t *testing.T) {
	events := event.NewManager()
	defer events.Close()

	var mu sync.Mutex
	delivered := make([]entity.Event, 0)
	events.AddEventListener(event.ItemListedEvent, func(msg interface{}) {
		mu.Lock()
		delivered = append(delivered, msg.(entity.Event))
		mu.Unlock()
	})

	l := New(fixedClock, events)
	receipt, err := l.Execute(func(tx *Tx) error {
		tx.Emit(entity.NewItemListed(entity.Listing{Collection: nftAddr, TokenId: 1, Owner: alice}))
		tx.Emit(entity.NewItemListed(entity.Listing{Collection: nftAddr, TokenId: 2, Owner: alice}))
		return nil
	})
	require.NoError(t, err)
	events.Wait()

	require.Len(t, receipt.Events, 2)
	assert.NotEmpty(t, receipt.ID)
	assert.Equal(t, fixedClock(), receipt.Time)
	assert.NotEqual(t, receipt.Events[0].Slug(), receipt.Events[1].Slug())

	listed := receipt.Events[1].(*entity.ItemListed)
	assert.Equal(t, receipt.ID, listed.TxID)
	assert.Equal(t, 1, listed.LogIndex)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, delivered, 2)
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	l := New(fixedClock, nil)
	l.DeployToken(currency)
	require.NoError(t, l.Credit(alice, big.NewInt(5)))
	require.NoError(t, l.MintToken(currency, alice, big.NewInt(5)))

	_, err := l.Execute(func(tx *Tx) error {
		return tx.TransferNative(alice, bob, big.NewInt(6))
	})
	assert.ErrorIs(t, err, entity.ErrInsufficientBalance)

	_, err = l.Execute(func(tx *Tx) error {
		return tx.TransferTokenFrom(currency, escrow, alice, bob, big.NewInt(1))
	})
	assert.ErrorIs(t, err, entity.ErrInsufficientAllowance)

	_, err = l.Execute(func(tx *Tx) error {
		return tx.TransferNative(alice, bob, big.NewInt(-1))
	})
	assert.ErrorIs(t, err, entity.ErrInvalidAmount)
}

func TestTransferAsset_RequiresApprovalAndGuard(t *testing.T) {
	l := New(fixedClock, nil)
	locked := map[uint64]bool{1: true}
	_, err := l.Execute(func(tx *Tx) error {
		tx.RegisterCollection(nftAddr, func(from, to common.Address, tokenId uint64) error {
			if locked[tokenId] {
				return entity.ErrAssetLocked
			}
			return nil
		})
		if err := tx.MintAsset(nftAddr, alice, 1); err != nil {
			return err
		}
		return tx.MintAsset(nftAddr, alice, 2)
	})
	require.NoError(t, err)

	assert.ErrorIs(t, l.TransferAsset(nftAddr, escrow, alice, escrow, 2), entity.ErrNotApproved)
	assert.ErrorIs(t, l.Approve(nftAddr, bob, escrow, 2), entity.ErrNotOwner)

	require.NoError(t, l.Approve(nftAddr, alice, escrow, 1))
	assert.ErrorIs(t, l.TransferAsset(nftAddr, escrow, alice, escrow, 1), entity.ErrAssetLocked)

	require.NoError(t, l.SetApprovalForAll(nftAddr, alice, escrow, true))
	require.NoError(t, l.TransferAsset(nftAddr, escrow, alice, bob, 2))
	owner, err := l.OwnerOf(nftAddr, 2)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)

	assert.ErrorIs(t, l.TransferAsset(nftAddr, escrow, alice, bob, 2), entity.ErrNotOwner)
	_, err = l.OwnerOf(nftAddr, 99)
	assert.ErrorIs(t, err, entity.ErrNftNotFound)
	_, err = l.Execute(func(tx *Tx) error { return tx.MintAsset(nftAddr, bob, 1) })
	assert.ErrorIs(t, err, entity.ErrAlreadyMinted)
}

func TestExecute_SerializesConcurrentUnits(t *testing.T) {
	l := New(fixedClock, nil)
	require.NoError(t, l.Credit(alice, big.NewInt(1000)))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.Execute(func(tx *Tx) error {
				return tx.TransferNative(alice, bob, big.NewInt(15))
			})
		}()
	}
	wg.Wait()

	// 66 transfers fit in 1000, the remainder must fail cleanly.
	assertAmount(t, 10, l.NativeBalance(alice))
	assertAmount(t, 990, l.NativeBalance(bob))
}
