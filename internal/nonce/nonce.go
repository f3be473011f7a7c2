package nonce

import (
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"math/big"
)

// Scope is the namespace a nonce is unique in: the verifying entity and the
// signer that issued the order.
type Scope struct {
	Domain common.Address
	Signer common.Address
}

// Guard records consumed nonces. Records are permanent. The guard is only
// read or written under the ledger lock, through a View or a Tx.
type Guard struct {
	used map[Scope]map[common.Hash]struct{}
}

func NewGuard() *Guard {
	return &Guard{used: make(map[Scope]map[common.Hash]struct{})}
}

// Consume checks the deadline and marks (scope, nonce) used as part of tx, so
// that a later failure in the same unit of work releases the nonce again.
func (g *Guard) Consume(tx *ledger.Tx, scope Scope, nonce *big.Int, deadline uint64) error {
	if nonce == nil || nonce.Sign() < 0 {
		return entity.ErrInvalidOrder
	}
	if expired(tx.View, deadline) {
		return entity.ErrOrderExpired
	}

	key := common.BigToHash(nonce)
	nonces, ok := g.used[scope]
	if !ok {
		nonces = make(map[common.Hash]struct{})
		g.used[scope] = nonces
	}
	if _, ok := nonces[key]; ok {
		return entity.ErrAlreadyUsed
	}

	nonces[key] = struct{}{}
	tx.OnRollback(func() { delete(nonces, key) })

	return nil
}

func (g *Guard) IsUsed(v *ledger.View, scope Scope, nonce *big.Int) bool {
	if nonce == nil {
		return false
	}
	_, ok := g.used[scope][common.BigToHash(nonce)]

	return ok
}

func expired(v *ledger.View, deadline uint64) bool {
	now := v.Now().Unix()

	return now > 0 && uint64(now) > deadline
}
