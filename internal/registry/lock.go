package registry

import (
	"github.com/ZilDuck/lazy-marketplace/internal/access"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Lock reserves an asset for exclusive game use. Only the asset owner and
// holders of LockerRole may lock or unlock. An asset held by a custodian is
// listed and cannot be locked until it leaves custody.
func (r *Registry) Lock(sender common.Address, tokenId uint64) (*ledger.Receipt, error) {
	return r.setLocked(sender, tokenId, true)
}

func (r *Registry) Unlock(sender common.Address, tokenId uint64) (*ledger.Receipt, error) {
	return r.setLocked(sender, tokenId, false)
}

func (r *Registry) IsLocked(tokenId uint64) (bool, error) {
	asset, err := r.Asset(tokenId)
	if err != nil {
		return false, err
	}
	return asset.Locked, nil
}

func (r *Registry) setLocked(sender common.Address, tokenId uint64, locked bool) (*ledger.Receipt, error) {
	return r.ledger.Execute(func(tx *ledger.Tx) error {
		owner, err := r.ownerOf(tx.View, tokenId)
		if err != nil {
			return err
		}
		if sender != owner && !r.roles.HasRole(access.LockerRole, sender) {
			return entity.ErrLockNotAccessible
		}
		if _, held := r.custodians[owner]; held && locked {
			return entity.ErrAlreadyListed
		}

		next := *r.assets[tokenId]
		if next.locked == locked {
			return nil
		}
		next.locked = locked
		r.set(tx, tokenId, next)
		tx.Emit(entity.NewNftLockChanged(tokenId, sender, locked))

		zap.L().With(
			zap.Uint64("tokenId", tokenId),
			zap.String("by", sender.Hex()),
			zap.Bool("locked", locked),
		).Info("Registry: Lock changed")

		return nil
	})
}
