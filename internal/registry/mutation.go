package registry

import (
	"fmt"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/ledger"
	"github.com/ZilDuck/lazy-marketplace/internal/order"
	"github.com/ZilDuck/lazy-marketplace/internal/typeddata"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

type UpdateRequest struct {
	TokenId   uint64        `json:"tokenId"`
	Deltas    entity.Skills `json:"skills"`
	IpfsHash  string        `json:"ipfsHash"`
	Signature hexutil.Bytes `json:"signature"`
}

type BreedRequest struct {
	FirstParentTokenId  uint64        `json:"firstParentTokenId"`
	SecondParentTokenId uint64        `json:"secondParentTokenId"`
	ChildTokenId        uint64        `json:"childTokenId"`
	ChildNftIpfsHash    string        `json:"childNftIpfsHash"`
	Skills              entity.Skills `json:"childSkills"`
	UnspentSkills       uint64        `json:"unspentSkills"`
	Signature           hexutil.Bytes `json:"signature"`
}

// Update spends unspent skill points on the levels in req.Deltas. The
// signature covers the levels and unspent points the asset ends up with.
func (r *Registry) Update(sender common.Address, req UpdateRequest) (*ledger.Receipt, error) {
	return r.ledger.Execute(func(tx *ledger.Tx) error {
		if err := r.pause.WhenNotPaused(); err != nil {
			return err
		}

		owner, err := r.ownerOf(tx.View, req.TokenId)
		if err != nil {
			return err
		}
		if owner != sender {
			return entity.ErrNotNftOwner
		}

		current := *r.assets[req.TokenId]
		if current.locked {
			return entity.ErrAssetLocked
		}

		spent, ok := req.Deltas.Sum()
		if !ok || spent > current.unspentSkills {
			return entity.ErrNotEnoughSkills
		}
		skills, ok := current.skills.Add(req.Deltas)
		if !ok {
			return entity.ErrInvalidOrder
		}

		next := record{
			ipfsHash:      req.IpfsHash,
			skills:        skills,
			unspentSkills: current.unspentSkills - spent,
			locked:        current.locked,
		}
		o := order.Update{
			TokenId:       req.TokenId,
			IpfsHash:      next.ipfsHash,
			Skills:        next.skills,
			UnspentSkills: next.unspentSkills,
		}
		if err := r.verify(o.Digest, req.Signature); err != nil {
			return err
		}

		r.set(tx, req.TokenId, next)
		tx.Emit(entity.NewNftUpdated(r.asset(req.TokenId, owner)))

		zap.L().With(
			zap.Uint64("tokenId", req.TokenId),
			zap.Uint64("spent", spent),
			zap.Uint64("unspent", next.unspentSkills),
		).Info("Registry: NFT updated")

		return nil
	})
}

// Breed mints a child of two assets owned by sender. The parents are left
// unchanged.
func (r *Registry) Breed(sender common.Address, req BreedRequest) (*ledger.Receipt, error) {
	return r.ledger.Execute(func(tx *ledger.Tx) error {
		if err := r.pause.WhenNotPaused(); err != nil {
			return err
		}

		for _, parent := range []uint64{req.FirstParentTokenId, req.SecondParentTokenId} {
			owner, err := r.ownerOf(tx.View, parent)
			if err != nil {
				return err
			}
			if owner != sender {
				return entity.ErrNotNftOwner
			}
		}
		if req.FirstParentTokenId == req.SecondParentTokenId {
			return entity.ErrSameParents
		}
		if tx.Exists(r.address, req.ChildTokenId) {
			return entity.ErrAlreadyMinted
		}

		o := order.Breed{
			FirstParentTokenId:  req.FirstParentTokenId,
			SecondParentTokenId: req.SecondParentTokenId,
			ChildTokenId:        req.ChildTokenId,
			ChildNftIpfsHash:    req.ChildNftIpfsHash,
			Skills:              req.Skills,
			UnspentSkills:       req.UnspentSkills,
		}
		if err := r.verify(o.Digest, req.Signature); err != nil {
			return err
		}

		child, err := r.mint(tx, sender, req.ChildTokenId, req.ChildNftIpfsHash, req.Skills, req.UnspentSkills)
		if err != nil {
			return err
		}
		tx.Emit(entity.NewNftMinted(child))
		tx.Emit(entity.NewNftBreeded(sender, req.FirstParentTokenId, req.SecondParentTokenId, req.ChildTokenId))

		zap.L().With(
			zap.Uint64("firstParent", req.FirstParentTokenId),
			zap.Uint64("secondParent", req.SecondParentTokenId),
			zap.Uint64("child", req.ChildTokenId),
		).Info("Registry: NFT breeded")

		return nil
	})
}

func (r *Registry) verify(digest func(typeddata.Domain) (common.Hash, error), sig []byte) error {
	hash, err := digest(r.domain)
	if err != nil {
		return fmt.Errorf("%w: %s", entity.ErrInvalidOrder, err)
	}

	return r.authority.Verify(hash, sig)
}
