package marketplace

import (
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

func (e *Engine) ListItem(sender, collection common.Address, tokenId uint64) (*ledger.Receipt, error) {
	return e.ledger.Execute(func(tx *ledger.Tx) error {
		return e.listItem(tx, sender, entity.AssetRef{Collection: collection, TokenId: tokenId})
	})
}

func (e *Engine) ListBatch(sender, collection common.Address, tokenIds []uint64) (BatchResult, error) {
	if len(tokenIds) == 0 {
		return nil, entity.ErrEmptyBatch
	}

	results := make(BatchResult, len(tokenIds))
	for i, tokenId := range tokenIds {
		results[i].Receipt, results[i].Err = e.ListItem(sender, collection, tokenId)
	}
	e.logBatch("ListBatch", results)

	return results, nil
}

func (e *Engine) CancelListing(sender, collection common.Address, tokenId uint64) (*ledger.Receipt, error) {
	return e.ledger.Execute(func(tx *ledger.Tx) error {
		return e.cancelListing(tx, sender, entity.AssetRef{Collection: collection, TokenId: tokenId})
	})
}

func (e *Engine) BatchCancelListing(sender, collection common.Address, tokenIds []uint64) (BatchResult, error) {
	if len(tokenIds) == 0 {
		return nil, entity.ErrEmptyBatch
	}

	results := make(BatchResult, len(tokenIds))
	for i, tokenId := range tokenIds {
		results[i].Receipt, results[i].Err = e.CancelListing(sender, collection, tokenId)
	}
	e.logBatch("BatchCancelListing", results)

	return results, nil
}

func (e *Engine) listItem(tx *ledger.Tx, sender common.Address, ref entity.AssetRef) error {
	if err := e.pause.WhenNotPaused(); err != nil {
		return err
	}
	if _, ok := e.collections[ref.Collection]; !ok {
		return entity.ErrCollectionUnavailable
	}

	listing, err := e.custody.List(tx, ref, sender)
	if err != nil {
		return err
	}
	tx.Emit(entity.NewItemListed(listing))

	zap.L().With(
		zap.String("collection", ref.Collection.Hex()),
		zap.Uint64("tokenId", ref.TokenId),
		zap.String("owner", sender.Hex()),
	).Info("Marketplace: Item listed")

	return nil
}

func (e *Engine) cancelListing(tx *ledger.Tx, sender common.Address, ref entity.AssetRef) error {
	if err := e.pause.WhenNotPaused(); err != nil {
		return err
	}

	listing, err := e.custody.Cancel(tx, ref, sender)
	if err != nil {
		return err
	}
	tx.Emit(entity.NewListingCanceled(listing))

	zap.L().With(
		zap.String("collection", ref.Collection.Hex()),
		zap.Uint64("tokenId", ref.TokenId),
	).Info("Marketplace: Listing canceled")

	return nil
}

func (e *Engine) logBatch(name string, results BatchResult) {
	for _, failure := range results.Failures(name) {
		zap.L().With(
			zap.String("operation", failure.Name),
			zap.String("error", failure.Error),
			zap.Any("extra", failure.Extra),
		).Warn("Marketplace: Batch element failed")
	}
}
