package marketplace

import (
	"fmt"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/fees"
	"github.com/ZilDuck/lazy-marketplace/internal/ledger"
	"github.com/ZilDuck/lazy-marketplace/internal/order"
	"github.com/ZilDuck/lazy-marketplace/internal/typeddata"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
	"math/big"
)

// BuyItemRequest is what a buyer submits for a listed asset. The buyer and
// the listing owner complete the signed order.
type BuyItemRequest struct {
	Collection common.Address  `json:"collection"`
	TokenId    uint64          `json:"tokenId"`
	Price      *big.Int        `json:"price"`
	Fee        *big.Int        `json:"fee"`
	Currency   entity.Currency `json:"currency"`
	Deadline   uint64          `json:"deadline"`
	Nonce      *big.Int        `json:"nonce"`
	Signature  hexutil.Bytes   `json:"signature"`
}

type BuyInGameAssetRequest struct {
	Owner      common.Address  `json:"owner"`
	TransferId *big.Int        `json:"transferId"`
	Currency   entity.Currency `json:"currency"`
	Price      *big.Int        `json:"price"`
	Fee        *big.Int        `json:"fee"`
	Deadline   uint64          `json:"deadline"`
	Nonce      *big.Int        `json:"nonce"`
	Signature  hexutil.Bytes   `json:"signature"`
}

// BuyItem settles a listing for buyer. value is the native amount attached to
// the call, only price+fee of it is collected.
func (e *Engine) BuyItem(buyer common.Address, value *big.Int, req BuyItemRequest) (*ledger.Receipt, error) {
	return e.ledger.Execute(func(tx *ledger.Tx) error {
		_, err := e.buyItem(tx, buyer, value, req)
		return err
	})
}

// BatchBuyItem settles each request in its own unit of work. The attached
// value is spent in request order.
func (e *Engine) BatchBuyItem(buyer common.Address, value *big.Int, reqs []BuyItemRequest) (BatchResult, error) {
	if len(reqs) == 0 {
		return nil, entity.ErrEmptyBatch
	}

	remaining := valueOrZero(value)
	results := make(BatchResult, len(reqs))
	for i, req := range reqs {
		var spent *big.Int
		results[i].Receipt, results[i].Err = e.ledger.Execute(func(tx *ledger.Tx) (err error) {
			spent, err = e.buyItem(tx, buyer, remaining, req)
			return err
		})
		if results[i].Err == nil {
			remaining = new(big.Int).Sub(remaining, spent)
		}
	}
	e.logBatch("BatchBuyItem", results)

	return results, nil
}

func (e *Engine) BuyInGameAsset(buyer common.Address, value *big.Int, req BuyInGameAssetRequest) (*ledger.Receipt, error) {
	return e.ledger.Execute(func(tx *ledger.Tx) error {
		_, err := e.buyInGameAsset(tx, buyer, value, req)
		return err
	})
}

func (e *Engine) BatchBuyInGameAsset(buyer common.Address, value *big.Int, reqs []BuyInGameAssetRequest) (BatchResult, error) {
	if len(reqs) == 0 {
		return nil, entity.ErrEmptyBatch
	}

	remaining := valueOrZero(value)
	results := make(BatchResult, len(reqs))
	for i, req := range reqs {
		var spent *big.Int
		results[i].Receipt, results[i].Err = e.ledger.Execute(func(tx *ledger.Tx) (err error) {
			spent, err = e.buyInGameAsset(tx, buyer, remaining, req)
			return err
		})
		if results[i].Err == nil {
			remaining = new(big.Int).Sub(remaining, spent)
		}
	}
	e.logBatch("BatchBuyInGameAsset", results)

	return results, nil
}

func (e *Engine) buyItem(tx *ledger.Tx, buyer common.Address, value *big.Int, req BuyItemRequest) (*big.Int, error) {
	if err := e.pause.WhenNotPaused(); err != nil {
		return nil, err
	}
	if err := validateAmounts(req.Currency, req.Price, req.Fee); err != nil {
		return nil, err
	}

	scope := e.scope()
	if err := e.nonces.Consume(tx, scope, req.Nonce, req.Deadline); err != nil {
		return nil, err
	}

	ref := entity.AssetRef{Collection: req.Collection, TokenId: req.TokenId}
	listing, ok := e.custody.Listing(tx.View, ref)
	if !ok {
		return nil, entity.ErrNoListing
	}

	o := order.BuyItem{
		Buyer:      buyer,
		Owner:      listing.Owner,
		Collection: req.Collection,
		TokenId:    req.TokenId,
		Price:      req.Price,
		Fee:        req.Fee,
		Currency:   req.Currency,
		Deadline:   req.Deadline,
		Nonce:      req.Nonce,
	}
	if err := e.verify(o.Digest, req.Signature); err != nil {
		return nil, err
	}

	collected, err := e.pay(tx, buyer, listing.Owner, value, req.Price, req.Fee, req.Currency)
	if err != nil {
		return nil, err
	}
	if _, err := e.custody.Settle(tx, ref, buyer); err != nil {
		return nil, err
	}
	tx.Emit(entity.NewItemBought(listing, buyer, req.Price, req.Fee, req.Currency))

	zap.L().With(
		zap.String("collection", ref.Collection.Hex()),
		zap.Uint64("tokenId", ref.TokenId),
		zap.String("buyer", buyer.Hex()),
		zap.String("owner", listing.Owner.Hex()),
		zap.String("price", req.Price.String()),
		zap.String("currency", req.Currency.String()),
	).Info("Marketplace: Item bought")

	return collected, nil
}

func (e *Engine) buyInGameAsset(tx *ledger.Tx, buyer common.Address, value *big.Int, req BuyInGameAssetRequest) (*big.Int, error) {
	if err := e.pause.WhenNotPaused(); err != nil {
		return nil, err
	}
	if err := validateAmounts(req.Currency, req.Price, req.Fee); err != nil {
		return nil, err
	}
	if req.TransferId == nil || req.TransferId.Sign() < 0 {
		return nil, entity.ErrInvalidOrder
	}

	if err := e.nonces.Consume(tx, e.scope(), req.Nonce, req.Deadline); err != nil {
		return nil, err
	}

	o := order.BuyInGameAsset{
		Buyer:      buyer,
		Owner:      req.Owner,
		TransferId: req.TransferId,
		Currency:   req.Currency,
		Price:      req.Price,
		Fee:        req.Fee,
		Deadline:   req.Deadline,
		Nonce:      req.Nonce,
	}
	if err := e.verify(o.Digest, req.Signature); err != nil {
		return nil, err
	}

	collected, err := e.pay(tx, buyer, req.Owner, value, req.Price, req.Fee, req.Currency)
	if err != nil {
		return nil, err
	}
	tx.Emit(entity.NewInGameAssetSold(buyer, req.Owner, req.TransferId, req.Price, req.Fee, req.Currency))

	zap.L().With(
		zap.String("buyer", buyer.Hex()),
		zap.String("owner", req.Owner.Hex()),
		zap.String("transferId", req.TransferId.String()),
	).Info("Marketplace: In-game asset sold")

	return collected, nil
}

func (e *Engine) verify(digest func(typeddata.Domain) (common.Hash, error), sig []byte) error {
	hash, err := digest(e.domain)
	if err != nil {
		return fmt.Errorf("%w: %s", entity.ErrInvalidOrder, err)
	}

	return e.authority.Verify(hash, sig)
}

// pay collects price+fee from buyer and distributes it to seller and the fee
// wallets. Native payments come out of the attached value, token payments
// are pulled by the escrow through the buyer's allowance. It returns the part
// of the attached value that was collected.
func (e *Engine) pay(tx *ledger.Tx, buyer, seller common.Address, value, price, fee *big.Int, currency entity.Currency) (*big.Int, error) {
	value = valueOrZero(value)

	switch currency {
	case entity.NativeCurrency:
		if tx.NativeBalance(buyer).Cmp(value) < 0 {
			return nil, entity.ErrInsufficientBalance
		}
		d, err := fees.Split(value, price, fee, e.feeWallets)
		if err != nil {
			return nil, err
		}
		if err := e.distribute(d, seller, func(to common.Address, amount *big.Int) error {
			return tx.TransferNative(buyer, to, amount)
		}); err != nil {
			return nil, err
		}
		return d.Total(), nil

	case entity.TokenCurrency:
		if value.Sign() != 0 {
			return nil, entity.ErrUnexpectedValue
		}
		d, err := fees.Split(new(big.Int).Add(price, fee), price, fee, e.feeWallets)
		if err != nil {
			return nil, err
		}
		escrow := e.Address()
		if err := e.distribute(d, seller, func(to common.Address, amount *big.Int) error {
			return tx.TransferTokenFrom(e.currency, escrow, buyer, to, amount)
		}); err != nil {
			return nil, err
		}
		return new(big.Int), nil
	}

	return nil, entity.ErrInvalidOrder
}

func (e *Engine) distribute(d *fees.Distribution, seller common.Address, transfer func(to common.Address, amount *big.Int) error) error {
	if err := transfer(seller, d.Seller); err != nil {
		return err
	}
	for _, share := range d.Fees {
		if err := transfer(share.Wallet, share.Amount); err != nil {
			return err
		}
	}
	return nil
}

func validateAmounts(currency entity.Currency, price, fee *big.Int) error {
	if !currency.Valid() {
		return entity.ErrInvalidOrder
	}
	if price == nil || fee == nil || price.Sign() < 0 || fee.Sign() < 0 {
		return entity.ErrInvalidAmount
	}
	return nil
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
