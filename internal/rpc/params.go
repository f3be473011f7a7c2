package rpc

import (
	"encoding/json"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/ledger"
	"github.com/ZilDuck/lazy-marketplace/internal/marketplace"
	"github.com/ZilDuck/lazy-marketplace/internal/registry"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"math/big"
)

// Every state changing call names its sender in From. The daemon does not
// authenticate transport callers.

type ListParams struct {
	From       common.Address `json:"from"`
	Collection common.Address `json:"collection"`
	TokenId    uint64         `json:"tokenId"`
}

type ListBatchParams struct {
	From       common.Address `json:"from"`
	Collection common.Address `json:"collection"`
	TokenIds   []uint64       `json:"tokenIds"`
}

type BuyItemParams struct {
	From  common.Address             `json:"from"`
	Value *math.HexOrDecimal256      `json:"value,omitempty"`
	Order marketplace.BuyItemRequest `json:"order"`
}

type BatchBuyItemParams struct {
	From   common.Address               `json:"from"`
	Value  *math.HexOrDecimal256        `json:"value,omitempty"`
	Orders []marketplace.BuyItemRequest `json:"orders"`
}

type BuyInGameAssetParams struct {
	From  common.Address                    `json:"from"`
	Value *math.HexOrDecimal256             `json:"value,omitempty"`
	Order marketplace.BuyInGameAssetRequest `json:"order"`
}

type BatchBuyInGameAssetParams struct {
	From   common.Address                      `json:"from"`
	Value  *math.HexOrDecimal256               `json:"value,omitempty"`
	Orders []marketplace.BuyInGameAssetRequest `json:"orders"`
}

type ListingParams struct {
	Collection common.Address `json:"collection"`
	TokenId    uint64         `json:"tokenId"`
}

type NonceParams struct {
	Nonce *math.HexOrDecimal256 `json:"nonce"`
}

type UpdateParams struct {
	From    common.Address         `json:"from"`
	Request registry.UpdateRequest `json:"request"`
}

type BreedParams struct {
	From    common.Address        `json:"from"`
	Request registry.BreedRequest `json:"request"`
}

type LockParams struct {
	From    common.Address `json:"from"`
	TokenId uint64         `json:"tokenId"`
}

type HistoryParams struct {
	Collection common.Address `json:"collection"`
	TokenId    uint64         `json:"tokenId"`
	Size       int            `json:"size"`
}

type TokenParams struct {
	TokenId uint64 `json:"tokenId"`
}

type CreditParams struct {
	Address common.Address        `json:"address"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

type BalanceParams struct {
	Address common.Address `json:"address"`
}

type MintParams struct {
	From          common.Address `json:"from"`
	To            common.Address `json:"to"`
	TokenId       uint64         `json:"tokenId"`
	IpfsHash      string         `json:"ipfsHash"`
	Skills        entity.Skills  `json:"skills"`
	UnspentSkills uint64         `json:"unspentSkills"`
}

type ApprovalParams struct {
	From     common.Address `json:"from"`
	Operator common.Address `json:"operator"`
	Approved bool           `json:"approved"`
}

type BatchElement struct {
	Receipt *Receipt  `json:"receipt,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

type BalanceResult struct {
	Address common.Address        `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type NonceResult struct {
	Used bool `json:"used"`
}

type LockResult struct {
	TokenId uint64 `json:"tokenId"`
	Locked  bool   `json:"locked"`
}

func toBig(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return (*big.Int)(v)
}

func toBatch(results marketplace.BatchResult) ([]BatchElement, error) {
	elements := make([]BatchElement, len(results))
	for i, res := range results {
		if res.Err != nil {
			elements[i].Error = toRPCError(res.Err)
			continue
		}
		receipt, err := toReceipt(res.Receipt)
		if err != nil {
			return nil, err
		}
		elements[i].Receipt = receipt
	}
	return elements, nil
}

// toReceipt converts a committed receipt into its wire form.
func toReceipt(r *ledger.Receipt) (*Receipt, error) {
	if r == nil {
		return nil, nil
	}

	receipt := &Receipt{ID: r.ID, Time: r.Time, Events: make([]json.RawMessage, 0, len(r.Events))}
	for _, e := range r.Events {
		raw, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		receipt.Events = append(receipt.Events, raw)
	}

	return receipt, nil
}
