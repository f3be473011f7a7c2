package order

import (
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/typeddata"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"math/big"
)

// BuyItem authorises buyer to take a listed asset from owner at price+fee.
type BuyItem struct {
	Buyer      common.Address  `json:"buyer"`
	Owner      common.Address  `json:"owner"`
	Collection common.Address  `json:"collection"`
	TokenId    uint64          `json:"tokenId"`
	Price      *big.Int        `json:"price"`
	Fee        *big.Int        `json:"fee"`
	Currency   entity.Currency `json:"currency"`
	Deadline   uint64          `json:"deadline"`
	Nonce      *big.Int        `json:"nonce"`
}

func (o BuyItem) Message() apitypes.TypedDataMessage {
	return apitypes.TypedDataMessage{
		"buyer":      o.Buyer.Hex(),
		"owner":      o.Owner.Hex(),
		"collection": o.Collection.Hex(),
		"tokenId":    u64(o.TokenId),
		"price":      orZero(o.Price),
		"fee":        orZero(o.Fee),
		"currency":   u64(uint64(o.Currency)),
		"deadline":   u64(o.Deadline),
		"nonce":      orZero(o.Nonce),
	}
}

func (o BuyItem) Digest(domain typeddata.Domain) (common.Hash, error) {
	return typeddata.Digest(domain, BuyItemTypes, BuyItemType, o.Message())
}

// BuyInGameAsset authorises the purchase of an off-ledger quantity identified
// by TransferId.
type BuyInGameAsset struct {
	Buyer      common.Address  `json:"buyer"`
	Owner      common.Address  `json:"owner"`
	TransferId *big.Int        `json:"transferId"`
	Currency   entity.Currency `json:"currency"`
	Price      *big.Int        `json:"price"`
	Fee        *big.Int        `json:"fee"`
	Deadline   uint64          `json:"deadline"`
	Nonce      *big.Int        `json:"nonce"`
}

func (o BuyInGameAsset) Message() apitypes.TypedDataMessage {
	return apitypes.TypedDataMessage{
		"buyer":      o.Buyer.Hex(),
		"owner":      o.Owner.Hex(),
		"transferId": orZero(o.TransferId),
		"currency":   u64(uint64(o.Currency)),
		"price":      orZero(o.Price),
		"fee":        orZero(o.Fee),
		"deadline":   u64(o.Deadline),
		"nonce":      orZero(o.Nonce),
	}
}

func (o BuyInGameAsset) Digest(domain typeddata.Domain) (common.Hash, error) {
	return typeddata.Digest(domain, BuyInGameAssetTypes, BuyInGameAssetType, o.Message())
}

// Update carries the skills and unspent points an asset ends up with.
type Update struct {
	TokenId       uint64        `json:"tokenId"`
	IpfsHash      string        `json:"ipfsHash"`
	Skills        entity.Skills `json:"skills"`
	UnspentSkills uint64        `json:"unspentSkills"`
}

func (o Update) Message() apitypes.TypedDataMessage {
	return apitypes.TypedDataMessage{
		"tokenId":       u64(o.TokenId),
		"ipfsHash":      o.IpfsHash,
		"skills":        skillsMessage(o.Skills),
		"unspentSkills": u64(o.UnspentSkills),
	}
}

func (o Update) Digest(domain typeddata.Domain) (common.Hash, error) {
	return typeddata.Digest(domain, UpdateTypes, UpdateType, o.Message())
}

type Breed struct {
	FirstParentTokenId  uint64        `json:"firstParentTokenId"`
	SecondParentTokenId uint64        `json:"secondParentTokenId"`
	ChildTokenId        uint64        `json:"childTokenId"`
	ChildNftIpfsHash    string        `json:"childNftIpfsHash"`
	Skills              entity.Skills `json:"skills"`
	UnspentSkills       uint64        `json:"unspentSkills"`
}

func (o Breed) Message() apitypes.TypedDataMessage {
	return apitypes.TypedDataMessage{
		"firstParentTokenId":  u64(o.FirstParentTokenId),
		"secondParentTokenId": u64(o.SecondParentTokenId),
		"childTokenId":        u64(o.ChildTokenId),
		"childNftIpfsHash":    o.ChildNftIpfsHash,
		"skills":              skillsMessage(o.Skills),
		"unspentSkills":       u64(o.UnspentSkills),
	}
}

func (o Breed) Digest(domain typeddata.Domain) (common.Hash, error) {
	return typeddata.Digest(domain, BreedTypes, BreedType, o.Message())
}

func skillsMessage(s entity.Skills) map[string]interface{} {
	return map[string]interface{}{
		"marketerLVL":       u64(s.Marketer),
		"accountantLVL":     u64(s.Accountant),
		"scoutLVL":          u64(s.Scout),
		"coachLVL":          u64(s.Coach),
		"fitnessTrainerLVL": u64(s.FitnessTrainer),
	}
}

func u64(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
