package order

import (
	"encoding/json"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"math/big"
)

// Amounts and nonces travel as hex or decimal strings, like every other
// uint256 on the wire.

type buyItemJSON struct {
	Buyer      common.Address        `json:"buyer"`
	Owner      common.Address        `json:"owner"`
	Collection common.Address        `json:"collection"`
	TokenId    uint64                `json:"tokenId"`
	Price      *math.HexOrDecimal256 `json:"price"`
	Fee        *math.HexOrDecimal256 `json:"fee"`
	Currency   entity.Currency       `json:"currency"`
	Deadline   uint64                `json:"deadline"`
	Nonce      *math.HexOrDecimal256 `json:"nonce"`
}

func (o BuyItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(buyItemJSON{
		Buyer:      o.Buyer,
		Owner:      o.Owner,
		Collection: o.Collection,
		TokenId:    o.TokenId,
		Price:      (*math.HexOrDecimal256)(o.Price),
		Fee:        (*math.HexOrDecimal256)(o.Fee),
		Currency:   o.Currency,
		Deadline:   o.Deadline,
		Nonce:      (*math.HexOrDecimal256)(o.Nonce),
	})
}

func (o *BuyItem) UnmarshalJSON(input []byte) error {
	var dec buyItemJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}

	*o = BuyItem{
		Buyer:      dec.Buyer,
		Owner:      dec.Owner,
		Collection: dec.Collection,
		TokenId:    dec.TokenId,
		Price:      (*big.Int)(dec.Price),
		Fee:        (*big.Int)(dec.Fee),
		Currency:   dec.Currency,
		Deadline:   dec.Deadline,
		Nonce:      (*big.Int)(dec.Nonce),
	}
	return nil
}

type buyInGameAssetJSON struct {
	Buyer      common.Address        `json:"buyer"`
	Owner      common.Address        `json:"owner"`
	TransferId *math.HexOrDecimal256 `json:"transferId"`
	Currency   entity.Currency       `json:"currency"`
	Price      *math.HexOrDecimal256 `json:"price"`
	Fee        *math.HexOrDecimal256 `json:"fee"`
	Deadline   uint64                `json:"deadline"`
	Nonce      *math.HexOrDecimal256 `json:"nonce"`
}

func (o BuyInGameAsset) MarshalJSON() ([]byte, error) {
	return json.Marshal(buyInGameAssetJSON{
		Buyer:      o.Buyer,
		Owner:      o.Owner,
		TransferId: (*math.HexOrDecimal256)(o.TransferId),
		Currency:   o.Currency,
		Price:      (*math.HexOrDecimal256)(o.Price),
		Fee:        (*math.HexOrDecimal256)(o.Fee),
		Deadline:   o.Deadline,
		Nonce:      (*math.HexOrDecimal256)(o.Nonce),
	})
}

func (o *BuyInGameAsset) UnmarshalJSON(input []byte) error {
	var dec buyInGameAssetJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}

	*o = BuyInGameAsset{
		Buyer:      dec.Buyer,
		Owner:      dec.Owner,
		TransferId: (*big.Int)(dec.TransferId),
		Currency:   dec.Currency,
		Price:      (*big.Int)(dec.Price),
		Fee:        (*big.Int)(dec.Fee),
		Deadline:   dec.Deadline,
		Nonce:      (*big.Int)(dec.Nonce),
	}
	return nil
}
