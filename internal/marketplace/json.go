package marketplace

import (
	"encoding/json"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"math/big"
)

type buyItemRequestJSON struct {
	Collection common.Address        `json:"collection"`
	TokenId    uint64                `json:"tokenId"`
	Price      *math.HexOrDecimal256 `json:"price"`
	Fee        *math.HexOrDecimal256 `json:"fee"`
	Currency   entity.Currency       `json:"currency"`
	Deadline   uint64                `json:"deadline"`
	Nonce      *math.HexOrDecimal256 `json:"nonce"`
	Signature  hexutil.Bytes         `json:"signature"`
}

func (r BuyItemRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(buyItemRequestJSON{
		Collection: r.Collection,
		TokenId:    r.TokenId,
		Price:      (*math.HexOrDecimal256)(r.Price),
		Fee:        (*math.HexOrDecimal256)(r.Fee),
		Currency:   r.Currency,
		Deadline:   r.Deadline,
		Nonce:      (*math.HexOrDecimal256)(r.Nonce),
		Signature:  r.Signature,
	})
}

func (r *BuyItemRequest) UnmarshalJSON(input []byte) error {
	var dec buyItemRequestJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}

	*r = BuyItemRequest{
		Collection: dec.Collection,
		TokenId:    dec.TokenId,
		Price:      (*big.Int)(dec.Price),
		Fee:        (*big.Int)(dec.Fee),
		Currency:   dec.Currency,
		Deadline:   dec.Deadline,
		Nonce:      (*big.Int)(dec.Nonce),
		Signature:  dec.Signature,
	}
	return nil
}

type buyInGameAssetRequestJSON struct {
	Owner      common.Address        `json:"owner"`
	TransferId *math.HexOrDecimal256 `json:"transferId"`
	Currency   entity.Currency       `json:"currency"`
	Price      *math.HexOrDecimal256 `json:"price"`
	Fee        *math.HexOrDecimal256 `json:"fee"`
	Deadline   uint64                `json:"deadline"`
	Nonce      *math.HexOrDecimal256 `json:"nonce"`
	Signature  hexutil.Bytes         `json:"signature"`
}

func (r BuyInGameAssetRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(buyInGameAssetRequestJSON{
		Owner:      r.Owner,
		TransferId: (*math.HexOrDecimal256)(r.TransferId),
		Currency:   r.Currency,
		Price:      (*math.HexOrDecimal256)(r.Price),
		Fee:        (*math.HexOrDecimal256)(r.Fee),
		Deadline:   r.Deadline,
		Nonce:      (*math.HexOrDecimal256)(r.Nonce),
		Signature:  r.Signature,
	})
}

func (r *BuyInGameAssetRequest) UnmarshalJSON(input []byte) error {
	var dec buyInGameAssetRequestJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}

	*r = BuyInGameAssetRequest{
		Owner:      dec.Owner,
		TransferId: (*big.Int)(dec.TransferId),
		Currency:   dec.Currency,
		Price:      (*big.Int)(dec.Price),
		Fee:        (*big.Int)(dec.Fee),
		Deadline:   dec.Deadline,
		Nonce:      (*big.Int)(dec.Nonce),
		Signature:  dec.Signature,
	}
	return nil
}
