package entity

import (
	"fmt"
	"github.com/ethereum/go-ethereum/common"
)

type AssetRef struct {
	Collection common.Address `json:"collection"`
	TokenId    uint64         `json:"tokenId"`
}

func (r AssetRef) String() string {
	return fmt.Sprintf("%s/%d", r.Collection.Hex(), r.TokenId)
}

type Listing struct {
	Collection common.Address `json:"collection"`
	TokenId    uint64         `json:"tokenId"`
	Owner      common.Address `json:"owner"`
}

func (l Listing) Ref() AssetRef {
	return AssetRef{Collection: l.Collection, TokenId: l.TokenId}
}

type Currency uint8

const (
	NativeCurrency Currency = 0
	TokenCurrency  Currency = 1
)

func (c Currency) Valid() bool {
	return c == NativeCurrency || c == TokenCurrency
}

func (c Currency) String() string {
	switch c {
	case NativeCurrency:
		return "native"
	case TokenCurrency:
		return "token"
	default:
		return fmt.Sprintf("currency(%d)", uint8(c))
	}
}
