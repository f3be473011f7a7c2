package entity

import (
	"fmt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gosimple/slug"
	"math/bits"
)

// Skills holds the five staff levels of an asset. The same shape is used for
// absolute levels and for the deltas of an update order.
type Skills struct {
	Marketer       uint64 `json:"marketerLVL"`
	Accountant     uint64 `json:"accountantLVL"`
	Scout          uint64 `json:"scoutLVL"`
	Coach          uint64 `json:"coachLVL"`
	FitnessTrainer uint64 `json:"fitnessTrainerLVL"`
}

func (s Skills) Levels() []uint64 {
	return []uint64{s.Marketer, s.Accountant, s.Scout, s.Coach, s.FitnessTrainer}
}

// Sum returns the total of all levels and false when it overflows.
func (s Skills) Sum() (uint64, bool) {
	var total uint64
	for _, level := range s.Levels() {
		var carry uint64
		total, carry = bits.Add64(total, level, 0)
		if carry != 0 {
			return 0, false
		}
	}

	return total, true
}

// Add returns s increased by delta and false when any level overflows.
func (s Skills) Add(delta Skills) (Skills, bool) {
	levels := s.Levels()
	deltas := delta.Levels()
	for i := range levels {
		var carry uint64
		levels[i], carry = bits.Add64(levels[i], deltas[i], 0)
		if carry != 0 {
			return s, false
		}
	}

	return Skills{
		Marketer:       levels[0],
		Accountant:     levels[1],
		Scout:          levels[2],
		Coach:          levels[3],
		FitnessTrainer: levels[4],
	}, true
}

type Asset struct {
	Collection    common.Address `json:"collection"`
	TokenId       uint64         `json:"tokenId"`
	Owner         common.Address `json:"owner"`
	IpfsHash      string         `json:"ipfsHash"`
	Skills        Skills         `json:"skills"`
	UnspentSkills uint64         `json:"unspentSkills"`
	Locked        bool           `json:"locked"`
}

func (a Asset) Slug() string {
	return CreateAssetSlug(a.TokenId, a.Collection)
}

func (a Asset) Ref() AssetRef {
	return AssetRef{Collection: a.Collection, TokenId: a.TokenId}
}

func CreateAssetSlug(tokenId uint64, collection common.Address) string {
	return slug.Make(fmt.Sprintf("nft-%d-%s", tokenId, collection.Hex()))
}
