package entity

import (
	"fmt"
	"github.com/ZilDuck/lazy-marketplace/internal/event"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gosimple/slug"
	"math/big"
	"time"
)

type Entity interface {
	Slug() string
}

type Event interface {
	Entity
	Type() event.Type
	Stamp(txId string, logIndex int, at time.Time)
}

// EventMeta is filled in by the ledger when the unit of work that emitted the
// event commits.
type EventMeta struct {
	EventType event.Type `json:"type"`
	TxID      string     `json:"txId"`
	LogIndex  int        `json:"logIndex"`
	Time      time.Time  `json:"time"`
}

func (m *EventMeta) Type() event.Type {
	return m.EventType
}

func (m *EventMeta) Stamp(txId string, logIndex int, at time.Time) {
	m.TxID = txId
	m.LogIndex = logIndex
	m.Time = at
}

func (m *EventMeta) Slug() string {
	return CreateEventSlug(m.EventType, m.TxID, m.LogIndex)
}

func CreateEventSlug(eventType event.Type, txId string, logIndex int) string {
	return slug.Make(fmt.Sprintf("%s-%s-%d", eventType, txId, logIndex))
}

type ItemListed struct {
	EventMeta
	TokenId    uint64         `json:"tokenId"`
	Owner      common.Address `json:"owner"`
	Collection common.Address `json:"collection"`
}

func NewItemListed(l Listing) *ItemListed {
	return &ItemListed{
		EventMeta:  EventMeta{EventType: event.ItemListedEvent},
		TokenId:    l.TokenId,
		Owner:      l.Owner,
		Collection: l.Collection,
	}
}

type ListingCanceled struct {
	EventMeta
	TokenId    uint64         `json:"tokenId"`
	Owner      common.Address `json:"owner"`
	Collection common.Address `json:"collection"`
}

func NewListingCanceled(l Listing) *ListingCanceled {
	return &ListingCanceled{
		EventMeta:  EventMeta{EventType: event.ListingCanceledEvent},
		TokenId:    l.TokenId,
		Owner:      l.Owner,
		Collection: l.Collection,
	}
}

type ItemBought struct {
	EventMeta
	TokenId    uint64         `json:"tokenId"`
	Buyer      common.Address `json:"buyer"`
	Owner      common.Address `json:"owner"`
	Collection common.Address `json:"collection"`
	Price      *big.Int       `json:"price"`
	Fee        *big.Int       `json:"fee"`
	Currency   Currency       `json:"currency"`
}

func NewItemBought(l Listing, buyer common.Address, price, fee *big.Int, currency Currency) *ItemBought {
	return &ItemBought{
		EventMeta:  EventMeta{EventType: event.ItemBoughtEvent},
		TokenId:    l.TokenId,
		Buyer:      buyer,
		Owner:      l.Owner,
		Collection: l.Collection,
		Price:      new(big.Int).Set(price),
		Fee:        new(big.Int).Set(fee),
		Currency:   currency,
	}
}

type InGameAssetSold struct {
	EventMeta
	Buyer      common.Address `json:"buyer"`
	Owner      common.Address `json:"owner"`
	TransferId *big.Int       `json:"transferId"`
	Price      *big.Int       `json:"price"`
	Fee        *big.Int       `json:"fee"`
	Currency   Currency       `json:"currency"`
}

func NewInGameAssetSold(buyer, owner common.Address, transferId, price, fee *big.Int, currency Currency) *InGameAssetSold {
	return &InGameAssetSold{
		EventMeta:  EventMeta{EventType: event.InGameAssetSoldEvent},
		Buyer:      buyer,
		Owner:      owner,
		TransferId: new(big.Int).Set(transferId),
		Price:      new(big.Int).Set(price),
		Fee:        new(big.Int).Set(fee),
		Currency:   currency,
	}
}

type NftMinted struct {
	EventMeta
	TokenId       uint64         `json:"tokenId"`
	Owner         common.Address `json:"owner"`
	IpfsHash      string         `json:"ipfsHash"`
	Skills        Skills         `json:"skills"`
	UnspentSkills uint64         `json:"unspentSkills"`
}

func NewNftMinted(a Asset) *NftMinted {
	return &NftMinted{
		EventMeta:     EventMeta{EventType: event.NftMintedEvent},
		TokenId:       a.TokenId,
		Owner:         a.Owner,
		IpfsHash:      a.IpfsHash,
		Skills:        a.Skills,
		UnspentSkills: a.UnspentSkills,
	}
}

// NftUpdated carries the absolute skill levels after the update.
type NftUpdated struct {
	EventMeta
	TokenId       uint64   `json:"tokenId"`
	UnspentSkills uint64   `json:"unspentSkills"`
	Skills        []uint64 `json:"skills"`
	IpfsHash      string   `json:"ipfsHash"`
}

func NewNftUpdated(a Asset) *NftUpdated {
	return &NftUpdated{
		EventMeta:     EventMeta{EventType: event.NftUpdatedEvent},
		TokenId:       a.TokenId,
		UnspentSkills: a.UnspentSkills,
		Skills:        a.Skills.Levels(),
		IpfsHash:      a.IpfsHash,
	}
}

type NftBreeded struct {
	EventMeta
	Owner        common.Address `json:"owner"`
	FirstParent  uint64         `json:"firstParentTokenId"`
	SecondParent uint64         `json:"secondParentTokenId"`
	Child        uint64         `json:"childTokenId"`
}

func NewNftBreeded(owner common.Address, firstParent, secondParent, child uint64) *NftBreeded {
	return &NftBreeded{
		EventMeta:    EventMeta{EventType: event.NftBreededEvent},
		Owner:        owner,
		FirstParent:  firstParent,
		SecondParent: secondParent,
		Child:        child,
	}
}

type NftLockChanged struct {
	EventMeta
	TokenId uint64         `json:"tokenId"`
	By      common.Address `json:"by"`
	Locked  bool           `json:"locked"`
}

func NewNftLockChanged(tokenId uint64, by common.Address, locked bool) *NftLockChanged {
	return &NftLockChanged{
		EventMeta: EventMeta{EventType: event.NftLockChangedEvent},
		TokenId:   tokenId,
		By:        by,
		Locked:    locked,
	}
}
