package event

type Type string

const (
	ItemListedEvent      Type = "ItemListed"
	ListingCanceledEvent Type = "ListingCanceled"
	ItemBoughtEvent      Type = "ItemBought"
	InGameAssetSoldEvent Type = "InGameAssetSold"
	NftMintedEvent       Type = "NFTMinted"
	NftUpdatedEvent      Type = "NFTUpdated"
	NftBreededEvent      Type = "NFTBreeded"
	NftLockChangedEvent  Type = "NFTLockChanged"
)

// SettlementEvents are the events forwarded to external indexers.
var SettlementEvents = []Type{
	ItemListedEvent,
	ListingCanceledEvent,
	ItemBoughtEvent,
	InGameAssetSoldEvent,
	NftMintedEvent,
	NftUpdatedEvent,
	NftBreededEvent,
	NftLockChangedEvent,
}
