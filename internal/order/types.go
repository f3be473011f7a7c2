package order

import (
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const (
	BuyItemType        = "BuyItem"
	BuyInGameAssetType = "BuyInGameAsset"
	UpdateType         = "Update"
	BreedType          = "Breed"
	NftSkillsType      = "NftSkills"
)

var nftSkillsFields = []apitypes.Type{
	{Name: "marketerLVL", Type: "uint256"},
	{Name: "accountantLVL", Type: "uint256"},
	{Name: "scoutLVL", Type: "uint256"},
	{Name: "coachLVL", Type: "uint256"},
	{Name: "fitnessTrainerLVL", Type: "uint256"},
}

var BuyItemTypes = apitypes.Types{
	BuyItemType: {
		{Name: "buyer", Type: "address"},
		{Name: "owner", Type: "address"},
		{Name: "collection", Type: "address"},
		{Name: "tokenId", Type: "uint256"},
		{Name: "price", Type: "uint256"},
		{Name: "fee", Type: "uint256"},
		{Name: "currency", Type: "uint8"},
		{Name: "deadline", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
	},
}

var BuyInGameAssetTypes = apitypes.Types{
	BuyInGameAssetType: {
		{Name: "buyer", Type: "address"},
		{Name: "owner", Type: "address"},
		{Name: "transferId", Type: "uint256"},
		{Name: "currency", Type: "uint8"},
		{Name: "price", Type: "uint256"},
		{Name: "fee", Type: "uint256"},
		{Name: "deadline", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
	},
}

var UpdateTypes = apitypes.Types{
	UpdateType: {
		{Name: "tokenId", Type: "uint256"},
		{Name: "ipfsHash", Type: "string"},
		{Name: "skills", Type: NftSkillsType},
		{Name: "unspentSkills", Type: "uint256"},
	},
	NftSkillsType: nftSkillsFields,
}

var BreedTypes = apitypes.Types{
	BreedType: {
		{Name: "firstParentTokenId", Type: "uint256"},
		{Name: "secondParentTokenId", Type: "uint256"},
		{Name: "childTokenId", Type: "uint256"},
		{Name: "childNftIpfsHash", Type: "string"},
		{Name: "skills", Type: NftSkillsType},
		{Name: "unspentSkills", Type: "uint256"},
	},
	NftSkillsType: nftSkillsFields,
}
