package order

import (
	"math/big"
	"testing"

	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/typeddata"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var domain = typeddata.Domain{
	Name:              "Lazy Soccer Marketplace",
	Version:           "1",
	ChainID:           big.NewInt(31337),
	VerifyingContract: common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
}

func word(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), 32)
}

func digestOf(t *testing.T, structHash []byte) common.Hash {
	separator, err := domain.Separator()
	require.NoError(t, err)

	return crypto.Keccak256Hash([]byte{0x19, 0x01}, separator.Bytes(), structHash)
}

func sampleBuyItem() BuyItem {
	return BuyItem{
		Buyer:      common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		Owner:      common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"),
		Collection: common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"),
		TokenId:    1,
		Price:      big.NewInt(100),
		Fee:        big.NewInt(5),
		Currency:   entity.NativeCurrency,
		Deadline:   1_700_000_600,
		Nonce:      big.NewInt(42),
	}
}

func TestBuyItem_DigestMatchesAbiEncoding(t *testing.T) {
	o := sampleBuyItem()

	typeHash := crypto.Keccak256([]byte("BuyItem(address buyer,address owner,address collection,uint256 tokenId,uint256 price,uint256 fee,uint8 currency,uint256 deadline,uint256 nonce)"))
	structHash := crypto.Keccak256(
		typeHash,
		common.LeftPadBytes(o.Buyer.Bytes(), 32),
		common.LeftPadBytes(o.Owner.Bytes(), 32),
		common.LeftPadBytes(o.Collection.Bytes(), 32),
		word(big.NewInt(1)),
		word(o.Price),
		word(o.Fee),
		word(big.NewInt(0)),
		word(big.NewInt(1_700_000_600)),
		word(o.Nonce),
	)

	digest, err := o.Digest(domain)
	require.NoError(t, err)
	assert.Equal(t, digestOf(t, structHash), digest)
}

func TestUpdate_DigestHashesNestedSkills(t *testing.T) {
	o := Update{
		TokenId:       7,
		IpfsHash:      "QmHash",
		Skills:        entity.Skills{Marketer: 1, Accountant: 2, Scout: 3, Coach: 4, FitnessTrainer: 5},
		UnspentSkills: 5,
	}

	skillsTypeHash := crypto.Keccak256([]byte("NftSkills(uint256 marketerLVL,uint256 accountantLVL,uint256 scoutLVL,uint256 coachLVL,uint256 fitnessTrainerLVL)"))
	skillsHash := crypto.Keccak256(
		skillsTypeHash,
		word(big.NewInt(1)), word(big.NewInt(2)), word(big.NewInt(3)), word(big.NewInt(4)), word(big.NewInt(5)),
	)
	typeHash := crypto.Keccak256([]byte("Update(uint256 tokenId,string ipfsHash,NftSkills skills,uint256 unspentSkills)NftSkills(uint256 marketerLVL,uint256 accountantLVL,uint256 scoutLVL,uint256 coachLVL,uint256 fitnessTrainerLVL)"))
	structHash := crypto.Keccak256(
		typeHash,
		word(big.NewInt(7)),
		crypto.Keccak256([]byte("QmHash")),
		skillsHash,
		word(big.NewInt(5)),
	)

	digest, err := o.Digest(domain)
	require.NoError(t, err)
	assert.Equal(t, digestOf(t, structHash), digest)
}

func TestDigest_ChangesWithEveryField(t *testing.T) {
	base, err := sampleBuyItem().Digest(domain)
	require.NoError(t, err)

	mutations := map[string]func(o *BuyItem){
		"buyer":      func(o *BuyItem) { o.Buyer = common.HexToAddress("0x1") },
		"owner":      func(o *BuyItem) { o.Owner = common.HexToAddress("0x2") },
		"collection": func(o *BuyItem) { o.Collection = common.HexToAddress("0x3") },
		"tokenId":    func(o *BuyItem) { o.TokenId = 2 },
		"price":      func(o *BuyItem) { o.Price = big.NewInt(99) },
		"fee":        func(o *BuyItem) { o.Fee = big.NewInt(6) },
		"currency":   func(o *BuyItem) { o.Currency = entity.TokenCurrency },
		"deadline":   func(o *BuyItem) { o.Deadline++ },
		"nonce":      func(o *BuyItem) { o.Nonce = big.NewInt(43) },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			o := sampleBuyItem()
			mutate(&o)
			digest, err := o.Digest(domain)
			require.NoError(t, err)
			assert.NotEqual(t, base, digest)
		})
	}
}

func TestDigest_DistinctOrderTypesNeverCollide(t *testing.T) {
	buy := sampleBuyItem()
	inGame := BuyInGameAsset{
		Buyer:      buy.Buyer,
		Owner:      buy.Owner,
		TransferId: big.NewInt(1),
		Currency:   buy.Currency,
		Price:      buy.Price,
		Fee:        buy.Fee,
		Deadline:   buy.Deadline,
		Nonce:      buy.Nonce,
	}
	breed := Breed{FirstParentTokenId: 1, SecondParentTokenId: 2, ChildTokenId: 3, ChildNftIpfsHash: "QmChild"}
	update := Update{TokenId: 3, IpfsHash: "QmChild"}

	digests := make(map[common.Hash]string)
	for name, digest := range map[string]func() (common.Hash, error){
		"buy":    func() (common.Hash, error) { return buy.Digest(domain) },
		"inGame": func() (common.Hash, error) { return inGame.Digest(domain) },
		"breed":  func() (common.Hash, error) { return breed.Digest(domain) },
		"update": func() (common.Hash, error) { return update.Digest(domain) },
	} {
		d, err := digest()
		require.NoError(t, err, name)
		_, seen := digests[d]
		assert.False(t, seen, name)
		digests[d] = name
	}
}
